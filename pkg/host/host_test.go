package host

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbodonnell/keygrid/pkg/games"
	"github.com/cbodonnell/keygrid/pkg/keypad"
	"github.com/cbodonnell/keygrid/pkg/sound"
)

type fakeLights struct {
	keys [keypad.NumKeys]keypad.RGB
}

func (f *fakeLights) SetKey(key int, color keypad.RGB) {
	if keypad.Valid(key) {
		f.keys[key] = color
	}
}

func (f *fakeLights) SetAll(color keypad.RGB) {
	for i := range f.keys {
		f.keys[i] = color
	}
}

func (f *fakeLights) ClearAll() {
	f.SetAll(keypad.Off)
}

type fakeDisplay struct {
	lines []string
}

func (f *fakeDisplay) Clear() {
	f.lines = nil
}

func (f *fakeDisplay) ShowText(text string, x, y, scale int) {
	f.lines = append(f.lines, text)
}

func (f *fakeDisplay) contains(text string) bool {
	for _, line := range f.lines {
		if line == text {
			return true
		}
	}
	return false
}

type fakeSpeaker struct{}

func (f *fakeSpeaker) PlayTone(freq float64, duration time.Duration) {}

// fakeInput is a scripted input source.
type fakeInput struct {
	events  []keypad.Event
	encoder int
	pressed bool
}

func (f *fakeInput) PollKeyEvent() (keypad.Event, bool) {
	if len(f.events) == 0 {
		return keypad.Event{}, false
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true
}

func (f *fakeInput) EncoderPosition() int {
	return f.encoder
}

func (f *fakeInput) EncoderPressed() bool {
	return f.pressed
}

func (f *fakeInput) press(key int) {
	f.events = append(f.events, keypad.Event{Key: key, Pressed: true})
}

// memStore keeps scores in memory.
type memStore struct {
	saved map[string]int
}

func (m *memStore) Close(ctx context.Context) error {
	return nil
}

func (m *memStore) Load(ctx context.Context) (map[string]int, error) {
	return m.saved, nil
}

func (m *memStore) Save(ctx context.Context, scores map[string]int) error {
	m.saved = make(map[string]int, len(scores))
	for name, score := range scores {
		m.saved[name] = score
	}
	return nil
}

// stubSession is a controllable session for host tests.
type stubSession struct {
	name        string
	started     int
	resumed     int
	cleanedUp   int
	running     bool
	gameOver    bool
	score       int
	highScore   int
	pressAction games.Action
	panicOnTick bool
}

var _ games.Session = (*stubSession)(nil)

func (s *stubSession) Name() string { return s.name }

func (s *stubSession) Start(now time.Time) {
	s.started++
	s.running = true
}

func (s *stubSession) Update(now time.Time) bool {
	if s.panicOnTick {
		panic("stub fault")
	}
	return s.running
}

func (s *stubSession) HandleKey(now time.Time, event keypad.Event)  {}
func (s *stubSession) HandleEncoderTurn(now time.Time, delta int)   {}
func (s *stubSession) HandleEncoderPress(now time.Time) games.Action {
	return s.pressAction
}
func (s *stubSession) Resume(now time.Time) { s.resumed++ }
func (s *stubSession) Reset()               {}
func (s *stubSession) Cleanup()             { s.cleanedUp++ }
func (s *stubSession) Score() int           { return s.score }
func (s *stubSession) HighScore() int       { return s.highScore }
func (s *stubSession) SetHighScore(v int)   { s.highScore = v }
func (s *stubSession) GameOver() bool       { return s.gameOver }

type hostRig struct {
	host    *Host
	input   *fakeInput
	lights  *fakeLights
	display *fakeDisplay
	store   *memStore
	now     time.Time
}

func newHostRig(t *testing.T, entries []games.Entry) *hostRig {
	t.Helper()
	input := &fakeInput{}
	lights := &fakeLights{}
	display := &fakeDisplay{}
	store := &memStore{}

	h := NewHost(NewHostOptions{
		Input: input,
		Devices: games.Devices{
			Lights:  lights,
			Display: display,
			Sound:   sound.NewManager(&fakeSpeaker{}, sound.DefaultVolume),
		},
		Store:   store,
		Entries: entries,
		RNG:     rand.New(rand.NewSource(1)),
	})

	rig := &hostRig{host: h, input: input, lights: lights, display: display, store: store, now: time.Unix(0, 0)}
	h.load(context.Background())
	h.beginSplash(rig.now)
	return rig
}

func stubEntries(s *stubSession) []games.Entry {
	return []games.Entry{{
		Name: s.name,
		New:  func(dev games.Devices, rng *rand.Rand) games.Session { return s },
	}}
}

func (r *hostRig) tick() {
	r.now = r.now.Add(DefaultTickRate)
	r.host.Step(r.now)
}

func (r *hostRig) tickFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += DefaultTickRate {
		r.tick()
	}
}

// pressEncoder holds the button for one tick and releases it.
func (r *hostRig) pressEncoder() {
	r.input.pressed = true
	r.tick()
	r.input.pressed = false
	r.tick()
}

func (r *hostRig) toMenu() {
	r.tickFor(3 * time.Second)
}

func TestSplashRunsIntoMenu(t *testing.T) {
	rig := newHostRig(t, nil)
	assert.Equal(t, StateSplash, rig.host.State())
	assert.True(t, rig.display.contains("KeyGrid"))

	rig.tickFor(3 * time.Second)
	assert.Equal(t, StateMenu, rig.host.State())
	assert.True(t, rig.display.contains("SELECT GAME"))
}

func TestSplashSkippedByKeyPress(t *testing.T) {
	rig := newHostRig(t, nil)
	rig.input.press(0)
	rig.tick()
	assert.Equal(t, StateMenu, rig.host.State())
}

func TestMenuSelectionWrapsAround(t *testing.T) {
	rig := newHostRig(t, nil)
	rig.toMenu()
	n := len(games.Registry())

	rig.input.encoder = -1
	rig.tick()
	assert.Equal(t, n-1, rig.host.selected)

	rig.input.encoder = 0
	rig.tick()
	assert.Equal(t, 0, rig.host.selected)

	rig.input.encoder = n + 2
	rig.tick()
	assert.Equal(t, 2, rig.host.selected)
}

func TestMenuVolumeKeys(t *testing.T) {
	rig := newHostRig(t, nil)
	rig.toMenu()
	h := rig.host

	for i := 0; i < 10; i++ {
		rig.input.press(volumeUpKey)
		rig.tick()
	}
	assert.Equal(t, sound.MaxVolume, h.dev.Sound.Volume())

	for i := 0; i < 10; i++ {
		rig.input.press(volumeDownKey)
		rig.tick()
	}
	assert.Equal(t, 0, h.dev.Sound.Volume())
}

func TestEncoderPressStartsSelectedGame(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()

	rig.pressEncoder()
	assert.Equal(t, StatePlaying, rig.host.State())
	assert.Equal(t, 1, stub.started)
}

func TestPauseAndResume(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()

	rig.pressEncoder()
	assert.Equal(t, StatePaused, rig.host.State())
	assert.True(t, rig.display.contains("PAUSED"))

	rig.input.press(4)
	rig.tick()
	assert.Equal(t, StatePlaying, rig.host.State())
	assert.Equal(t, 1, stub.resumed)
}

func TestQuitFromPause(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()
	rig.pressEncoder()
	require.Equal(t, StatePaused, rig.host.State())

	rig.pressEncoder()
	assert.Equal(t, StateMenu, rig.host.State())
	assert.Equal(t, 1, stub.cleanedUp)
}

func TestActionQuitReturnsToMenuWithoutGameOver(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionQuit}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()
	require.Equal(t, StatePlaying, rig.host.State())

	rig.pressEncoder()
	assert.Equal(t, StateMenu, rig.host.State())
	assert.Equal(t, 1, stub.cleanedUp)
}

func TestGameOverAwaitsContinueAndPersists(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()

	stub.running = false
	stub.gameOver = true
	stub.score = 42
	stub.highScore = 42
	rig.tick()
	assert.Equal(t, StateAwaitingContinue, rig.host.State())

	// The game over screen holds until the encoder confirms.
	rig.tickFor(time.Second)
	assert.Equal(t, StateAwaitingContinue, rig.host.State())

	rig.pressEncoder()
	assert.Equal(t, StateMenu, rig.host.State())
	assert.Equal(t, 42, rig.store.saved["Stub"])
	assert.Equal(t, 1, stub.cleanedUp)
}

func TestVoluntaryExitReturnsDirectlyToMenu(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()

	stub.running = false
	stub.gameOver = false
	rig.tick()
	assert.Equal(t, StateMenu, rig.host.State())
}

func TestSessionPanicShowsErrorNotice(t *testing.T) {
	stub := &stubSession{name: "Stub", running: true, pressAction: games.ActionPause}
	rig := newHostRig(t, stubEntries(stub))
	rig.toMenu()
	rig.pressEncoder()

	stub.panicOnTick = true
	rig.tick()
	assert.Equal(t, StateErrorNotice, rig.host.State())
	assert.True(t, rig.display.contains("Error!"))

	// The notice clears back to the menu on its own.
	rig.tickFor(3 * time.Second)
	assert.Equal(t, StateMenu, rig.host.State())
}

func TestHighScoreRestoredIntoSession(t *testing.T) {
	stub := &stubSession{name: "Stub"}
	input := &fakeInput{}
	store := &memStore{saved: map[string]int{"Stub": 77}}

	h := NewHost(NewHostOptions{
		Input: input,
		Devices: games.Devices{
			Lights:  &fakeLights{},
			Display: &fakeDisplay{},
			Sound:   sound.NewManager(&fakeSpeaker{}, sound.DefaultVolume),
		},
		Store:   store,
		Entries: stubEntries(stub),
		RNG:     rand.New(rand.NewSource(1)),
	})
	h.load(context.Background())
	assert.Equal(t, 77, stub.highScore)
}
