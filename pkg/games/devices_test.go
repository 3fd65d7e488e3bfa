package games

import (
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/keypad"
	"github.com/cbodonnell/keygrid/pkg/sound"
)

// fakeLights records the color of every key.
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

func (f *fakeLights) lit() []int {
	var lit []int
	for i, c := range f.keys {
		if c != keypad.Off {
			lit = append(lit, i)
		}
	}
	return lit
}

// fakeDisplay records the lines of the most recent screen.
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

// fakeSpeaker records every tone frequency played.
type fakeSpeaker struct {
	freqs []float64
}

func (f *fakeSpeaker) PlayTone(freq float64, duration time.Duration) {
	f.freqs = append(f.freqs, freq)
}

type testRig struct {
	lights  *fakeLights
	display *fakeDisplay
	speaker *fakeSpeaker
	dev     Devices
	rng     *rand.Rand
	now     time.Time
}

func newTestRig(seed int64) *testRig {
	lights := &fakeLights{}
	display := &fakeDisplay{}
	speaker := &fakeSpeaker{}
	return &testRig{
		lights:  lights,
		display: display,
		speaker: speaker,
		dev: Devices{
			Lights:  lights,
			Display: display,
			Sound:   sound.NewManager(speaker, sound.DefaultVolume),
		},
		rng: rand.New(rand.NewSource(seed)),
		now: time.Unix(0, 0),
	}
}

// tick advances the synthetic clock by one 50ms host tick and updates
// the session.
func (r *testRig) tick(s Session) bool {
	r.now = r.now.Add(50 * time.Millisecond)
	return s.Update(r.now)
}

// tickFor runs ticks for the given duration, stopping early if the
// session ends.
func (r *testRig) tickFor(s Session, d time.Duration) bool {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 50 * time.Millisecond {
		if !r.tick(s) {
			return false
		}
	}
	return true
}

// tickUntil runs ticks until cond holds or the bound elapses. It reports
// whether cond was reached.
func (r *testRig) tickUntil(s Session, bound time.Duration, cond func() bool) bool {
	for elapsed := time.Duration(0); elapsed < bound; elapsed += 50 * time.Millisecond {
		if cond() {
			return true
		}
		r.tick(s)
	}
	return cond()
}

func (r *testRig) press(s Session, key int) {
	s.HandleKey(r.now, keypad.Event{Key: key, Pressed: true})
}

func (r *testRig) release(s Session, key int) {
	s.HandleKey(r.now, keypad.Event{Key: key, Pressed: false})
}
