// Package host runs the console: the startup splash, the game selection
// menu, and the lifecycle of the active game session. It owns the tick
// loop; sessions and menu handling are stepped, never blocked.
package host

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cbodonnell/keygrid/pkg/games"
	"github.com/cbodonnell/keygrid/pkg/hardware"
	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
	"github.com/cbodonnell/keygrid/pkg/log"
	"github.com/cbodonnell/keygrid/pkg/scores"
)

// State is the host's top-level mode.
type State int

const (
	// StateSplash shows the startup animation.
	StateSplash State = iota
	// StateMenu shows the game selection list.
	StateMenu
	// StatePlaying forwards input to the active session and ticks it.
	StatePlaying
	// StatePaused holds the active session. Encoder quits, any key resumes.
	StatePaused
	// StateAwaitingContinue shows a finished session's game over screen
	// until the encoder is pressed.
	StateAwaitingContinue
	// StateErrorNotice shows a transient notice after a session fault.
	StateErrorNotice
)

func (s State) String() string {
	switch s {
	case StateSplash:
		return "splash"
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateAwaitingContinue:
		return "awaiting-continue"
	case StateErrorNotice:
		return "error-notice"
	default:
		return "unknown"
	}
}

const (
	// DefaultTickRate is the host loop interval.
	DefaultTickRate = 50 * time.Millisecond

	errNoticeDuration = 2 * time.Second

	volumeUpKey   = 2
	volumeDownKey = 5
)

type NewHostOptions struct {
	Input    hardware.Input
	Devices  games.Devices
	Store    scores.Store
	Entries  []games.Entry
	RNG      *rand.Rand
	TickRate time.Duration
}

// Host drives the console from a single goroutine tick loop.
type Host struct {
	input    hardware.Input
	dev      games.Devices
	store    scores.Store
	entries  []games.Entry
	rng      *rand.Rand
	tickRate time.Duration

	state    State
	cue      games.Timeline
	sessions []games.Session
	scores   map[string]int

	selected    int
	menuDirty   bool
	lastEncoder int
	encoderHeld bool

	sessionIdx  int
	sessionID   string
	noticeUntil time.Time
}

func NewHost(opts NewHostOptions) *Host {
	entries := opts.Entries
	if entries == nil {
		entries = games.Registry()
	}
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tickRate := opts.TickRate
	if tickRate == 0 {
		tickRate = DefaultTickRate
	}
	return &Host{
		input:    opts.Input,
		dev:      opts.Devices,
		store:    opts.Store,
		entries:  entries,
		rng:      rng,
		tickRate: tickRate,
	}
}

// State returns the host's current mode.
func (h *Host) State() State {
	return h.state
}

// Start loads high scores, shows the splash, and runs the tick loop until
// the context is cancelled. Scores are saved on the way out.
func (h *Host) Start(ctx context.Context) error {
	h.load(ctx)
	h.beginSplash(time.Now())

	ticker := time.NewTicker(h.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping host")
			h.saveScores(context.Background())
			h.dev.Lights.ClearAll()
			h.dev.Display.Clear()
			return ctx.Err()
		case now := <-ticker.C:
			h.Step(now)
		}
	}
}

// load reads persisted high scores and builds one session per game.
func (h *Host) load(ctx context.Context) {
	names := games.Names(h.entries)
	h.scores = scores.LoadOrDefault(ctx, h.store, names)

	h.sessions = make([]games.Session, len(h.entries))
	for i, entry := range h.entries {
		session := entry.New(h.dev, h.rng)
		session.SetHighScore(h.scores[entry.Name])
		h.sessions[i] = session
	}
	log.Info("loaded %d games", len(h.sessions))
}

func (h *Host) beginSplash(now time.Time) {
	h.state = StateSplash
	h.dev.Display.Clear()
	hud.CenteredText(h.dev.Display, "KeyGrid", 10, 2)
	hud.CenteredText(h.dev.Display, "Games", 35, 2)

	cues := games.RainbowSweep(h.dev.Lights, 30, 50*time.Millisecond)
	cues = append(cues,
		games.Cue{Run: games.Do(h.dev.Sound.PlayMenuSelect), Wait: 500 * time.Millisecond},
		games.Cue{Run: games.Do(h.enterMenu)},
	)
	h.cue.Play(now, cues...)
}

func (h *Host) enterMenu() {
	h.state = StateMenu
	h.menuDirty = true
}

// Step advances the host by one tick: at most one key event, the encoder
// delta, and a debounced button edge.
func (h *Host) Step(now time.Time) {
	ev, hasKey := h.input.PollKeyEvent()

	pos := h.input.EncoderPosition()
	delta := pos - h.lastEncoder
	h.lastEncoder = pos

	held := h.input.EncoderPressed()
	pressed := held && !h.encoderHeld
	h.encoderHeld = held

	switch h.state {
	case StateSplash:
		h.cue.Step(now)
		if pressed || (hasKey && ev.Pressed) {
			h.cue.Cancel()
			h.dev.Lights.ClearAll()
			h.enterMenu()
		}
	case StateMenu:
		h.stepMenu(now, ev, hasKey, delta, pressed)
	case StatePlaying:
		h.stepPlaying(now, ev, hasKey, delta, pressed)
	case StatePaused:
		h.stepPaused(now, ev, hasKey, pressed)
	case StateAwaitingContinue:
		if pressed {
			h.endSession()
		}
	case StateErrorNotice:
		if pressed || !now.Before(h.noticeUntil) {
			h.enterMenu()
		}
	}
}

func (h *Host) stepMenu(now time.Time, ev keypad.Event, hasKey bool, delta int, pressed bool) {
	if delta != 0 {
		n := len(h.entries)
		h.selected = ((h.selected+delta)%n + n) % n
		h.dev.Sound.PlayTone(440, 20*time.Millisecond)
		h.menuDirty = true
	}

	if pressed {
		h.startGame(now)
		return
	}

	if hasKey && ev.Pressed {
		switch ev.Key {
		case volumeUpKey:
			if h.dev.Sound.VolumeUp() {
				h.dev.Sound.PlayTone(550, 20*time.Millisecond)
				h.menuDirty = true
			}
		case volumeDownKey:
			if h.dev.Sound.VolumeDown() {
				h.dev.Sound.PlayTone(330, 20*time.Millisecond)
				h.menuDirty = true
			}
		}
	}

	if h.menuDirty {
		h.renderMenu()
		h.menuDirty = false
	}
}

func (h *Host) renderMenu() {
	name := h.entries[h.selected].Name
	hud.Menu(h.dev.Display, games.Names(h.entries), h.selected, h.scores[name], h.dev.Sound.Volume())

	// Light the volume keys, dimmed at their bounds.
	h.dev.Lights.ClearAll()
	if h.dev.Sound.Volume() < 5 {
		h.dev.Lights.SetKey(volumeUpKey, keypad.RGB{G: 255})
	} else {
		h.dev.Lights.SetKey(volumeUpKey, keypad.RGB{G: 50})
	}
	if h.dev.Sound.Volume() > 0 {
		h.dev.Lights.SetKey(volumeDownKey, keypad.RGB{R: 255, G: 100})
	} else {
		h.dev.Lights.SetKey(volumeDownKey, keypad.RGB{R: 50, G: 20})
	}
}

func (h *Host) startGame(now time.Time) {
	h.sessionIdx = h.selected
	h.sessionID = uuid.New().String()
	session := h.sessions[h.sessionIdx]
	log.Info("starting session %s: game=%q", h.sessionID, session.Name())

	h.dev.Sound.PlayMenuSelect()
	h.dev.Lights.ClearAll()

	h.state = StatePlaying
	h.guard(now, func() { session.Start(now) })
}

func (h *Host) stepPlaying(now time.Time, ev keypad.Event, hasKey bool, delta int, pressed bool) {
	session := h.sessions[h.sessionIdx]

	if hasKey {
		session.HandleKey(now, ev)
	}
	if delta != 0 {
		session.HandleEncoderTurn(now, delta)
	}
	if pressed {
		switch session.HandleEncoderPress(now) {
		case games.ActionPause:
			log.Debug("session %s paused", h.sessionID)
			h.state = StatePaused
			h.dev.Lights.ClearAll()
			hud.PauseMenu(h.dev.Display)
			return
		case games.ActionQuit:
			h.endSession()
			return
		}
	}

	running := true
	if !h.guard(now, func() { running = session.Update(now) }) {
		return
	}
	if running {
		return
	}

	// A session that ends in game over keeps its screen up until the
	// encoder confirms; a voluntary exit goes straight back to the menu.
	if session.GameOver() {
		h.state = StateAwaitingContinue
	} else {
		h.endSession()
	}
}

func (h *Host) stepPaused(now time.Time, ev keypad.Event, hasKey bool, pressed bool) {
	if pressed {
		h.endSession()
		return
	}
	if hasKey && ev.Pressed {
		log.Debug("session %s resumed", h.sessionID)
		h.state = StatePlaying
		h.sessions[h.sessionIdx].Resume(now)
	}
}

// endSession persists an improved high score, releases the surfaces, and
// returns to the menu.
func (h *Host) endSession() {
	session := h.sessions[h.sessionIdx]
	name := h.entries[h.sessionIdx].Name
	log.Info("ending session %s: game=%q score=%d", h.sessionID, name, session.Score())

	if session.HighScore() > h.scores[name] {
		h.scores[name] = session.HighScore()
		h.saveScores(context.Background())
	}

	session.Cleanup()
	h.enterMenu()
}

// guard runs a session callback and contains a panic: the fault is
// logged, the surfaces are cleared, and the host shows a transient error
// notice instead of crashing the console.
func (h *Host) guard(now time.Time, f func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("session %s panicked: %v", h.sessionID, r)
			h.dev.Lights.ClearAll()
			h.dev.Display.Clear()
			hud.CenteredText(h.dev.Display, "Error!", 20, 1)
			h.noticeUntil = now.Add(errNoticeDuration)
			h.state = StateErrorNotice
			ok = false
		}
	}()
	f()
	return true
}

func (h *Host) saveScores(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.store.Save(ctx, h.scores); err != nil {
		log.Warn("failed to save high scores: %v", err)
	}
}
