// Package games contains the game session state machines for the keypad
// console. Every game implements the Session lifecycle and is driven by the
// host tick loop; sessions never block.
package games

import (
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hardware"
	"github.com/cbodonnell/keygrid/pkg/keypad"
	"github.com/cbodonnell/keygrid/pkg/sound"
)

// Devices bundles the output collaborators a session drives. The active
// session has exclusive ownership of the light and display surfaces.
type Devices struct {
	Lights  hardware.Lights
	Display hardware.Display
	Sound   *sound.Manager
}

// Action is a session's reaction to an encoder button press.
type Action int

const (
	// ActionNone ignores the press.
	ActionNone Action = iota
	// ActionPause asks the host to pause the session.
	ActionPause
	// ActionQuit asks the host to end the session with no game over screen.
	ActionQuit
)

// Session is the lifecycle contract every game implements. The host calls
// Start once, then Update every tick until it returns false. Input events
// are forwarded as they arrive, at most one key event per tick.
type Session interface {
	Name() string

	// Start resets all state and begins the instructional/countdown phase.
	Start(now time.Time)

	// Update advances the session by one tick. It returns false exactly
	// once, at the tick the session should end. A false return leaves
	// either GameOver() true (loss/win, game over screen shown) or the
	// session stopped voluntarily with no game over screen.
	Update(now time.Time) bool

	// HandleKey reacts to one key event. Keys outside the game's active
	// set are a no-op or neutral feedback, never a fault.
	HandleKey(now time.Time, event keypad.Event)

	// HandleEncoderTurn reacts to rotary encoder rotation.
	HandleEncoderTurn(now time.Time, delta int)

	// HandleEncoderPress reacts to the encoder button.
	HandleEncoderPress(now time.Time) Action

	// Resume re-anchors round timing after a pause. Deadlines must be
	// recomputed, not left stale.
	Resume(now time.Time)

	// Reset restores the state of a freshly created session.
	Reset()

	// Cleanup releases the light and display surfaces. It is idempotent.
	Cleanup()

	Score() int
	HighScore() int
	SetHighScore(score int)
	GameOver() bool
}

// Entry describes one installable game.
type Entry struct {
	Name string
	New  func(dev Devices, rng *rand.Rand) Session
}

// Registry returns the ordered game list shown in the selection menu.
// The table is constructed fresh per call; entries are never mutated.
func Registry() []Entry {
	return []Entry{
		{NameSpeedChase, func(dev Devices, rng *rand.Rand) Session { return NewSpeedChase(dev, rng) }},
		{NameSimonSays, func(dev Devices, rng *rand.Rand) Session { return NewSimonSays(dev, rng) }},
		{NameWhackAMole, func(dev Devices, rng *rand.Rand) Session { return NewWhackAMole(dev, rng) }},
		{NameColorMatch, func(dev Devices, rng *rand.Rand) Session { return NewColorMatch(dev, rng) }},
		{NameMemoryGrid, func(dev Devices, rng *rand.Rand) Session { return NewMemoryGrid(dev, rng) }},
		{NameLightsOut, func(dev Devices, rng *rand.Rand) Session { return NewLightsOut(dev, rng) }},
		{NameReaction, func(dev Devices, rng *rand.Rand) Session { return NewReactionTimer(dev, rng) }},
		{NamePiano, func(dev Devices, rng *rand.Rand) Session { return NewPiano(dev, rng) }},
		{NamePatternCopy, func(dev Devices, rng *rand.Rand) Session { return NewPatternCopy(dev, rng) }},
		{NameHotPotato, func(dev Devices, rng *rand.Rand) Session { return NewHotPotato(dev, rng) }},
		{NameTicTacToe, func(dev Devices, rng *rand.Rand) Session { return NewTicTacToe(dev, rng) }},
	}
}

// Names returns the menu labels for a registry.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return names
}
