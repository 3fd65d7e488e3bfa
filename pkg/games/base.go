package games

import (
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

// Base carries the state and behavior shared by every game session. Game
// types embed it and override the handlers they care about.
type Base struct {
	name string
	dev  Devices
	rng  *rand.Rand
	cue  Timeline

	score     int
	highScore int
	gameOver  bool
}

// NewBase constructs the shared portion of a session.
func NewBase(name string, dev Devices, rng *rand.Rand) Base {
	return Base{
		name: name,
		dev:  dev,
		rng:  rng,
	}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) Score() int {
	return b.score
}

func (b *Base) HighScore() int {
	return b.highScore
}

func (b *Base) SetHighScore(score int) {
	b.highScore = score
}

func (b *Base) GameOver() bool {
	return b.gameOver
}

// HandleEncoderTurn is a no-op unless a game overrides it.
func (b *Base) HandleEncoderTurn(now time.Time, delta int) {}

// HandleEncoderPress pauses by default.
func (b *Base) HandleEncoderPress(now time.Time) Action {
	return ActionPause
}

// Resume is a no-op unless a game carries deadlines across a pause.
func (b *Base) Resume(now time.Time) {}

// Cleanup releases the light and display surfaces. Safe to call more than
// once.
func (b *Base) Cleanup() {
	b.cue.Cancel()
	b.dev.Lights.ClearAll()
	b.dev.Display.Clear()
}

// addPoints adds delta to the score, clamping at zero. The score never
// goes negative.
func (b *Base) addPoints(delta int) {
	b.score += delta
	if b.score < 0 {
		b.score = 0
	}
}

// updateHighScore folds the final score into the session high score and
// reports whether it improved.
func (b *Base) updateHighScore() bool {
	if b.score > b.highScore {
		b.highScore = b.score
		return true
	}
	return false
}

// resetBase restores the shared state for a fresh run. High scores
// survive resets.
func (b *Base) resetBase() {
	b.cue.Cancel()
	b.score = 0
	b.gameOver = false
}

// endGame marks the session lost/won, records the high score, and shows
// the game over screen. The caller stops returning true from Update after
// the pending cues drain.
func (b *Base) endGame(reason string) {
	b.gameOver = true
	b.updateHighScore()
	b.dev.Sound.PlayGameOver()
	b.dev.Lights.ClearAll()
	hud.GameOver(b.dev.Display, reason, b.score, b.highScore)
}

// countdownCues builds the 3-2-1-GO opening sequence. The final cue runs
// then, which should flip the game into its play phase.
func (b *Base) countdownCues(then func(now time.Time)) []Cue {
	cues := make([]Cue, 0, 8)
	for i := 3; i >= 1; i-- {
		digit := i
		cues = append(cues,
			Cue{Run: Do(func() {
				hud.CountdownDigit(b.dev.Display, digit)
				b.dev.Sound.PlayCountdown()
				b.dev.Lights.SetAll(keypad.White)
			}), Wait: 300 * time.Millisecond},
			Cue{Run: Do(b.dev.Lights.ClearAll), Wait: 700 * time.Millisecond},
		)
	}
	cues = append(cues,
		Cue{Run: Do(func() {
			b.dev.Display.Clear()
			hud.CenteredText(b.dev.Display, "GO!", 24, 2)
			b.dev.Sound.PlayMenuSelect()
		}), Wait: 500 * time.Millisecond},
		Cue{Run: then},
	)
	return cues
}
