package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameReaction = "Reaction"

const (
	reactMinWait      = 1500 * time.Millisecond
	reactMaxWait      = 5 * time.Second
	reactResultTime   = 2 * time.Second
	reactRounds       = 5
	reactFalseStartMs = 1000
)

type reactPhase int

const (
	reactIntro reactPhase = iota
	reactArmed
	reactGo
	reactResult
	reactEnding
	reactDone
)

// ReactionTimer runs five rounds of wait-for-green. Pressing early costs
// a one second penalty entry; the score rewards a low average.
type ReactionTimer struct {
	Base
	phase     reactPhase
	round     int
	timesMs   []int
	greenAt   time.Time
	goDueAt   time.Time
}

var _ Session = (*ReactionTimer)(nil)

func NewReactionTimer(dev Devices, rng *rand.Rand) *ReactionTimer {
	g := &ReactionTimer{Base: NewBase(NameReaction, dev, rng)}
	g.Reset()
	return g
}

func (g *ReactionTimer) Reset() {
	g.resetBase()
	g.phase = reactIntro
	g.round = 0
	g.timesMs = nil
}

func (g *ReactionTimer) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("Wait for GREEN", 15, 15, 1)
			g.dev.Display.ShowText("Then press ANY key", 5, 30, 1)
			g.dev.Display.ShowText("as fast as you can!", 5, 45, 1)
		}), Wait: 2500 * time.Millisecond},
		Cue{Run: g.startRound},
	)
}

func (g *ReactionTimer) startRound(now time.Time) {
	g.phase = reactArmed
	g.round++

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Round %d/%d", g.round, reactRounds), 25, 0, 1)
	g.dev.Display.ShowText("Get ready...", 25, 30, 1)
	g.dev.Lights.SetAll(keypad.Yellow)

	wait := reactMinWait + time.Duration(g.rng.Float64()*float64(reactMaxWait-reactMinWait))
	g.goDueAt = now.Add(wait)
}

func (g *ReactionTimer) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case reactArmed:
		if !now.Before(g.goDueAt) {
			g.goGreen(now)
		}
	case reactDone:
		return false
	}
	return true
}

func (g *ReactionTimer) goGreen(now time.Time) {
	g.phase = reactGo
	g.greenAt = now
	g.dev.Lights.SetAll(keypad.Green)
	g.dev.Sound.PlayTone(880, 100*time.Millisecond)
	g.dev.Display.Clear()
	hud.CenteredText(g.dev.Display, "GO!", 20, 3)
}

func (g *ReactionTimer) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed {
		return
	}
	switch g.phase {
	case reactArmed:
		g.falseStart(now)
	case reactGo:
		g.recordReaction(now)
	}
}

func (g *ReactionTimer) falseStart(now time.Time) {
	g.phase = reactResult
	g.timesMs = append(g.timesMs, reactFalseStartMs)

	g.dev.Lights.SetAll(keypad.Red)
	g.dev.Sound.PlayWrong()
	g.dev.Display.Clear()
	hud.CenteredText(g.dev.Display, "TOO EARLY!", 15, 2)
	g.dev.Display.ShowText("Wait for GREEN", 15, 45, 1)

	g.cue.Play(now, Cue{Wait: 2 * time.Second}, Cue{Run: g.roundDone})
}

func (g *ReactionTimer) recordReaction(now time.Time) {
	g.phase = reactResult
	ms := int(now.Sub(g.greenAt).Milliseconds())
	g.timesMs = append(g.timesMs, ms)
	g.dev.Sound.PlayCorrect()

	var rating string
	var cues []Cue
	switch {
	case ms < 200:
		rating = "AMAZING!"
		cues = FlashAll(g.dev.Lights, keypad.Cyan, 3, 100*time.Millisecond, 100*time.Millisecond)
	case ms < 300:
		rating = "Great!"
		cues = FlashAll(g.dev.Lights, keypad.Green, 2, 100*time.Millisecond, 100*time.Millisecond)
	case ms < 400:
		rating = "Good"
		g.dev.Lights.SetAll(keypad.Yellow)
	default:
		rating = "Slow..."
		g.dev.Lights.SetAll(keypad.Orange)
	}

	g.dev.Display.Clear()
	hud.CenteredText(g.dev.Display, fmt.Sprintf("%dms", ms), 10, 2)
	hud.CenteredText(g.dev.Display, rating, 40, 1)

	cues = append(cues, Cue{Wait: reactResultTime}, Cue{Run: g.roundDone})
	g.cue.Play(now, cues...)
}

func (g *ReactionTimer) roundDone(now time.Time) {
	if g.round >= reactRounds {
		g.finish()
		return
	}
	g.startRound(now)
}

// finish averages the valid rounds, false starts excluded, and converts
// the average to a score.
func (g *ReactionTimer) finish() {
	g.phase = reactDone
	g.gameOver = true

	sum, count := 0, 0
	for _, ms := range g.timesMs {
		if ms < 999 {
			sum += ms
			count++
		}
	}
	avg := 999
	if count > 0 {
		avg = sum / count
	}

	g.score = 500 - avg
	if g.score < 0 {
		g.score = 0
	}
	g.updateHighScore()

	g.dev.Lights.ClearAll()
	g.dev.Display.Clear()
	hud.CenteredText(g.dev.Display, "RESULTS", 0, 2)
	hud.CenteredText(g.dev.Display, fmt.Sprintf("Avg: %dms", avg), 25, 1)
	hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 40, 1)
	hud.CenteredText(g.dev.Display, fmt.Sprintf("Best: %d", g.highScore), 52, 1)
}

// Resume restarts the interrupted round with fresh timing.
func (g *ReactionTimer) Resume(now time.Time) {
	if g.phase == reactArmed || g.phase == reactGo {
		g.round--
		g.startRound(now)
	}
}
