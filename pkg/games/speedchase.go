package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameSpeedChase = "Speed Chase"

const (
	chaseInitialLimit = 2 * time.Second
	chaseMinimumLimit = 300 * time.Millisecond
	chaseDecayFactor  = 0.92

	chaseBasePoints = 10
	chaseSpeedBonus = 2
)

type chasePhase int

const (
	chaseIntro chasePhase = iota
	chasePlay
	chaseEnding
	chaseDone
)

// SpeedChase lights one random key at a time. Press it before the window
// closes; every hit shrinks the window. A wrong press or a timeout ends
// the run.
type SpeedChase struct {
	Base
	phase     chasePhase
	target    int
	timeLimit time.Duration
	shownAt   time.Time
	deadline  time.Time
	round     int
}

var _ Session = (*SpeedChase)(nil)

func NewSpeedChase(dev Devices, rng *rand.Rand) *SpeedChase {
	g := &SpeedChase{Base: NewBase(NameSpeedChase, dev, rng)}
	g.Reset()
	return g
}

func (g *SpeedChase) Reset() {
	g.resetBase()
	g.phase = chaseIntro
	g.target = -1
	g.timeLimit = chaseInitialLimit
	g.round = 0
}

func (g *SpeedChase) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	cues := []Cue{{Wait: 500 * time.Millisecond}}
	cues = append(cues, g.countdownCues(g.beginRound)...)
	g.cue.Play(now, cues...)
}

func (g *SpeedChase) beginRound(now time.Time) {
	g.phase = chasePlay
	g.showNextTarget(now)
}

// showNextTarget lights a fresh random target, never the same key twice
// in a row, and arms the timeout.
func (g *SpeedChase) showNextTarget(now time.Time) {
	next := g.rng.Intn(keypad.NumKeys)
	if g.target >= 0 {
		next = g.rng.Intn(keypad.NumKeys - 1)
		if next >= g.target {
			next++
		}
	}
	g.target = next
	g.round++

	g.dev.Lights.ClearAll()
	g.dev.Lights.SetKey(g.target, keypad.RandomColor(g.rng))

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Round: %d", g.round), 0, 0, 1)
	hud.Score(g.dev.Display, g.score)

	g.shownAt = now
	g.deadline = now.Add(g.timeLimit)
}

func (g *SpeedChase) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case chasePlay:
		if !now.Before(g.deadline) {
			g.handleTimeout(now)
		}
	case chaseDone:
		return false
	}
	return true
}

func (g *SpeedChase) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != chasePlay {
		return
	}
	if event.Key == g.target {
		g.handleCorrect(now)
	} else {
		g.handleWrong(now, event.Key)
	}
}

func (g *SpeedChase) handleCorrect(now time.Time) {
	elapsed := now.Sub(g.shownAt)
	bonus := int((1 - elapsed.Seconds()/g.timeLimit.Seconds()) * chaseBasePoints * chaseSpeedBonus)
	g.addPoints(chaseBasePoints + max(0, bonus))
	g.dev.Sound.PlayCorrect()

	g.timeLimit = DecayDuration(g.timeLimit, chaseDecayFactor, chaseMinimumLimit)

	// Flash the hit, then the next round starts when the flash drains.
	g.phase = chaseIntro
	cues := FlashKey(g.dev.Lights, g.target, keypad.Green, 2, 50*time.Millisecond, 50*time.Millisecond)
	cues = append(cues, Cue{Run: g.beginRound})
	g.cue.Play(now, cues...)
}

func (g *SpeedChase) handleWrong(now time.Time, key int) {
	g.phase = chaseEnding
	g.dev.Lights.ClearAll()
	g.dev.Lights.SetKey(key, keypad.Red)
	g.dev.Lights.SetKey(g.target, keypad.Green)
	g.dev.Sound.PlayWrong()

	cues := []Cue{{Wait: time.Second}}
	cues = append(cues, FlashAll(g.dev.Lights, keypad.Red, 3, 200*time.Millisecond, 200*time.Millisecond)...)
	cues = append(cues, Cue{Run: Do(func() {
		g.endGame("Wrong key!")
		g.phase = chaseDone
	})})
	g.cue.Play(now, cues...)
}

func (g *SpeedChase) handleTimeout(now time.Time) {
	g.phase = chaseEnding
	g.dev.Sound.PlayWrong()

	cues := FlashKey(g.dev.Lights, g.target, keypad.Red, 5, 100*time.Millisecond, 100*time.Millisecond)
	cues = append(cues, Cue{Run: Do(func() {
		g.endGame("Time's up!")
		g.phase = chaseDone
	})})
	g.cue.Play(now, cues...)
}

// Resume restarts the current round with a fresh target and window.
func (g *SpeedChase) Resume(now time.Time) {
	if g.phase == chasePlay {
		g.showNextTarget(now)
	}
}
