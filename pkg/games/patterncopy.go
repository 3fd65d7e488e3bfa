package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NamePatternCopy = "Pattern Copy"

const (
	copyInitialSize  = 3
	copyMaxSize      = 8
	copyInitialShow  = 2 * time.Second
	copyMinShow      = 500 * time.Millisecond
	copyShowDecrease = 150 * time.Millisecond
	copyInputTimeout = 10 * time.Second
	copyPointsPerKey = 10
)

var copyPatternColor = keypad.RGB{G: 200, B: 255}

type copyPhase int

const (
	copyIntro copyPhase = iota
	copyShow
	copyInput
	copyEnding
	copyDone
)

// PatternCopy flashes a set of distinct keys, hides them, and the player
// reproduces the exact set. Pattern size grows and show time shrinks as
// levels pass.
type PatternCopy struct {
	Base
	phase         copyPhase
	pattern       []int
	pressed       map[int]bool
	patternSize   int
	showTime      time.Duration
	level         int
	inputDeadline time.Time
}

var _ Session = (*PatternCopy)(nil)

func NewPatternCopy(dev Devices, rng *rand.Rand) *PatternCopy {
	g := &PatternCopy{Base: NewBase(NamePatternCopy, dev, rng)}
	g.Reset()
	return g
}

func (g *PatternCopy) Reset() {
	g.resetBase()
	g.phase = copyIntro
	g.pattern = nil
	g.pressed = make(map[int]bool)
	g.patternSize = copyInitialSize
	g.showTime = copyInitialShow
	g.level = 0
}

func (g *PatternCopy) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("Watch the pattern", 10, 20, 1)
			g.dev.Display.ShowText("Then copy it!", 25, 35, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: g.startNewRound},
	)
}

func (g *PatternCopy) startNewRound(now time.Time) {
	g.phase = copyShow
	g.level++
	g.pressed = make(map[int]bool)
	g.pattern = g.rng.Perm(keypad.NumKeys)[:g.patternSize]

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level %d", g.level), 40, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Pattern: %d keys", g.patternSize), 10, 25, 1)
	g.dev.Display.ShowText("Watch closely!", 20, 45, 1)

	g.cue.Play(now,
		Cue{Wait: time.Second},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText(fmt.Sprintf("Level %d", g.level), 40, 0, 1)
			hud.CenteredText(g.dev.Display, "MEMORIZE!", 30, 1)
			g.dev.Lights.ClearAll()
			for _, key := range g.pattern {
				g.dev.Lights.SetKey(key, copyPatternColor)
			}
			g.dev.Sound.PlayTone(660, 100*time.Millisecond)
		}), Wait: g.showTime},
		Cue{Run: g.beginInput},
	)
}

func (g *PatternCopy) beginInput(now time.Time) {
	g.phase = copyInput
	g.dev.Lights.ClearAll()
	g.dev.Sound.PlayTone(440, 100*time.Millisecond)
	g.showProgress()
	g.inputDeadline = now.Add(copyInputTimeout)
}

func (g *PatternCopy) correctCount() int {
	count := 0
	for key := range g.pressed {
		if g.inPattern(key) {
			count++
		}
	}
	return count
}

func (g *PatternCopy) inPattern(key int) bool {
	for _, k := range g.pattern {
		if k == key {
			return true
		}
	}
	return false
}

func (g *PatternCopy) showProgress() {
	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level %d", g.level), 40, 0, 1)
	hud.CenteredText(g.dev.Display, "Your turn!", 25, 1)
	g.dev.Display.ShowText(fmt.Sprintf("%d/%d", g.correctCount(), g.patternSize), 50, 50, 1)
}

func (g *PatternCopy) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case copyInput:
		if !now.Before(g.inputDeadline) {
			g.loseGame(now, "Time's up!", nil)
		}
	case copyDone:
		return false
	}
	return true
}

func (g *PatternCopy) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != copyInput {
		return
	}

	if g.pressed[event.Key] {
		g.cue.Play(now, FlashKey(g.dev.Lights, event.Key, keypad.White, 1, 100*time.Millisecond, 0)...)
		return
	}
	g.pressed[event.Key] = true

	if !g.inPattern(event.Key) {
		// Wrong key. Reveal the pattern before ending.
		wrong := event.Key
		g.dev.Lights.SetKey(wrong, keypad.Red)
		g.dev.Sound.PlayWrong()
		g.loseGame(now, "Wrong key!", []Cue{
			{Wait: 500 * time.Millisecond},
			{Run: Do(func() {
				g.dev.Lights.ClearAll()
				for _, key := range g.pattern {
					g.dev.Lights.SetKey(key, copyPatternColor)
				}
				g.dev.Lights.SetKey(wrong, keypad.Red)
			}), Wait: 1500 * time.Millisecond},
		})
		return
	}

	g.dev.Lights.SetKey(event.Key, keypad.Green)
	g.dev.Sound.PlayTone(550, 50*time.Millisecond)
	g.showProgress()

	if g.correctCount() >= g.patternSize {
		g.roundComplete(now)
	}
}

func (g *PatternCopy) roundComplete(now time.Time) {
	g.phase = copyShow
	g.addPoints(g.patternSize * copyPointsPerKey)
	g.dev.Sound.PlayCorrect()

	g.patternSize = GrowCount(g.patternSize, 1, copyMaxSize)
	g.showTime = ShrinkDuration(g.showTime, copyShowDecrease, copyMinShow)

	cues := FlashAll(g.dev.Lights, keypad.Green, 2, 100*time.Millisecond, 100*time.Millisecond)
	cues = append(cues, Cue{Wait: 500 * time.Millisecond}, Cue{Run: g.startNewRound})
	g.cue.Play(now, cues...)
}

func (g *PatternCopy) loseGame(now time.Time, reason string, lead []Cue) {
	g.phase = copyEnding
	cues := append(lead, FlashAll(g.dev.Lights, keypad.Red, 3, 200*time.Millisecond, 200*time.Millisecond)...)
	cues = append(cues, Cue{Run: Do(func() {
		g.endGame(reason)
		g.phase = copyDone
	})})
	g.cue.Play(now, cues...)
}

// Resume deals a fresh pattern at the current level.
func (g *PatternCopy) Resume(now time.Time) {
	if g.phase == copyInput || g.phase == copyShow {
		g.startNewRound(now)
	}
}
