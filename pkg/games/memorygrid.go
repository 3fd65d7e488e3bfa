package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameMemoryGrid = "Memory Grid"

const (
	gridInitialSize    = 3
	gridMaxSize        = 10
	gridDisplayBase    = 1500 * time.Millisecond
	gridDisplayPerKey  = 300 * time.Millisecond
	gridInputTimeout   = 10 * time.Second
	gridPointsPerKey   = 10
)

var gridPatternColor = keypad.RGB{G: 150, B: 255}

type gridPhase int

const (
	gridIntro gridPhase = iota
	gridShow
	gridInput
	gridEnding
	gridDone
)

// MemoryGrid lights a pattern of keys, hides it, and the player presses
// every key that was lit, in any order. The pattern grows each level.
type MemoryGrid struct {
	Base
	phase         gridPhase
	pattern       map[int]bool
	found         map[int]bool
	patternSize   int
	level         int
	inputDeadline time.Time
}

var _ Session = (*MemoryGrid)(nil)

func NewMemoryGrid(dev Devices, rng *rand.Rand) *MemoryGrid {
	g := &MemoryGrid{Base: NewBase(NameMemoryGrid, dev, rng)}
	g.Reset()
	return g
}

func (g *MemoryGrid) Reset() {
	g.resetBase()
	g.phase = gridIntro
	g.pattern = make(map[int]bool)
	g.found = make(map[int]bool)
	g.patternSize = gridInitialSize
	g.level = 0
}

func (g *MemoryGrid) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.ShowText("Remember which", 10, 30, 1)
			g.dev.Display.ShowText("keys light up!", 15, 42, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: g.startNewRound},
	)
}

func (g *MemoryGrid) startNewRound(now time.Time) {
	g.phase = gridShow
	g.level++
	g.found = make(map[int]bool)

	g.pattern = make(map[int]bool)
	for len(g.pattern) < g.patternSize {
		g.pattern[g.rng.Intn(keypad.NumKeys)] = true
	}

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level: %d", g.level), 0, 0, 1)
	g.dev.Display.ShowText("Watch...", 35, 25, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Find: %d keys", g.patternSize), 0, 50, 1)

	displayTime := gridDisplayBase + time.Duration(g.patternSize)*gridDisplayPerKey
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			for key := range g.pattern {
				g.dev.Lights.SetKey(key, gridPatternColor)
			}
			g.dev.Sound.PlayTone(440, 100*time.Millisecond)
		}), Wait: displayTime},
		Cue{Run: g.beginInput},
	)
}

func (g *MemoryGrid) beginInput(now time.Time) {
	g.phase = gridInput
	g.dev.Lights.ClearAll()
	g.dev.Sound.PlayTone(330, 100*time.Millisecond)
	g.showProgress()
	g.inputDeadline = now.Add(gridInputTimeout)
}

func (g *MemoryGrid) showProgress() {
	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level: %d", g.level), 0, 0, 1)
	g.dev.Display.ShowText("Find them!", 30, 25, 1)
	g.dev.Display.ShowText(fmt.Sprintf("%d / %d", len(g.found), g.patternSize), 45, 50, 1)
}

func (g *MemoryGrid) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case gridInput:
		if !now.Before(g.inputDeadline) {
			g.loseGame(now, "Time's up!", nil)
		}
	case gridDone:
		return false
	}
	return true
}

func (g *MemoryGrid) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != gridInput {
		return
	}

	if g.found[event.Key] {
		g.cue.Play(now, FlashKey(g.dev.Lights, event.Key, keypad.Green, 1, 100*time.Millisecond, 0)...)
		return
	}

	if g.pattern[event.Key] {
		g.found[event.Key] = true
		g.dev.Lights.SetKey(event.Key, keypad.Green)
		g.dev.Sound.PlayKeyTone(event.Key)
		g.showProgress()

		if len(g.found) == len(g.pattern) {
			g.levelComplete(now)
		}
		return
	}

	// Wrong key. Reveal the full pattern before ending.
	wrong := event.Key
	g.dev.Lights.SetKey(wrong, keypad.Red)
	g.dev.Sound.PlayWrong()
	g.loseGame(now, "Wrong key!", []Cue{
		{Wait: 500 * time.Millisecond},
		{Run: Do(func() {
			g.dev.Lights.ClearAll()
			for key := range g.pattern {
				if g.found[key] {
					g.dev.Lights.SetKey(key, keypad.Green)
				} else {
					g.dev.Lights.SetKey(key, gridPatternColor)
				}
			}
			g.dev.Lights.SetKey(wrong, keypad.Red)
		}), Wait: 1500 * time.Millisecond},
	})
}

func (g *MemoryGrid) levelComplete(now time.Time) {
	g.phase = gridShow
	g.addPoints(g.patternSize * gridPointsPerKey)
	g.dev.Sound.PlayLevelUp()
	g.patternSize = GrowCount(g.patternSize, 1, gridMaxSize)

	cues := FlashAll(g.dev.Lights, keypad.Green, 2, 100*time.Millisecond, 100*time.Millisecond)
	cues = append(cues, Cue{Wait: 500 * time.Millisecond}, Cue{Run: g.startNewRound})
	g.cue.Play(now, cues...)
}

func (g *MemoryGrid) loseGame(now time.Time, reason string, lead []Cue) {
	g.phase = gridEnding
	cues := append(lead, FlashAll(g.dev.Lights, keypad.Red, 3, 200*time.Millisecond, 200*time.Millisecond)...)
	cues = append(cues, Cue{Run: Do(func() {
		g.endGame(reason)
		g.phase = gridDone
	})})
	g.cue.Play(now, cues...)
}

// Resume deals a fresh pattern at the current level.
func (g *MemoryGrid) Resume(now time.Time) {
	if g.phase == gridInput || g.phase == gridShow {
		g.startNewRound(now)
	}
}
