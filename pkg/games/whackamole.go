package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameWhackAMole = "Whack-a-Mole"

const (
	moleGameDuration   = 30 * time.Second
	moleInitialVisible = 1500 * time.Millisecond
	moleMinVisible     = 400 * time.Millisecond
	moleVisibleStep    = 150 * time.Millisecond
	moleInitialSpawn   = time.Second
	moleMinSpawn       = 300 * time.Millisecond
	moleSpawnStep      = 100 * time.Millisecond
	moleLevelInterval  = 5 * time.Second
	moleMaxActive      = 4

	moleHitPoints   = 10
	moleMissPenalty = 5
)

var moleColor = keypad.RGB{R: 139, G: 69, B: 19}

type molePhase int

const (
	moleIntro molePhase = iota
	molePlay
	moleEnding
	moleDone
)

// WhackAMole spawns lit keys that disappear after a shrinking visibility
// window. Hits score, stray presses cost points, and the run lasts a
// fixed thirty seconds.
type WhackAMole struct {
	Base
	phase     molePhase
	moles     map[int]time.Time
	startedAt time.Time
	lastSpawn time.Time
	pausedAt  time.Time
	visible   time.Duration
	spawnGap  time.Duration
	hits      int
	misses    int
}

var _ Session = (*WhackAMole)(nil)

func NewWhackAMole(dev Devices, rng *rand.Rand) *WhackAMole {
	g := &WhackAMole{Base: NewBase(NameWhackAMole, dev, rng)}
	g.Reset()
	return g
}

func (g *WhackAMole) Reset() {
	g.resetBase()
	g.phase = moleIntro
	g.moles = make(map[int]time.Time)
	g.visible = moleInitialVisible
	g.spawnGap = moleInitialSpawn
	g.hits = 0
	g.misses = 0
}

func (g *WhackAMole) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	cues := []Cue{{Wait: 500 * time.Millisecond}}
	cues = append(cues, g.countdownCues(func(now time.Time) {
		g.phase = molePlay
		g.startedAt = now
		g.lastSpawn = now
		g.showStatus(now)
	})...)
	g.cue.Play(now, cues...)
}

func (g *WhackAMole) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case molePlay:
		elapsed := now.Sub(g.startedAt)
		if elapsed >= moleGameDuration {
			g.finish(now)
			return true
		}

		g.applyDifficulty(elapsed)

		if now.Sub(g.lastSpawn) >= g.spawnGap {
			g.spawnMole(now)
			g.lastSpawn = now
		}
		g.despawnExpired(now)
		g.showStatus(now)
	case moleDone:
		return false
	}
	return true
}

// applyDifficulty derives the level from elapsed time and tightens both
// windows toward their floors.
func (g *WhackAMole) applyDifficulty(elapsed time.Duration) {
	level := int(elapsed / moleLevelInterval)
	g.visible = ShrinkDuration(moleInitialVisible, time.Duration(level)*moleVisibleStep, moleMinVisible)
	g.spawnGap = ShrinkDuration(moleInitialSpawn, time.Duration(level)*moleSpawnStep, moleMinSpawn)
}

func (g *WhackAMole) spawnMole(now time.Time) {
	if len(g.moles) >= moleMaxActive {
		return
	}
	free := make([]int, 0, keypad.NumKeys)
	for key := 0; key < keypad.NumKeys; key++ {
		if _, occupied := g.moles[key]; !occupied {
			free = append(free, key)
		}
	}
	if len(free) == 0 {
		return
	}
	key := free[g.rng.Intn(len(free))]
	g.moles[key] = now
	g.dev.Lights.SetKey(key, moleColor)
}

func (g *WhackAMole) despawnExpired(now time.Time) {
	for key, spawnedAt := range g.moles {
		if now.Sub(spawnedAt) >= g.visible {
			delete(g.moles, key)
			g.dev.Lights.SetKey(key, keypad.Off)
			g.misses++
		}
	}
}

func (g *WhackAMole) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != molePlay {
		return
	}
	if _, active := g.moles[event.Key]; active {
		delete(g.moles, event.Key)
		g.hits++
		g.addPoints(moleHitPoints)
		g.dev.Sound.PlayCorrect()
		g.dev.Lights.SetKey(event.Key, keypad.Green)
		key := event.Key
		g.cue.Append(now,
			Cue{Wait: 50 * time.Millisecond},
			Cue{Run: Do(func() { g.dev.Lights.SetKey(key, keypad.Off) })},
		)
		return
	}

	g.misses++
	g.addPoints(-moleMissPenalty)
	g.dev.Sound.PlayTone(200, 100*time.Millisecond)
	key := event.Key
	g.dev.Lights.SetKey(key, keypad.Red)
	g.cue.Append(now,
		Cue{Wait: 100 * time.Millisecond},
		Cue{Run: Do(func() {
			if _, active := g.moles[key]; active {
				g.dev.Lights.SetKey(key, moleColor)
			} else {
				g.dev.Lights.SetKey(key, keypad.Off)
			}
		})},
	)
}

func (g *WhackAMole) showStatus(now time.Time) {
	remaining := moleGameDuration - now.Sub(g.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Score: %d", g.score), 0, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Time: %ds", int(remaining.Seconds())), 70, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Hits: %d", g.hits), 0, 50, 1)
}

func (g *WhackAMole) finish(now time.Time) {
	g.phase = moleEnding
	g.moles = make(map[int]time.Time)
	g.dev.Lights.ClearAll()
	g.dev.Sound.PlayLevelUp()

	cues := Sweep(g.dev.Lights, keypad.Green, 30*time.Millisecond)
	cues = append(cues, Cue{Run: Do(func() {
		g.gameOver = true
		g.updateHighScore()
		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, "TIME'S UP!", 5, 2)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 30, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Hits: %d", g.hits), 42, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Best: %d", g.highScore), 54, 1)
		g.phase = moleDone
	})})
	g.cue.Play(now, cues...)
}

// HandleEncoderPress records when the pause began so Resume can shift the
// clocks instead of cutting the run short.
func (g *WhackAMole) HandleEncoderPress(now time.Time) Action {
	g.pausedAt = now
	return ActionPause
}

// Resume shifts every timing anchor by the pause duration and re-renders
// the surviving moles.
func (g *WhackAMole) Resume(now time.Time) {
	if g.phase != molePlay {
		return
	}
	pause := now.Sub(g.pausedAt)
	g.startedAt = g.startedAt.Add(pause)
	g.lastSpawn = g.lastSpawn.Add(pause)
	for key, spawnedAt := range g.moles {
		g.moles[key] = spawnedAt.Add(pause)
		g.dev.Lights.SetKey(key, moleColor)
	}
	g.showStatus(now)
}
