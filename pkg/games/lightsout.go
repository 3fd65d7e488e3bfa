package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameLightsOut = "Lights Out"

const (
	outInitialScramble = 5
	outMaxScramble     = 15

	outBaseScore   = 100
	outMovePenalty = 2
	outLevelBonus  = 20
	outMinScore    = 10
)

var outLitColor = keypad.RGB{R: 255, G: 200, B: 50}

type outPhase int

const (
	outIntro outPhase = iota
	outPlay
	outSolved
	outPrompt
	outDone
)

// LightsOut is the classic toggle puzzle. A press toggles the key and its
// orthogonal neighbors; the goal is all lights off. Puzzles are scrambled
// from the solved state so every one is solvable.
type LightsOut struct {
	Base
	phase    outPhase
	lights   [keypad.NumKeys]bool
	moves    int
	level    int
	scramble int
}

var _ Session = (*LightsOut)(nil)

func NewLightsOut(dev Devices, rng *rand.Rand) *LightsOut {
	g := &LightsOut{Base: NewBase(NameLightsOut, dev, rng)}
	g.Reset()
	return g
}

func (g *LightsOut) Reset() {
	g.resetBase()
	g.phase = outIntro
	g.lights = [keypad.NumKeys]bool{}
	g.moves = 0
	g.level = 1
	g.scramble = outInitialScramble
}

func (g *LightsOut) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.ShowText("Press a key to", 10, 25, 1)
			g.dev.Display.ShowText("toggle + neighbors", 5, 37, 1)
			g.dev.Display.ShowText("Goal: All off!", 15, 52, 1)
		}), Wait: 3 * time.Second},
		Cue{Run: Do(g.generatePuzzle)},
	)
}

// generatePuzzle scrambles from the solved state with random toggles, so
// replaying those toggles always solves it.
func (g *LightsOut) generatePuzzle() {
	g.lights = [keypad.NumKeys]bool{}
	for i := 0; i < g.scramble; i++ {
		g.toggle(g.rng.Intn(keypad.NumKeys))
	}
	for g.litCount() == 0 {
		g.toggle(g.rng.Intn(keypad.NumKeys))
	}

	g.moves = 0
	g.phase = outPlay
	g.showStatus()
	g.renderLights()
}

func (g *LightsOut) toggle(key int) {
	for _, k := range keypad.ToggleGroup(key) {
		g.lights[k] = !g.lights[k]
	}
}

func (g *LightsOut) litCount() int {
	count := 0
	for _, on := range g.lights {
		if on {
			count++
		}
	}
	return count
}

func (g *LightsOut) renderLights() {
	for i, on := range g.lights {
		if on {
			g.dev.Lights.SetKey(i, outLitColor)
		} else {
			g.dev.Lights.SetKey(i, keypad.Off)
		}
	}
}

func (g *LightsOut) showStatus() {
	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level: %d", g.level), 0, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Lit: %d/%d", g.litCount(), keypad.NumKeys), 65, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Moves: %d", g.moves), 0, 50, 1)
}

func (g *LightsOut) Update(now time.Time) bool {
	g.cue.Step(now)
	return g.phase != outDone
}

func (g *LightsOut) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed {
		return
	}

	switch g.phase {
	case outPlay:
		g.playMove(now, event.Key)
	case outPrompt:
		g.nextLevel()
	}
}

func (g *LightsOut) playMove(now time.Time, key int) {
	// White flash over the toggle group, then settle to the new state.
	for _, k := range keypad.ToggleGroup(key) {
		g.dev.Lights.SetKey(k, keypad.White)
	}
	g.dev.Sound.PlayTone(440, 50*time.Millisecond)

	g.toggle(key)
	g.moves++

	g.cue.Play(now,
		Cue{Wait: 50 * time.Millisecond},
		Cue{Run: func(now time.Time) {
			g.renderLights()
			g.showStatus()
			if g.litCount() == 0 {
				g.victory(now)
			}
		}},
	)
}

func (g *LightsOut) victory(now time.Time) {
	g.phase = outSolved
	g.score = outBaseScore - g.moves*outMovePenalty + g.level*outLevelBonus
	if g.score < outMinScore {
		g.score = outMinScore
	}
	g.updateHighScore()
	g.dev.Sound.PlayLevelUp()

	cues := Sweep(g.dev.Lights, keypad.Green, 30*time.Millisecond)
	cues = append(cues,
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			hud.CenteredText(g.dev.Display, "SOLVED!", 5, 2)
			hud.CenteredText(g.dev.Display, fmt.Sprintf("Moves: %d", g.moves), 30, 1)
			hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 42, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: Do(func() {
			g.dev.Display.ShowText("Key: Next level", 10, 52, 1)
			g.phase = outPrompt
		})},
	)
	g.cue.Play(now, cues...)
}

func (g *LightsOut) nextLevel() {
	g.level++
	g.scramble = GrowCount(g.scramble, 1, outMaxScramble)
	g.generatePuzzle()
}

// HandleEncoderPress pauses mid-puzzle. At the victory prompt it leaves
// the game with the solved score kept.
func (g *LightsOut) HandleEncoderPress(now time.Time) Action {
	switch g.phase {
	case outPrompt:
		g.phase = outDone
		return ActionQuit
	case outPlay:
		return ActionPause
	}
	return ActionNone
}

// Resume redraws the board after a pause.
func (g *LightsOut) Resume(now time.Time) {
	if g.phase == outPlay {
		g.showStatus()
		g.renderLights()
	}
}
