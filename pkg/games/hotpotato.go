package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameHotPotato = "Hot Potato"

const (
	potatoMinRound     = 2 * time.Second
	potatoMaxRound     = 6 * time.Second
	potatoInitialMove  = 800 * time.Millisecond
	potatoMinMove      = 200 * time.Millisecond
	potatoMoveDecrease = 50 * time.Millisecond
	potatoWarningTime  = time.Second
	potatoRounds       = 10
	potatoCaughtWindow = 300 * time.Millisecond

	potatoSurvivePoints = 10
	potatoVictoryBonus  = 20
)

var potatoColor = keypad.RGB{R: 255, G: 100}

type potatoPhase int

const (
	potatoIntro potatoPhase = iota
	potatoPlay
	potatoExploding
	potatoInterlude
	potatoEnding
	potatoDone
)

// HotPotato bounces a lit key around the grid. Pressing it passes it to a
// random neighbor; when the hidden timer fires, a recent pass means the
// player was holding it. Survive all rounds to win.
type HotPotato struct {
	Base
	phase        potatoPhase
	potatoKey    int
	round        int
	survived     int
	deadline     time.Time
	lastPass     time.Time
	lastBeep     time.Time
	moveInterval time.Duration
	pausedAt     time.Time
}

var _ Session = (*HotPotato)(nil)

func NewHotPotato(dev Devices, rng *rand.Rand) *HotPotato {
	g := &HotPotato{Base: NewBase(NameHotPotato, dev, rng)}
	g.Reset()
	return g
}

func (g *HotPotato) Reset() {
	g.resetBase()
	g.phase = potatoIntro
	g.potatoKey = 0
	g.round = 0
	g.survived = 0
	g.moveInterval = potatoInitialMove
}

func (g *HotPotato) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("Pass the potato!", 15, 15, 1)
			g.dev.Display.ShowText("Press it to pass", 15, 30, 1)
			g.dev.Display.ShowText("Don't hold when", 15, 45, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("it EXPLODES!", 25, 25, 1)
		}), Wait: 1500 * time.Millisecond},
		Cue{Run: g.startRound},
	)
}

func (g *HotPotato) startRound(now time.Time) {
	g.phase = potatoPlay
	g.round++
	g.potatoKey = g.rng.Intn(keypad.NumKeys)

	duration := potatoMinRound + time.Duration(g.rng.Float64()*float64(potatoMaxRound-potatoMinRound))
	g.deadline = now.Add(duration)
	g.lastPass = now

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Round %d/%d", g.round, potatoRounds), 20, 0, 1)
	g.dev.Display.ShowText("PASS IT!", 35, 30, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Survived: %d", g.survived), 25, 50, 1)

	g.dev.Lights.ClearAll()
	g.dev.Lights.SetKey(g.potatoKey, potatoColor)
}

func (g *HotPotato) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case potatoPlay:
		remaining := g.deadline.Sub(now)
		if remaining <= 0 {
			g.explode(now)
			return true
		}

		if remaining < potatoWarningTime {
			// Flashing and beeping announce the explosion.
			if (remaining/(100*time.Millisecond))%2 == 0 {
				g.dev.Lights.SetKey(g.potatoKey, keypad.Red)
			} else {
				g.dev.Lights.SetKey(g.potatoKey, potatoColor)
			}
			if now.Sub(g.lastBeep) >= 300*time.Millisecond {
				g.dev.Sound.PlayTone(880, 20*time.Millisecond)
				g.lastBeep = now
			}
		} else if now.Sub(g.lastPass) >= g.moveInterval {
			g.passPotato(now)
		}
	case potatoDone:
		return false
	}
	return true
}

func (g *HotPotato) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != potatoPlay {
		return
	}
	if event.Key == g.potatoKey {
		g.passPotato(now)
		return
	}
	g.cue.Play(now, FlashKey(g.dev.Lights, event.Key, keypad.White, 1, 50*time.Millisecond, 0)...)
}

func (g *HotPotato) passPotato(now time.Time) {
	g.dev.Lights.SetKey(g.potatoKey, keypad.Off)
	neighbors := keypad.Neighbors(g.potatoKey)
	g.potatoKey = neighbors[g.rng.Intn(len(neighbors))]
	g.dev.Lights.SetKey(g.potatoKey, potatoColor)
	g.dev.Sound.PlayTone(440, 30*time.Millisecond)
	g.lastPass = now
}

// explode classifies caught versus safe at the moment the timer fires: a
// pass within the last 300ms means the player was holding the potato.
func (g *HotPotato) explode(now time.Time) {
	g.phase = potatoExploding
	caught := now.Sub(g.lastPass) < potatoCaughtWindow

	g.dev.Lights.SetAll(keypad.White)
	g.dev.Sound.PlayTone(200, 300*time.Millisecond)
	g.cue.Play(now,
		Cue{Wait: 300 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Lights.SetAll(keypad.Red)
			g.dev.Sound.PlayTone(150, 300*time.Millisecond)
		}), Wait: 300 * time.Millisecond},
		Cue{Run: func(now time.Time) {
			if caught {
				g.handleCaught(now)
			} else {
				g.handleSafe(now)
			}
		}},
	)
}

func (g *HotPotato) handleSafe(now time.Time) {
	g.phase = potatoInterlude
	g.survived++
	g.addPoints(potatoSurvivePoints)
	g.moveInterval = ShrinkDuration(g.moveInterval, potatoMoveDecrease, potatoMinMove)

	g.dev.Lights.SetAll(keypad.Green)
	g.dev.Sound.PlayCorrect()
	g.dev.Display.Clear()
	hud.CenteredText(g.dev.Display, "SAFE!", 20, 2)

	next := Cue{Run: g.startRound}
	if g.round >= potatoRounds {
		next = Cue{Run: g.victory}
	}
	g.cue.Play(now, Cue{Wait: 1500 * time.Millisecond}, next)
}

func (g *HotPotato) handleCaught(now time.Time) {
	g.phase = potatoEnding
	g.dev.Sound.PlayWrong()

	cues := FlashAll(g.dev.Lights, keypad.Red, 3, 200*time.Millisecond, 200*time.Millisecond)
	cues = append(cues,
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			hud.CenteredText(g.dev.Display, "BOOM!", 15, 2)
			g.dev.Display.ShowText("You got caught!", 15, 45, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: Do(func() {
			g.gameOver = true
			g.updateHighScore()
			g.dev.Display.Clear()
			hud.CenteredText(g.dev.Display, "GAME OVER", 5, 2)
			hud.CenteredText(g.dev.Display, fmt.Sprintf("Survived: %d/%d", g.survived, potatoRounds), 28, 1)
			hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 42, 1)
			hud.CenteredText(g.dev.Display, fmt.Sprintf("Best: %d", g.highScore), 54, 1)
			g.phase = potatoDone
		})},
	)
	g.cue.Play(now, cues...)
}

func (g *HotPotato) victory(now time.Time) {
	g.phase = potatoEnding
	g.addPoints(g.survived * potatoVictoryBonus)
	g.gameOver = true
	g.updateHighScore()
	g.dev.Sound.PlayLevelUp()

	cues := RainbowSweep(g.dev.Lights, 40, 50*time.Millisecond)
	cues = append(cues, Cue{Run: Do(func() {
		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, "WINNER!", 5, 2)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Survived: %d", g.survived), 30, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 42, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Best: %d", g.highScore), 54, 1)
		g.phase = potatoDone
	})})
	g.cue.Play(now, cues...)
}

// HandleEncoderPress records the pause start so Resume can shift the
// round clock.
func (g *HotPotato) HandleEncoderPress(now time.Time) Action {
	g.pausedAt = now
	return ActionPause
}

// Resume shifts the round deadline and pass clock by the pause duration
// and relights the potato.
func (g *HotPotato) Resume(now time.Time) {
	if g.phase != potatoPlay {
		return
	}
	pause := now.Sub(g.pausedAt)
	g.deadline = g.deadline.Add(pause)
	g.lastPass = g.lastPass.Add(pause)
	g.dev.Lights.ClearAll()
	g.dev.Lights.SetKey(g.potatoKey, potatoColor)
}
