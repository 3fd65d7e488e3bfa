package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameColorMatch = "Color Match"

const (
	matchGameDuration  = 30 * time.Second
	matchInitialRound  = 5 * time.Second
	matchMinRound      = 1500 * time.Millisecond
	matchRoundDecrease = 300 * time.Millisecond

	matchCorrectPoints = 10
	matchWrongPenalty  = 5
	matchRoundBonus    = 20
)

var matchPalette = []struct {
	Name  string
	Color keypad.RGB
}{
	{"RED", keypad.Red},
	{"GREEN", keypad.Green},
	{"BLUE", keypad.Blue},
	{"YELLOW", keypad.Yellow},
	{"CYAN", keypad.Cyan},
	{"PURPLE", keypad.Purple},
}

var matchFoundColor = keypad.RGB{R: 30, G: 30, B: 30}

type matchPhase int

const (
	matchIntro matchPhase = iota
	matchSetup
	matchPlay
	matchEnding
	matchDone
)

// ColorMatch flashes a target color name, reveals a random color on every
// key, and the player clears all the matching keys before the round timer
// runs out. One global clock caps the whole run.
type ColorMatch struct {
	Base
	phase         matchPhase
	target        int
	keyColors     [keypad.NumKeys]int
	matching      map[int]bool
	found         map[int]bool
	roundTime     time.Duration
	roundDeadline time.Time
	startedAt     time.Time
	level         int
	correctHits   int
	wrongHits     int
}

var _ Session = (*ColorMatch)(nil)

func NewColorMatch(dev Devices, rng *rand.Rand) *ColorMatch {
	g := &ColorMatch{Base: NewBase(NameColorMatch, dev, rng)}
	g.Reset()
	return g
}

func (g *ColorMatch) Reset() {
	g.resetBase()
	g.phase = matchIntro
	g.target = 0
	g.matching = make(map[int]bool)
	g.found = make(map[int]bool)
	g.roundTime = matchInitialRound
	g.level = 0
	g.correctHits = 0
	g.wrongHits = 0
}

func (g *ColorMatch) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("Find all keys", 15, 20, 1)
			g.dev.Display.ShowText("matching the color!", 5, 35, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: func(now time.Time) {
			g.startedAt = now
			g.startNewRound(now)
		}},
	)
}

// startNewRound shows the next target color, counts down, then reveals
// the key colors and opens the input window.
func (g *ColorMatch) startNewRound(now time.Time) {
	g.phase = matchSetup
	g.level++
	g.found = make(map[int]bool)
	g.dev.Lights.ClearAll()

	g.target = g.rng.Intn(len(matchPalette))
	targetName := matchPalette[g.target].Name

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Round %d", g.level), 35, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Find: %s", targetName), 25, 25, 1)
	g.dev.Display.ShowText("Get ready...", 25, 50, 1)

	cues := []Cue{{Wait: 1500 * time.Millisecond}}
	for i := 3; i >= 1; i-- {
		digit := i
		cues = append(cues, Cue{Run: Do(func() {
			hud.CountdownDigit(g.dev.Display, digit)
			g.dev.Sound.PlayCountdown()
		}), Wait: time.Second})
	}
	cues = append(cues, Cue{Run: func(now time.Time) {
		g.generateKeyColors()
		g.renderKeys()
		g.roundDeadline = now.Add(g.roundTime)
		g.phase = matchPlay
		g.showStatus(now)
	}})
	g.cue.Play(now, cues...)
}

// generateKeyColors assigns a color to every key with two to four keys
// guaranteed to match the target.
func (g *ColorMatch) generateKeyColors() {
	g.matching = make(map[int]bool)
	wanted := 2 + g.rng.Intn(3)
	for len(g.matching) < wanted {
		g.matching[g.rng.Intn(keypad.NumKeys)] = true
	}

	for i := 0; i < keypad.NumKeys; i++ {
		if g.matching[i] {
			g.keyColors[i] = g.target
			continue
		}
		other := g.rng.Intn(len(matchPalette) - 1)
		if other >= g.target {
			other++
		}
		g.keyColors[i] = other
	}
}

func (g *ColorMatch) renderKeys() {
	for i := 0; i < keypad.NumKeys; i++ {
		if g.found[i] {
			g.dev.Lights.SetKey(i, matchFoundColor)
		} else {
			g.dev.Lights.SetKey(i, matchPalette[g.keyColors[i]].Color)
		}
	}
}

func (g *ColorMatch) showStatus(now time.Time) {
	gameRemaining := matchGameDuration - now.Sub(g.startedAt)
	if gameRemaining < 0 {
		gameRemaining = 0
	}
	roundRemaining := g.roundDeadline.Sub(now)
	if roundRemaining < 0 {
		roundRemaining = 0
	}

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Find: %s", matchPalette[g.target].Name), 0, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Score: %d", g.score), 0, 15, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Left: %d", len(g.matching)-len(g.found)), 80, 15, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Round: %ds", int(roundRemaining.Seconds())), 0, 35, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Game: %ds", int(gameRemaining.Seconds())), 0, 50, 1)
}

func (g *ColorMatch) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case matchSetup, matchPlay:
		if now.Sub(g.startedAt) >= matchGameDuration {
			g.finish(now)
			return true
		}
		if g.phase == matchPlay {
			if !now.Before(g.roundDeadline) {
				g.roundTimeout(now)
				return true
			}
			g.showStatus(now)
		}
	case matchDone:
		return false
	}
	return true
}

// roundTimeout flashes red and rolls into a fresh round. The run itself
// continues.
func (g *ColorMatch) roundTimeout(now time.Time) {
	g.phase = matchSetup
	g.dev.Sound.PlayWrong()
	cues := FlashAll(g.dev.Lights, keypad.Red, 2, 100*time.Millisecond, 100*time.Millisecond)
	cues = append(cues, Cue{Wait: 500 * time.Millisecond}, Cue{Run: g.startNewRound})
	g.cue.Play(now, cues...)
}

func (g *ColorMatch) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != matchPlay || g.found[event.Key] {
		return
	}

	if g.matching[event.Key] {
		g.found[event.Key] = true
		g.correctHits++
		g.addPoints(matchCorrectPoints)
		g.dev.Lights.SetKey(event.Key, matchFoundColor)
		g.dev.Sound.PlayTone(660, 50*time.Millisecond)

		if len(g.found) == len(g.matching) {
			g.roundComplete(now)
		}
		return
	}

	g.wrongHits++
	g.addPoints(-matchWrongPenalty)
	g.dev.Sound.PlayTone(220, 100*time.Millisecond)
	key := event.Key
	g.dev.Lights.SetKey(key, keypad.Red)
	g.cue.Append(now,
		Cue{Wait: 100 * time.Millisecond},
		Cue{Run: Do(g.renderKeys)},
	)
}

func (g *ColorMatch) roundComplete(now time.Time) {
	g.phase = matchSetup
	g.addPoints(matchRoundBonus)
	g.dev.Sound.PlayCorrect()
	g.roundTime = ShrinkDuration(g.roundTime, matchRoundDecrease, matchMinRound)

	cues := FlashAll(g.dev.Lights, keypad.Green, 2, 100*time.Millisecond, 100*time.Millisecond)
	cues = append(cues, Cue{Wait: 300 * time.Millisecond}, Cue{Run: g.startNewRound})
	g.cue.Play(now, cues...)
}

func (g *ColorMatch) finish(now time.Time) {
	g.phase = matchEnding
	g.dev.Lights.ClearAll()
	g.dev.Sound.PlayLevelUp()

	cues := Sweep(g.dev.Lights, keypad.Green, 30*time.Millisecond)
	cues = append(cues, Cue{Run: Do(func() {
		g.gameOver = true
		g.updateHighScore()
		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, "TIME'S UP!", 5, 2)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Score: %d", g.score), 30, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Rounds: %d", g.level), 42, 1)
		hud.CenteredText(g.dev.Display, fmt.Sprintf("Best: %d", g.highScore), 54, 1)
		g.phase = matchDone
	})})
	g.cue.Play(now, cues...)
}

// Resume restarts the interrupted round. The global clock keeps running
// through a pause.
func (g *ColorMatch) Resume(now time.Time) {
	if g.phase == matchPlay || g.phase == matchSetup {
		g.startNewRound(now)
	}
}
