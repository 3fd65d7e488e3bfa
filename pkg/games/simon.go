package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameSimonSays = "Simon Says"

const (
	simonDisplayTime   = 500 * time.Millisecond
	simonGapTime       = 200 * time.Millisecond
	simonInputTimeout  = 5 * time.Second
	simonSpeedInterval = 5
	simonMinDisplay    = 200 * time.Millisecond
	simonSpeedFactor   = 0.85
)

// simonKeys are the four playable keys, the top-left 2x2 block.
var simonKeys = []int{0, 1, 3, 4}

var simonColors = map[int]keypad.RGB{
	0: keypad.Red,
	1: keypad.Blue,
	3: keypad.Green,
	4: keypad.Yellow,
}

type simonPhase int

const (
	simonIntro simonPhase = iota
	simonShow
	simonInput
	simonEnding
	simonDone
)

// SimonSays replays an ever longer color sequence on four keys and the
// player echoes it back. The score is the longest completed sequence.
type SimonSays struct {
	Base
	phase         simonPhase
	sequence      []int
	position      int
	displayTime   time.Duration
	inputDeadline time.Time
}

var _ Session = (*SimonSays)(nil)

func NewSimonSays(dev Devices, rng *rand.Rand) *SimonSays {
	g := &SimonSays{Base: NewBase(NameSimonSays, dev, rng)}
	g.Reset()
	return g
}

func (g *SimonSays) Reset() {
	g.resetBase()
	g.phase = simonIntro
	g.sequence = nil
	g.position = 0
	g.displayTime = simonDisplayTime
}

func (g *SimonSays) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: time.Second},
		// Highlight the playable keys before the first sequence.
		Cue{Run: Do(func() {
			for _, key := range simonKeys {
				g.dev.Lights.SetKey(key, simonColors[key])
			}
		}), Wait: 1500 * time.Millisecond},
		Cue{Run: Do(g.dev.Lights.ClearAll)},
		Cue{Run: func(now time.Time) {
			g.addStep()
			g.playSequence(now)
		}},
	)
}

func (g *SimonSays) addStep() {
	g.sequence = append(g.sequence, simonKeys[g.rng.Intn(len(simonKeys))])
}

// playSequence shows the whole sequence, then opens the input window with
// dimmed key hints.
func (g *SimonSays) playSequence(now time.Time) {
	g.phase = simonShow

	level := len(g.sequence)
	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level: %d", level), 0, 0, 1)
	g.dev.Display.ShowText("Watch...", 30, 30, 1)

	cues := []Cue{{Wait: 500 * time.Millisecond}}
	for _, key := range g.sequence {
		key := key
		cues = append(cues,
			Cue{Run: Do(func() {
				g.dev.Lights.SetKey(key, simonColors[key])
				g.dev.Sound.PlayKeyTone(key)
			}), Wait: g.displayTime},
			Cue{Run: Do(func() { g.dev.Lights.SetKey(key, keypad.Off) }), Wait: simonGapTime},
		)
	}
	cues = append(cues, Cue{Run: g.beginInput})
	g.cue.Play(now, cues...)
}

func (g *SimonSays) beginInput(now time.Time) {
	g.phase = simonInput
	g.position = 0
	g.inputDeadline = now.Add(simonInputTimeout)

	for _, key := range simonKeys {
		g.dev.Lights.SetKey(key, simonColors[key].Scale(0.25))
	}

	g.dev.Display.Clear()
	g.dev.Display.ShowText(fmt.Sprintf("Level: %d", len(g.sequence)), 0, 0, 1)
	g.dev.Display.ShowText("Your turn!", 25, 30, 1)
}

func (g *SimonSays) Update(now time.Time) bool {
	g.cue.Step(now)
	switch g.phase {
	case simonInput:
		if !now.Before(g.inputDeadline) {
			g.loseGame(now, "Time's up!", nil)
		}
	case simonDone:
		return false
	}
	return true
}

func (g *SimonSays) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed || g.phase != simonInput {
		return
	}

	if _, ok := simonColors[event.Key]; !ok {
		// Off-grid key, neutral feedback and no penalty.
		g.cue.Play(now, FlashKey(g.dev.Lights, event.Key, keypad.White, 1, 100*time.Millisecond, 0)...)
		return
	}

	expected := g.sequence[g.position]
	if event.Key != expected {
		g.dev.Lights.ClearAll()
		g.dev.Lights.SetKey(event.Key, keypad.Red)
		g.dev.Lights.SetKey(expected, keypad.Green)
		g.dev.Sound.PlayWrong()
		g.loseGame(now, "Wrong key!", []Cue{{Wait: 1500 * time.Millisecond}})
		return
	}

	key := event.Key
	g.dev.Lights.SetKey(key, simonColors[key])
	g.dev.Sound.PlayKeyTone(key)
	g.position++

	if g.position >= len(g.sequence) {
		g.levelComplete(now)
		return
	}

	g.inputDeadline = now.Add(simonInputTimeout)
	g.cue.Play(now,
		Cue{Wait: 200 * time.Millisecond},
		Cue{Run: Do(func() { g.dev.Lights.SetKey(key, simonColors[key].Scale(0.25)) })},
	)
}

func (g *SimonSays) levelComplete(now time.Time) {
	g.phase = simonShow
	g.score = len(g.sequence)
	g.dev.Sound.PlayLevelUp()

	if g.score%simonSpeedInterval == 0 {
		g.displayTime = DecayDuration(g.displayTime, simonSpeedFactor, simonMinDisplay)
	}

	cues := []Cue{
		{Wait: 200 * time.Millisecond},
		{Run: Do(g.dev.Lights.ClearAll)},
	}
	cues = append(cues, FlashAll(g.dev.Lights, keypad.Green, 2, 100*time.Millisecond, 100*time.Millisecond)...)
	cues = append(cues,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: func(now time.Time) {
			g.addStep()
			g.playSequence(now)
		}},
	)
	g.cue.Play(now, cues...)
}

// loseGame runs lead cues, flashes red, and ends the session.
func (g *SimonSays) loseGame(now time.Time, reason string, lead []Cue) {
	g.phase = simonEnding
	cues := append(lead, FlashAll(g.dev.Lights, keypad.Red, 3, 200*time.Millisecond, 200*time.Millisecond)...)
	cues = append(cues, Cue{Run: Do(func() {
		g.endGame(reason)
		g.phase = simonDone
	})})
	g.cue.Play(now, cues...)
}

// Resume replays the current sequence from the top.
func (g *SimonSays) Resume(now time.Time) {
	if g.phase == simonInput || g.phase == simonShow {
		g.playSequence(now)
	}
}
