package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NamePiano = "Piano"

const (
	pianoMinOctave  = 2
	pianoMaxOctave  = 7
	pianoBaseOctave = 4
)

// pianoNotes is the chromatic scale from C up to B, one semitone per key.
var pianoNotes = [keypad.NumKeys]float64{262, 277, 294, 311, 330, 349, 370, 392, 415, 440, 466, 494}

var pianoNoteNames = [keypad.NumKeys]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// pianoColors walks the rainbow from C (red) to B (purple).
var pianoColors = [keypad.NumKeys]keypad.RGB{
	{R: 255},
	{R: 255, G: 64},
	{R: 255, G: 128},
	{R: 255, G: 200},
	{R: 255, G: 255},
	{R: 128, G: 255},
	{G: 255},
	{G: 255, B: 128},
	{G: 255, B: 255},
	{G: 128, B: 255},
	{B: 255},
	{R: 128, B: 255},
}

type pianoPhase int

const (
	pianoIntro pianoPhase = iota
	pianoPlay
	pianoDone
)

// Piano is an instrument mode rather than a scored game. Keys play a
// chromatic octave, the encoder shifts octaves, and the encoder button
// leaves without a game over screen.
type Piano struct {
	Base
	phase   pianoPhase
	octave  int
	held    map[int]bool
}

var _ Session = (*Piano)(nil)

func NewPiano(dev Devices, rng *rand.Rand) *Piano {
	g := &Piano{Base: NewBase(NamePiano, dev, rng)}
	g.Reset()
	return g
}

func (g *Piano) Reset() {
	g.resetBase()
	g.phase = pianoIntro
	g.octave = pianoBaseOctave
	g.held = make(map[int]bool)
}

func (g *Piano) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("Play the keys!", 20, 15, 1)
			g.dev.Display.ShowText("Encoder: octave", 15, 30, 1)
			g.dev.Display.ShowText("Press enc to exit", 5, 45, 1)
		}), Wait: 2 * time.Second},
		Cue{Run: Do(func() {
			g.phase = pianoPlay
			g.showStatus()
			g.showKeyboard()
		})},
	)
}

func (g *Piano) octaveMultiplier() float64 {
	mult := 1.0
	for o := pianoBaseOctave; o < g.octave; o++ {
		mult *= 2
	}
	for o := g.octave; o < pianoBaseOctave; o++ {
		mult /= 2
	}
	return mult
}

func (g *Piano) showKeyboard() {
	for key := 0; key < keypad.NumKeys; key++ {
		g.dev.Lights.SetKey(key, pianoColors[key].Scale(0.25))
	}
}

func (g *Piano) showStatus() {
	g.dev.Display.Clear()
	g.dev.Display.ShowText("PIANO MODE", 25, 0, 1)
	g.dev.Display.ShowText(fmt.Sprintf("Octave: %d", g.octave), 35, 25, 1)
	g.dev.Display.ShowText("Encoder to exit", 15, 52, 1)
}

func (g *Piano) Update(now time.Time) bool {
	g.cue.Step(now)
	return g.phase != pianoDone
}

func (g *Piano) HandleKey(now time.Time, event keypad.Event) {
	if g.phase != pianoPlay {
		return
	}
	if event.Pressed {
		g.held[event.Key] = true
		g.dev.Lights.SetKey(event.Key, pianoColors[event.Key])
		g.dev.Sound.PlayTone(pianoNotes[event.Key]*g.octaveMultiplier(), 150*time.Millisecond)

		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, fmt.Sprintf("%s%d", pianoNoteNames[event.Key], g.octave), 15, 2)
		g.dev.Display.ShowText(fmt.Sprintf("Octave: %d", g.octave), 35, 45, 1)
		return
	}

	delete(g.held, event.Key)
	g.dev.Lights.SetKey(event.Key, pianoColors[event.Key].Scale(0.25))
	if len(g.held) == 0 {
		g.showStatus()
	}
}

// HandleEncoderTurn shifts the octave within the playable range and
// chirps the new C for orientation.
func (g *Piano) HandleEncoderTurn(now time.Time, delta int) {
	if g.phase != pianoPlay || delta == 0 {
		return
	}
	next := g.octave + delta
	if next < pianoMinOctave {
		next = pianoMinOctave
	}
	if next > pianoMaxOctave {
		next = pianoMaxOctave
	}
	if next == g.octave {
		return
	}
	g.octave = next
	g.showStatus()
	g.dev.Sound.PlayTone(pianoNotes[0]*g.octaveMultiplier(), 50*time.Millisecond)
}

// HandleEncoderPress leaves instrument mode immediately.
func (g *Piano) HandleEncoderPress(now time.Time) Action {
	g.phase = pianoDone
	return ActionQuit
}
