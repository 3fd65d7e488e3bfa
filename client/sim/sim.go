// Package sim runs the console on a desktop window. It renders the key
// grid and the OLED with ebiten and maps the keyboard onto the keypad,
// standing in for the real hardware during development.
package sim

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/cbodonnell/keygrid/client/fonts"
	"github.com/cbodonnell/keygrid/pkg/hardware"
	"github.com/cbodonnell/keygrid/pkg/keypad"
	"github.com/cbodonnell/keygrid/pkg/queue"
)

const (
	// ScreenWidth is the width of the window.
	ScreenWidth = 296
	// ScreenHeight is the height of the window.
	ScreenHeight = 520

	margin    = 20
	oledScale = 2
	oledW     = 128
	oledH     = 64
	keySize   = 64
	keyGap    = 12
)

// keyBindings maps keyboard keys onto the keypad, row by row.
var keyBindings = [keypad.NumKeys]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE,
	ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC,
}

var keyLabels = [keypad.NumKeys]string{
	"1", "2", "3",
	"Q", "W", "E",
	"A", "S", "D",
	"Z", "X", "C",
}

type textLine struct {
	text  string
	x     int
	y     int
	scale int
}

// Simulator implements ebiten.Game and the hardware interfaces. The host
// loop runs on its own goroutine, so the surfaces are mutex guarded.
type Simulator struct {
	mu sync.Mutex

	events     *queue.EventQueue
	encoderPos int
	encoderDn  bool

	keys  [keypad.NumKeys]keypad.RGB
	lines []textLine
}

var _ ebiten.Game = (*Simulator)(nil)
var _ hardware.Input = (*Simulator)(nil)
var _ hardware.Lights = (*Simulator)(nil)
var _ hardware.Display = (*Simulator)(nil)

// NewSimulator creates a simulator with an empty grid and a blank screen.
func NewSimulator() *Simulator {
	return &Simulator{
		events: queue.NewEventQueue(100),
	}
}

// PollKeyEvent implements hardware.Input.
func (s *Simulator) PollKeyEvent() (keypad.Event, bool) {
	return s.events.Dequeue()
}

// EncoderPosition implements hardware.Input.
func (s *Simulator) EncoderPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoderPos
}

// EncoderPressed implements hardware.Input.
func (s *Simulator) EncoderPressed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoderDn
}

// SetKey implements hardware.Lights.
func (s *Simulator) SetKey(key int, c keypad.RGB) {
	if !keypad.Valid(key) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = c
}

// SetAll implements hardware.Lights.
func (s *Simulator) SetAll(c keypad.RGB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.keys {
		s.keys[i] = c
	}
}

// ClearAll implements hardware.Lights.
func (s *Simulator) ClearAll() {
	s.SetAll(keypad.Off)
}

// Clear implements hardware.Display.
func (s *Simulator) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// ShowText implements hardware.Display.
func (s *Simulator) ShowText(str string, x, y, scale int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, textLine{text: str, x: x, y: y, scale: scale})
}

// Update implements ebiten.Game. It translates keyboard input into key
// events and encoder movement.
func (s *Simulator) Update() error {
	for i, k := range keyBindings {
		if inpututil.IsKeyJustPressed(k) {
			s.events.Enqueue(keypad.Event{Key: i, Pressed: true})
		}
		if inpututil.IsKeyJustReleased(k) {
			s.events.Enqueue(keypad.Event{Key: i, Pressed: false})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		s.encoderPos++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		s.encoderPos--
	}
	s.encoderDn = ebiten.IsKeyPressed(ebiten.KeyEnter) || ebiten.IsKeyPressed(ebiten.KeySpace)
	return nil
}

// Draw implements ebiten.Game.
func (s *Simulator) Draw(screen *ebiten.Image) {
	s.mu.Lock()
	keys := s.keys
	lines := make([]textLine, len(s.lines))
	copy(lines, s.lines)
	pressed := s.encoderDn
	s.mu.Unlock()

	screen.Fill(color.RGBA{R: 24, G: 24, B: 28, A: 255})
	s.drawOLED(screen, lines)
	s.drawKeys(screen, keys)
	s.drawEncoder(screen, pressed)
}

func (s *Simulator) drawOLED(screen *ebiten.Image, lines []textLine) {
	ox := float32((ScreenWidth - oledW*oledScale) / 2)
	oy := float32(margin)
	vector.DrawFilledRect(screen, ox-2, oy-2, oledW*oledScale+4, oledH*oledScale+4, color.RGBA{R: 70, G: 70, B: 80, A: 255}, false)
	vector.DrawFilledRect(screen, ox, oy, oledW*oledScale, oledH*oledScale, color.Black, false)

	for _, line := range lines {
		face, ascent := screenFace(line.scale)
		x := int(ox) + line.x*oledScale
		y := int(oy) + line.y*oledScale + ascent
		text.Draw(screen, line.text, face, x, y, color.White)
	}
}

func screenFace(scale int) (font.Face, int) {
	switch {
	case scale >= 3:
		return fonts.ScreenLargeFont, 32
	case scale == 2:
		return fonts.ScreenMediumFont, 20
	default:
		return fonts.ScreenSmallFont, 12
	}
}

func (s *Simulator) drawKeys(screen *ebiten.Image, keys [keypad.NumKeys]keypad.RGB) {
	gridW := keypad.Cols*keySize + (keypad.Cols-1)*keyGap
	left := (ScreenWidth - gridW) / 2
	top := margin + oledH*oledScale + 24

	for i, c := range keys {
		col := i % keypad.Cols
		row := i / keypad.Cols
		x := float32(left + col*(keySize+keyGap))
		y := float32(top + row*(keySize+keyGap))

		fill := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		if c == keypad.Off {
			fill = color.RGBA{R: 45, G: 45, B: 50, A: 255}
		}
		vector.DrawFilledRect(screen, x, y, keySize, keySize, fill, false)
		text.Draw(screen, keyLabels[i], fonts.LabelFont, int(x)+5, int(y)+16, color.RGBA{R: 160, G: 160, B: 170, A: 255})
	}
}

func (s *Simulator) drawEncoder(screen *ebiten.Image, pressed bool) {
	label := "arrows: turn  enter: press"
	if pressed {
		label = "arrows: turn  enter: PRESSED"
	}
	text.Draw(screen, label, fonts.LabelFont, margin, ScreenHeight-16, color.RGBA{R: 160, G: 160, B: 170, A: 255})
}

// Layout implements ebiten.Game.
func (s *Simulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
