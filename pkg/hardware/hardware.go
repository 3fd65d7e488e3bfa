// Package hardware defines the narrow interfaces between the game core and
// the device-facing collaborators. Implementations live in client/sim (the
// desktop simulator); real device drivers would satisfy the same contracts.
package hardware

import (
	"time"

	"github.com/cbodonnell/keygrid/pkg/keypad"
)

// Input is the source of player input events.
type Input interface {
	// PollKeyEvent returns the oldest unread key event, if any.
	// At most one event is consumed per call.
	PollKeyEvent() (keypad.Event, bool)
	// EncoderPosition returns the cumulative rotary encoder position.
	// Callers track deltas between reads.
	EncoderPosition() int
	// EncoderPressed reports a debounced encoder button press.
	// It returns true at most once per physical press.
	EncoderPressed() bool
}

// Lights is the per-key RGB color surface.
type Lights interface {
	SetKey(key int, color keypad.RGB)
	SetAll(color keypad.RGB)
	ClearAll()
}

// Display is the monochrome text display.
// Coordinates are pixels on a 128x64 surface; scale multiplies the glyph size.
type Display interface {
	Clear()
	ShowText(text string, x, y, scale int)
}

// Speaker plays tones without blocking. Tones queued while another is
// playing start when it finishes.
type Speaker interface {
	PlayTone(freq float64, duration time.Duration)
}
