package keypad

import "math/rand"

// RGB is a 24-bit LED color.
type RGB struct {
	R, G, B uint8
}

// Scale returns the color dimmed by factor (0..1).
func (c RGB) Scale(factor float64) RGB {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

var (
	Off     = RGB{}
	Red     = RGB{R: 255}
	Green   = RGB{G: 255}
	Blue    = RGB{B: 255}
	Yellow  = RGB{R: 255, G: 255}
	Cyan    = RGB{G: 255, B: 255}
	Magenta = RGB{R: 255, B: 255}
	Orange  = RGB{R: 255, G: 128}
	Purple  = RGB{R: 128, B: 255}
	White   = RGB{R: 255, G: 255, B: 255}
)

// GameColors is the palette games draw random target colors from.
var GameColors = []RGB{Red, Green, Blue, Yellow, Cyan, Magenta}

// RandomColor returns a random entry from GameColors.
func RandomColor(rng *rand.Rand) RGB {
	return GameColors[rng.Intn(len(GameColors))]
}

// HSV converts a hue/saturation/value triple (each 0..1) to an RGB color.
// Used by the rainbow animations.
func HSV(h, s, v float64) RGB {
	if s == 0 {
		b := uint8(v * 255)
		return RGB{R: b, G: b, B: b}
	}

	i := int(h*6) % 6
	f := h*6 - float64(int(h*6))
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}
