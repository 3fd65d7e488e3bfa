// Package hud composes common screens on the 128x64 text display.
package hud

import (
	"fmt"

	"github.com/cbodonnell/keygrid/pkg/hardware"
)

const (
	// Width and Height are the display dimensions in pixels.
	Width  = 128
	Height = 64

	// CharWidth and CharHeight approximate the glyph cell at scale 1.
	CharWidth  = 6
	CharHeight = 12
)

// CenteredText draws text horizontally centered at the given y.
func CenteredText(d hardware.Display, text string, y, scale int) {
	textWidth := len(text) * CharWidth * scale
	x := (Width - textWidth) / 2
	if x < 0 {
		x = 0
	}
	d.ShowText(text, x, y, scale)
}

// Title draws a game title large and centered near the top.
func Title(d hardware.Display, title string) {
	d.Clear()
	CenteredText(d, title, 5, 2)
}

// Score draws the current score at the bottom left.
func Score(d hardware.Display, score int) {
	d.ShowText(fmt.Sprintf("Score: %d", score), 0, 50, 1)
}

// CountdownDigit draws a countdown number large and centered.
func CountdownDigit(d hardware.Display, n int) {
	d.Clear()
	CenteredText(d, fmt.Sprintf("%d", n), 20, 3)
}

// GameOver draws the standard game over screen.
func GameOver(d hardware.Display, reason string, score, best int) {
	d.Clear()
	CenteredText(d, "GAME OVER", 5, 2)
	if reason != "" {
		CenteredText(d, reason, 28, 1)
	}
	CenteredText(d, fmt.Sprintf("Score: %d", score), 42, 1)
	CenteredText(d, fmt.Sprintf("Best: %d", best), 54, 1)
}

// PauseMenu draws the pause screen.
func PauseMenu(d hardware.Display) {
	d.Clear()
	CenteredText(d, "PAUSED", 10, 2)
	d.ShowText("Press to quit", 15, 35, 1)
	d.ShowText("Any key: resume", 10, 50, 1)
}

// Instructions draws up to four lines of instruction text.
func Instructions(d hardware.Display, lines ...string) {
	d.Clear()
	for i, line := range lines {
		d.ShowText(line, 0, i*CharHeight, 1)
	}
}

// Menu draws the game selection list with a cursor, the best score for the
// selected entry, and a vertical volume indicator on the right edge.
func Menu(d hardware.Display, items []string, selected, best, volume int) {
	d.Clear()
	d.ShowText("SELECT GAME", 20, 0, 1)

	const maxVisible = 4
	start := selected - 1
	if start > len(items)-maxVisible {
		start = len(items) - maxVisible
	}
	if start < 0 {
		start = 0
	}

	for i := 0; i < maxVisible && start+i < len(items); i++ {
		prefix := " "
		if start+i == selected {
			prefix = ">"
		}
		d.ShowText(prefix+items[start+i], 0, 14+i*12, 1)
	}

	if best > 0 {
		d.ShowText(fmt.Sprintf("Best:%d", best), 0, 52, 1)
	}

	volChar := "V"
	if volume == 0 {
		volChar = "M"
	}
	d.ShowText(volChar, 122, 0, 1)
	for i := 0; i < 5; i++ {
		bar := "-"
		if 5-i <= volume {
			bar = "#"
		}
		d.ShowText(bar, 122, 12+i*10, 1)
	}
}
