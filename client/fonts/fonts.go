package fonts

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func init() {
	if err := loadFonts(); err != nil {
		panic(fmt.Sprintf("Failed to load fonts: %v", err))
	}
}

// Screen faces render the simulated OLED at its three text scales.
var ScreenSmallFont font.Face
var ScreenMediumFont font.Face
var ScreenLargeFont font.Face

// LabelFont renders the key cap labels.
var LabelFont font.Face

func loadFonts() error {
	tt, err := opentype.Parse(fonts.MPlus1pRegular_ttf)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	const dpi = 72
	sizes := []struct {
		size float64
		face *font.Face
	}{
		{14, &ScreenSmallFont},
		{24, &ScreenMediumFont},
		{36, &ScreenLargeFont},
	}
	for _, s := range sizes {
		*s.face, err = opentype.NewFace(tt, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     dpi,
			Hinting: font.HintingVertical,
		})
		if err != nil {
			return fmt.Errorf("failed to create font face: %v", err)
		}
	}

	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}

	LabelFont = truetype.NewFace(ttfFont, &truetype.Options{
		Size:    14,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	return nil
}
