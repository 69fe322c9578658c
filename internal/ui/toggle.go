package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Toggle is an on/off button with a colored swatch.
type Toggle struct {
	Label  string
	Accent color.Color
	On     bool

	X, Y, W, H float64
}

// Contains reports whether the point is over the toggle.
func (t *Toggle) Contains(px, py int) bool {
	return PointInRect(px, py, t.X, t.Y, t.W, t.H)
}

// Draw renders the toggle.
func (t *Toggle) Draw(dst *ebiten.Image) {
	bg := ColorSurface
	if t.On {
		bg = ColorSurfaceHover
	}
	vector.DrawFilledRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), bg, false)
	vector.StrokeRect(dst, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), 1, ColorTextMuted, false)

	sw := float32(t.H - 12)
	if t.On {
		vector.DrawFilledRect(dst, float32(t.X)+6, float32(t.Y)+6, sw, sw, t.Accent, false)
	} else {
		vector.StrokeRect(dst, float32(t.X)+6, float32(t.Y)+6, sw, sw, 2, t.Accent, false)
	}

	clr := ColorTextSecondary
	if t.On {
		clr = ColorText
	}
	DrawText(dst, t.Label, t.X+t.H+4, t.Y+t.H/2-FontSizeSmall/2-2, FontSizeSmall, clr)
}
