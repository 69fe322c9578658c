package crops

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/signviewer/internal/ui"
)

// Draw renders the view's caption and crop into a size x size square at
// (x, y). The crop is scaled to fit and centered.
func (v *View) Draw(dst *ebiten.Image, x, y, size float64) {
	ui.DrawText(dst, v.Category.Label(), x, y, ui.FontSizeSmall, ui.ColorTextSecondary)
	y += ui.CropLabel

	vector.DrawFilledRect(dst, float32(x), float32(y), float32(size), float32(size), ui.ColorSurface, false)

	switch {
	case v.Loading():
		ui.DrawTextCentered(dst, "Loading…", x+size/2, y+size/2, ui.FontSizeSmall, ui.ColorTextMuted)
		return
	case v.current == nil:
		ui.DrawTextCentered(dst, "No crop", x+size/2, y+size/2, ui.FontSizeSmall, ui.ColorTextMuted)
		return
	}

	img, ok := v.current.(*EbitenImage)
	if !ok {
		return
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	scale := min(size/w, size/h)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x+(size-w*scale)/2, y+(size-h*scale)/2)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img.Image, op)
}
