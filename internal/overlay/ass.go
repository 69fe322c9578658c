package overlay

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// ReferenceSide is the preview side, in pixels, at which radii and
// thicknesses are drawn at their nominal size.
const ReferenceSide = 500

// Viewport is the OSD canvas of the video window, in pixels. The preview is
// the largest centered square inside it.
type Viewport struct {
	W, H int
}

// DefaultViewport is used until the window reports its size.
var DefaultViewport = Viewport{W: 1000, H: 1000}

// Side returns the preview square side in pixels.
func (v Viewport) Side() float64 { return float64(min(v.W, v.H)) }

// Origin returns the top-left corner of the preview square.
func (v Viewport) Origin() (float64, float64) {
	p := v.Side()
	return (float64(v.W) - p) / 2, (float64(v.H) - p) / 2
}

// ToPixels converts a percentage point to OSD pixels.
func (v Viewport) ToPixels(p Point) (float64, float64) {
	ox, oy := v.Origin()
	s := v.Side() / 100
	return ox + p.X*s, oy + p.Y*s
}

// assColor formats c as an ASS BGR color.
func assColor(c color.RGBA) string {
	return fmt.Sprintf("&H%02X%02X%02X&", c.B, c.G, c.R)
}

// assAlpha converts an opacity in [0, 1] to ASS transparency.
func assAlpha(opacity float64) string {
	return fmt.Sprintf("&H%02X&", int(math.Round((1-opacity)*255)))
}

// ToASS serializes commands as ASS events for mpv's osd-overlay, with the
// script resolution equal to the viewport. The letterbox bars around the
// preview square are masked so the zoomed video only shows inside it.
func ToASS(cmds []DrawCommand, vp Viewport) string {
	var b strings.Builder
	writeMask(&b, vp)

	px := vp.Side() / ReferenceSide
	for _, c := range cmds {
		switch c.Shape {
		case ShapePoints:
			r := max(1, int(math.Round(c.Radius*px)))
			var path strings.Builder
			for _, p := range c.Points {
				x, y := vp.ToPixels(p)
				if path.Len() > 0 {
					path.WriteByte(' ')
				}
				path.WriteString(assCircle(int(math.Round(x)), int(math.Round(y)), r))
			}
			fmt.Fprintf(&b, "{\\an7\\pos(0,0)\\p1\\bord0\\shad0\\1c%s\\1a%s}%s{\\p0}\n",
				assColor(c.Color), assAlpha(Opacity), path.String())

		case ShapeBox:
			x0, y0 := vp.ToPixels(Point{c.Rect.X, c.Rect.Y})
			x1, y1 := vp.ToPixels(Point{c.Rect.X + c.Rect.W, c.Rect.Y + c.Rect.H})
			t := max(1, c.Thickness*px)
			fmt.Fprintf(&b, "{\\an7\\pos(0,0)\\p1\\bord%.1f\\shad0\\1a&HFF&\\3c%s\\3a%s}%s{\\p0}\n",
				t/2, assColor(c.Color), assAlpha(Opacity),
				assRect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1))))
		}
	}
	return b.String()
}

func writeMask(b *strings.Builder, vp Viewport) {
	ox, oy := vp.Origin()
	p := int(vp.Side())
	var bars []string
	switch {
	case ox > 0:
		left := int(math.Round(ox))
		bars = append(bars, assRect(0, 0, left, vp.H), assRect(left+p, 0, vp.W, vp.H))
	case oy > 0:
		top := int(math.Round(oy))
		bars = append(bars, assRect(0, 0, vp.W, top), assRect(0, top+p, vp.W, vp.H))
	}
	for _, bar := range bars {
		fmt.Fprintf(b, "{\\an7\\pos(0,0)\\p1\\bord0\\shad0\\1c&H000000&}%s{\\p0}\n", bar)
	}
}

// assRect generates an ASS vector drawing for an axis-aligned rectangle.
func assRect(x0, y0, x1, y1 int) string {
	return fmt.Sprintf("m %d %d l %d %d l %d %d l %d %d", x0, y0, x1, y0, x1, y1, x0, y1)
}

// assCircle generates an ASS vector drawing for a circle using cubic bezier curves.
func assCircle(cx, cy, r int) string {
	// Control point distance for a circle: r * 0.5523
	k := r * 55 / 100
	return fmt.Sprintf(
		"m %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d",
		cx, cy-r,
		cx+k, cy-r, cx+r, cy-k, cx+r, cy,
		cx+r, cy+k, cx+k, cy+r, cx, cy+r,
		cx-k, cy+r, cx-r, cy+k, cx-r, cy,
		cx-r, cy-k, cx-k, cy-r, cx, cy-r,
	)
}
