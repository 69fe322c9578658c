// Package overlay maps per-frame geometry from video pixels into the
// percentage space of a square preview, and turns it into draw commands.
//
// The preview shows the sign space enlarged to a fixed fraction of the
// preview. Everything else follows from one scale factor:
//
//	pctBox    = {50-50Z, 50-50Z, 100Z, 100Z}
//	scale     = pctBox.W / signSpace.W
//	videoRect = {pctBox.X - sx*scale, pctBox.Y - sy*scale, fw*scale, fh*scale}
//
// A point (x, y) in video pixels lands at (videoRect.X + x*scale, videoRect.Y + y*scale).
package overlay

import "github.com/depeter/signviewer/internal/dataset"

// DefaultZoom is the fraction of the preview the sign space fills.
const DefaultZoom = 0.9

// Rect is a rectangle in percentage units of the preview square.
type Rect struct {
	X, Y, W, H float64
}

// Point is a position in percentage units of the preview square.
type Point struct {
	X, Y float64
}

// Layout places the video inside the preview for one frame.
type Layout struct {
	PctBox    Rect    // where the sign space is drawn
	Scale     float64 // video pixels to percentage units
	VideoRect Rect    // where the whole video frame is drawn
}

// SignSpaceLayout computes the layout that makes geom's sign space fill the
// centered zoom fraction of the preview.
func SignSpaceLayout(geom *dataset.FrameGeometry, video dataset.VideoFile, zoom float64) Layout {
	space := geom.SignSpace
	if !space.Valid() || space.Width() <= 0 {
		space = dataset.MissingFrameGeometry(video).SignSpace
	}

	pct := Rect{
		X: 50 - 50*zoom,
		Y: 50 - 50*zoom,
		W: 100 * zoom,
		H: 100 * zoom,
	}
	scale := pct.W / space.Width()
	return Layout{
		PctBox: pct,
		Scale:  scale,
		VideoRect: Rect{
			X: pct.X - space.X0()*scale,
			Y: pct.Y - space.Y0()*scale,
			W: float64(video.FrameWidth) * scale,
			H: float64(video.FrameHeight) * scale,
		},
	}
}

// MapPoint converts a video-pixel point to percentage units.
func (l Layout) MapPoint(x, y float64) Point {
	return Point{
		X: l.VideoRect.X + x*l.Scale,
		Y: l.VideoRect.Y + y*l.Scale,
	}
}

// MapBox converts a video-pixel box to a percentage rectangle.
func (l Layout) MapBox(b dataset.Box) Rect {
	p0 := l.MapPoint(b.X0(), b.Y0())
	p1 := l.MapPoint(b.X1(), b.Y1())
	return Rect{X: p0.X, Y: p0.Y, W: p1.X - p0.X, H: p1.Y - p0.Y}
}
