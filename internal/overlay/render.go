package overlay

import (
	"image/color"

	"github.com/depeter/signviewer/internal/dataset"
)

// Category is the kind of detection a command draws.
type Category int

const (
	CategorySignSpace Category = iota
	CategoryPose
	CategoryFace
	CategoryLeftHand
	CategoryRightHand
)

// Shape distinguishes landmark dots from rectangle outlines.
type Shape int

const (
	ShapePoints Shape = iota
	ShapeBox
)

// Visibility holds the per-category toggles. The sign space has none.
type Visibility struct {
	Pose      bool
	Face      bool
	LeftHand  bool
	RightHand bool
}

// DrawCommand is one overlay primitive in percentage units.
type DrawCommand struct {
	Category Category
	Shape    Shape
	Color    color.RGBA

	// ShapePoints
	Radius float64
	Points []Point

	// ShapeBox
	Thickness float64
	Rect      Rect
}

// Opacity applied to every overlay primitive.
const Opacity = 0.7

var (
	colorLime   = color.RGBA{0x00, 0xff, 0x00, 0xff}
	colorTomato = color.RGBA{0xff, 0x63, 0x47, 0xff}
	colorCyan   = color.RGBA{0x00, 0xff, 0xff, 0xff}
	colorYellow = color.RGBA{0xff, 0xff, 0x00, 0xff}
)

type categoryStyle struct {
	category Category
	color    color.RGBA
	radius   float64
	visible  func(Visibility) bool
	points   func(*dataset.FrameGeometry) []dataset.Point
	box      func(*dataset.FrameGeometry) dataset.Box
}

var styles = []categoryStyle{
	{
		category: CategoryPose, color: colorLime, radius: 3,
		visible: func(v Visibility) bool { return v.Pose },
		points:  func(g *dataset.FrameGeometry) []dataset.Point { return g.PoseLandmarks },
	},
	{
		category: CategoryFace, color: colorTomato, radius: 1,
		visible: func(v Visibility) bool { return v.Face },
		points:  func(g *dataset.FrameGeometry) []dataset.Point { return g.FaceLandmarks },
		box:     func(g *dataset.FrameGeometry) dataset.Box { return g.FaceBbox },
	},
	{
		category: CategoryLeftHand, color: colorCyan, radius: 2,
		visible: func(v Visibility) bool { return v.LeftHand },
		points:  func(g *dataset.FrameGeometry) []dataset.Point { return g.LeftHandLandmarks },
		box:     func(g *dataset.FrameGeometry) dataset.Box { return g.LeftHandBbox },
	},
	{
		category: CategoryRightHand, color: colorYellow, radius: 2,
		visible: func(v Visibility) bool { return v.RightHand },
		points:  func(g *dataset.FrameGeometry) []dataset.Point { return g.RightHandLandmarks },
		box:     func(g *dataset.FrameGeometry) dataset.Box { return g.RightHandBbox },
	},
}

// CategoryColor returns the color a category is drawn in.
func CategoryColor(c Category) color.RGBA {
	for _, s := range styles {
		if s.category == c {
			return s.color
		}
	}
	return colorLime
}

// Render builds the draw commands for one frame. The sign space outline is
// always included; every other category only when its toggle is on and the
// frame has data for it.
func Render(geom *dataset.FrameGeometry, layout Layout, vis Visibility) []DrawCommand {
	cmds := make([]DrawCommand, 0, 8)
	if geom.SignSpace.Valid() {
		cmds = append(cmds, DrawCommand{
			Category:  CategorySignSpace,
			Shape:     ShapeBox,
			Color:     colorLime,
			Thickness: 2,
			Rect:      layout.MapBox(geom.SignSpace),
		})
	}

	for _, s := range styles {
		if !s.visible(vis) {
			continue
		}
		if lms := s.points(geom); len(lms) > 0 {
			pts := make([]Point, len(lms))
			for i, p := range lms {
				pts[i] = layout.MapPoint(p.X(), p.Y())
			}
			cmds = append(cmds, DrawCommand{
				Category: s.category,
				Shape:    ShapePoints,
				Color:    s.color,
				Radius:   s.radius,
				Points:   pts,
			})
		}
		if s.box == nil {
			continue
		}
		if b := s.box(geom); b.Valid() {
			cmds = append(cmds, DrawCommand{
				Category:  s.category,
				Shape:     ShapeBox,
				Color:     s.color,
				Thickness: 1,
				Rect:      layout.MapBox(b),
			})
		}
	}
	return cmds
}
