package app

import (
	"log"

	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/overlay"
	"github.com/depeter/signviewer/internal/player"
)

// osdOverlayID is the mpv osd-overlay slot used for landmarks.
const osdOverlayID = 1

// overlaySink is the part of the mpv handle the overlay is pushed to.
type overlaySink interface {
	OSDSize() (int, int)
	SetOSDOverlay(id int, text string, resX, resY int) error
	SetVideoPlacement(zoom, panX, panY float64) error
}

type placement struct{ zoom, panX, panY float64 }

// overlaySync redraws the landmark overlay and re-frames the video whenever
// the frame, the visibility flags or the window size change.
type overlaySync struct {
	ds   *dataset.Dataset
	zoom float64
	sink overlaySink

	frame int
	vis   overlay.Visibility
	vp    overlay.Viewport

	placed    placement
	hasPlaced bool
}

func newOverlaySync(ds *dataset.Dataset, zoom float64, sink overlaySink, vis player.Overlays) *overlaySync {
	return &overlaySync{
		ds:   ds,
		zoom: zoom,
		sink: sink,
		vis:  overlay.Visibility(vis),
		vp:   overlay.DefaultViewport,
	}
}

func (o *overlaySync) onFrame(ev player.FrameChangeEvent) {
	o.frame = ev.FrameIndex
	o.push()
}

func (o *overlaySync) setVisibility(v player.Overlays) {
	if vis := overlay.Visibility(v); vis != o.vis {
		o.vis = vis
		o.push()
	}
}

// checkViewport picks up a resized video window.
func (o *overlaySync) checkViewport() {
	w, h := o.sink.OSDSize()
	if w <= 0 || h <= 0 {
		return
	}
	if vp := (overlay.Viewport{W: w, H: h}); vp != o.vp {
		o.vp = vp
		o.hasPlaced = false
		o.push()
	}
}

func (o *overlaySync) push() {
	geom := o.ds.Geometry(o.frame)
	layout := overlay.SignSpaceLayout(geom, o.ds.Video, o.zoom)

	text := overlay.ToASS(overlay.Render(geom, layout, o.vis), o.vp)
	if err := o.sink.SetOSDOverlay(osdOverlayID, text, o.vp.W, o.vp.H); err != nil {
		log.Printf("overlay: %v", err)
	}

	var p placement
	p.zoom, p.panX, p.panY = overlay.VideoPlacement(layout.VideoRect, o.ds.Video.FrameWidth, o.ds.Video.FrameHeight, o.vp)
	if o.hasPlaced && p == o.placed {
		return
	}
	if err := o.sink.SetVideoPlacement(p.zoom, p.panX, p.panY); err != nil {
		log.Printf("overlay: placement: %v", err)
		return
	}
	o.placed, o.hasPlaced = p, true
}
