package overlay

import "math"

// VideoPlacement returns mpv's video-zoom, video-pan-x and video-pan-y so the
// video frame is displayed at videoRect inside the preview square.
//
// mpv first fits the frame into the viewport, then scales it by 2^zoom and
// moves its center by pan times the scaled size.
func VideoPlacement(videoRect Rect, frameW, frameH int, vp Viewport) (zoom, panX, panY float64) {
	if frameW <= 0 || frameH <= 0 || vp.W <= 0 || vp.H <= 0 {
		return 0, 0, 0
	}
	fit := math.Min(float64(vp.W)/float64(frameW), float64(vp.H)/float64(frameH))

	x, y := vp.ToPixels(Point{videoRect.X, videoRect.Y})
	w := videoRect.W / 100 * vp.Side()
	h := videoRect.H / 100 * vp.Side()
	if w <= 0 || h <= 0 {
		return 0, 0, 0
	}

	zoom = math.Log2(w / (float64(frameW) * fit))
	panX = (x + w/2 - float64(vp.W)/2) / w
	panY = (y + h/2 - float64(vp.H)/2) / h
	return zoom, panX, panY
}
