package dataset

import (
	"errors"
	"fmt"
)

// ErrClipsDoNotMeet is returned when a clip does not start where the previous one ended.
var ErrClipsDoNotMeet = errors.New("clips don't meet properly")

// VideoFile describes the normalized video the dataset was computed from.
type VideoFile struct {
	MediaType       string  `json:"media_type"`
	DurationSeconds float64 `json:"duration_seconds"`
	FrameCount      int     `json:"frame_count"`
	Framerate       float64 `json:"framerate"`
	FrameWidth      int     `json:"frame_width"`
	FrameHeight     int     `json:"frame_height"`
	FileSizeBytes   int64   `json:"file_size_bytes,omitempty"`
}

// Validate checks that every dimension of the video is positive.
func (v VideoFile) Validate() error {
	switch {
	case v.DurationSeconds <= 0:
		return fmt.Errorf("invalid duration: %v", v.DurationSeconds)
	case v.FrameCount <= 0:
		return fmt.Errorf("invalid frame count: %d", v.FrameCount)
	case v.Framerate <= 0:
		return fmt.Errorf("invalid framerate: %v", v.Framerate)
	case v.FrameWidth <= 0 || v.FrameHeight <= 0:
		return fmt.Errorf("invalid frame size: %dx%d", v.FrameWidth, v.FrameHeight)
	}
	return nil
}

// ClampFrame clamps a frame index into [0, FrameCount-1].
func (v VideoFile) ClampFrame(i int) int {
	if i >= v.FrameCount {
		i = v.FrameCount - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Point is a landmark in video-pixel space. Extra components (z, visibility)
// are kept but only X and Y are drawn.
type Point []float64

// X returns the horizontal coordinate.
func (p Point) X() float64 {
	if len(p) < 1 {
		return 0
	}
	return p[0]
}

// Y returns the vertical coordinate.
func (p Point) Y() float64 {
	if len(p) < 2 {
		return 0
	}
	return p[1]
}

// Box is an [x0, y0, x1, y1] rectangle in video-pixel space.
type Box []float64

// Valid reports whether the box has all four corners.
func (b Box) Valid() bool { return len(b) >= 4 }

func (b Box) X0() float64 { return b[0] }
func (b Box) Y0() float64 { return b[1] }
func (b Box) X1() float64 { return b[2] }
func (b Box) Y1() float64 { return b[3] }

// Width returns x1 - x0.
func (b Box) Width() float64 { return b[2] - b[0] }

// Height returns y1 - y0.
func (b Box) Height() float64 { return b[3] - b[1] }

// FrameGeometry holds the landmarks and boxes detected in a single frame.
// All coordinates are in the pixel space of the video frame.
type FrameGeometry struct {
	PoseLandmarks      []Point `json:"pose_landmarks"`
	RightHandLandmarks []Point `json:"right_hand_landmarks"`
	LeftHandLandmarks  []Point `json:"left_hand_landmarks"`
	FaceLandmarks      []Point `json:"face_landmarks"`

	SignSpace Box `json:"sign_space"`

	RightHandBbox Box `json:"right_hand_bbox"`
	LeftHandBbox  Box `json:"left_hand_bbox"`
	FaceBbox      Box `json:"face_bbox"`
}

// MissingFrameGeometry builds the geometry used for frames without data:
// no detections and a square sign space anchored at the origin.
func MissingFrameGeometry(v VideoFile) *FrameGeometry {
	size := float64(min(v.FrameWidth, v.FrameHeight))
	return &FrameGeometry{
		SignSpace: Box{0, 0, size, size},
	}
}

// GeometryAt returns the geometry of frame i, or the synthesized default when
// the list is shorter than the video or the entry is null.
func GeometryAt(geoms []*FrameGeometry, i int, v VideoFile) *FrameGeometry {
	if i < 0 || i >= len(geoms) || geoms[i] == nil {
		return MissingFrameGeometry(v)
	}
	g := geoms[i]
	if !g.SignSpace.Valid() {
		withSpace := *g
		withSpace.SignSpace = MissingFrameGeometry(v).SignSpace
		return &withSpace
	}
	return g
}

// Clip is a contiguous frame range with its translation.
type Clip struct {
	StartFrame         int     `json:"start_frame"`
	FrameCount         int     `json:"frame_count"`
	TranslationContext *string `json:"translation_context"`
	TranslationResult  *string `json:"translation_result"`
}

// EndFrame returns the first frame after the clip.
func (c Clip) EndFrame() int { return c.StartFrame + c.FrameCount }

// TranslationText returns the translation result, or "" if there is none yet.
func (c Clip) TranslationText() string {
	if c.TranslationResult == nil {
		return ""
	}
	return *c.TranslationResult
}

// ClipsCollection is the ordered list of clips plus a dense frame->clip lookup.
type ClipsCollection struct {
	Clips           []Clip `json:"clips"`
	ClipIndexLookup []int  `json:"clip_index_lookup"`
}

// RecomputeLookup rebuilds ClipIndexLookup from the clips.
func (cc *ClipsCollection) RecomputeLookup() error {
	lookup := make([]int, 0)
	for i, clip := range cc.Clips {
		if clip.StartFrame != len(lookup) {
			return fmt.Errorf("clip %d starts at %d, expected %d: %w",
				i, clip.StartFrame, len(lookup), ErrClipsDoNotMeet)
		}
		for j := 0; j < clip.FrameCount; j++ {
			lookup = append(lookup, i)
		}
	}
	cc.ClipIndexLookup = lookup
	return nil
}

// ClipIndexForFrame returns the clip owning frame i, clamping i into the
// lookup. Returns -1 when there are no clips.
func (cc *ClipsCollection) ClipIndexForFrame(i int) int {
	if cc == nil || len(cc.ClipIndexLookup) == 0 {
		return -1
	}
	if i < 0 {
		i = 0
	}
	if i >= len(cc.ClipIndexLookup) {
		i = len(cc.ClipIndexLookup) - 1
	}
	return cc.ClipIndexLookup[i]
}

// ClipAt returns the clip with the given index.
func (cc *ClipsCollection) ClipAt(idx int) (Clip, bool) {
	if cc == nil || idx < 0 || idx >= len(cc.Clips) {
		return Clip{}, false
	}
	return cc.Clips[idx], true
}

// BoundaryFrames returns the start frame of every clip except the first.
func (cc *ClipsCollection) BoundaryFrames() []int {
	if cc == nil || len(cc.Clips) < 2 {
		return nil
	}
	out := make([]int, 0, len(cc.Clips)-1)
	for _, c := range cc.Clips[1:] {
		out = append(out, c.StartFrame)
	}
	return out
}
