// Package navigation binds the scrub bar and the jump-to-frame field to the
// player controller.
//
// The scrub position only ever follows frame-change events. User input goes
// to SeekToFrame and comes back as an event, so the bar never seeks in
// response to its own update.
package navigation

import (
	"fmt"
	"math"

	"github.com/depeter/signviewer/internal/player"
)

// Controller is the part of player.Controller the navigation needs.
type Controller interface {
	SeekToFrame(i int)
	CurrentFrameIndex() int
	IsPlaying() bool
	TogglePlay()
	AddFrameChangeListener(h player.FrameChangeHandler) player.ListenerID
	RemoveFrameChangeListener(id player.ListenerID)
}

// Scrubber is the model behind the scrub bar: a range [0, frameCount-1]
// with tick marks at clip boundaries.
type Scrubber struct {
	frameCount int
	value      int
	ticks      []float64
	seek       func(int)
}

// NewScrubber creates a scrubber. boundaries are frame indices where a new
// clip starts; seek is called for user-driven changes only.
func NewScrubber(frameCount int, boundaries []int, seek func(int)) *Scrubber {
	s := &Scrubber{frameCount: max(frameCount, 1), seek: seek}
	for _, f := range boundaries {
		s.ticks = append(s.ticks, float64(f)/float64(s.frameCount)*100)
	}
	return s
}

// Max returns the last selectable frame.
func (s *Scrubber) Max() int { return s.frameCount - 1 }

// Value returns the displayed frame.
func (s *Scrubber) Value() int { return s.value }

// Mirror updates the displayed frame from a frame-change event. It never seeks.
func (s *Scrubber) Mirror(ev player.FrameChangeEvent) {
	s.value = s.clamp(ev.FrameIndex)
}

// SetFromUser handles the user moving the bar to frame.
func (s *Scrubber) SetFromUser(frame int) {
	frame = s.clamp(frame)
	if s.seek != nil {
		s.seek(frame)
	}
}

// Ticks returns the clip boundary positions in percent of the bar.
func (s *Scrubber) Ticks() []float64 { return s.ticks }

// Progress returns the filled fraction of the bar in [0, 1).
func (s *Scrubber) Progress() float64 {
	return float64(s.value) / float64(s.frameCount)
}

// FrameAt maps a fraction of the bar width to a frame.
func (s *Scrubber) FrameAt(fraction float64) int {
	return s.clamp(int(math.Round(fraction * float64(s.Max()))))
}

func (s *Scrubber) clamp(i int) int {
	return min(max(i, 0), s.Max())
}

// FormatDuration formats seconds as MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "unknown"
	}
	minutes := int(math.Floor(seconds / 60))
	rest := int(math.Floor(seconds - float64(minutes)*60))
	return fmt.Sprintf("%02d:%02d", minutes, rest)
}
