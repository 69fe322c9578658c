// Package frameclock turns a continuous playback time into a stable frame index.
//
// The media handle only reports fractional elapsed time, and that time jitters
// around frame boundaries. When the platform also exposes a decoded-frame
// counter the clock only accepts a boundary crossing inside a narrow window
// around the expected time; without a counter it rounds.
package frameclock

import "math"

// Tolerances around the expected time of the next frame, in frames.
const (
	lowerTolerance = 0.95
	upperTolerance = 0.25
)

// TimeSource reports the current media time in seconds.
type TimeSource interface {
	CurrentTime() float64
}

// FrameCounter is implemented by media handles that can report how many
// frames have been decoded or painted so far. ok is false when the counter is
// unavailable at the moment.
type FrameCounter interface {
	DecodedFrames() (count int, ok bool)
}

// Clock tracks the current frame of a playing video. It is not safe for
// concurrent use; every method must be called from the UI goroutine.
type Clock struct {
	frame      float64 // duration of one frame in seconds
	frameCount int
	onFrame    func(int)

	drift    float64
	hasDrift bool

	currentFrame  int
	nextFrame     int
	nextFrameTime float64
	lastDecoded   int

	lastReported int
	running      bool
}

// New creates a clock for a video with the given framerate and frame count.
// onFrame is called whenever the tracked frame changes.
func New(framerate float64, frameCount int, onFrame func(int)) *Clock {
	c := &Clock{
		frame:      1 / framerate,
		frameCount: frameCount,
		onFrame:    onFrame,
	}
	c.setFrame(0)
	return c
}

// Current returns the frame the clock currently considers showing.
func (c *Clock) Current() int { return c.clamp(c.currentFrame) }

// Drift returns the captured time origin and whether it has been set yet.
func (c *Clock) Drift() (float64, bool) { return c.drift, c.hasDrift }

// Running reports whether ticks are armed.
func (c *Clock) Running() bool { return c.running }

// Start fires the initial frame event and arms ticking.
func (c *Clock) Start() {
	c.lastReported = c.Current()
	c.running = true
	c.emit(c.lastReported)
}

// Stop disarms ticking. Ticks after Stop do nothing until Start is called again.
func (c *Clock) Stop() { c.running = false }

// OnReady handles the media handle becoming ready to play. The first call
// captures the time origin; later calls are ignored.
func (c *Clock) OnReady(src TimeSource) {
	if c.hasDrift {
		return
	}
	c.drift = src.CurrentTime()
	c.hasDrift = true
}

// OnSeeked resynchronizes the clock after a completed seek.
func (c *Clock) OnSeeked(src TimeSource) {
	t := src.CurrentTime() - c.drift
	c.setFrame(int(math.Floor(t / c.frame)))
	if fc, ok := src.(FrameCounter); ok {
		if n, ok := fc.DecodedFrames(); ok {
			c.lastDecoded = n
		}
	}
}

// Tick runs one correction step. It is called once per display refresh.
func (c *Clock) Tick(src TimeSource) {
	if !c.running {
		return
	}

	t := src.CurrentTime() - c.drift
	rounded := roundHalfUp(t / c.frame)

	counted := false
	if fc, ok := src.(FrameCounter); ok {
		var n int
		if n, counted = fc.DecodedFrames(); counted {
			delta := n - c.lastDecoded
			inWindow := t >= c.nextFrameTime-c.frame*lowerTolerance &&
				t <= c.nextFrameTime+c.frame*upperTolerance
			switch {
			case inWindow && delta > 0:
				c.currentFrame = c.nextFrame
				c.nextFrame++
				c.nextFrameTime = float64(c.nextFrame) * c.frame
			case t >= c.nextFrameTime && c.currentFrame < c.nextFrame:
				c.setFrame(rounded)
			}
			c.lastDecoded = n
		}
	}
	if !counted {
		c.currentFrame = rounded
	}

	c.currentFrame = c.clamp(c.currentFrame)
	if c.currentFrame != c.lastReported {
		c.lastReported = c.currentFrame
		c.emit(c.currentFrame)
	}
}

func (c *Clock) setFrame(i int) {
	c.currentFrame = i
	c.nextFrame = i + 1
	c.nextFrameTime = float64(c.nextFrame) * c.frame
}

func (c *Clock) clamp(i int) int {
	if i >= c.frameCount {
		i = c.frameCount - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (c *Clock) emit(i int) {
	if c.onFrame != nil {
		c.onFrame(i)
	}
}

// roundHalfUp rounds half-way values towards positive infinity, unlike
// math.Round which rounds them away from zero.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
