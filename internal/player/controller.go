package player

import (
	"log"
	"slices"

	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/frameclock"
)

// maxRedispatch bounds how many queued seeks one dispatch round will flush.
const maxRedispatch = 8

// FrameChangeEvent tells listeners which frame is showing now.
type FrameChangeEvent struct {
	FrameIndex int
}

// FrameChangeHandler receives frame changes on the UI goroutine.
type FrameChangeHandler func(FrameChangeEvent)

// ListenerID identifies a registered FrameChangeHandler.
type ListenerID int

type listener struct {
	id ListenerID
	h  FrameChangeHandler
}

// Overlays holds the four overlay visibility flags.
type Overlays struct {
	Pose      bool
	Face      bool
	LeftHand  bool
	RightHand bool
}

// Controller owns the media handle, the playback state and the frame clock,
// and fans frame changes out to its listeners synchronously.
//
// A Controller is not safe for concurrent use. All methods run on the UI
// goroutine; the handle's own goroutines only deliver events through the host.
type Controller struct {
	video  dataset.VideoFile
	handle MediaHandle
	clock  *frameclock.Clock

	currentFrame int
	listeners    []listener
	nextID       ListenerID

	dispatching bool
	pending     int
	hasPending  bool

	playing  bool
	looping  bool
	slowdown int
	overlays Overlays

	// OnStateChange is called after playing, looping, slowdown or overlay
	// flags change. It is never called for frame changes.
	OnStateChange func()
}

// NewController creates an inert controller for the given video. It does
// nothing until a handle is attached.
func NewController(video dataset.VideoFile) *Controller {
	return &Controller{
		video:    video,
		slowdown: 1,
		overlays: Overlays{Pose: true, Face: true, LeftHand: true, RightHand: true},
	}
}

// Attach binds the media handle and starts the frame clock. A previously
// attached handle is detached first.
func (c *Controller) Attach(h MediaHandle) {
	if c.handle != nil {
		c.Detach()
	}
	if h == nil {
		return
	}
	c.handle = h
	if err := h.SetPlaybackRate(1 / float64(c.slowdown)); err != nil {
		log.Printf("player: set playback rate: %v", err)
	}
	c.clock = frameclock.New(c.video.Framerate, c.video.FrameCount, c.onClockFrame)
	c.clock.Start()
}

// Detach stops the clock and releases the handle. The controller becomes inert.
func (c *Controller) Detach() {
	if c.clock != nil {
		c.clock.Stop()
		c.clock = nil
	}
	c.handle = nil
	c.setPlaying(false)
}

// Attached reports whether a media handle is bound.
func (c *Controller) Attached() bool { return c.handle != nil }

// Close stops the clock, drops every listener and detaches the handle.
func (c *Controller) Close() {
	c.Detach()
	c.listeners = nil
	c.hasPending = false
	c.OnStateChange = nil
}

// Tick runs the frame clock once. The host calls it on every display refresh.
func (c *Controller) Tick() {
	if c.clock == nil || c.handle == nil {
		return
	}
	c.clock.Tick(c.handle)
}

// HandleMediaEvent reacts to an event reported by the media handle.
func (c *Controller) HandleMediaEvent(ev MediaEvent) {
	if c.handle == nil {
		return
	}
	switch ev.Kind {
	case EventReady:
		c.clock.OnReady(c.handle)
	case EventSeeked:
		c.clock.OnSeeked(c.handle)
	case EventPlay:
		c.setPlaying(true)
	case EventPause:
		c.setPlaying(false)
	case EventEnded:
		if c.looping {
			c.SeekToFrame(0)
			c.Play()
			return
		}
		c.setPlaying(false)
	}
}

// VideoFile returns the metadata of the controlled video.
func (c *Controller) VideoFile() dataset.VideoFile { return c.video }

// CurrentFrameIndex returns the frame the controller last dispatched. It is
// updated before listeners run, so it never lags behind a seek.
func (c *Controller) CurrentFrameIndex() int { return c.currentFrame }

// SeekToFrame moves playback to frame i, clamped into the video, and notifies
// listeners right away without waiting for the media handle.
func (c *Controller) SeekToFrame(i int) {
	if c.handle == nil {
		return
	}
	i = c.video.ClampFrame(i)
	t := float64(i) / float64(c.video.FrameCount) * c.video.DurationSeconds
	if err := c.handle.SetCurrentTime(t); err != nil {
		log.Printf("player: seek to frame %d: %v", i, err)
	}
	c.dispatch(i)
}

// Play starts playback.
func (c *Controller) Play() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Play(); err != nil {
		log.Printf("player: play: %v", err)
	}
	c.setPlaying(true)
}

// Pause pauses playback.
func (c *Controller) Pause() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Pause(); err != nil {
		log.Printf("player: pause: %v", err)
	}
	c.setPlaying(false)
}

// TogglePlay plays when paused and pauses when playing.
func (c *Controller) TogglePlay() {
	if c.playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// IsPlaying reports the playback state.
func (c *Controller) IsPlaying() bool { return c.playing }

// IsLooping reports whether playback restarts at the end.
func (c *Controller) IsLooping() bool { return c.looping }

// SetIsLooping sets the loop flag.
func (c *Controller) SetIsLooping(loop bool) {
	if c.looping == loop {
		return
	}
	c.looping = loop
	c.stateChanged()
}

// PlaybackSlowdown returns 1, 2 or 4.
func (c *Controller) PlaybackSlowdown() int { return c.slowdown }

// SetPlaybackSlowdown slows playback down by n, which must be 1, 2 or 4.
func (c *Controller) SetPlaybackSlowdown(n int) {
	switch n {
	case 1, 2, 4:
	default:
		log.Printf("player: unsupported slowdown %d", n)
		return
	}
	if c.slowdown == n {
		return
	}
	c.slowdown = n
	if c.handle != nil {
		if err := c.handle.SetPlaybackRate(1 / float64(n)); err != nil {
			log.Printf("player: set playback rate: %v", err)
		}
	}
	c.stateChanged()
}

// Overlays returns the overlay visibility flags.
func (c *Controller) Overlays() Overlays { return c.overlays }

func (c *Controller) SetOverlayPose(v bool)      { c.setOverlays(func(o *Overlays) { o.Pose = v }) }
func (c *Controller) SetOverlayFace(v bool)      { c.setOverlays(func(o *Overlays) { o.Face = v }) }
func (c *Controller) SetOverlayLeftHand(v bool)  { c.setOverlays(func(o *Overlays) { o.LeftHand = v }) }
func (c *Controller) SetOverlayRightHand(v bool) { c.setOverlays(func(o *Overlays) { o.RightHand = v }) }

func (c *Controller) setOverlays(fn func(*Overlays)) {
	next := c.overlays
	fn(&next)
	if next == c.overlays {
		return
	}
	c.overlays = next
	c.stateChanged()
}

// TogglePictureInPicture asks the handle to toggle picture-in-picture.
// Handles without the capability ignore it.
func (c *Controller) TogglePictureInPicture() {
	pip, ok := c.handle.(PictureInPicture)
	if !ok {
		return
	}
	if err := pip.TogglePictureInPicture(); err != nil {
		log.Printf("player: picture-in-picture: %v", err)
	}
}

// AddFrameChangeListener registers h and immediately calls it with the
// current frame.
func (c *Controller) AddFrameChangeListener(h FrameChangeHandler) ListenerID {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, h: h})
	h(FrameChangeEvent{FrameIndex: c.currentFrame})
	return id
}

// RemoveFrameChangeListener unregisters a listener. Removing an unknown id is a no-op.
func (c *Controller) RemoveFrameChangeListener(id ListenerID) {
	c.listeners = slices.DeleteFunc(c.listeners, func(l listener) bool { return l.id == id })
}

func (c *Controller) registered(id ListenerID) bool {
	return slices.ContainsFunc(c.listeners, func(l listener) bool { return l.id == id })
}

// onClockFrame receives frames from the clock. The clock does not know about
// eager seek dispatches, so frames equal to the current one are dropped.
func (c *Controller) onClockFrame(i int) {
	if c.video.ClampFrame(i) == c.currentFrame {
		return
	}
	c.dispatch(i)
}

// dispatch records frame i and notifies every listener. A dispatch started
// from inside a listener is queued and flushed after the current round.
func (c *Controller) dispatch(i int) {
	c.currentFrame = c.video.ClampFrame(i)
	if c.dispatching {
		c.pending = c.currentFrame
		c.hasPending = true
		return
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()

	frame := c.currentFrame
	for round := 0; ; round++ {
		// Listeners added during the round were already replayed the
		// current frame; listeners removed during the round are skipped.
		for _, l := range slices.Clone(c.listeners) {
			if !c.registered(l.id) {
				continue
			}
			l.h(FrameChangeEvent{FrameIndex: frame})
		}
		if !c.hasPending {
			return
		}
		c.hasPending = false
		frame = c.pending
		if round+1 >= maxRedispatch {
			log.Printf("player: dropped queued frame %d after %d nested seeks", frame, maxRedispatch)
			return
		}
	}
}

func (c *Controller) setPlaying(v bool) {
	if c.playing == v {
		return
	}
	c.playing = v
	c.stateChanged()
}

func (c *Controller) stateChanged() {
	if c.OnStateChange != nil {
		c.OnStateChange()
	}
}
