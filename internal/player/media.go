package player

import "github.com/depeter/signviewer/internal/frameclock"

// MediaEventKind identifies a media handle event.
type MediaEventKind int

const (
	EventReady MediaEventKind = iota
	EventSeeked
	EventPlay
	EventPause
	EventEnded
)

func (k MediaEventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventSeeked:
		return "seeked"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	}
	return "unknown"
}

// MediaEvent is delivered by the host to Controller.HandleMediaEvent on the UI goroutine.
type MediaEvent struct {
	Kind MediaEventKind
}

// MediaHandle is the playback element the controller drives.
type MediaHandle interface {
	// CurrentTime returns the media time in seconds.
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64
	Play() error
	Pause() error
	SetPlaybackRate(rate float64) error
}

// FrameCounter is an optional MediaHandle capability, see frameclock.FrameCounter.
type FrameCounter = frameclock.FrameCounter

// PictureInPicture is an optional MediaHandle capability.
type PictureInPicture interface {
	TogglePictureInPicture() error
}
