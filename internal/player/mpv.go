package player

import (
	"fmt"
	"log"
	"runtime"
	"strconv"
	"sync"

	"github.com/gen2brain/go-mpv"

	"github.com/depeter/signviewer/internal/config"
)

// Handle wraps libmpv as a MediaHandle. mpv owns its own window; the
// controller drives it through properties and commands.
type Handle struct {
	m  *mpv.Mpv
	mu sync.Mutex

	events chan MediaEvent

	duration   float64
	seek       seekState
	osdW, osdH int

	frameCounter bool
	paused       bool
	gate         frameGate
	pip          bool
	pipScale     float64
}

// New creates and initializes an mpv instance configured for frame stepping.
func New(cfg *config.Config) (*Handle, error) {
	m := mpv.New()

	must(m.SetOptionString("hwdec", cfg.Playback.HWDec))
	must(m.SetOptionString("vo", "gpu"))
	must(m.SetOptionString("osc", "no"))
	must(m.SetOptionString("input-default-bindings", "no"))
	must(m.SetOptionString("keep-open", "yes"))
	must(m.SetOptionString("idle", "yes"))
	must(m.SetOptionString("pause", "yes"))
	must(m.SetOptionString("hr-seek", "yes"))
	must(m.SetOptionString("title", "signviewer"))
	must(m.SetOptionString("force-window", "yes"))
	must(m.SetOptionString("geometry", fmt.Sprintf("%dx%d", cfg.UI.PreviewSize, cfg.UI.PreviewSize)))
	must(m.SetOptionString("volume", strconv.Itoa(cfg.Playback.Volume)))

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	h := &Handle{
		m:            m,
		events:       make(chan MediaEvent, 64),
		frameCounter: cfg.Playback.FrameCounter,
		paused:       true,
		gate:         newFrameGate(),
		pipScale:     cfg.Playback.PiPScale,
	}

	m.ObserveProperty(0, "pause", mpv.FormatFlag)
	m.ObserveProperty(0, "eof-reached", mpv.FormatFlag)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "osd-width", mpv.FormatInt64)
	m.ObserveProperty(0, "osd-height", mpv.FormatInt64)

	go h.eventLoop()

	return h, nil
}

func must(err error) {
	if err != nil {
		log.Printf("mpv option warning: %v", err)
	}
}

func (h *Handle) do(fn func(m *mpv.Mpv) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.m)
}

// Events returns the channel of media events. It is closed when mpv shuts down.
func (h *Handle) Events() <-chan MediaEvent { return h.events }

// LoadFile opens a local path or URL. Playback starts paused.
func (h *Handle) LoadFile(url string) error {
	return h.do(func(m *mpv.Mpv) error {
		return m.Command([]string{"loadfile", url})
	})
}

// CurrentTime returns the playback position. While a seek is in flight it
// returns the seek target so callers never see the pre-seek position.
func (h *Handle) CurrentTime() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seek.active {
		return h.seek.target
	}
	v, err := h.m.GetProperty("time-pos", mpv.FormatDouble)
	if err != nil {
		return 0
	}
	t, _ := v.(float64)
	return t
}

// SetCurrentTime seeks to an absolute position with frame precision.
func (h *Handle) SetCurrentTime(seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.seek.start(seconds, func() error {
		return h.m.Command([]string{"seek", strconv.FormatFloat(seconds, 'f', 6, 64), "absolute+exact"})
	})
	if err != nil {
		return err
	}
	h.gate.hold()
	return nil
}

// Duration returns the total duration in seconds.
func (h *Handle) Duration() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration
}

// Play resumes playback.
func (h *Handle) Play() error {
	return h.do(func(m *mpv.Mpv) error { return m.SetPropertyString("pause", "no") })
}

// Pause pauses playback.
func (h *Handle) Pause() error {
	return h.do(func(m *mpv.Mpv) error { return m.SetPropertyString("pause", "yes") })
}

// SetPlaybackRate sets the playback speed multiplier.
func (h *Handle) SetPlaybackRate(rate float64) error {
	return h.do(func(m *mpv.Mpv) error {
		return m.SetPropertyString("speed", strconv.FormatFloat(rate, 'f', 4, 64))
	})
}

// DecodedFrames reports mpv's estimated frame number when the counter is
// enabled in the configuration. It is unavailable while paused and right
// after a seek, see frameGate.
func (h *Handle) DecodedFrames() (int, bool) {
	if !h.frameCounter {
		return 0, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	v, err := h.m.GetProperty("estimated-frame-number", mpv.FormatInt64)
	if err != nil {
		return 0, false
	}
	n, ok := v.(int64)
	if !ok {
		return 0, false
	}
	return h.gate.observe(int(n), h.paused || h.seek.active)
}

// TogglePictureInPicture keeps the video window on top at a reduced scale.
func (h *Handle) TogglePictureInPicture() error {
	return h.do(func(m *mpv.Mpv) error {
		h.pip = !h.pip
		ontop, scale := "no", 1.0
		if h.pip {
			ontop, scale = "yes", h.pipScale
		}
		if err := m.SetPropertyString("ontop", ontop); err != nil {
			return err
		}
		return m.SetPropertyString("window-scale", strconv.FormatFloat(scale, 'f', 2, 64))
	})
}

// OSDSize returns the size of mpv's OSD canvas in pixels.
func (h *Handle) OSDSize() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.osdW, h.osdH
}

// SetVideoPlacement applies mpv's zoom and pan transform.
func (h *Handle) SetVideoPlacement(zoom, panX, panY float64) error {
	return h.do(func(m *mpv.Mpv) error {
		for _, p := range []struct {
			name string
			v    float64
		}{{"video-zoom", zoom}, {"video-pan-x", panX}, {"video-pan-y", panY}} {
			if err := m.SetPropertyString(p.name, strconv.FormatFloat(p.v, 'f', 6, 64)); err != nil {
				return fmt.Errorf("set %s: %w", p.name, err)
			}
		}
		return nil
	})
}

// SetOSDOverlay replaces the ASS overlay with the given id. An empty text
// removes it.
func (h *Handle) SetOSDOverlay(id int, text string, resX, resY int) error {
	return h.do(func(m *mpv.Mpv) error {
		if text == "" {
			return osdOverlayRemove(m, id)
		}
		return osdOverlaySet(m, id, text, resX, resY)
	})
}

// Destroy cleans up the mpv instance.
func (h *Handle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m.TerminateDestroy()
}

func (h *Handle) emit(kind MediaEventKind) {
	select {
	case h.events <- MediaEvent{Kind: kind}:
	default:
		log.Printf("mpv: event queue full, dropping %s", kind)
	}
}

func (h *Handle) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.events)
	for {
		ev := h.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventFileLoaded:
			h.emit(EventReady)

		case mpv.EventPlaybackRestart:
			h.mu.Lock()
			wasSeeking := h.seek.done()
			h.mu.Unlock()
			if wasSeeking {
				h.emit(EventSeeked)
			}

		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			switch prop.Name {
			case "pause":
				if v, ok := prop.Data.(int); ok {
					h.mu.Lock()
					h.paused = v == 1
					h.mu.Unlock()
					if v == 1 {
						h.emit(EventPause)
					} else {
						h.emit(EventPlay)
					}
				}
			case "eof-reached":
				if v, ok := prop.Data.(int); ok && v == 1 {
					h.emit(EventEnded)
				}
			case "duration":
				if v, ok := prop.Data.(float64); ok {
					h.mu.Lock()
					h.duration = v
					h.mu.Unlock()
				}
			case "osd-width", "osd-height":
				if v, ok := prop.Data.(int64); ok {
					h.mu.Lock()
					if prop.Name == "osd-width" {
						h.osdW = int(v)
					} else {
						h.osdH = int(v)
					}
					h.mu.Unlock()
				}
			}

		case mpv.EventEnd:
			if ev.Data != nil {
				log.Printf("mpv end-file: reason=%s", ev.EndFile().Reason)
			}

		case mpv.EventShutdown:
			return
		}
	}
}
