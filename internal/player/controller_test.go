package player

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/dataset"
)

var testVideo = dataset.VideoFile{
	DurationSeconds: 2,
	FrameCount:      60,
	Framerate:       30,
	FrameWidth:      400,
	FrameHeight:     400,
}

type fakeHandle struct {
	t        float64
	playing  bool
	rate     float64
	seeks    []float64
	pips     int
	failPlay bool
}

func (f *fakeHandle) CurrentTime() float64 { return f.t }
func (f *fakeHandle) SetCurrentTime(s float64) error {
	f.t = s
	f.seeks = append(f.seeks, s)
	return nil
}
func (f *fakeHandle) Duration() float64 { return 2 }
func (f *fakeHandle) Play() error {
	if f.failPlay {
		return errors.New("boom")
	}
	f.playing = true
	return nil
}

func (f *fakeHandle) Pause() error                  { f.playing = false; return nil }
func (f *fakeHandle) SetPlaybackRate(r float64) error { f.rate = r; return nil }

type pipHandle struct{ fakeHandle }

func (p *pipHandle) TogglePictureInPicture() error { p.pips++; return nil }

func attached(t *testing.T) (*Controller, *fakeHandle) {
	t.Helper()
	c := NewController(testVideo)
	h := &fakeHandle{}
	c.Attach(h)
	return c, h
}

func record(c *Controller) (*[]int, ListenerID) {
	var got []int
	id := c.AddFrameChangeListener(func(ev FrameChangeEvent) { got = append(got, ev.FrameIndex) })
	return &got, id
}

func TestSeekToFrameIsImmediate(t *testing.T) {
	c, h := attached(t)
	for i := 0; i < testVideo.FrameCount; i++ {
		c.SeekToFrame(i)
		if got := c.CurrentFrameIndex(); got != i {
			t.Fatalf("SeekToFrame(%d): CurrentFrameIndex() = %d", i, got)
		}
	}
	if want := 59.0 / 60 * 2; h.t != want {
		t.Errorf("media time = %v, want %v", h.t, want)
	}
}

func TestSeekToFrameClamps(t *testing.T) {
	c, h := attached(t)
	tests := []struct{ in, want int }{
		{-5, 0},
		{testVideo.FrameCount + 10, testVideo.FrameCount - 1},
	}
	for _, tt := range tests {
		c.SeekToFrame(tt.in)
		if got := c.CurrentFrameIndex(); got != tt.want {
			t.Errorf("SeekToFrame(%d) -> %d, want %d", tt.in, got, tt.want)
		}
	}
	if len(h.seeks) != 2 || h.seeks[0] != 0 {
		t.Errorf("seeks = %v", h.seeks)
	}
}

func TestUnattachedIsInert(t *testing.T) {
	c := NewController(testVideo)
	got, _ := record(c)
	c.SeekToFrame(10)
	c.Play()
	c.Tick()
	c.HandleMediaEvent(MediaEvent{Kind: EventEnded})
	c.TogglePictureInPicture()
	if c.IsPlaying() || c.CurrentFrameIndex() != 0 {
		t.Fatalf("inert controller changed state: playing=%v frame=%d", c.IsPlaying(), c.CurrentFrameIndex())
	}
	if len(*got) != 1 {
		t.Fatalf("events = %v, want only the replay", *got)
	}
}

func TestReplayOnSubscribe(t *testing.T) {
	c, h := attached(t)
	for _, ts := range []float64{0.1, 0.2, 0.3} {
		h.t = ts
		c.Tick()
	}
	if c.CurrentFrameIndex() != 9 {
		t.Fatalf("frame after ticks = %d, want 9", c.CurrentFrameIndex())
	}

	got, _ := record(c)
	if len(*got) != 1 || (*got)[0] != 9 {
		t.Fatalf("replay = %v, want [9]", *got)
	}

	h.t = 0.3
	c.Tick()
	h.t = 0.4
	c.Tick()
	c.Tick()
	h.t = 0.5
	c.Tick()
	want := []int{9, 12, 15}
	if len(*got) != len(want) {
		t.Fatalf("events = %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Fatalf("events = %v, want %v", *got, want)
		}
	}
}

func TestClockDoesNotRepeatSeekFrame(t *testing.T) {
	c, _ := attached(t)
	got, _ := record(c)
	c.SeekToFrame(30)
	c.Tick()
	c.HandleMediaEvent(MediaEvent{Kind: EventSeeked})
	c.Tick()
	if len(*got) != 2 || (*got)[1] != 30 {
		t.Fatalf("events = %v, want [0 30]", *got)
	}
}

// counterHandle reports an estimated frame number derived from the current
// time, the way mpv does, filtered through the same gate as Handle.
type counterHandle struct {
	fakeHandle
	fps  float64
	gate frameGate
}

func (h *counterHandle) SetCurrentTime(s float64) error {
	h.gate.hold()
	return h.fakeHandle.SetCurrentTime(s)
}

func (h *counterHandle) DecodedFrames() (int, bool) {
	return h.gate.observe(int(math.Round(h.t*h.fps)), !h.playing)
}

func TestPausedFrameStepsNeverBounceBack(t *testing.T) {
	video := dataset.VideoFile{DurationSeconds: 10, FrameCount: 250, Framerate: 25, FrameWidth: 400, FrameHeight: 400}
	c := NewController(video)
	h := &counterHandle{fps: 25, gate: newFrameGate()}
	c.Attach(h)
	got, _ := record(c)

	for i := 1; i < video.FrameCount; i++ {
		HandleAction(c, ActionNextFrame)
		c.HandleMediaEvent(MediaEvent{Kind: EventSeeked})
		c.Tick()
		if c.CurrentFrameIndex() != i {
			t.Fatalf("step to %d then seeked+tick -> frame %d", i, c.CurrentFrameIndex())
		}
	}
	for j := 1; j < len(*got); j++ {
		if (*got)[j] <= (*got)[j-1] {
			t.Fatalf("frame events went backwards at %d: %v", j, (*got)[j-1:j+1])
		}
	}
}

func TestFrameGate(t *testing.T) {
	g := newFrameGate()
	steps := []struct {
		n      int
		paused bool
		ok     bool
	}{
		{10, true, false},  // paused
		{10, false, false}, // first value after unpause is the base
		{10, false, false}, // not moved yet
		{11, false, true},
		{12, false, true},
	}
	for i, s := range steps {
		if _, ok := g.observe(s.n, s.paused); ok != s.ok {
			t.Fatalf("step %d: ok = %v, want %v", i, ok, s.ok)
		}
	}
	g.hold()
	if _, ok := g.observe(40, false); ok {
		t.Fatal("counter trusted right after a seek")
	}
	if n, ok := g.observe(41, false); !ok || n != 41 {
		t.Fatalf("observe(41) = %d, %v", n, ok)
	}
}

func TestFailedSeekKeepsPosition(t *testing.T) {
	var s seekState
	if err := s.start(4.2, func() error { return errors.New("seek rejected") }); err == nil {
		t.Fatal("start() swallowed the command error")
	}
	if s.active {
		t.Fatal("failed seek left a seek in flight")
	}

	if err := s.start(1.5, func() error { return nil }); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.active || s.target != 1.5 {
		t.Fatalf("state = %+v, want active at 1.5", s)
	}
	if !s.done() || s.done() {
		t.Fatal("done() should report the seek exactly once")
	}
}

func TestLoopingRestartsAtEnd(t *testing.T) {
	c, h := attached(t)
	got, _ := record(c)
	c.SetIsLooping(true)
	c.Play()

	h.t = 2.5
	c.Tick()
	if c.CurrentFrameIndex() != 59 {
		t.Fatalf("frame = %d, want 59", c.CurrentFrameIndex())
	}
	c.HandleMediaEvent(MediaEvent{Kind: EventEnded})

	if !c.IsPlaying() || !h.playing {
		t.Fatalf("playing = %v/%v after looped end, want true", c.IsPlaying(), h.playing)
	}
	if c.CurrentFrameIndex() != 0 || h.t != 0 {
		t.Fatalf("frame = %d time = %v, want 0", c.CurrentFrameIndex(), h.t)
	}
	if last := (*got)[len(*got)-1]; last != 0 {
		t.Fatalf("last event = %d, want 0", last)
	}
}

func TestEndedWithoutLoopPauses(t *testing.T) {
	c, _ := attached(t)
	c.Play()
	c.HandleMediaEvent(MediaEvent{Kind: EventEnded})
	if c.IsPlaying() {
		t.Fatal("still playing after end without loop")
	}
}

func TestMediaPlayPauseEvents(t *testing.T) {
	c, _ := attached(t)
	changes := 0
	c.OnStateChange = func() { changes++ }
	c.HandleMediaEvent(MediaEvent{Kind: EventPlay})
	c.HandleMediaEvent(MediaEvent{Kind: EventPlay})
	c.HandleMediaEvent(MediaEvent{Kind: EventPause})
	if c.IsPlaying() {
		t.Fatal("playing after pause event")
	}
	if changes != 2 {
		t.Fatalf("state changes = %d, want 2", changes)
	}
}

func TestPlayErrorStillTogglesState(t *testing.T) {
	c, h := attached(t)
	h.failPlay = true
	c.Play()
	if !c.IsPlaying() {
		t.Fatal("IsPlaying() = false after Play")
	}
}

func TestSlowdown(t *testing.T) {
	c, h := attached(t)
	tests := []struct {
		n    int
		want float64
	}{{2, 0.5}, {4, 0.25}, {3, 0.25}, {1, 1}}
	for _, tt := range tests {
		c.SetPlaybackSlowdown(tt.n)
		if h.rate != tt.want {
			t.Errorf("SetPlaybackSlowdown(%d): rate = %v, want %v", tt.n, h.rate, tt.want)
		}
	}
}

func TestSlowdownAppliedOnAttach(t *testing.T) {
	c := NewController(testVideo)
	c.SetPlaybackSlowdown(4)
	h := &fakeHandle{}
	c.Attach(h)
	if h.rate != 0.25 {
		t.Fatalf("rate = %v, want 0.25", h.rate)
	}
}

func TestOverlayFlags(t *testing.T) {
	c := NewController(testVideo)
	if o := c.Overlays(); !o.Pose || !o.Face || !o.LeftHand || !o.RightHand {
		t.Fatalf("initial overlays = %+v, want all true", o)
	}
	changes := 0
	c.OnStateChange = func() { changes++ }
	c.SetOverlayFace(false)
	c.SetOverlayFace(false)
	c.SetOverlayRightHand(false)
	if o := c.Overlays(); o.Face || o.RightHand || !o.Pose || !o.LeftHand {
		t.Fatalf("overlays = %+v", o)
	}
	if changes != 2 {
		t.Fatalf("state changes = %d, want 2", changes)
	}
}

func TestRemoveDuringDispatch(t *testing.T) {
	c, _ := attached(t)
	var second ListenerID
	var calls []string
	c.AddFrameChangeListener(func(ev FrameChangeEvent) {
		calls = append(calls, "a")
		if ev.FrameIndex == 5 {
			c.RemoveFrameChangeListener(second)
		}
	})
	second = c.AddFrameChangeListener(func(FrameChangeEvent) { calls = append(calls, "b") })
	calls = nil

	c.SeekToFrame(5)
	if len(calls) != 1 || calls[0] != "a" {
		t.Fatalf("calls = %v, want [a]", calls)
	}
}

func TestAddDuringDispatch(t *testing.T) {
	c, _ := attached(t)
	var late []int
	added := false
	c.AddFrameChangeListener(func(ev FrameChangeEvent) {
		if ev.FrameIndex == 5 && !added {
			added = true
			c.AddFrameChangeListener(func(ev FrameChangeEvent) { late = append(late, ev.FrameIndex) })
		}
	})
	c.SeekToFrame(5)
	c.SeekToFrame(6)
	if len(late) != 2 || late[0] != 5 || late[1] != 6 {
		t.Fatalf("late listener saw %v, want [5 6]", late)
	}
}

func TestReentrantSeekIsQueued(t *testing.T) {
	c, _ := attached(t)
	var a, b []int
	c.AddFrameChangeListener(func(ev FrameChangeEvent) {
		a = append(a, ev.FrameIndex)
		if ev.FrameIndex == 10 {
			c.SeekToFrame(20)
		}
	})
	c.AddFrameChangeListener(func(ev FrameChangeEvent) { b = append(b, ev.FrameIndex) })

	c.SeekToFrame(10)
	if c.CurrentFrameIndex() != 20 {
		t.Fatalf("frame = %d, want 20", c.CurrentFrameIndex())
	}
	want := []int{0, 10, 20}
	for _, got := range [][]int{a, b} {
		if len(got) != len(want) {
			t.Fatalf("events = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("events = %v, want %v", got, want)
			}
		}
	}
}

func TestRunawayReentrancyIsBounded(t *testing.T) {
	c, _ := attached(t)
	calls := 0
	c.AddFrameChangeListener(func(ev FrameChangeEvent) {
		calls++
		c.SeekToFrame(ev.FrameIndex + 1)
	})
	calls = 0
	c.SeekToFrame(1)
	if calls != maxRedispatch {
		t.Fatalf("calls = %d, want %d", calls, maxRedispatch)
	}
}

func TestCloseStopsEverything(t *testing.T) {
	c, h := attached(t)
	got, _ := record(c)
	c.Close()
	h.t = 1
	c.Tick()
	c.SeekToFrame(3)
	if len(*got) != 1 {
		t.Fatalf("events after close = %v", *got)
	}
	if c.Attached() {
		t.Fatal("still attached after Close")
	}
}

func TestAttachSwapRestartsClock(t *testing.T) {
	c, h1 := attached(t)
	h1.t = 1
	c.Tick()
	h2 := &fakeHandle{}
	c.Attach(h2)
	if c.CurrentFrameIndex() != 0 {
		t.Fatalf("frame after swap = %d, want 0", c.CurrentFrameIndex())
	}
	h1.t = 1.5
	h2.t = 0.5
	c.Tick()
	if c.CurrentFrameIndex() != 15 {
		t.Fatalf("frame = %d, want 15 from the new handle", c.CurrentFrameIndex())
	}
}

func TestPictureInPicture(t *testing.T) {
	c := NewController(testVideo)
	h := &pipHandle{}
	c.Attach(h)
	c.TogglePictureInPicture()
	if h.pips != 1 {
		t.Fatalf("pips = %d, want 1", h.pips)
	}

	plain, _ := attached(t)
	plain.TogglePictureInPicture()
}

func TestShortcutDispatcher(t *testing.T) {
	c, h := attached(t)
	d := NewShortcutDispatcher(c, nil)

	if d.HandleKey(KeyEvent{Key: ebiten.KeySpace}) {
		t.Fatal("unmounted dispatcher handled a key")
	}
	d.Mount()

	c.SeekToFrame(10)
	tests := []struct {
		name  string
		ev    KeyEvent
		frame int
	}{
		{"right", KeyEvent{Key: ebiten.KeyArrowRight}, 11},
		{"left", KeyEvent{Key: ebiten.KeyArrowLeft}, 10},
		{"text input focus", KeyEvent{Key: ebiten.KeyArrowRight, Target: TargetTextInput}, 10},
		{"text area focus", KeyEvent{Key: ebiten.KeyArrowRight, Target: TargetTextArea}, 10},
		{"modifier held", KeyEvent{Key: ebiten.KeyArrowRight, Modifiers: ModCtrl}, 10},
		{"button focus", KeyEvent{Key: ebiten.KeyArrowRight, Target: TargetButton}, 11},
		{"unbound", KeyEvent{Key: ebiten.KeyZ}, 11},
	}
	for _, tt := range tests {
		d.HandleKey(tt.ev)
		if got := c.CurrentFrameIndex(); got != tt.frame {
			t.Errorf("%s: frame = %d, want %d", tt.name, got, tt.frame)
		}
	}

	d.HandleKey(KeyEvent{Key: ebiten.KeySpace})
	if !c.IsPlaying() {
		t.Error("space did not start playback")
	}
	d.HandleKey(KeyEvent{Key: ebiten.KeySpace})
	if c.IsPlaying() {
		t.Error("space did not pause playback")
	}
	d.HandleKey(KeyEvent{Key: ebiten.KeyL})
	if !c.IsLooping() {
		t.Error("L did not toggle looping")
	}
	d.HandleKey(KeyEvent{Key: ebiten.KeyE})
	if h.rate != 0.25 {
		t.Errorf("E: rate = %v, want 0.25", h.rate)
	}
	d.HandleKey(KeyEvent{Key: ebiten.KeyW})
	if h.rate != 0.5 {
		t.Errorf("W: rate = %v, want 0.5", h.rate)
	}
	d.HandleKey(KeyEvent{Key: ebiten.KeyQ})
	if h.rate != 1 {
		t.Errorf("Q: rate = %v, want 1", h.rate)
	}
	if !d.HandleKey(KeyEvent{Key: ebiten.KeyP}) {
		t.Error("P was not handled")
	}

	d.Unmount()
	d.HandleKey(KeyEvent{Key: ebiten.KeyArrowRight})
	if c.CurrentFrameIndex() != 11 {
		t.Error("unmounted dispatcher moved the frame")
	}
}
