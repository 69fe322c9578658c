package navigation

import (
	"testing"

	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/player"
)

// fakeController records seeks and mirrors them back as frame events,
// like player.Controller does.
type fakeController struct {
	frame     int
	seeks     []int
	playing   bool
	listeners map[player.ListenerID]player.FrameChangeHandler
	nextID    player.ListenerID
}

func newFakeController() *fakeController {
	return &fakeController{listeners: map[player.ListenerID]player.FrameChangeHandler{}}
}

func (f *fakeController) SeekToFrame(i int) {
	f.seeks = append(f.seeks, i)
	f.emit(i)
}

func (f *fakeController) emit(i int) {
	f.frame = i
	for _, h := range f.listeners {
		h(player.FrameChangeEvent{FrameIndex: i})
	}
}

func (f *fakeController) CurrentFrameIndex() int { return f.frame }
func (f *fakeController) IsPlaying() bool        { return f.playing }
func (f *fakeController) TogglePlay()            { f.playing = !f.playing }

func (f *fakeController) AddFrameChangeListener(h player.FrameChangeHandler) player.ListenerID {
	f.nextID++
	f.listeners[f.nextID] = h
	h(player.FrameChangeEvent{FrameIndex: f.frame})
	return f.nextID
}

func (f *fakeController) RemoveFrameChangeListener(id player.ListenerID) {
	delete(f.listeners, id)
}

var video = dataset.VideoFile{
	DurationSeconds: 2,
	FrameCount:      60,
	Framerate:       30,
	FrameWidth:      640,
	FrameHeight:     480,
}

func TestMirrorNeverSeeks(t *testing.T) {
	c := newFakeController()
	b := NewBar(c, video, nil)
	defer b.Close()

	c.emit(17)
	c.emit(18)
	if b.Scrubber().Value() != 18 {
		t.Fatalf("Value() = %d, want 18", b.Scrubber().Value())
	}
	if len(c.seeks) != 0 {
		t.Fatalf("mirroring issued seeks: %v", c.seeks)
	}
}

func TestSetFromUserSeeksAndClamps(t *testing.T) {
	c := newFakeController()
	s := NewScrubber(video.FrameCount, nil, c.SeekToFrame)
	c.AddFrameChangeListener(s.Mirror)

	s.SetFromUser(25)
	s.SetFromUser(-4)
	s.SetFromUser(1000)
	want := []int{25, 0, 59}
	if len(c.seeks) != len(want) {
		t.Fatalf("seeks = %v, want %v", c.seeks, want)
	}
	for i := range want {
		if c.seeks[i] != want[i] {
			t.Fatalf("seeks = %v, want %v", c.seeks, want)
		}
	}
	if s.Value() != 59 {
		t.Fatalf("Value() = %d, want 59", s.Value())
	}
}

func TestTicksAndProgress(t *testing.T) {
	clips := &dataset.ClipsCollection{Clips: []dataset.Clip{
		{StartFrame: 0, FrameCount: 15},
		{StartFrame: 15, FrameCount: 30},
		{StartFrame: 45, FrameCount: 15},
	}}
	s := NewScrubber(video.FrameCount, clips.BoundaryFrames(), nil)
	ticks := s.Ticks()
	if len(ticks) != 2 || ticks[0] != 25 || ticks[1] != 75 {
		t.Fatalf("Ticks() = %v, want [25 75]", ticks)
	}
	s.Mirror(player.FrameChangeEvent{FrameIndex: 30})
	if s.Progress() != 0.5 {
		t.Fatalf("Progress() = %v, want 0.5", s.Progress())
	}
}

func TestFrameAt(t *testing.T) {
	s := NewScrubber(61, nil, nil)
	tests := []struct {
		frac float64
		want int
	}{{0, 0}, {0.5, 30}, {1, 60}, {1.4, 60}, {-0.2, 0}}
	for _, tt := range tests {
		if got := s.FrameAt(tt.frac); got != tt.want {
			t.Errorf("FrameAt(%v) = %d, want %d", tt.frac, got, tt.want)
		}
	}
}

func TestSubmitJump(t *testing.T) {
	c := newFakeController()
	b := NewBar(c, video, nil)

	for _, r := range "1x2" {
		b.jump.Type(r)
	}
	if !b.SubmitJump() {
		t.Fatal("SubmitJump() = false")
	}
	if c.frame != 11 {
		t.Fatalf("frame = %d, want 11 (one-based input 12)", c.frame)
	}
	if b.jump.Text != "" {
		t.Fatalf("jump field not cleared: %q", b.jump.Text)
	}
	if b.SubmitJump() {
		t.Fatal("empty SubmitJump() = true")
	}

	b.Close()
	c.emit(3)
	if b.Scrubber().Value() != 11 {
		t.Fatal("closed bar still mirrors frames")
	}
}

func TestFocus(t *testing.T) {
	b := NewBar(newFakeController(), video, nil)
	if b.Focus() != player.TargetNone {
		t.Fatal("unfocused bar reports a focus target")
	}
	b.jumpFocused = true
	if !b.Focus().AcceptsText() {
		t.Fatal("focused jump field does not accept text")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"}, {59.9, "00:59"}, {61, "01:01"}, {3725, "62:05"}, {-1, "unknown"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
