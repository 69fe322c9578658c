package app

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/config"
	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/overlay"
	"github.com/depeter/signviewer/internal/player"
)

func TestBuildBindingsDefaults(t *testing.T) {
	b := buildBindings(config.DefaultConfig().Keybinds)
	want := player.DefaultBindings()
	if len(b) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(b), len(want))
	}
	for k, a := range want {
		if b[k] != a {
			t.Errorf("key %v = %v, want %v", k, b[k], a)
		}
	}
}

func TestBuildBindingsCustom(t *testing.T) {
	kb := config.DefaultConfig().Keybinds
	kb.NextFrame = "period"
	kb.PrevFrame = "Comma"
	kb.ToggleLoop = "bogus"
	kb.PictureInPicture = ""
	kb.SpeedHalf = "space" // already play/pause

	b := buildBindings(kb)
	if b[ebiten.KeyPeriod] != player.ActionNextFrame || b[ebiten.KeyComma] != player.ActionPrevFrame {
		t.Errorf("custom frame keys not bound: %v", b)
	}
	if b[ebiten.KeySpace] != player.ActionPlayPause {
		t.Errorf("space = %v, want play/pause", b[ebiten.KeySpace])
	}
	for _, a := range b {
		if a == player.ActionToggleLoop || a == player.ActionPictureInPicture || a == player.ActionSpeedHalf {
			t.Errorf("action %v should be unbound", a)
		}
	}
}

func str(s string) *string { return &s }

func TestTranslationPanelRelayoutOnlyOnClipChange(t *testing.T) {
	clips := &dataset.ClipsCollection{Clips: []dataset.Clip{
		{StartFrame: 0, FrameCount: 10, TranslationResult: str("hello world")},
		{StartFrame: 10, FrameCount: 10},
	}}
	if err := clips.RecomputeLookup(); err != nil {
		t.Fatal(err)
	}
	p := newTranslationPanel(clips, 300)
	wraps := 0
	p.wrap = func(txt string, _, _ float64) []string {
		wraps++
		return strings.Fields(txt)
	}

	for _, f := range []int{0, 1, 5, 9} {
		p.onFrame(player.FrameChangeEvent{FrameIndex: f})
	}
	if wraps != 1 {
		t.Errorf("wrapped %d times within one clip, want 1", wraps)
	}
	if p.header != "Clip 1 of 2" || len(p.lines) != 2 || p.pending {
		t.Errorf("panel = %q %q pending=%v", p.header, p.lines, p.pending)
	}

	p.onFrame(player.FrameChangeEvent{FrameIndex: 12})
	if wraps != 2 {
		t.Errorf("wrapped %d times after clip change, want 2", wraps)
	}
	if p.header != "Clip 2 of 2" || !p.pending {
		t.Errorf("panel = %q pending=%v", p.header, p.pending)
	}
}

func TestTranslationPanelNoClips(t *testing.T) {
	p := newTranslationPanel(nil, 300)
	p.wrap = func(string, float64, float64) []string {
		t.Fatal("wrap called without clips")
		return nil
	}
	p.onFrame(player.FrameChangeEvent{FrameIndex: 3})
	if p.header != "No clips" {
		t.Errorf("header = %q", p.header)
	}
}

type fakeSink struct {
	w, h       int
	texts      []string
	placements int
}

func (f *fakeSink) OSDSize() (int, int) { return f.w, f.h }

func (f *fakeSink) SetOSDOverlay(id int, text string, resX, resY int) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSink) SetVideoPlacement(zoom, panX, panY float64) error {
	f.placements++
	return nil
}

func TestOverlaySync(t *testing.T) {
	ds := &dataset.Dataset{
		Video: dataset.VideoFile{DurationSeconds: 1, FrameCount: 30, Framerate: 30, FrameWidth: 640, FrameHeight: 480},
		Geometries: []*dataset.FrameGeometry{
			{SignSpace: dataset.Box{0, 0, 400, 400}, FaceLandmarks: []dataset.Point{{100, 100}}},
			{SignSpace: dataset.Box{0, 0, 400, 400}, FaceLandmarks: []dataset.Point{{120, 100}}},
		},
	}
	sink := &fakeSink{}
	all := player.Overlays{Pose: true, Face: true, LeftHand: true, RightHand: true}
	o := newOverlaySync(ds, overlay.DefaultZoom, sink, all)

	o.onFrame(player.FrameChangeEvent{FrameIndex: 0})
	o.onFrame(player.FrameChangeEvent{FrameIndex: 1})
	if len(sink.texts) != 2 {
		t.Fatalf("pushed %d overlays, want 2", len(sink.texts))
	}
	if sink.texts[0] == sink.texts[1] {
		t.Error("overlay did not change with the landmarks")
	}
	if sink.placements != 1 {
		t.Errorf("placements = %d, want 1 for an unchanged sign space", sink.placements)
	}

	o.setVisibility(all)
	if len(sink.texts) != 2 {
		t.Error("unchanged visibility pushed an overlay")
	}
	o.setVisibility(player.Overlays{Pose: true})
	if len(sink.texts) != 3 {
		t.Fatal("visibility change did not push an overlay")
	}

	o.checkViewport()
	if len(sink.texts) != 3 {
		t.Error("unknown OSD size pushed an overlay")
	}
	sink.w, sink.h = 1600, 900
	o.checkViewport()
	if len(sink.texts) != 4 || sink.placements != 2 {
		t.Errorf("resize: texts=%d placements=%d, want 4 and 2", len(sink.texts), sink.placements)
	}
}
