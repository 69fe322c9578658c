package navigation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/player"
	"github.com/depeter/signviewer/internal/ui"
)

const (
	buttonW  = 84
	jumpW    = 120
	labelW   = 210
	barPad   = 12
	trackH   = 6
	knobR    = 8
	tickH    = 14
	jumpHint = "frame #"
)

// Bar is the navigation strip: play button, scrub bar, time label and a
// jump-to-frame field.
type Bar struct {
	c     Controller
	video dataset.VideoFile
	scrub *Scrubber
	id    player.ListenerID

	jump        ui.TextInput
	jumpFocused bool

	dragging   bool
	lastDrag   int
	X, Y, W, H float64
}

// NewBar creates the bar and subscribes it to frame changes.
func NewBar(c Controller, video dataset.VideoFile, clips *dataset.ClipsCollection) *Bar {
	b := &Bar{
		c:     c,
		video: video,
		scrub: NewScrubber(video.FrameCount, clips.BoundaryFrames(), c.SeekToFrame),
		jump:  ui.TextInput{Filter: unicode.IsDigit},
	}
	b.id = c.AddFrameChangeListener(b.scrub.Mirror)
	return b
}

// Close unsubscribes the bar.
func (b *Bar) Close() {
	b.c.RemoveFrameChangeListener(b.id)
}

// Scrubber returns the bar's model.
func (b *Bar) Scrubber() *Scrubber { return b.scrub }

// Layout positions the bar.
func (b *Bar) Layout(x, y, w, h float64) {
	b.X, b.Y, b.W, b.H = x, y, w, h
}

// Focus reports what has keyboard focus inside the bar.
func (b *Bar) Focus() player.FocusTarget {
	if b.jumpFocused {
		return player.TargetTextInput
	}
	return player.TargetNone
}

// SubmitJump seeks to the frame typed into the jump field and clears it.
// Frames are entered one-based as displayed.
func (b *Bar) SubmitJump() bool {
	text := strings.TrimSpace(b.jump.Text)
	b.jump.Clear()
	if text == "" {
		return false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	b.scrub.SetFromUser(n - 1)
	return true
}

type rect struct{ x, y, w, h float64 }

func (r rect) contains(px, py int) bool { return ui.PointInRect(px, py, r.x, r.y, r.w, r.h) }

func (b *Bar) button() rect {
	return rect{b.X + barPad, b.Y + barPad, buttonW, b.H - 2*barPad}
}

func (b *Bar) track() rect {
	x := b.X + barPad*2 + buttonW
	w := b.W - (x - b.X) - labelW - jumpW - barPad*3
	return rect{x, b.Y + b.H/2 - tickH/2, max(w, 1), tickH}
}

func (b *Bar) label() rect {
	t := b.track()
	return rect{t.x + t.w + barPad, b.Y, labelW, b.H}
}

func (b *Bar) jumpField() rect {
	return rect{b.X + b.W - jumpW - barPad, b.Y + barPad, jumpW, b.H - 2*barPad}
}

// Update handles mouse and text input for the bar.
func (b *Bar) Update() {
	cx, cy := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.jumpFocused = b.jumpField().contains(cx, cy)
		switch {
		case b.button().contains(cx, cy):
			b.c.TogglePlay()
		case b.track().contains(cx, cy):
			b.dragging = true
			b.lastDrag = -1
		}
	}
	if b.dragging {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			b.dragging = false
		} else {
			t := b.track()
			frame := b.scrub.FrameAt((float64(cx) - t.x) / t.w)
			if frame != b.lastDrag {
				b.lastDrag = frame
				b.scrub.SetFromUser(frame)
			}
		}
	}

	if b.jumpFocused {
		b.jump.Update()
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
			b.SubmitJump()
			b.jumpFocused = false
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			b.jump.Clear()
			b.jumpFocused = false
		}
	}
}

// Draw renders the bar.
func (b *Bar) Draw(dst *ebiten.Image) {
	vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), ui.ColorSurface, false)

	btn := b.button()
	vector.DrawFilledRect(dst, float32(btn.x), float32(btn.y), float32(btn.w), float32(btn.h), ui.ColorPrimaryDark, false)
	label := "Play"
	if b.c.IsPlaying() {
		label = "Pause"
	}
	ui.DrawTextCentered(dst, label, btn.x+btn.w/2, btn.y+btn.h/2, ui.FontSizeBody, ui.ColorText)

	t := b.track()
	midY := t.y + t.h/2
	vector.DrawFilledRect(dst, float32(t.x), float32(midY-trackH/2), float32(t.w), trackH, ui.ColorTrack, false)
	fill := t.w * b.scrub.Progress()
	vector.DrawFilledRect(dst, float32(t.x), float32(midY-trackH/2), float32(fill), trackH, ui.ColorPrimary, false)
	for _, pct := range b.scrub.Ticks() {
		x := t.x + t.w*pct/100
		vector.StrokeLine(dst, float32(x), float32(t.y), float32(x), float32(t.y+t.h), 2, ui.ColorTick, false)
	}
	knobX := t.x + t.w*float64(b.scrub.Value())/float64(max(b.scrub.Max(), 1))
	vector.DrawFilledCircle(dst, float32(knobX), float32(midY), knobR, ui.ColorText, true)

	l := b.label()
	secs := float64(b.scrub.Value()) / b.video.Framerate
	info := fmt.Sprintf("%s / %s  #%d", FormatDuration(secs), FormatDuration(b.video.DurationSeconds), b.scrub.Value()+1)
	ui.DrawText(dst, info, l.x, l.y+l.h/2-ui.FontSizeBody/2, ui.FontSizeBody, ui.ColorTextSecondary)

	j := b.jumpField()
	border := ui.ColorTextMuted
	if b.jumpFocused {
		border = ui.ColorFocusBorder
	}
	vector.DrawFilledRect(dst, float32(j.x), float32(j.y), float32(j.w), float32(j.h), ui.ColorBackground, false)
	vector.StrokeRect(dst, float32(j.x), float32(j.y), float32(j.w), float32(j.h), 1, border, false)
	switch {
	case b.jumpFocused:
		ui.DrawText(dst, b.jump.DisplayText(), j.x+6, j.y+j.h/2-ui.FontSizeBody/2, ui.FontSizeBody, ui.ColorText)
	case b.jump.Text == "":
		ui.DrawText(dst, jumpHint, j.x+6, j.y+j.h/2-ui.FontSizeBody/2, ui.FontSizeBody, ui.ColorTextMuted)
	}
}
