package app

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/signviewer/internal/dataset"
	"github.com/depeter/signviewer/internal/player"
	"github.com/depeter/signviewer/internal/ui"
)

// translationPanel shows the clip owning the current frame and its
// translation. Text is only re-wrapped when the clip changes.
type translationPanel struct {
	clips *dataset.ClipsCollection
	width float64
	wrap  func(txt string, maxWidth, size float64) []string

	clipIdx int
	header  string
	lines   []string
	pending bool
}

func newTranslationPanel(clips *dataset.ClipsCollection, width float64) *translationPanel {
	return &translationPanel{
		clips:   clips,
		width:   width,
		wrap:    ui.WrapText,
		clipIdx: -2,
	}
}

func (p *translationPanel) onFrame(ev player.FrameChangeEvent) {
	idx := p.clips.ClipIndexForFrame(ev.FrameIndex)
	if idx == p.clipIdx {
		return
	}
	p.clipIdx = idx
	p.relayout()
}

func (p *translationPanel) relayout() {
	clip, ok := p.clips.ClipAt(p.clipIdx)
	if !ok {
		p.header = "No clips"
		p.lines = nil
		p.pending = false
		return
	}
	p.header = fmt.Sprintf("Clip %d of %d", p.clipIdx+1, len(p.clips.Clips))
	text := clip.TranslationText()
	p.pending = text == ""
	if p.pending {
		text = "Translation pending"
	}
	p.lines = p.wrap(text, p.width, ui.FontSizeHeading)
}

func (p *translationPanel) Draw(dst *ebiten.Image, x, y float64) {
	ui.DrawText(dst, p.header, x, y, ui.FontSizeSmall, ui.ColorTextSecondary)
	clr := ui.ColorText
	if p.pending {
		clr = ui.ColorTextMuted
	}
	ui.DrawLines(dst, p.lines, x, y+ui.CropLabel, ui.FontSizeHeading, clr)
}
