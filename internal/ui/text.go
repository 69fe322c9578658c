package ui

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontSource *text.GoTextFaceSource
	fontFaces  map[float64]*text.GoTextFace
)

// InitFonts loads the UI font. Nil data selects the bundled Go Regular face.
func InitFonts(ttfData []byte) error {
	if ttfData == nil {
		ttfData = goregular.TTF
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return err
	}
	fontSource = src
	fontFaces = make(map[float64]*text.GoTextFace)
	return nil
}

func GetFace(size float64) *text.GoTextFace {
	if face, ok := fontFaces[size]; ok {
		return face
	}
	face := &text.GoTextFace{
		Source: fontSource,
		Size:   size,
	}
	fontFaces[size] = face
	return face
}

func DrawText(dst *ebiten.Image, txt string, x, y float64, size float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, txt, GetFace(size), op)
}

func DrawTextCentered(dst *ebiten.Image, txt string, cx, cy float64, size float64, clr color.Color) {
	w, h := MeasureText(txt, size)
	DrawText(dst, txt, cx-w/2, cy-h/2, size, clr)
}

func MeasureText(txt string, size float64) (float64, float64) {
	return text.Measure(txt, GetFace(size), 0)
}

// WrapText splits txt into lines no wider than maxWidth. Words longer than
// maxWidth get a line of their own.
func WrapText(txt string, maxWidth, size float64) []string {
	face := GetFace(size)
	var lines []string
	for _, para := range strings.Split(txt, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			test := line + " " + word
			if w, _ := text.Measure(test, face, 0); w > maxWidth {
				lines = append(lines, line)
				line = word
			} else {
				line = test
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// DrawLines draws pre-wrapped lines and returns the height used.
func DrawLines(dst *ebiten.Image, lines []string, x, y float64, size float64, clr color.Color) float64 {
	lineHeight := size * 1.4
	for i, line := range lines {
		DrawText(dst, line, x, y+float64(i)*lineHeight, size, clr)
	}
	return float64(len(lines)) * lineHeight
}
