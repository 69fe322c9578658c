package ui

import (
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TextInput handles text editing with cursor navigation.
type TextInput struct {
	Text   string
	Cursor int // rune position within Text

	// Filter, when set, rejects typed runes it returns false for.
	Filter func(rune) bool
}

// NewTextInput creates a TextInput initialized with the given text and cursor at the end.
func NewTextInput(text string) TextInput {
	return TextInput{
		Text:   text,
		Cursor: utf8.RuneCountInString(text),
	}
}

// SetText replaces the text and moves cursor to the end.
func (ti *TextInput) SetText(text string) {
	ti.Text = text
	ti.Cursor = utf8.RuneCountInString(text)
}

// Clear resets the text and cursor.
func (ti *TextInput) Clear() {
	ti.Text = ""
	ti.Cursor = 0
}

// Update processes input events. Returns true if the text changed.
func (ti *TextInput) Update() bool {
	changed := false
	runeCount := utf8.RuneCountInString(ti.Text)

	if KeyRepeating(ebiten.KeyArrowLeft) && ti.Cursor > 0 {
		ti.Cursor--
	}
	if KeyRepeating(ebiten.KeyArrowRight) && ti.Cursor < runeCount {
		ti.Cursor++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		ti.Cursor = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		ti.Cursor = runeCount
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if ti.Type(r) {
			changed = true
		}
	}

	if KeyRepeating(ebiten.KeyBackspace) && ti.Backspace() {
		changed = true
	}

	// Delete removes the rune after the cursor
	if KeyRepeating(ebiten.KeyDelete) && ti.Cursor < runeCount {
		_, after := ti.splitAtCursor()
		before := ti.Text[:len(ti.Text)-len(after)]
		_, size := utf8.DecodeRuneInString(after)
		ti.Text = before + after[size:]
		changed = true
	}

	return changed
}

// Type inserts r at the cursor unless it is a control character or rejected
// by Filter.
func (ti *TextInput) Type(r rune) bool {
	if unicode.IsControl(r) || (ti.Filter != nil && !ti.Filter(r)) {
		return false
	}
	ti.insertAtCursor(string(r))
	return true
}

// Backspace deletes the rune before the cursor.
func (ti *TextInput) Backspace() bool {
	if ti.Cursor == 0 {
		return false
	}
	before, after := ti.splitAtCursor()
	_, size := utf8.DecodeLastRuneInString(before)
	ti.Text = before[:len(before)-size] + after
	ti.Cursor--
	return true
}

// DisplayText returns the text with a cursor indicator inserted at the cursor position.
func (ti *TextInput) DisplayText() string {
	before, after := ti.splitAtCursor()
	return before + "│" + after
}

func (ti *TextInput) insertAtCursor(s string) {
	before, after := ti.splitAtCursor()
	ti.Text = before + s + after
	ti.Cursor += utf8.RuneCountInString(s)
}

// splitAtCursor returns the text before and after the cursor position.
func (ti *TextInput) splitAtCursor() (before, after string) {
	bytePos := 0
	for i := 0; i < ti.Cursor; i++ {
		_, size := utf8.DecodeRuneInString(ti.Text[bytePos:])
		bytePos += size
	}
	return ti.Text[:bytePos], ti.Text[bytePos:]
}
