package tui

import "github.com/charmbracelet/bubbles/textinput"

// inputBuffer adapts a bubbles textinput to the engine's Buffer
// interface. The textinput is heap-allocated and shared between the
// model copies bubbletea passes around, so engine mutations are visible
// to the next Update.
type inputBuffer struct {
	input *textinput.Model
}

func (b *inputBuffer) Text() string { return b.input.Value() }
func (b *inputBuffer) Cursor() int  { return b.input.Position() }

func (b *inputBuffer) Replace(text string, cursor int) {
	b.input.SetValue(text)
	b.input.SetCursor(cursor)
}

func (b *inputBuffer) Refocus() {
	b.input.Focus()
}
