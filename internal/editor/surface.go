package editor

import "richtext/pkg/richtext"

// Surface is the host text view the engine drives. The host owns the buffer;
// the engine reads a snapshot and swaps a new one in with a single
// SetAttributedText per operation.
type Surface interface {
	AttributedText() *richtext.Text
	SetAttributedText(*richtext.Text)
	Selection() richtext.Range
	SetSelection(richtext.Range)
	ScrollRangeToVisible(richtext.Range)
	TypingAttributes() richtext.Attributes
	SetTypingAttributes(richtext.Attributes)
}

// MemorySurface is a Surface with no view behind it. The CLI and tests use
// it directly; the ebiten host embeds it.
type MemorySurface struct {
	text      *richtext.Text
	selection richtext.Range
	typing    richtext.Attributes

	// LastScroll is the range most recently passed to ScrollRangeToVisible.
	LastScroll richtext.Range
	// Writes counts SetAttributedText calls.
	Writes int
}

func NewMemorySurface(text *richtext.Text) *MemorySurface {
	if text == nil {
		text = richtext.NewText("", richtext.Attributes{})
	}
	return &MemorySurface{text: text}
}

func (s *MemorySurface) AttributedText() *richtext.Text { return s.text }

func (s *MemorySurface) SetAttributedText(t *richtext.Text) {
	if t == nil {
		t = richtext.NewText("", richtext.Attributes{})
	}
	s.text = t
	s.Writes++
	s.selection = s.selection.Clamp(t.Len())
}

func (s *MemorySurface) Selection() richtext.Range { return s.selection }

func (s *MemorySurface) SetSelection(r richtext.Range) {
	s.selection = r.Clamp(s.text.Len())
}

func (s *MemorySurface) ScrollRangeToVisible(r richtext.Range) { s.LastScroll = r }

func (s *MemorySurface) TypingAttributes() richtext.Attributes { return s.typing }

func (s *MemorySurface) SetTypingAttributes(a richtext.Attributes) { s.typing = a }
