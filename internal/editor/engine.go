// Package editor applies, queries and toggles rich-text styles over a host
// Surface.
package editor

import (
	"richtext/internal/config"
	"richtext/internal/fonts"
	"richtext/internal/log"
	"richtext/pkg/richtext"
)

// Metrics measures glyphs for list marker indents.
type Metrics interface {
	MarkerWidth(marker rune, f richtext.Font) float64
}

type Options struct {
	IndentStep  float64
	Obliqueness float64
	ListMarker  rune
	Fonts       fonts.Table
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Defaults())
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		IndentStep:  cfg.Editor.IndentStep,
		Obliqueness: cfg.Editor.Obliqueness,
		ListMarker:  cfg.Editor.ListMarkerRune(),
		Fonts:       fonts.NewTable(cfg.Fonts),
	}
}

type Engine struct {
	surface Surface
	metrics Metrics
	opts    Options

	// skipListFix swallows the next FixListPrefix after a marker was deleted.
	skipListFix bool
}

// New returns an engine over surface. A nil metrics falls back to a width
// estimate from the font table.
func New(surface Surface, metrics Metrics, opts Options) *Engine {
	def := DefaultOptions()
	if opts.IndentStep <= 0 {
		opts.IndentStep = def.IndentStep
	}
	if opts.Obliqueness == 0 {
		opts.Obliqueness = def.Obliqueness
	}
	if opts.ListMarker == 0 {
		opts.ListMarker = def.ListMarker
	}
	if _, ok := opts.Fonts.Descriptor(richtext.SizeBody); !ok {
		opts.Fonts = def.Fonts
	}
	if metrics == nil {
		metrics = estimateMetrics{table: opts.Fonts}
	}
	return &Engine{surface: surface, metrics: metrics, opts: opts}
}

func (e *Engine) Surface() Surface { return e.surface }

func (e *Engine) Options() Options { return e.opts }

// InitTypingState resets the typing state to regular body text, left
// aligned.
func (e *Engine) InitTypingState() {
	e.surface.SetTypingAttributes(richtext.NewAttributes(
		e.opts.Fonts.Font(richtext.SizeBody),
		richtext.ParagraphStyle{Alignment: richtext.AlignLeft},
	))
}

// Select moves the selection. A collapsed caret picks up the attributes of
// the character before it.
func (e *Engine) Select(r richtext.Range) {
	text := e.text()
	r = r.Clamp(text.Len())
	e.surface.SetSelection(r)
	if r.IsEmpty() {
		e.refreshTyping(text, r.Location)
	}
}

func (e *Engine) SelectAll() {
	e.surface.SetSelection(richtext.Range{Length: e.text().Len()})
}

// Selection returns the host selection clamped to the buffer.
func (e *Engine) Selection() richtext.Range {
	return e.surface.Selection().Clamp(e.text().Len())
}

func (e *Engine) SelectedText() string {
	return e.text().Substring(e.Selection())
}

func (e *Engine) text() *richtext.Text {
	t := e.surface.AttributedText()
	if t == nil {
		return richtext.NewText("", richtext.Attributes{})
	}
	return t
}

// keepingSelection runs one transaction: fn mutates a clone of the buffer,
// the clone replaces the host text in one write and the selection captured
// beforehand is restored.
func (e *Engine) keepingSelection(op string, fn func(t *richtext.Text, sel richtext.Range)) {
	e.transact(op, func(t *richtext.Text, sel richtext.Range) richtext.Range {
		fn(t, sel)
		return sel
	})
}

// transact is keepingSelection for operations that move the selection
// themselves.
func (e *Engine) transact(op string, fn func(t *richtext.Text, sel richtext.Range) richtext.Range) {
	sel := e.Selection()
	next := e.text().Clone()
	after := fn(next, sel).Clamp(next.Len())
	e.surface.SetAttributedText(next)
	e.surface.SetSelection(after)
	e.surface.ScrollRangeToVisible(after)
	log.Debug(log.CatEngine, "Applied edit", "op", op, "before", sel, "after", after, "len", next.Len())
}

func (e *Engine) typing() richtext.Attributes {
	return e.surface.TypingAttributes()
}

func (e *Engine) setTyping(a richtext.Attributes) {
	e.surface.SetTypingAttributes(a)
}

// refreshTyping loads the typing state from the character before pos. At
// the start of a non-empty paragraph the paragraph style comes from that
// paragraph instead, so typed text never splits it.
func (e *Engine) refreshTyping(t *richtext.Text, pos int) {
	if t.Len() == 0 {
		return
	}
	attrs := t.AttributesAt(max(pos-1, 0)).Without(richtext.KeyAttachment)
	if pos < t.Len() && t.ParagraphRange(richtext.Range{Location: pos}).Location == pos {
		if ps, ok := t.AttributesAt(pos).ParagraphStyle(); ok {
			attrs = attrs.With(ps)
		}
	}
	e.setTyping(attrs)
}

type estimateMetrics struct {
	table fonts.Table
}

// MarkerWidth approximates a bullet as half an em.
func (m estimateMetrics) MarkerWidth(_ rune, f richtext.Font) float64 {
	return m.table.PointSize(f) / 2
}
