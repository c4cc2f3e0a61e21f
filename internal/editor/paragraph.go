package editor

import "richtext/pkg/richtext"

// ParagraphRange is the paragraph span of the current selection.
func (e *Engine) ParagraphRange() richtext.Range {
	return e.text().ParagraphRange(e.Selection())
}

// SetAlignment gives the touched paragraphs a fresh style carrying only a.
// Indents and list state are erased.
func (e *Engine) SetAlignment(a richtext.Alignment) {
	style := richtext.ParagraphStyle{Alignment: a}
	pr := e.ParagraphRange()
	if pr.IsEmpty() || e.Selection().IsEmpty() {
		e.setTyping(e.typing().With(style))
	}
	if pr.IsEmpty() {
		return
	}
	e.keepingSelection("alignment", func(t *richtext.Text, _ richtext.Range) {
		t.SetAttribute(richtext.KeyParagraphStyle, style, pr)
	})
}

// LeftIndent moves the paragraphs one step toward the leading edge.
func (e *Engine) LeftIndent() { e.indentMove(-e.opts.IndentStep) }

// RightIndent moves the paragraphs one step toward the trailing edge.
func (e *Engine) RightIndent() { e.indentMove(e.opts.IndentStep) }

func (e *Engine) indentMove(delta float64) {
	pr := e.ParagraphRange()

	var first, head, tail float64
	align := richtext.AlignNatural
	list := richtext.ListNone
	if pr.IsEmpty() {
		if ps, ok := e.typing().ParagraphStyle(); ok {
			first, head, tail = ps.FirstLineHeadIndent, ps.HeadIndent, ps.TailIndent
			align, list = ps.Alignment, ps.List
		}
	} else {
		runs := e.text().QueryRuns(pr, richtext.KeyParagraphStyle)
		for _, vr := range runs {
			ps := vr.Value.(richtext.ParagraphStyle)
			first = max(first, ps.FirstLineHeadIndent)
			head = max(head, ps.HeadIndent)
			tail = min(tail, ps.TailIndent)
		}
		if n := len(runs); n > 0 {
			last := runs[n-1].Value.(richtext.ParagraphStyle)
			align, list = last.Alignment, last.List
		}
	}

	// A listed paragraph keeps its marker gap on top of whichever indent
	// is active; the direction is decided on the indent without it.
	gap := 0.0
	if list != richtext.ListNone {
		gap = max(0, head-max(first, 0))
	}
	lead := head - gap

	style := richtext.ParagraphStyle{Alignment: align, List: list}
	if tail < 0 || (lead == 0 && delta < 0) {
		style.TailIndent = min(tail+delta, 0)
		style.FirstLineHeadIndent = style.TailIndent
	} else {
		style.FirstLineHeadIndent = max(lead+delta, 0)
	}
	style.HeadIndent = style.LeadingIndent() + gap

	if pr.IsEmpty() {
		e.setTyping(e.typing().With(style))
		return
	}
	e.keepingSelection("indent", func(t *richtext.Text, _ richtext.Range) {
		t.SetAttribute(richtext.KeyParagraphStyle, style, pr)
	})
	if e.Selection().IsEmpty() {
		e.setTyping(e.typing().With(style))
	}
}

// CurrentParagraphStyle is the style at the start of the selection's
// paragraph, or the typing style on an empty paragraph.
func (e *Engine) CurrentParagraphStyle() richtext.ParagraphStyle {
	t := e.text()
	pr := t.ParagraphRange(e.Selection())
	attrs := e.typing()
	if !pr.IsEmpty() {
		attrs = t.AttributesAt(pr.Location)
	}
	ps, _ := attrs.ParagraphStyle()
	return ps
}
