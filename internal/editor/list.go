package editor

import (
	"richtext/internal/log"
	"richtext/pkg/richtext"
)

// SetBulletList toggles the bullet marker on every paragraph touched by r,
// or by the selection when r is nil. With force nil each paragraph flips
// from its own state; otherwise force picks the state for all of them.
//
// A listed paragraph starts with the marker and has a head indent one
// marker width past its first-line indent.
func (e *Engine) SetBulletList(r *richtext.Range, force *bool) {
	target := e.Selection()
	if r != nil {
		target = r.Clamp(e.text().Len())
	}

	e.transact("bullet list", func(t *richtext.Text, sel richtext.Range) richtext.Range {
		shift := 0
		for _, p := range t.Paragraphs(target) {
			p.Location += shift
			delta := e.setParagraphList(t, p, force)
			sel = shiftRange(sel, p.Location, delta)
			shift += delta
		}
		return sel
	})
}

// ToggleBulletList applies one mode across the selection: off when every
// paragraph is already listed, on otherwise.
func (e *Engine) ToggleBulletList() {
	t := e.text()
	on := false
	for _, p := range t.Paragraphs(e.Selection()) {
		if !e.paragraphStyle(t, p).ListEnabled() {
			on = true
			break
		}
	}
	e.SetBulletList(nil, &on)
}

// IsBulletList reports whether the selection's first paragraph is listed.
func (e *Engine) IsBulletList() bool {
	return e.CurrentParagraphStyle().ListEnabled()
}

// setParagraphList updates one paragraph and returns the change in length.
func (e *Engine) setParagraphList(t *richtext.Text, p richtext.Range, force *bool) int {
	attrs := e.paragraphAttrs(t, p)
	ps, _ := attrs.ParagraphStyle()
	enabled := ps.ListEnabled()
	want := !enabled
	if force != nil {
		want = *force
	}

	marker := e.opts.ListMarker
	first, _ := t.RuneAt(p.Location)
	hasMarker := !p.IsEmpty() && first == marker
	delta := 0

	switch {
	case want && !enabled:
		f, ok := attrs.Font()
		if !ok {
			f = e.opts.Fonts.Font(richtext.SizeBody)
		}
		ps.HeadIndent = ps.LeadingIndent() + e.metrics.MarkerWidth(marker, f)
		ps.List = richtext.ListBullet
		if !hasMarker {
			t.Insert(p.Location, string(marker), attrs.Without(richtext.KeyAttachment))
			p.Length++
			delta = 1
		}
	case !want && enabled:
		ps.HeadIndent = ps.LeadingIndent()
		ps.List = richtext.ListNone
		if hasMarker {
			t.Delete(richtext.Range{Location: p.Location, Length: 1})
			p.Length--
			delta = -1
		}
	default:
		return 0
	}

	if p.IsEmpty() {
		e.setTyping(e.typing().With(ps))
	} else {
		t.SetAttribute(richtext.KeyParagraphStyle, ps, p)
		if e.Selection().IsEmpty() {
			e.setTyping(e.typing().With(ps))
		}
	}
	log.Debug(log.CatEngine, "List marker", "paragraph", p, "enabled", want)
	return delta
}

// FixListPrefix restores the marker on a listed paragraph that lost it,
// typically the fresh line after a break. It is a no-op once right after a
// marker was deleted.
func (e *Engine) FixListPrefix() {
	if e.skipListFix {
		e.skipListFix = false
		return
	}
	sel := e.Selection()
	if !sel.IsEmpty() {
		return
	}
	t := e.text()
	pr := t.ParagraphRange(sel)
	attrs := e.paragraphAttrs(t, pr)
	ps, _ := attrs.ParagraphStyle()
	if !ps.ListEnabled() {
		return
	}
	if first, ok := t.RuneAt(pr.Location); ok && !pr.IsEmpty() && first == e.opts.ListMarker {
		return
	}

	e.transact("fix list prefix", func(t *richtext.Text, sel richtext.Range) richtext.Range {
		t.Insert(pr.Location, string(e.opts.ListMarker), attrs.Without(richtext.KeyAttachment))
		return shiftRange(sel, pr.Location, 1)
	})
}

// paragraphAttrs is the attribute set at the start of p. Empty paragraphs
// have no characters and use the typing state.
func (e *Engine) paragraphAttrs(t *richtext.Text, p richtext.Range) richtext.Attributes {
	if p.IsEmpty() {
		return e.typing()
	}
	return t.AttributesAt(p.Location)
}

func (e *Engine) paragraphStyle(t *richtext.Text, p richtext.Range) richtext.ParagraphStyle {
	ps, _ := e.paragraphAttrs(t, p).ParagraphStyle()
	return ps
}

// shiftRange adjusts r for delta characters inserted (positive) or removed
// (negative) at pos. An insertion at a caret pushes the caret forward; one
// at the start of a ranged selection grows the selection.
func shiftRange(r richtext.Range, pos, delta int) richtext.Range {
	if delta > 0 {
		if pos < r.Location || (pos == r.Location && r.IsEmpty()) {
			r.Location += delta
		} else if pos < r.End() {
			r.Length += delta
		}
		return r
	}
	end := pos - delta
	move := func(x int) int {
		switch {
		case x <= pos:
			return x
		case x >= end:
			return x + delta
		default:
			return pos
		}
	}
	return richtext.NewRange(move(r.Location), move(r.End()))
}
