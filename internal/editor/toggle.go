package editor

import "richtext/pkg/richtext"

// ToggleBold flips weight. Mixed selections become fully bold first; only a
// fully bold selection is turned back to regular. Each font keeps its size
// class and fonts outside the table are left alone.
func (e *Engine) ToggleBold() {
	sel := e.Selection()
	if sel.IsEmpty() {
		typing := e.typing()
		f, ok := typing.Font()
		if !ok {
			f = e.opts.Fonts.Font(richtext.SizeBody)
		}
		e.setTyping(typing.With(f.WithBold(!f.Bold)))
		return
	}

	bold := !allBold(e.text(), sel)
	e.keepingSelection("bold", func(t *richtext.Text, sel richtext.Range) {
		var runs []richtext.Run
		t.Enumerate(sel, func(run richtext.Run) bool {
			runs = append(runs, run)
			return true
		})
		for _, run := range runs {
			f, ok := run.Attrs.Font()
			if !ok {
				f = e.opts.Fonts.Font(richtext.SizeBody)
			}
			t.SetAttribute(richtext.KeyFont, f.WithBold(bold), run.Range)
		}
	})
}

func (e *Engine) ToggleItalic() {
	e.toggleScalar("italic", richtext.KeyObliqueness, richtext.Obliqueness(e.opts.Obliqueness))
}

func (e *Engine) ToggleStrikethrough() {
	e.toggleScalar("strikethrough", richtext.KeyStrikethrough, richtext.Strikethrough(1))
}

func (e *Engine) ToggleUnderline() {
	e.toggleScalar("underline", richtext.KeyUnderline, richtext.Underline(1))
}

// toggleScalar switches k between unset and on. A ranged selection is set
// uniformly: unset only when every character already has k on.
func (e *Engine) toggleScalar(op string, k richtext.Key, on richtext.Value) {
	sel := e.Selection()
	if sel.IsEmpty() {
		typing := e.typing()
		if v, ok := typing.Get(k); ok && isOn(v) {
			e.setTyping(typing.Without(k))
		} else {
			e.setTyping(typing.With(on))
		}
		return
	}

	all := coverage(e.text(), sel, k) == sel.Length
	e.keepingSelection(op, func(t *richtext.Text, sel richtext.Range) {
		if all {
			t.SetAttribute(k, nil, sel)
		} else {
			t.SetAttribute(k, on, sel)
		}
	})
}

// SetFont replaces the font with the table font for class, dropping any
// bold state. The large title is always bold.
func (e *Engine) SetFont(class richtext.SizeClass) {
	f := e.opts.Fonts.Font(class)
	sel := e.Selection()
	if sel.IsEmpty() {
		e.setTyping(e.typing().With(f))
		return
	}
	e.keepingSelection("font", func(t *richtext.Text, sel richtext.Range) {
		t.SetAttribute(richtext.KeyFont, f, sel)
	})
}

// allBold reports whether every character in r has a bold font.
func allBold(t *richtext.Text, r richtext.Range) bool {
	n := 0
	for _, vr := range t.QueryRuns(r, richtext.KeyFont) {
		if vr.Value.(richtext.Font).Bold {
			n += vr.Range.Length
		}
	}
	return n == r.Length
}

// coverage sums the lengths in r where k is on.
func coverage(t *richtext.Text, r richtext.Range, k richtext.Key) int {
	n := 0
	for _, vr := range t.QueryRuns(r, k) {
		if isOn(vr.Value) {
			n += vr.Range.Length
		}
	}
	return n
}

func isOn(v richtext.Value) bool {
	switch v := v.(type) {
	case richtext.Obliqueness:
		return v != 0
	case richtext.Strikethrough:
		return v != 0
	case richtext.Underline:
		return v != 0
	case richtext.Font:
		return v.Bold
	}
	return v != nil
}
