package editor

import "richtext/pkg/richtext"

// The getters report the effective style of the selection. A caret reads the
// typing state; a range reports a value only when it holds everywhere.
// Booleans fall back to false and enums to "none" (ok == false).

// FontStyle returns the size class shared by the whole selection.
func (e *Engine) FontStyle() (richtext.SizeClass, bool) {
	sel := e.Selection()
	if sel.IsEmpty() {
		f, ok := e.typing().Font()
		if !ok || !f.Known() {
			return richtext.SizeCustom, false
		}
		return f.Class, true
	}

	runs := e.text().QueryRuns(sel, richtext.KeyFont)
	if len(runs) == 0 {
		return richtext.SizeCustom, false
	}
	class := runs[0].Value.(richtext.Font).Class
	covered := 0
	for _, vr := range runs {
		if vr.Value.(richtext.Font).Class != class {
			return richtext.SizeCustom, false
		}
		covered += vr.Range.Length
	}
	if class == richtext.SizeCustom || covered != sel.Length {
		return richtext.SizeCustom, false
	}
	return class, true
}

func (e *Engine) IsBold() bool {
	sel := e.Selection()
	if sel.IsEmpty() {
		f, ok := e.typing().Font()
		return ok && f.Bold
	}
	return allBold(e.text(), sel)
}

func (e *Engine) IsItalic() bool { return e.hasScalar(richtext.KeyObliqueness) }

func (e *Engine) HasStrikethrough() bool { return e.hasScalar(richtext.KeyStrikethrough) }

func (e *Engine) HasUnderline() bool { return e.hasScalar(richtext.KeyUnderline) }

func (e *Engine) hasScalar(k richtext.Key) bool {
	sel := e.Selection()
	if sel.IsEmpty() {
		v, ok := e.typing().Get(k)
		return ok && isOn(v)
	}
	return coverage(e.text(), sel, k) == sel.Length
}

// Alignment is read over the paragraph range, like SetAlignment writes it.
func (e *Engine) Alignment() (richtext.Alignment, bool) {
	t := e.text()
	pr := t.ParagraphRange(e.Selection())
	if pr.IsEmpty() {
		ps, ok := e.typing().ParagraphStyle()
		return ps.Alignment, ok
	}

	runs := t.QueryRuns(pr, richtext.KeyParagraphStyle)
	if len(runs) == 0 {
		return richtext.AlignNatural, false
	}
	align := runs[0].Value.(richtext.ParagraphStyle).Alignment
	for _, vr := range runs[1:] {
		if vr.Value.(richtext.ParagraphStyle).Alignment != align {
			return richtext.AlignNatural, false
		}
	}
	return align, true
}
