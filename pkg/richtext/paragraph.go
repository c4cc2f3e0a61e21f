package richtext

const paragraphSeparator = '\u2029'

// ParagraphRange extends r to the paragraphs it touches, terminators
// included. A caret at the start of an empty final paragraph gives an empty
// range at that position.
func (t *Text) ParagraphRange(r Range) Range {
	r = r.Clamp(t.Len())
	start := t.paragraphStart(r.Location)
	last := r.Location
	if r.Length > 0 {
		last = r.End() - 1
	}
	return NewRange(start, t.paragraphEnd(last))
}

// Paragraphs splits ParagraphRange(r) into one range per paragraph, each
// with its terminator. An empty paragraph range is returned as-is so callers
// still have a location to work at.
func (t *Text) Paragraphs(r Range) []Range {
	pr := t.ParagraphRange(r)
	if pr.IsEmpty() {
		return []Range{pr}
	}
	var out []Range
	for pos := pr.Location; pos < pr.End(); {
		end := t.paragraphEnd(pos)
		out = append(out, NewRange(pos, end))
		pos = end
	}
	return out
}

// ContentRange drops the trailing terminator from a paragraph range.
func (t *Text) ContentRange(p Range) Range {
	p = p.Clamp(t.Len())
	end := p.End()
	for end > p.Location && isTerminator(t.runes[end-1]) {
		end--
	}
	return NewRange(p.Location, end)
}

func (t *Text) paragraphStart(pos int) int {
	for pos > 0 && !t.endsParagraph(pos-1) {
		pos--
	}
	return pos
}

func (t *Text) paragraphEnd(pos int) int {
	for i := pos; i < len(t.runes); i++ {
		if t.endsParagraph(i) {
			return i + 1
		}
	}
	return len(t.runes)
}

func (t *Text) endsParagraph(i int) bool {
	switch t.runes[i] {
	case '\n', paragraphSeparator:
		return true
	case '\r':
		return i+1 >= len(t.runes) || t.runes[i+1] != '\n'
	}
	return false
}

func isTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == paragraphSeparator
}
