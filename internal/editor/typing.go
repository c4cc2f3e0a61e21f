package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"richtext/pkg/richtext"
)

// graphemeWindow bounds how far back DeleteBackward looks for a cluster.
const graphemeWindow = 32

// InsertText replaces the selection with s carrying the typing state and
// leaves a caret after it.
func (e *Engine) InsertText(s string) {
	if s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	n := utf8.RuneCountInString(s)
	attrs := e.typing().Without(richtext.KeyAttachment)

	target := e.Selection()
	if e.beforeListMarker(e.text(), target) {
		target.Location++
	}
	e.transact("insert", func(t *richtext.Text, _ richtext.Range) richtext.Range {
		t.Replace(target, s, attrs)
		return richtext.Range{Location: target.Location + n}
	})
	e.FixListPrefix()
}

// beforeListMarker reports a caret sitting in front of the marker of a
// listed paragraph. Text typed there goes after the marker.
func (e *Engine) beforeListMarker(t *richtext.Text, r richtext.Range) bool {
	if !r.IsEmpty() {
		return false
	}
	pr := t.ParagraphRange(r)
	if pr.Location != r.Location || pr.IsEmpty() {
		return false
	}
	first, _ := t.RuneAt(r.Location)
	return first == e.opts.ListMarker && e.paragraphStyle(t, pr).ListEnabled()
}

// DeleteSelection removes the selected text. The typing state takes the
// attributes of the first removed character.
func (e *Engine) DeleteSelection() bool {
	sel := e.Selection()
	if sel.IsEmpty() {
		return false
	}
	t := e.text()
	typing := t.AttributesAt(sel.Location).Without(richtext.KeyAttachment)
	e.transact("delete selection", func(t *richtext.Text, sel richtext.Range) richtext.Range {
		t.Delete(sel)
		return richtext.Range{Location: sel.Location}
	})
	e.setTyping(typing)
	return true
}

// DeleteBackward removes the selection, or the grapheme cluster before the
// caret. Removing a list marker also ends the list on that paragraph.
func (e *Engine) DeleteBackward() {
	if e.DeleteSelection() {
		return
	}
	t := e.text()
	caret := e.Selection().Location
	if caret == 0 {
		return
	}
	n := lastClusterLen(t.Substring(richtext.NewRange(max(0, caret-graphemeWindow), caret)))
	del := richtext.Range{Location: caret - n, Length: n}

	pr := t.ParagraphRange(richtext.Range{Location: del.Location})
	ps := e.paragraphStyle(t, pr)
	first, _ := t.RuneAt(del.Location)
	marker := n == 1 && del.Location == pr.Location && first == e.opts.ListMarker && ps.ListEnabled()

	e.transact("delete backward", func(t *richtext.Text, _ richtext.Range) richtext.Range {
		t.Delete(del)
		if marker {
			ps.HeadIndent = ps.LeadingIndent()
			ps.List = richtext.ListNone
			if rest := richtext.NewRange(pr.Location, pr.End()-1); !rest.IsEmpty() {
				t.SetAttribute(richtext.KeyParagraphStyle, ps, rest)
			}
		}
		return richtext.Range{Location: del.Location}
	})

	e.refreshTyping(e.text(), del.Location)
	if marker {
		e.setTyping(e.typing().With(ps))
		e.skipListFix = true
	}
}

// lastClusterLen is the rune length of the final grapheme cluster of s.
func lastClusterLen(s string) int {
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n = len(g.Runes())
	}
	if n == 0 && s != "" {
		n = 1
	}
	return n
}
