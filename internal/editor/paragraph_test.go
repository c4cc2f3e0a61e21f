package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"richtext/pkg/richtext"
)

func paragraphStyleAt(s *MemorySurface, pos int) richtext.ParagraphStyle {
	ps, _ := s.AttributedText().AttributesAt(pos).ParagraphStyle()
	return ps
}

func TestIndentDirectionTieBreak(t *testing.T) {
	e, s := newTestEngine(t, "para")
	e.Select(richtext.Range{Location: 2})

	e.LeftIndent()
	ps := paragraphStyleAt(s, 0)
	require.Equal(t, -32.0, ps.TailIndent)
	require.Zero(t, ps.HeadIndent)
	require.Equal(t, -32.0, ps.FirstLineHeadIndent)

	e2, s2 := newTestEngine(t, "para")
	e2.Select(richtext.Range{Location: 2})
	e2.RightIndent()
	ps = paragraphStyleAt(s2, 0)
	require.Equal(t, 32.0, ps.HeadIndent)
	require.Zero(t, ps.TailIndent)
	require.Equal(t, 32.0, ps.FirstLineHeadIndent)
}

func TestIndentStaysOnActiveSide(t *testing.T) {
	e, s := newTestEngine(t, "para")
	e.Select(richtext.Range{Location: 1})

	e.RightIndent()
	e.RightIndent()
	require.Equal(t, 64.0, paragraphStyleAt(s, 0).HeadIndent)

	e.LeftIndent()
	require.Equal(t, 32.0, paragraphStyleAt(s, 0).HeadIndent)
	e.LeftIndent()
	require.Zero(t, paragraphStyleAt(s, 0).HeadIndent)
	require.Zero(t, paragraphStyleAt(s, 0).TailIndent)

	e.LeftIndent()
	e.LeftIndent()
	require.Equal(t, -64.0, paragraphStyleAt(s, 0).TailIndent)
	e.RightIndent()
	require.Equal(t, -32.0, paragraphStyleAt(s, 0).TailIndent)
	require.Zero(t, paragraphStyleAt(s, 0).HeadIndent)
}

func TestIndentMergesParagraphsAndKeepsLastAlignment(t *testing.T) {
	e, s := newTestEngine(t, "one\ntwo\n")
	text := s.AttributedText()
	text.SetAttribute(richtext.KeyParagraphStyle, richtext.ParagraphStyle{HeadIndent: 64, FirstLineHeadIndent: 64}, richtext.Range{Length: 4})
	text.SetAttribute(richtext.KeyParagraphStyle, richtext.ParagraphStyle{Alignment: richtext.AlignRight, HeadIndent: 32, FirstLineHeadIndent: 32}, richtext.Range{Location: 4, Length: 4})
	e.Select(richtext.Range{Location: 1, Length: 5})

	e.RightIndent()

	want := richtext.ParagraphStyle{Alignment: richtext.AlignRight, HeadIndent: 96, FirstLineHeadIndent: 96}
	require.Equal(t, want, paragraphStyleAt(s, 0))
	require.Equal(t, want, paragraphStyleAt(s, 7))
}

func TestIndentOnEmptyParagraphUsesTypingState(t *testing.T) {
	e, s := newTestEngine(t, "")
	writes := s.Writes

	e.RightIndent()

	ps, ok := s.TypingAttributes().ParagraphStyle()
	require.True(t, ok)
	require.Equal(t, 32.0, ps.HeadIndent)
	require.Equal(t, writes, s.Writes)
}

func TestSetAlignmentErasesIndent(t *testing.T) {
	e, s := newTestEngine(t, "alpha\nbeta")
	e.Select(richtext.Range{Location: 1, Length: 7})
	e.RightIndent()
	require.Equal(t, 32.0, paragraphStyleAt(s, 8).HeadIndent)

	e.SetAlignment(richtext.AlignCenter)

	want := richtext.ParagraphStyle{Alignment: richtext.AlignCenter}
	require.Equal(t, want, paragraphStyleAt(s, 0))
	require.Equal(t, want, paragraphStyleAt(s, 9))
	align, ok := e.Alignment()
	require.True(t, ok)
	require.Equal(t, richtext.AlignCenter, align)
}

func TestCollapsedAlignmentUpdatesParagraphAndTyping(t *testing.T) {
	e, s := newTestEngine(t, "alpha\nbeta")
	e.Select(richtext.Range{Location: 7})

	e.SetAlignment(richtext.AlignRight)

	require.Equal(t, richtext.AlignLeft, paragraphStyleAt(s, 0).Alignment)
	require.Equal(t, richtext.AlignRight, paragraphStyleAt(s, 6).Alignment)
	ps, _ := s.TypingAttributes().ParagraphStyle()
	require.Equal(t, richtext.AlignRight, ps.Alignment)
}

func TestAlignmentGetterMixed(t *testing.T) {
	e, s := newTestEngine(t, "alpha\nbeta")
	s.AttributedText().SetAttribute(richtext.KeyParagraphStyle, richtext.ParagraphStyle{Alignment: richtext.AlignCenter}, richtext.Range{Location: 6, Length: 4})
	e.SelectAll()

	_, ok := e.Alignment()
	require.False(t, ok)

	e.Select(richtext.Range{Location: 8})
	align, ok := e.Alignment()
	require.True(t, ok)
	require.Equal(t, richtext.AlignCenter, align)
}

func TestFontStyleGetter(t *testing.T) {
	e, s := newTestEngine(t, "abcdef")
	text := s.AttributedText()

	e.SelectAll()
	class, ok := e.FontStyle()
	require.True(t, ok)
	require.Equal(t, richtext.SizeBody, class)

	text.SetAttribute(richtext.KeyFont, richtext.Font{Class: richtext.SizeTitle1}, richtext.Range{Length: 2})
	_, ok = e.FontStyle()
	require.False(t, ok)

	// Weight does not split the size class.
	text.SetAttribute(richtext.KeyFont, bodyBold, richtext.Range{Length: 2})
	class, ok = e.FontStyle()
	require.True(t, ok)
	require.Equal(t, richtext.SizeBody, class)

	text.SetAttribute(richtext.KeyFont, nil, richtext.Range{Length: 1})
	_, ok = e.FontStyle()
	require.False(t, ok)

	text.SetAttribute(richtext.KeyFont, richtext.Font{PointSize: 9}, richtext.Range{Length: 6})
	_, ok = e.FontStyle()
	require.False(t, ok)

	e.Select(richtext.Range{Location: 3})
	_, ok = e.FontStyle()
	require.False(t, ok, "custom font at the caret is unknown")
}

func TestTrailingIndentIsNotAList(t *testing.T) {
	e, s := newTestEngine(t, "hello")
	e.Select(richtext.Range{Location: 5})

	e.LeftIndent()
	require.False(t, e.IsBulletList())

	e.InsertText("x")
	require.Equal(t, "hellox", s.AttributedText().String())
	require.False(t, e.IsBulletList())
	require.Len(t, s.AttributedText().QueryRuns(richtext.Range{Length: 6}, richtext.KeyParagraphStyle), 1)

	e.SetBulletList(nil, nil)
	require.Equal(t, "•hellox", s.AttributedText().String())
	ps := paragraphStyleAt(s, 0)
	require.Equal(t, -32.0, ps.TailIndent)
	require.Equal(t, 10.0, ps.HeadIndent)
	require.True(t, e.IsBulletList())

	e.SetBulletList(nil, nil)
	require.Equal(t, "hellox", s.AttributedText().String())
	ps = paragraphStyleAt(s, 0)
	require.Zero(t, ps.HeadIndent)
	require.Equal(t, -32.0, ps.TailIndent)
	require.False(t, e.IsBulletList())
}

func TestIndentKeepsListMarkerGap(t *testing.T) {
	e, s := newTestEngine(t, "item")
	e.Select(richtext.Range{Location: 2})
	e.SetBulletList(nil, nil)

	e.RightIndent()
	ps := paragraphStyleAt(s, 0)
	require.Equal(t, 32.0, ps.FirstLineHeadIndent)
	require.Equal(t, 42.0, ps.HeadIndent)
	require.True(t, e.IsBulletList())

	e.LeftIndent()
	e.LeftIndent()
	ps = paragraphStyleAt(s, 0)
	require.Equal(t, -32.0, ps.TailIndent)
	require.Equal(t, 10.0, ps.HeadIndent)
	require.True(t, e.IsBulletList())
}

func TestTypingAtParagraphStartKeepsItsStyle(t *testing.T) {
	e, s := newTestEngine(t, "abc\ndef")
	e.Select(richtext.Range{Location: 5})
	e.SetAlignment(richtext.AlignCenter)

	e.Select(richtext.Range{Location: 4})
	e.InsertText("x")

	require.Equal(t, "abc\nxdef", s.AttributedText().String())
	center := richtext.ParagraphStyle{Alignment: richtext.AlignCenter}
	want := []richtext.ValueRun{
		{Value: leftPara, Range: richtext.Range{Length: 4}},
		{Value: center, Range: richtext.Range{Location: 4, Length: 4}},
	}
	require.Equal(t, want, s.AttributedText().QueryRuns(richtext.Range{Length: 8}, richtext.KeyParagraphStyle))
	align, ok := e.Alignment()
	require.True(t, ok)
	require.Equal(t, richtext.AlignCenter, align)
}
