package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"richtext/pkg/richtext"
)

func TestBulletListRoundTrip(t *testing.T) {
	e, s := newTestEngine(t, "hello")
	original := s.AttributedText().Runs()
	e.Select(richtext.Range{Location: 2})

	e.SetBulletList(nil, nil)
	require.Equal(t, "•hello", s.AttributedText().String())
	ps := paragraphStyleAt(s, 0)
	require.Equal(t, ps.FirstLineHeadIndent+10, ps.HeadIndent)
	require.Equal(t, richtext.ListBullet, ps.List)
	require.True(t, e.IsBulletList())
	require.Equal(t, richtext.Range{Location: 3}, s.Selection())

	e.SetBulletList(nil, nil)
	require.Equal(t, "hello", s.AttributedText().String())
	ps = paragraphStyleAt(s, 0)
	require.Equal(t, ps.FirstLineHeadIndent, ps.HeadIndent)
	require.False(t, e.IsBulletList())
	require.Equal(t, richtext.Range{Location: 2}, s.Selection())
	require.Equal(t, original, s.AttributedText().Runs())
}

func TestBulletListShiftsAcrossParagraphs(t *testing.T) {
	src := "aaaaa\nbbbbbbb\ncccc"
	e, s := newTestEngine(t, src)
	e.SelectAll()

	e.SetBulletList(nil, nil)

	text := s.AttributedText()
	require.Equal(t, len([]rune(src))+3, text.Len())
	got := strings.Split(text.String(), "\n")
	require.Equal(t, []string{"•aaaaa", "•bbbbbbb", "•cccc"}, got)
	for _, p := range text.Paragraphs(richtext.Range{Length: text.Len()}) {
		ps, _ := text.AttributesAt(p.Location).ParagraphStyle()
		require.True(t, ps.ListEnabled(), "paragraph %v", p)
	}
	require.Equal(t, richtext.Range{Length: 21}, s.Selection())

	e.SetBulletList(nil, nil)
	require.Equal(t, src, s.AttributedText().String())
	require.Equal(t, richtext.Range{Length: 18}, s.Selection())
}

func TestTypingBeforeMarkerGoesAfterIt(t *testing.T) {
	e, s := newTestEngine(t, "abc\ndef")
	e.Select(richtext.Range{Location: 5})
	e.SetBulletList(nil, nil)
	require.Equal(t, "abc\n•def", s.AttributedText().String())

	e.Select(richtext.Range{Location: 4})
	e.InsertText("x")

	require.Equal(t, "abc\n•xdef", s.AttributedText().String())
	require.Equal(t, richtext.Range{Location: 6}, s.Selection())
	require.True(t, e.IsBulletList())
	require.Len(t, s.AttributedText().QueryRuns(richtext.Range{Location: 4, Length: 5}, richtext.KeyParagraphStyle), 1)
}

func TestBulletListExplicitRangeAndForce(t *testing.T) {
	e, s := newTestEngine(t, "one\ntwo\nthree")
	first := richtext.Range{Location: 0, Length: 1}
	e.SetBulletList(&first, nil)
	require.Equal(t, "•one\ntwo\nthree", s.AttributedText().String())

	on := true
	all := richtext.Range{Length: s.AttributedText().Len()}
	e.SetBulletList(&all, &on)
	require.Equal(t, "•one\n•two\n•three", s.AttributedText().String())

	off := false
	all = richtext.Range{Length: s.AttributedText().Len()}
	e.SetBulletList(&all, &off)
	require.Equal(t, "one\ntwo\nthree", s.AttributedText().String())
}

func TestToggleBulletListUsesUniformMode(t *testing.T) {
	e, s := newTestEngine(t, "one\ntwo")
	e.Select(richtext.Range{Location: 1})
	e.ToggleBulletList()
	require.Equal(t, "•one\ntwo", s.AttributedText().String())

	e.SelectAll()
	e.ToggleBulletList()
	require.Equal(t, "•one\n•two", s.AttributedText().String())

	e.SelectAll()
	e.ToggleBulletList()
	require.Equal(t, "one\ntwo", s.AttributedText().String())
}

func TestBulletListOnEmptyBuffer(t *testing.T) {
	e, s := newTestEngine(t, "")
	e.SetBulletList(nil, nil)

	require.Equal(t, "•", s.AttributedText().String())
	require.Equal(t, richtext.Range{Location: 1}, s.Selection())
	require.True(t, paragraphStyleAt(s, 0).ListEnabled())
	ps, _ := s.TypingAttributes().ParagraphStyle()
	require.True(t, ps.ListEnabled())
}

func TestNewLineInListGetsMarker(t *testing.T) {
	e, s := newTestEngine(t, "item")
	e.Select(richtext.Range{Location: 4})
	e.SetBulletList(nil, nil)

	e.InsertText("\n")
	require.Equal(t, "•item\n•", s.AttributedText().String())
	require.Equal(t, richtext.Range{Location: 7}, s.Selection())

	e.InsertText("x")
	require.Equal(t, "•item\n•x", s.AttributedText().String())
}

func TestDeletingMarkerSuppressesRegeneration(t *testing.T) {
	e, s := newTestEngine(t, "item")
	e.Select(richtext.Range{Location: 4})
	e.SetBulletList(nil, nil)
	e.InsertText("\n")
	require.Equal(t, "•item\n•", s.AttributedText().String())

	e.DeleteBackward()
	require.Equal(t, "•item\n", s.AttributedText().String())
	require.True(t, e.skipListFix)

	e.InsertText("y")
	require.False(t, e.skipListFix)
	e.InsertText("z")
	require.Equal(t, "•item\nyz", s.AttributedText().String())
	require.False(t, e.IsBulletList())
}

func TestFixListPrefixIgnoresPlainParagraphs(t *testing.T) {
	e, s := newTestEngine(t, "plain")
	e.Select(richtext.Range{Location: 5})
	writes := s.Writes

	e.FixListPrefix()
	require.Equal(t, writes, s.Writes)
}

func TestShiftRange(t *testing.T) {
	cases := []struct {
		name       string
		r          richtext.Range
		pos, delta int
		want       richtext.Range
	}{
		{"insert before", richtext.Range{Location: 4, Length: 2}, 1, 1, richtext.Range{Location: 5, Length: 2}},
		{"insert at caret", richtext.Range{Location: 4}, 4, 1, richtext.Range{Location: 5}},
		{"insert at selection start", richtext.Range{Location: 4, Length: 2}, 4, 1, richtext.Range{Location: 4, Length: 3}},
		{"insert inside", richtext.Range{Location: 4, Length: 4}, 6, 1, richtext.Range{Location: 4, Length: 5}},
		{"insert after", richtext.Range{Location: 4, Length: 2}, 9, 1, richtext.Range{Location: 4, Length: 2}},
		{"delete before", richtext.Range{Location: 4, Length: 2}, 1, -1, richtext.Range{Location: 3, Length: 2}},
		{"delete inside", richtext.Range{Location: 4, Length: 4}, 5, -1, richtext.Range{Location: 4, Length: 3}},
		{"delete overlapping start", richtext.Range{Location: 4, Length: 4}, 3, -2, richtext.Range{Location: 3, Length: 3}},
		{"delete after", richtext.Range{Location: 4, Length: 2}, 6, -1, richtext.Range{Location: 4, Length: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, shiftRange(tc.r, tc.pos, tc.delta))
		})
	}
}
