package editor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"richtext/pkg/richtext"
)

type fixedMetrics float64

func (m fixedMetrics) MarkerWidth(rune, richtext.Font) float64 { return float64(m) }

var (
	body     = richtext.Font{Class: richtext.SizeBody}
	bodyBold = richtext.Font{Class: richtext.SizeBody, Bold: true}
	leftPara = richtext.ParagraphStyle{Alignment: richtext.AlignLeft}
)

func plainAttrs() richtext.Attributes {
	return richtext.NewAttributes(body, leftPara)
}

func newTestEngine(t *testing.T, s string) (*Engine, *MemorySurface) {
	t.Helper()
	surface := NewMemorySurface(richtext.NewText(s, plainAttrs()))
	e := New(surface, fixedMetrics(10), DefaultOptions())
	e.InitTypingState()
	return e, surface
}

func fontRuns(s *MemorySurface) []richtext.ValueRun {
	t := s.AttributedText()
	return t.QueryRuns(richtext.Range{Length: t.Len()}, richtext.KeyFont)
}

func TestToggleBoldMajorityRule(t *testing.T) {
	e, s := newTestEngine(t, "aaabbccc")
	s.AttributedText().SetAttribute(richtext.KeyFont, bodyBold, richtext.Range{Location: 0, Length: 3})
	s.AttributedText().SetAttribute(richtext.KeyFont, bodyBold, richtext.Range{Location: 5, Length: 3})
	e.Select(richtext.Range{Length: 8})
	require.False(t, e.IsBold())

	e.ToggleBold()
	want := []richtext.ValueRun{{Value: bodyBold, Range: richtext.Range{Length: 8}}}
	if diff := cmp.Diff(want, fontRuns(s)); diff != "" {
		t.Fatalf("after first toggle (-want +got):\n%s", diff)
	}
	require.True(t, e.IsBold())

	e.ToggleBold()
	want = []richtext.ValueRun{{Value: body, Range: richtext.Range{Length: 8}}}
	if diff := cmp.Diff(want, fontRuns(s)); diff != "" {
		t.Fatalf("after second toggle (-want +got):\n%s", diff)
	}
	require.False(t, e.IsBold())
}

func TestToggleBoldKeepsSizeClassAndSkipsCustomFonts(t *testing.T) {
	e, s := newTestEngine(t, "titlebodyxx")
	custom := richtext.Font{PointSize: 13}
	s.AttributedText().SetAttribute(richtext.KeyFont, richtext.Font{Class: richtext.SizeTitle1}, richtext.Range{Length: 5})
	s.AttributedText().SetAttribute(richtext.KeyFont, custom, richtext.Range{Location: 9, Length: 2})
	e.Select(richtext.Range{Length: 11})

	e.ToggleBold()

	want := []richtext.ValueRun{
		{Value: richtext.Font{Class: richtext.SizeTitle1, Bold: true}, Range: richtext.Range{Length: 5}},
		{Value: bodyBold, Range: richtext.Range{Location: 5, Length: 4}},
		{Value: custom, Range: richtext.Range{Location: 9, Length: 2}},
	}
	if diff := cmp.Diff(want, fontRuns(s)); diff != "" {
		t.Fatalf("fonts (-want +got):\n%s", diff)
	}
}

func TestToggleBoldGivesBodyFontToUnstyledText(t *testing.T) {
	surface := NewMemorySurface(richtext.NewText("abc", richtext.Attributes{}))
	e := New(surface, nil, DefaultOptions())
	e.SelectAll()

	e.ToggleBold()

	want := []richtext.ValueRun{{Value: bodyBold, Range: richtext.Range{Length: 3}}}
	require.Empty(t, cmp.Diff(want, fontRuns(surface)))
}

func TestToggleScalarsOnMixedSelection(t *testing.T) {
	cases := []struct {
		name   string
		key    richtext.Key
		on     richtext.Value
		toggle func(*Engine)
		get    func(*Engine) bool
	}{
		{"italic", richtext.KeyObliqueness, richtext.Obliqueness(0.3), (*Engine).ToggleItalic, (*Engine).IsItalic},
		{"strikethrough", richtext.KeyStrikethrough, richtext.Strikethrough(1), (*Engine).ToggleStrikethrough, (*Engine).HasStrikethrough},
		{"underline", richtext.KeyUnderline, richtext.Underline(1), (*Engine).ToggleUnderline, (*Engine).HasUnderline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, s := newTestEngine(t, "abcdef")
			s.AttributedText().SetAttribute(tc.key, tc.on, richtext.Range{Location: 1, Length: 2})
			e.Select(richtext.Range{Location: 0, Length: 6})
			require.False(t, tc.get(e))

			tc.toggle(e)
			runs := s.AttributedText().QueryRuns(richtext.Range{Length: 6}, tc.key)
			require.Equal(t, []richtext.ValueRun{{Value: tc.on, Range: richtext.Range{Length: 6}}}, runs)
			require.True(t, tc.get(e))

			tc.toggle(e)
			require.Empty(t, s.AttributedText().QueryRuns(richtext.Range{Length: 6}, tc.key))
			require.False(t, tc.get(e))
		})
	}
}

func TestCollapsedTogglesFlipTypingState(t *testing.T) {
	e, s := newTestEngine(t, "abc")
	e.Select(richtext.Range{Location: 3})
	writes := s.Writes

	e.ToggleBold()
	e.ToggleItalic()
	e.ToggleStrikethrough()
	e.ToggleUnderline()
	require.True(t, e.IsBold())
	require.True(t, e.IsItalic())
	require.True(t, e.HasStrikethrough())
	require.True(t, e.HasUnderline())
	require.Equal(t, writes, s.Writes, "caret toggles must not touch the buffer")

	e.ToggleItalic()
	e.ToggleBold()
	require.False(t, e.IsItalic())
	require.False(t, e.IsBold())
	_, ok := s.TypingAttributes().Get(richtext.KeyObliqueness)
	require.False(t, ok)
}

func TestUniformToggleTwiceRestoresRuns(t *testing.T) {
	keys := []richtext.Key{richtext.KeyFont, richtext.KeyObliqueness, richtext.KeyStrikethrough, richtext.KeyUnderline}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(rt, "len")
		surface := NewMemorySurface(richtext.NewText(strings.Repeat("x", n), plainAttrs()))
		e := New(surface, fixedMetrics(10), DefaultOptions())
		text := surface.AttributedText()

		// Random background styling, then a uniform selection.
		for i := rapid.IntRange(0, 4).Draw(rt, "noise"); i > 0; i-- {
			a := rapid.IntRange(0, n).Draw(rt, "a")
			b := rapid.IntRange(0, n).Draw(rt, "b")
			text.SetAttribute(richtext.KeyUnderline, richtext.Underline(1), richtext.NewRange(a, b))
			text.SetAttribute(richtext.KeyFont, bodyBold, richtext.NewRange(b, n))
		}
		start := rapid.IntRange(0, n-1).Draw(rt, "start")
		end := rapid.IntRange(start+1, n).Draw(rt, "end")
		sel := richtext.NewRange(start, end)
		key := keys[rapid.IntRange(0, len(keys)-1).Draw(rt, "key")]
		uniformOn := rapid.Bool().Draw(rt, "on")

		switch key {
		case richtext.KeyFont:
			text.SetAttribute(key, body.WithBold(uniformOn), sel)
		case richtext.KeyObliqueness:
			if uniformOn {
				text.SetAttribute(key, richtext.Obliqueness(0.3), sel)
			} else {
				text.SetAttribute(key, nil, sel)
			}
		case richtext.KeyStrikethrough:
			if uniformOn {
				text.SetAttribute(key, richtext.Strikethrough(1), sel)
			} else {
				text.SetAttribute(key, nil, sel)
			}
		case richtext.KeyUnderline:
			if uniformOn {
				text.SetAttribute(key, richtext.Underline(1), sel)
			} else {
				text.SetAttribute(key, nil, sel)
			}
		}
		before := text.Runs()
		e.Select(sel)

		for i := 0; i < 2; i++ {
			switch key {
			case richtext.KeyFont:
				e.ToggleBold()
			case richtext.KeyObliqueness:
				e.ToggleItalic()
			case richtext.KeyStrikethrough:
				e.ToggleStrikethrough()
			case richtext.KeyUnderline:
				e.ToggleUnderline()
			}
		}

		after := surface.AttributedText().Runs()
		require.Equal(rt, before, after)
		require.Equal(rt, sel, surface.Selection())
	})
}

func TestMutationsPreserveSelection(t *testing.T) {
	ops := map[string]func(*Engine){
		"bold":      (*Engine).ToggleBold,
		"italic":    (*Engine).ToggleItalic,
		"strike":    (*Engine).ToggleStrikethrough,
		"underline": (*Engine).ToggleUnderline,
		"font":      func(e *Engine) { e.SetFont(richtext.SizeTitle3) },
		"align":     func(e *Engine) { e.SetAlignment(richtext.AlignCenter) },
		"left":      (*Engine).LeftIndent,
		"right":     (*Engine).RightIndent,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			e, s := newTestEngine(t, "first line\nsecond line\nthird")
			sel := richtext.Range{Location: 3, Length: 12}
			e.Select(sel)
			writes := s.Writes

			op(e)

			require.Equal(t, sel, s.Selection())
			require.Equal(t, sel, s.LastScroll)
			require.Equal(t, writes+1, s.Writes)
		})
	}
}

func TestSetFontDiscardsBold(t *testing.T) {
	e, s := newTestEngine(t, "heading")
	s.AttributedText().SetAttribute(richtext.KeyFont, bodyBold, richtext.Range{Length: 7})
	e.SelectAll()

	e.SetFont(richtext.SizeTitle1)
	class, ok := e.FontStyle()
	require.True(t, ok)
	require.Equal(t, richtext.SizeTitle1, class)
	require.False(t, e.IsBold())

	e.SetFont(richtext.SizeLargeTitle)
	require.True(t, e.IsBold())

	e.Select(richtext.Range{Location: 7})
	e.SetFont(richtext.SizeTitle2)
	class, ok = e.FontStyle()
	require.True(t, ok)
	require.Equal(t, richtext.SizeTitle2, class)
	require.False(t, e.IsBold())
}

func TestNewFillsMissingOptions(t *testing.T) {
	e := New(NewMemorySurface(nil), nil, Options{})
	opts := e.Options()
	require.Equal(t, 32.0, opts.IndentStep)
	require.Equal(t, 0.3, opts.Obliqueness)
	require.Equal(t, '•', opts.ListMarker)
	require.Equal(t, richtext.SizeBody, opts.Fonts.Font(richtext.SizeBody).Class)
}

func TestSelectRefreshesTypingState(t *testing.T) {
	e, s := newTestEngine(t, "abcd")
	s.AttributedText().SetAttribute(richtext.KeyUnderline, richtext.Underline(1), richtext.Range{Location: 1, Length: 1})

	e.Select(richtext.Range{Location: 2})
	require.True(t, e.HasUnderline())

	e.Select(richtext.Range{Location: 4})
	require.False(t, e.HasUnderline())

	e.Select(richtext.Range{Location: 99, Length: 5})
	require.Equal(t, richtext.Range{Location: 4}, s.Selection())
}
