package richtext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	bold    = Font{Class: SizeBody, Bold: true}
	regular = Font{Class: SizeBody}
)

func checkCoverage(t require.TestingT, txt *Text) {
	pos := 0
	runs := txt.Runs()
	for i, r := range runs {
		require.Equal(t, pos, r.Range.Location, "run %d starts at %d", i, r.Range.Location)
		require.Positive(t, r.Range.Length, "run %d is empty", i)
		if i > 0 {
			require.False(t, runs[i-1].Attrs.Equal(r.Attrs), "runs %d and %d should have merged", i-1, i)
		}
		pos = r.Range.End()
	}
	require.Equal(t, txt.Len(), pos)
}

func TestQueryRunsOmitsUnset(t *testing.T) {
	txt := NewText("abcdefgh", NewAttributes(regular))
	txt.SetAttribute(KeyUnderline, Underline(1), Range{1, 2})
	txt.SetAttribute(KeyUnderline, Underline(2), Range{3, 1})
	txt.SetAttribute(KeyUnderline, Underline(1), Range{6, 2})

	got := txt.QueryRuns(Range{0, 8}, KeyUnderline)
	want := []ValueRun{
		{Value: Underline(1), Range: Range{1, 2}},
		{Value: Underline(2), Range: Range{3, 1}},
		{Value: Underline(1), Range: Range{6, 2}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("QueryRuns mismatch (-want +got):\n%s", diff)
	}

	require.Empty(t, txt.QueryRuns(Range{4, 0}, KeyUnderline))
	require.Empty(t, txt.QueryRuns(Range{4, 2}, KeyUnderline))
}

func TestQueryRunsMergesAcrossOtherKeys(t *testing.T) {
	txt := NewText("abcdef", NewAttributes(regular))
	txt.SetAttribute(KeyUnderline, Underline(1), Range{2, 2})

	got := txt.QueryRuns(Range{0, 6}, KeyFont)
	require.Equal(t, []ValueRun{{Value: regular, Range: Range{0, 6}}}, got)
}

func TestSetAttributeRemovesThenAdds(t *testing.T) {
	txt := NewText("abcdef", NewAttributes(regular, Underline(1)))
	txt.SetAttribute(KeyFont, bold, Range{2, 2})
	txt.SetAttribute(KeyUnderline, nil, Range{0, 6})
	checkCoverage(t, txt)

	require.Empty(t, txt.QueryRuns(Range{0, 6}, KeyUnderline))
	require.Equal(t, NewAttributes(bold), txt.AttributesAt(2))

	txt.SetAttribute(KeyFont, regular, Range{0, 6})
	require.Len(t, txt.Runs(), 1)

	// Mismatched key and value is ignored.
	txt.SetAttribute(KeyUnderline, bold, Range{0, 6})
	require.Equal(t, NewAttributes(regular), txt.AttributesAt(0))
}

func TestInsertShiftsRuns(t *testing.T) {
	txt := NewText("abcd", NewAttributes(regular))
	txt.SetAttribute(KeyFont, bold, Range{2, 2})

	txt.Insert(2, "XY", NewAttributes(Underline(1)))

	require.Equal(t, "abXYcd", txt.String())
	want := []Run{
		{Range: Range{0, 2}, Attrs: NewAttributes(regular)},
		{Range: Range{2, 2}, Attrs: NewAttributes(Underline(1))},
		{Range: Range{4, 2}, Attrs: NewAttributes(bold)},
	}
	require.Equal(t, want, txt.Runs())
}

func TestInsertSplitsRunAndDeleteMerges(t *testing.T) {
	txt := NewText("abcd", NewAttributes(regular))
	txt.Insert(1, "--", NewAttributes(bold))
	require.Equal(t, "a--bcd", txt.String())
	require.Len(t, txt.Runs(), 3)

	txt.Delete(Range{1, 2})
	require.Equal(t, "abcd", txt.String())
	require.Equal(t, []Run{{Range: Range{0, 4}, Attrs: NewAttributes(regular)}}, txt.Runs())
}

func TestDeleteClampsOutOfBounds(t *testing.T) {
	txt := NewText("abc", NewAttributes(regular))
	txt.Delete(Range{2, 50})
	require.Equal(t, "ab", txt.String())
	txt.Delete(Range{-5, 1})
	require.Equal(t, "ab", txt.String())
	checkCoverage(t, txt)
}

func TestReplaceAndSubstring(t *testing.T) {
	txt := NewText("h\u00e9llo w\u00f6rld", NewAttributes(regular))
	require.Equal(t, "w\u00f6rld", txt.Substring(Range{6, 5}))

	txt.Replace(Range{0, 5}, "ciao", NewAttributes(bold))
	require.Equal(t, "ciao w\u00f6rld", txt.String())
	require.Equal(t, NewAttributes(bold), txt.AttributesAt(3))
	require.Equal(t, NewAttributes(regular), txt.AttributesAt(4))
}

func TestInsertTextKeepsRuns(t *testing.T) {
	txt := NewText("[]", NewAttributes(regular))
	other := NewText("ab", NewAttributes(bold))
	other.SetAttribute(KeyUnderline, Underline(1), Range{1, 1})

	txt.InsertText(1, other)

	require.Equal(t, "[ab]", txt.String())
	require.Equal(t, NewAttributes(bold), txt.AttributesAt(1))
	require.Equal(t, NewAttributes(bold, Underline(1)), txt.AttributesAt(2))
	checkCoverage(t, txt)
}

func TestCloneIsIndependent(t *testing.T) {
	txt := NewText("abc", NewAttributes(regular))
	c := txt.Clone()
	c.SetAttribute(KeyFont, bold, Range{0, 3})
	c.Insert(0, "x", Attributes{})

	require.Equal(t, "abc", txt.String())
	require.Equal(t, NewAttributes(regular), txt.AttributesAt(0))
}

func TestNewTextFromRunsFillsGaps(t *testing.T) {
	txt := NewTextFromRuns("abcdef", []Run{
		{Range: Range{4, 9}, Attrs: NewAttributes(bold)},
		{Range: Range{1, 2}, Attrs: NewAttributes(regular)},
	})
	want := []Run{
		{Range: Range{0, 1}},
		{Range: Range{1, 2}, Attrs: NewAttributes(regular)},
		{Range: Range{3, 1}},
		{Range: Range{4, 2}, Attrs: NewAttributes(bold)},
	}
	require.Equal(t, want, txt.Runs())
}

func TestEnumerateStopsEarly(t *testing.T) {
	txt := NewText("abcdef", NewAttributes(regular))
	txt.SetAttribute(KeyFont, bold, Range{2, 2})

	var seen []Range
	txt.Enumerate(Range{1, 5}, func(r Run) bool {
		seen = append(seen, r.Range)
		return len(seen) < 2
	})
	require.Equal(t, []Range{{1, 1}, {2, 2}}, seen)
}

func TestRangeHelpers(t *testing.T) {
	require.Equal(t, Range{2, 3}, NewRange(5, 2))
	require.Equal(t, Range{3, 2}, Range{1, 4}.Intersect(Range{3, 9}))
	require.Equal(t, Range{7, 0}, Range{1, 2}.Intersect(Range{7, 1}))
	require.Equal(t, Range{4, 0}, Range{9, 3}.Clamp(4))
	require.Equal(t, Range{0, 4}, Range{-2, 10}.Clamp(4))
	require.True(t, Range{2, 2}.Contains(3))
	require.False(t, Range{2, 2}.Contains(4))
	require.Equal(t, "{2, 2}", Range{2, 2}.String())
}

// QueryRuns partitions the queried range: ordered, disjoint, each inside r,
// maximal, and together covering exactly the characters where k is set.
func TestQueryRunsPartitionProperty(t *testing.T) {
	values := []Value{Underline(1), Underline(2), nil}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "len")
		txt := NewText(strings.Repeat("a", n), Attributes{})
		want := make([]Value, n)

		for i := rapid.IntRange(0, 8).Draw(rt, "ops"); i > 0; i-- {
			a := rapid.IntRange(0, n).Draw(rt, "a")
			b := rapid.IntRange(0, n).Draw(rt, "b")
			v := values[rapid.IntRange(0, len(values)-1).Draw(rt, "v")]
			r := NewRange(a, b)
			txt.SetAttribute(KeyUnderline, v, r)
			for p := r.Location; p < r.End(); p++ {
				want[p] = v
			}
			if rapid.Bool().Draw(rt, "font") {
				txt.SetAttribute(KeyFont, bold, NewRange(b, n))
			}
		}
		checkCoverage(rt, txt)

		qa := rapid.IntRange(0, n).Draw(rt, "qa")
		qb := rapid.IntRange(0, n).Draw(rt, "qb")
		q := NewRange(qa, qb)
		runs := txt.QueryRuns(q, KeyUnderline)

		got := make([]Value, n)
		prevEnd := -1
		for i, vr := range runs {
			require.Positive(rt, vr.Range.Length)
			require.GreaterOrEqual(rt, vr.Range.Location, q.Location)
			require.LessOrEqual(rt, vr.Range.End(), q.End())
			require.Greater(rt, vr.Range.Location, prevEnd-1, "runs overlap or are unordered")
			if i > 0 && prevEnd == vr.Range.Location {
				require.NotEqual(rt, runs[i-1].Value, vr.Value, "adjacent equal runs not merged")
			}
			for p := vr.Range.Location; p < vr.Range.End(); p++ {
				got[p] = vr.Value
			}
			prevEnd = vr.Range.End()
		}
		for p := q.Location; p < q.End(); p++ {
			require.Equal(rt, want[p], got[p], "position %d", p)
		}
	})
}
