package richtext

import (
	"fmt"
	"sort"
)

// Range addresses runes, not bytes.
type Range struct {
	Location int
	Length   int
}

func NewRange(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Location: start, Length: end - start}
}

func (r Range) End() int { return r.Location + r.Length }

func (r Range) IsEmpty() bool { return r.Length <= 0 }

func (r Range) Contains(pos int) bool { return pos >= r.Location && pos < r.End() }

// Intersect returns the overlap of r and o, or an empty range at the later
// start when they do not overlap.
func (r Range) Intersect(o Range) Range {
	start := max(r.Location, o.Location)
	end := min(r.End(), o.End())
	if end < start {
		end = start
	}
	return Range{Location: start, Length: end - start}
}

// Clamp keeps the range inside [0, n].
func (r Range) Clamp(n int) Range {
	if n < 0 {
		n = 0
	}
	start := r.Location
	end := r.End()
	if r.Length < 0 {
		end = start
	}
	start = clampInt(start, 0, n)
	end = clampInt(end, start, n)
	return Range{Location: start, Length: end - start}
}

func (r Range) String() string { return fmt.Sprintf("{%d, %d}", r.Location, r.Length) }

type Run struct {
	Range Range
	Attrs Attributes
}

type ValueRun struct {
	Value Value
	Range Range
}

// Text is an attributed rune buffer. Its runs are sorted, non-overlapping,
// cover [0, Len()) exactly and adjacent runs never carry equal attributes.
type Text struct {
	runes []rune
	runs  []Run
}

func NewText(s string, attrs Attributes) *Text {
	t := &Text{runes: []rune(s)}
	if len(t.runes) > 0 {
		t.runs = []Run{{Range: Range{0, len(t.runes)}, Attrs: attrs}}
	}
	return t
}

// NewTextFromRuns rebuilds a Text from possibly sparse or overlapping runs;
// gaps are filled with empty attribute sets.
func NewTextFromRuns(s string, runs []Run) *Text {
	t := &Text{runes: []rune(s)}
	t.runs = sanitizeRuns(len(t.runes), runs)
	return t
}

func (t *Text) Len() int {
	if t == nil {
		return 0
	}
	return len(t.runes)
}

func (t *Text) String() string {
	if t == nil {
		return ""
	}
	return string(t.runes)
}

func (t *Text) RuneAt(pos int) (rune, bool) {
	if t == nil || pos < 0 || pos >= len(t.runes) {
		return 0, false
	}
	return t.runes[pos], true
}

func (t *Text) Substring(r Range) string {
	r = r.Clamp(t.Len())
	return string(t.runes[r.Location:r.End()])
}

// Runs returns a copy of the run list.
func (t *Text) Runs() []Run {
	if t == nil {
		return nil
	}
	out := make([]Run, len(t.runs))
	copy(out, t.runs)
	return out
}

func (t *Text) Clone() *Text {
	if t == nil {
		return &Text{}
	}
	return &Text{
		runes: append([]rune(nil), t.runes...),
		runs:  append([]Run(nil), t.runs...),
	}
}

// AttributesAt returns the attributes of the rune at pos. Positions at the
// end of the text report the last rune.
func (t *Text) AttributesAt(pos int) Attributes {
	if t.Len() == 0 {
		return Attributes{}
	}
	pos = clampInt(pos, 0, t.Len()-1)
	i := t.runIndex(pos)
	if i < 0 {
		return Attributes{}
	}
	return t.runs[i].Attrs
}

// Enumerate calls fn for every run clipped to r until fn returns false.
func (t *Text) Enumerate(r Range, fn func(Run) bool) {
	r = r.Clamp(t.Len())
	if r.IsEmpty() {
		return
	}
	for i := t.runIndex(r.Location); i >= 0 && i < len(t.runs); i++ {
		run := t.runs[i]
		if run.Range.Location >= r.End() {
			return
		}
		clip := run.Range.Intersect(r)
		if clip.IsEmpty() {
			continue
		}
		if !fn(Run{Range: clip, Attrs: run.Attrs}) {
			return
		}
	}
}

// QueryRuns partitions r into maximal runs of constant value for k. Ranges
// where k is unset are left out. An empty r yields nothing.
func (t *Text) QueryRuns(r Range, k Key) []ValueRun {
	var out []ValueRun
	t.Enumerate(r, func(run Run) bool {
		v, ok := run.Attrs.Get(k)
		if !ok {
			return true
		}
		if n := len(out); n > 0 && out[n-1].Value == v && out[n-1].Range.End() == run.Range.Location {
			out[n-1].Range.Length += run.Range.Length
			return true
		}
		out = append(out, ValueRun{Value: v, Range: run.Range})
		return true
	})
	return out
}

// SetAttribute replaces k across r. A nil value removes it.
func (t *Text) SetAttribute(k Key, v Value, r Range) {
	if v != nil && v.Key() != k {
		return
	}
	t.mutate(r, func(a Attributes) Attributes {
		a = a.Without(k)
		if v != nil {
			a = a.With(v)
		}
		return a
	})
}

// AddAttributes overlays every value of attrs across r.
func (t *Text) AddAttributes(attrs Attributes, r Range) {
	t.mutate(r, func(a Attributes) Attributes { return a.Merge(attrs) })
}

// SetAttributes replaces the whole attribute set across r.
func (t *Text) SetAttributes(attrs Attributes, r Range) {
	t.mutate(r, func(Attributes) Attributes { return attrs })
}

// Insert adds s at position at as one run carrying attrs.
func (t *Text) Insert(at int, s string, attrs Attributes) {
	t.InsertText(at, NewText(s, attrs))
}

// InsertText splices other into t at position at, keeping other's runs.
func (t *Text) InsertText(at int, other *Text) {
	n := other.Len()
	if n == 0 {
		return
	}
	at = clampInt(at, 0, t.Len())

	runes := make([]rune, 0, len(t.runes)+n)
	runes = append(runes, t.runes[:at]...)
	runes = append(runes, other.runes...)
	runes = append(runes, t.runes[at:]...)

	runs := make([]Run, 0, len(t.runs)+len(other.runs)+1)
	for _, run := range t.runs {
		rs, re := run.Range.Location, run.Range.End()
		switch {
		case re <= at:
			runs = append(runs, run)
		case rs >= at:
			runs = append(runs, Run{Range: Range{rs + n, run.Range.Length}, Attrs: run.Attrs})
		default:
			runs = append(runs, Run{Range: NewRange(rs, at), Attrs: run.Attrs})
			runs = append(runs, Run{Range: NewRange(at+n, re+n), Attrs: run.Attrs})
		}
	}
	for _, run := range other.runs {
		runs = append(runs, Run{Range: Range{run.Range.Location + at, run.Range.Length}, Attrs: run.Attrs})
	}

	t.runes = runes
	t.runs = sanitizeRuns(len(runes), runs)
}

// Delete removes r and shifts later runs left.
func (t *Text) Delete(r Range) {
	r = r.Clamp(t.Len())
	if r.IsEmpty() {
		return
	}
	start, end := r.Location, r.End()
	delta := r.Length

	runes := make([]rune, 0, len(t.runes)-delta)
	runes = append(runes, t.runes[:start]...)
	runes = append(runes, t.runes[end:]...)

	runs := make([]Run, 0, len(t.runs))
	for _, run := range t.runs {
		rs, re := run.Range.Location, run.Range.End()
		switch {
		case re <= start:
			runs = append(runs, run)
		case rs >= end:
			runs = append(runs, Run{Range: Range{rs - delta, run.Range.Length}, Attrs: run.Attrs})
		default:
			if rs < start {
				runs = append(runs, Run{Range: NewRange(rs, start), Attrs: run.Attrs})
			}
			if re > end {
				runs = append(runs, Run{Range: NewRange(end-delta, re-delta), Attrs: run.Attrs})
			}
		}
	}

	t.runes = runes
	t.runs = sanitizeRuns(len(runes), runs)
}

// Replace deletes r and inserts s carrying attrs in its place.
func (t *Text) Replace(r Range, s string, attrs Attributes) {
	r = r.Clamp(t.Len())
	t.Delete(r)
	t.Insert(r.Location, s, attrs)
}

func (t *Text) mutate(r Range, fn func(Attributes) Attributes) {
	r = r.Clamp(t.Len())
	if r.IsEmpty() {
		return
	}
	start, end := r.Location, r.End()
	runs := make([]Run, 0, len(t.runs)+2)
	for _, run := range t.runs {
		rs, re := run.Range.Location, run.Range.End()
		if re <= start || rs >= end {
			runs = append(runs, run)
			continue
		}
		if rs < start {
			runs = append(runs, Run{Range: NewRange(rs, start), Attrs: run.Attrs})
			rs = start
		}
		midEnd := min(re, end)
		runs = append(runs, Run{Range: NewRange(rs, midEnd), Attrs: fn(run.Attrs)})
		if re > end {
			runs = append(runs, Run{Range: NewRange(end, re), Attrs: run.Attrs})
		}
	}
	t.runs = sanitizeRuns(len(t.runes), runs)
}

// runIndex finds the run holding pos, or -1.
func (t *Text) runIndex(pos int) int {
	i := sort.Search(len(t.runs), func(i int) bool { return t.runs[i].Range.End() > pos })
	if i >= len(t.runs) || !t.runs[i].Range.Contains(pos) {
		return -1
	}
	return i
}

func sanitizeRuns(textLen int, runs []Run) []Run {
	if textLen <= 0 {
		return nil
	}
	clean := make([]Run, 0, len(runs))
	for _, r := range runs {
		r.Range = r.Range.Clamp(textLen)
		if r.Range.IsEmpty() {
			continue
		}
		clean = append(clean, r)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Range.Location < clean[j].Range.Location
	})

	out := make([]Run, 0, len(clean)+1)
	pos := 0
	for _, r := range clean {
		start, end := r.Range.Location, r.Range.End()
		if end <= pos {
			continue
		}
		if start < pos {
			start = pos
		}
		if start > pos {
			out = appendMerged(out, Run{Range: NewRange(pos, start)})
		}
		out = appendMerged(out, Run{Range: NewRange(start, end), Attrs: r.Attrs})
		pos = end
	}
	if pos < textLen {
		out = appendMerged(out, Run{Range: NewRange(pos, textLen)})
	}
	return out
}

func appendMerged(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 && runs[n-1].Range.End() == r.Range.Location && runs[n-1].Attrs == r.Attrs {
		runs[n-1].Range.Length += r.Range.Length
		return runs
	}
	return append(runs, r)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
