package render

import (
	"math"

	"golang.org/x/image/font"

	"richtext/internal/fonts"
	"richtext/pkg/richtext"
)

// FaceSource resolves a face for a run font. fonts.Bank implements it.
type FaceSource interface {
	Face(f richtext.Font, italic bool, scale float64) font.Face
}

// Segment is one run's slice of a line.
type Segment struct {
	Range richtext.Range
	Text  string
	Attrs richtext.Attributes
	Face  font.Face
	X     float64 // from the line's left edge
	Width float64
}

// Attachment reports the inline content carried by the segment, if any.
func (s Segment) Attachment() (richtext.Attachment, bool) {
	return s.Attrs.Attachment()
}

// Line is one paragraph laid out without wrapping. Range excludes the
// terminator.
type Line struct {
	Range    richtext.Range
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Ascent   float64
	Segments []Segment
}

// Baseline is the y coordinate glyphs sit on.
func (l Line) Baseline() float64 { return l.Y + l.Ascent }

type TextLayout struct {
	Lines  []Line
	Width  float64
	Height float64
}

const (
	lineGap   = 6.0
	minHeight = 14.0
)

// LayoutText lays out every paragraph of t on its own line inside width.
// Indents are in points and multiplied by scale. fallback styles the empty
// trailing paragraph, usually the typing attributes.
func LayoutText(t *richtext.Text, fallback richtext.Attributes, faces FaceSource, width, scale float64) TextLayout {
	if scale <= 0 {
		scale = 1
	}
	var out TextLayout
	y := 0.0
	add := func(content richtext.Range, attrs richtext.Attributes) {
		line := layoutLine(t, content, attrs, faces, width, scale)
		line.Y = y
		y += line.Height + lineGap*scale
		out.Width = math.Max(out.Width, line.X+line.Width)
		out.Lines = append(out.Lines, line)
	}

	n := t.Len()
	if n > 0 {
		for _, p := range t.Paragraphs(richtext.Range{Length: n}) {
			add(t.ContentRange(p), t.AttributesAt(p.Location))
		}
	}
	if last, ok := t.RuneAt(n - 1); n == 0 || ok && isBreak(last) {
		add(richtext.Range{Location: n}, fallback)
	}
	out.Height = y
	return out
}

func layoutLine(t *richtext.Text, content richtext.Range, attrs richtext.Attributes, faces FaceSource, width, scale float64) Line {
	line := Line{Range: content}
	x := 0.0
	t.Enumerate(content, func(run richtext.Run) bool {
		seg := Segment{Range: run.Range, Text: t.Substring(run.Range), Attrs: run.Attrs, X: x}
		if a, ok := run.Attrs.Attachment(); ok {
			seg.Width = a.Width * scale * float64(run.Range.Length)
			line.Ascent = math.Max(line.Ascent, a.Height*scale)
		} else {
			seg.Face = faceFor(faces, run.Attrs, scale)
			seg.Width = fonts.Measure(seg.Face, seg.Text)
			line.Ascent = math.Max(line.Ascent, float64(seg.Face.Metrics().Ascent.Ceil()))
		}
		x += seg.Width
		line.Segments = append(line.Segments, seg)
		return true
	})
	line.Width = x

	face := faceFor(faces, attrs, scale)
	m := face.Metrics()
	line.Ascent = math.Max(line.Ascent, float64(m.Ascent.Ceil()))
	line.Height = math.Max(line.Ascent+float64(m.Descent.Ceil()), minHeight*scale)

	ps, _ := attrs.ParagraphStyle()
	start := ps.LeadingIndent() * scale
	end := width + ps.TailIndent*scale
	switch ps.Alignment {
	case richtext.AlignCenter:
		line.X = start + (end-start-line.Width)/2
	case richtext.AlignRight:
		line.X = end - line.Width
	default:
		line.X = start
	}
	line.X = math.Max(line.X, start)
	return line
}

func faceFor(faces FaceSource, attrs richtext.Attributes, scale float64) font.Face {
	f, ok := attrs.Font()
	if !ok {
		f = richtext.BodyFont()
	}
	italic := false
	if v, ok := attrs.Get(richtext.KeyObliqueness); ok {
		italic = v.(richtext.Obliqueness) != 0
	}
	return faces.Face(f, italic, scale)
}

func isBreak(r rune) bool { return r == '\n' || r == '\r' || r == '\u2029' }

// LineAt returns the index of the line holding caret position pos.
func (l TextLayout) LineAt(pos int) int {
	for i, line := range l.Lines {
		if pos <= line.Range.End() {
			return i
		}
	}
	return len(l.Lines) - 1
}

// CaretX returns the x coordinate of caret position pos on its line.
func (l TextLayout) CaretX(pos int) float64 {
	i := l.LineAt(pos)
	if i < 0 {
		return 0
	}
	line := l.Lines[i]
	return line.X + advance(line, pos)
}

func advance(line Line, pos int) float64 {
	for _, seg := range line.Segments {
		if pos >= seg.Range.End() {
			continue
		}
		if pos <= seg.Range.Location {
			return seg.X
		}
		k := pos - seg.Range.Location
		if _, ok := seg.Attachment(); ok {
			return seg.X + seg.Width*float64(k)/float64(seg.Range.Length)
		}
		return seg.X + fonts.Measure(seg.Face, string([]rune(seg.Text)[:k]))
	}
	return line.Width
}

// PosAt maps a point in layout coordinates to the nearest caret position.
func (l TextLayout) PosAt(x, y float64) int {
	if len(l.Lines) == 0 {
		return 0
	}
	line := l.Lines[len(l.Lines)-1]
	for _, ln := range l.Lines {
		if y < ln.Y+ln.Height {
			line = ln
			break
		}
	}
	rel := x - line.X
	if rel <= 0 {
		return line.Range.Location
	}
	for _, seg := range line.Segments {
		if rel > seg.X+seg.Width {
			continue
		}
		runes := []rune(seg.Text)
		prev := seg.X
		for k := range runes {
			var next float64
			if _, ok := seg.Attachment(); ok {
				next = seg.X + seg.Width*float64(k+1)/float64(len(runes))
			} else {
				next = seg.X + fonts.Measure(seg.Face, string(runes[:k+1]))
			}
			if rel < (prev+next)/2 {
				return seg.Range.Location + k
			}
			prev = next
		}
		return seg.Range.End()
	}
	return line.Range.End()
}
