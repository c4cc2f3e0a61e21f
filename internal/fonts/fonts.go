// Package fonts maps size classes to concrete faces. The mapping only runs
// forward: runs carry their size class, so nothing here ever guesses a class
// back from a point size.
package fonts

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"richtext/internal/config"
	"richtext/internal/log"
	"richtext/pkg/richtext"
)

type Weight uint8

const (
	WeightRegular Weight = iota
	WeightBold
)

func (w Weight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "regular"
}

// Descriptor is the concrete font behind a size class.
type Descriptor struct {
	Family    string
	PointSize float64
	Weight    Weight
}

// Table is the forward size-class table.
type Table struct {
	entries map[richtext.SizeClass]Descriptor
}

func NewTable(cfg config.FontsConfig) Table {
	return Table{entries: map[richtext.SizeClass]Descriptor{
		richtext.SizeLargeTitle: {Family: "Go Bold", PointSize: cfg.LargeTitle, Weight: WeightBold},
		richtext.SizeTitle1:     {Family: "Go", PointSize: cfg.Title1},
		richtext.SizeTitle2:     {Family: "Go", PointSize: cfg.Title2},
		richtext.SizeTitle3:     {Family: "Go", PointSize: cfg.Title3},
		richtext.SizeBody:       {Family: "Go", PointSize: cfg.Body},
	}}
}

func DefaultTable() Table {
	return NewTable(config.Defaults().Fonts)
}

func (t Table) Descriptor(class richtext.SizeClass) (Descriptor, bool) {
	d, ok := t.entries[class]
	return d, ok
}

// Font returns the run value for class. Only the large title is bold. The
// point size stays with the table so configured sizes never leak into runs.
func (t Table) Font(class richtext.SizeClass) richtext.Font {
	d, ok := t.entries[class]
	if !ok {
		return richtext.BodyFont()
	}
	return richtext.Font{Class: class, Bold: d.Weight == WeightBold}
}

// PointSize resolves the rendered size of f. Custom fonts keep their own
// size; anything unusable falls back to body.
func (t Table) PointSize(f richtext.Font) float64 {
	if d, ok := t.entries[f.Class]; ok {
		return d.PointSize
	}
	if f.PointSize > 0 {
		return f.PointSize
	}
	return t.entries[richtext.SizeBody].PointSize
}

type faceKey struct {
	size   int // points * 100
	bold   bool
	italic bool
}

// Bank owns parsed Go font families and a face cache. It is safe for
// concurrent use.
type Bank struct {
	table Table

	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font

	mu    sync.Mutex
	cache map[faceKey]font.Face
}

func NewBank(table Table) (*Bank, error) {
	b := &Bank{table: table, cache: map[faceKey]font.Face{}}
	for _, src := range []struct {
		dst  **opentype.Font
		name string
		ttf  []byte
	}{
		{&b.regular, "regular", goregular.TTF},
		{&b.bold, "bold", gobold.TTF},
		{&b.italic, "italic", goitalic.TTF},
		{&b.boldItalic, "bold italic", gobolditalic.TTF},
	} {
		f, err := opentype.Parse(src.ttf)
		if err != nil {
			log.ErrorErr(log.CatFonts, "Failed to parse font", err, "face", src.name)
			return nil, fmt.Errorf("parse %s font: %w", src.name, err)
		}
		*src.dst = f
	}
	return b, nil
}

func (b *Bank) Table() Table { return b.table }

// Face returns a cached face for f scaled by scale. Italic is a separate
// flag because slant lives in its own attribute.
func (b *Bank) Face(f richtext.Font, italic bool, scale float64) font.Face {
	if scale <= 0 {
		scale = 1
	}
	size := b.table.PointSize(f) * scale
	key := faceKey{size: int(math.Round(size * 100)), bold: f.Bold, italic: italic}

	b.mu.Lock()
	defer b.mu.Unlock()
	if face, ok := b.cache[key]; ok {
		return face
	}
	var base *opentype.Font
	switch {
	case f.Bold && italic:
		base = b.boldItalic
	case f.Bold:
		base = b.bold
	case italic:
		base = b.italic
	default:
		base = b.regular
	}
	if base == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(base, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.ErrorErr(log.CatFonts, "Failed to build face", err, "size", size)
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}

// MarkerWidth is the advance of marker in f, in points.
func (b *Bank) MarkerWidth(marker rune, f richtext.Font) float64 {
	return Measure(b.Face(f, false, 1), string(marker))
}

// Measure returns the advance width of s in pixels.
func Measure(face font.Face, s string) float64 {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	return math.Max(0, float64(adv)/64)
}
