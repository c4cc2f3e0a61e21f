package richtext

import (
	"errors"
	"fmt"
	"sort"
)

// Key identifies one attribute slot. The set is closed; hosts that carry
// other keys must translate them before reaching the engine.
type Key uint8

const (
	KeyFont Key = iota + 1
	KeyObliqueness
	KeyStrikethrough
	KeyUnderline
	KeyParagraphStyle
	KeyAttachment

	keyCount = int(KeyAttachment) + 1
)

var keyNames = map[Key]string{
	KeyFont:           "font",
	KeyObliqueness:    "obliqueness",
	KeyStrikethrough:  "strikethroughStyle",
	KeyUnderline:      "underlineStyle",
	KeyParagraphStyle: "paragraphStyle",
	KeyAttachment:     "attachment",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

func (k Key) valid() bool {
	return k >= KeyFont && k <= KeyAttachment
}

// Value is an attribute value. Only the types in this package implement it.
type Value interface {
	Key() Key
	sealed()
}

type SizeClass uint8

const (
	SizeCustom SizeClass = iota
	SizeLargeTitle
	SizeTitle1
	SizeTitle2
	SizeTitle3
	SizeBody
)

func (c SizeClass) String() string {
	switch c {
	case SizeLargeTitle:
		return "largeTitle"
	case SizeTitle1:
		return "title1"
	case SizeTitle2:
		return "title2"
	case SizeTitle3:
		return "title3"
	case SizeBody:
		return "body"
	default:
		return "custom"
	}
}

// ParseSizeClass accepts the names produced by SizeClass.String.
func ParseSizeClass(s string) (SizeClass, bool) {
	for c := SizeLargeTitle; c <= SizeBody; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return SizeCustom, false
}

// Font records the semantic size class directly. PointSize only matters for
// SizeCustom fonts handed in by a host.
type Font struct {
	Class     SizeClass
	Bold      bool
	PointSize float64
}

func (Font) Key() Key { return KeyFont }
func (Font) sealed()  {}

// Known reports whether the font came from the size-class table.
func (f Font) Known() bool { return f.Class != SizeCustom }

// WithBold returns the same size class with the requested weight. Custom
// fonts are returned unchanged.
func (f Font) WithBold(bold bool) Font {
	if !f.Known() {
		return f
	}
	f.Bold = bold
	return f
}

// BodyFont is the regular body font used for fresh typing state.
func BodyFont() Font { return Font{Class: SizeBody} }

type Obliqueness float64

func (Obliqueness) Key() Key { return KeyObliqueness }
func (Obliqueness) sealed()  {}

type Strikethrough int

func (Strikethrough) Key() Key { return KeyStrikethrough }
func (Strikethrough) sealed()  {}

type Underline int

func (Underline) Key() Key { return KeyUnderline }
func (Underline) sealed()  {}

type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignNatural
	AlignJustified
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	default:
		return "natural"
	}
}

type ListMode uint8

const (
	ListNone ListMode = iota
	ListBullet
	ListNumber
	ListCheck
)

func (m ListMode) String() string {
	switch m {
	case ListBullet:
		return "bullet"
	case ListNumber:
		return "number"
	case ListCheck:
		return "check"
	default:
		return "none"
	}
}

// ParagraphStyle covers whole paragraphs. TailIndent is <= 0 and measured
// from the trailing edge.
type ParagraphStyle struct {
	Alignment           Alignment
	FirstLineHeadIndent float64
	HeadIndent          float64
	TailIndent          float64
	List                ListMode
}

func (ParagraphStyle) Key() Key { return KeyParagraphStyle }
func (ParagraphStyle) sealed()  {}

// ListEnabled reports whether the style carries a list mode together with
// the marker indent. A first-line indent that differs only because the
// paragraph is indented from the trailing side is not a list.
func (p ParagraphStyle) ListEnabled() bool {
	return p.List != ListNone && p.FirstLineHeadIndent != p.HeadIndent
}

// LeadingIndent is the first-line indent on the leading side. A negative
// first-line indent mirrors TailIndent and counts as zero here.
func (p ParagraphStyle) LeadingIndent() float64 {
	return max(p.FirstLineHeadIndent, 0)
}

// Attachment marks an inline placeholder character. The payload lives with
// the host, keyed by ID.
type Attachment struct {
	ID     string
	Width  float64
	Height float64
}

func (Attachment) Key() Key { return KeyAttachment }
func (Attachment) sealed()  {}

// Attributes holds at most one value per key. The zero value is empty and
// every method returns a new value.
type Attributes struct {
	vals [keyCount]Value
}

// NewAttributes builds a set from values; later values win per key.
func NewAttributes(vals ...Value) Attributes {
	var a Attributes
	for _, v := range vals {
		a = a.With(v)
	}
	return a
}

func (a Attributes) Get(k Key) (Value, bool) {
	if !k.valid() {
		return nil, false
	}
	v := a.vals[k]
	return v, v != nil
}

func (a Attributes) Has(k Key) bool {
	_, ok := a.Get(k)
	return ok
}

func (a Attributes) With(v Value) Attributes {
	if v == nil || !v.Key().valid() {
		return a
	}
	a.vals[v.Key()] = v
	return a
}

func (a Attributes) Without(k Key) Attributes {
	if k.valid() {
		a.vals[k] = nil
	}
	return a
}

// Set assigns or, for a nil value, removes k.
func (a Attributes) Set(k Key, v Value) Attributes {
	if v == nil {
		return a.Without(k)
	}
	return a.With(v)
}

// Merge overlays every value present in b.
func (a Attributes) Merge(b Attributes) Attributes {
	for _, v := range b.vals {
		if v != nil {
			a.vals[v.Key()] = v
		}
	}
	return a
}

func (a Attributes) Equal(b Attributes) bool { return a == b }

func (a Attributes) IsEmpty() bool { return a == Attributes{} }

// Keys lists the keys present, in key order.
func (a Attributes) Keys() []Key {
	var out []Key
	for k, v := range a.vals {
		if v != nil {
			out = append(out, Key(k))
		}
	}
	return out
}

func (a Attributes) Font() (Font, bool) {
	v, ok := a.Get(KeyFont)
	if !ok {
		return Font{}, false
	}
	return v.(Font), true
}

func (a Attributes) ParagraphStyle() (ParagraphStyle, bool) {
	v, ok := a.Get(KeyParagraphStyle)
	if !ok {
		return ParagraphStyle{}, false
	}
	return v.(ParagraphStyle), true
}

func (a Attributes) Attachment() (Attachment, bool) {
	v, ok := a.Get(KeyAttachment)
	if !ok {
		return Attachment{}, false
	}
	return v.(Attachment), true
}

func (a Attributes) String() string {
	keys := a.Keys()
	s := "{"
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", k, a.vals[k])
	}
	return s + "}"
}

var (
	ErrUnknownKey = errors.New("richtext: unknown attribute key")
	ErrValueType  = errors.New("richtext: attribute value has wrong type")
)

// ParseAttributes converts a loosely typed host attribute map. Unknown keys
// and mistyped values are rejected here so nothing dynamic reaches the
// engine.
func ParseAttributes(m map[string]any) (Attributes, error) {
	var a Attributes
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw := m[name]
		k, ok := keyByName(name)
		if !ok {
			return Attributes{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
		}
		if raw == nil {
			continue
		}
		v, err := parseValue(k, raw)
		if err != nil {
			return Attributes{}, fmt.Errorf("%s: %w", name, err)
		}
		a = a.With(v)
	}
	return a, nil
}

// Map is the reverse of ParseAttributes.
func (a Attributes) Map() map[string]any {
	out := make(map[string]any, len(a.Keys()))
	for _, k := range a.Keys() {
		out[k.String()] = a.vals[k]
	}
	return out
}

func keyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

func parseValue(k Key, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		if v.Key() != k {
			return nil, fmt.Errorf("%w: %T", ErrValueType, raw)
		}
		return v, nil
	}
	switch k {
	case KeyObliqueness:
		if f, ok := toFloat(raw); ok {
			return Obliqueness(f), nil
		}
	case KeyStrikethrough:
		if n, ok := toInt(raw); ok {
			return Strikethrough(n), nil
		}
	case KeyUnderline:
		if n, ok := toInt(raw); ok {
			return Underline(n), nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrValueType, raw)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
