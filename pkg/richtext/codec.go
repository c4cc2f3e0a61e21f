package richtext

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	MagicString      = "RICHTEXT"
	VersionV1        = uint16(1)
	FlagRandomAccess = uint16(1 << 0)

	magicLen   = len(MagicString)
	headerSize = magicLen + 2 + 2 + 8 + 4
	tocEntSize = 1 + 8 + 4 + 4

	secureMagic      = "RICHTEXT_SEALED"
	secureVersionV1  = uint16(1)
	secureFlagComp   = uint16(1 << 0)
	secureFlagEnc    = uint16(1 << 1)
	secureSaltSize   = 16
	secureNonceSize  = 12
	secureHeaderSize = len(secureMagic) + 2 + 2 + secureSaltSize + secureNonceSize + 8
	kdfIterations    = 200000
)

type BlockKind uint8

const (
	BlockKindMetadata BlockKind = 0
	BlockKindText     BlockKind = 1
	BlockKindStyle    BlockKind = 3
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Wrapped     bool
	Compressed  bool
	Encrypted   bool
	EnvelopeVer uint16
}

type Metadata struct {
	Author       string
	Title        string
	CreatedUnix  int64
	ModifiedUnix int64
}

// Document is the persisted form of an attributed text.
type Document struct {
	Metadata Metadata
	Text     *Text
}

type tocEntry struct {
	Kind   BlockKind
	Offset uint64
	Length uint32
	CRC32  uint32
}

var (
	ErrInvalidMagic      = errors.New("richtext: invalid magic")
	ErrUnsupportedVer    = errors.New("richtext: unsupported version")
	ErrMissingRandomFlag = errors.New("richtext: random-access flag required")
	ErrInvalidTOC        = errors.New("richtext: invalid toc")
	ErrInvalidBlockRange = errors.New("richtext: invalid block range")
	ErrOverlappingBlocks = errors.New("richtext: overlapping block ranges")
	ErrPasswordRequired  = errors.New("richtext: password required")
	ErrInvalidPassword   = errors.New("richtext: invalid password")
	ErrInvalidSecureFile = errors.New("richtext: invalid secure file")
	ErrMalformedBlock    = errors.New("richtext: malformed block")
)

func NewDocument(author, title string, text *Text) *Document {
	now := time.Now().Unix()
	if text == nil {
		text = &Text{}
	}
	return &Document{
		Metadata: Metadata{Author: author, Title: title, CreatedUnix: now, ModifiedUnix: now},
		Text:     text,
	}
}

func Save(path string, doc *Document) error {
	return SaveWithOptions(path, doc, SaveOptions{})
}

func SaveWithOptions(path string, doc *Document, opts SaveOptions) error {
	blob, err := EncodeWithOptions(doc, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load(path string) (*Document, error) {
	return LoadWithOptions(path, LoadOptions{})
}

func LoadWithOptions(path string, opts LoadOptions) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeWithOptions(b, opts)
}

func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspectEnvelopeBytes(b)
}

// EncodeWithOptions produces the on-disk bytes, stamping ModifiedUnix.
func EncodeWithOptions(doc *Document, opts SaveOptions) ([]byte, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	if doc.Metadata.CreatedUnix == 0 {
		doc.Metadata.CreatedUnix = now
	}
	doc.Metadata.ModifiedUnix = now

	blob := encodeDocument(doc)
	var err error
	if opts.Compression {
		blob, err = compressBytes(blob)
		if err != nil {
			return nil, err
		}
	}
	if opts.Encryption.Enabled && strings.TrimSpace(opts.Encryption.Password) == "" {
		return nil, ErrPasswordRequired
	}
	if opts.Compression || opts.Encryption.Enabled {
		blob, err = encodeSecureEnvelope(blob, opts)
		if err != nil {
			return nil, err
		}
	}
	return blob, nil
}

func DecodeWithOptions(b []byte, opts LoadOptions) (*Document, error) {
	var err error
	if isSecureEnvelope(b) {
		b, err = decodeSecureEnvelope(b, opts)
		if err != nil {
			return nil, err
		}
	}
	doc, err := decodeDocument(b)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("richtext: document is nil")
	}
	if !utf8.ValidString(doc.Metadata.Author) || !utf8.ValidString(doc.Metadata.Title) {
		return errors.New("richtext: metadata fields must be valid UTF-8")
	}
	if doc.Text == nil {
		return errors.New("richtext: document has no text")
	}
	pos := 0
	for _, r := range doc.Text.runs {
		if r.Range.Location != pos || r.Range.Length <= 0 {
			return fmt.Errorf("richtext: run %s does not continue at offset %d", r.Range, pos)
		}
		pos = r.Range.End()
	}
	if pos != doc.Text.Len() {
		return fmt.Errorf("richtext: runs cover %d of %d runes", pos, doc.Text.Len())
	}
	return nil
}

func encodeDocument(doc *Document) []byte {
	payloads := []struct {
		kind    BlockKind
		payload []byte
	}{
		{BlockKindMetadata, encodeMetadata(doc.Metadata)},
		{BlockKindText, encodeTextBlock(doc.Text)},
		{BlockKindStyle, encodeFormattingDirective(doc.Text.runs)},
	}

	tocLength := len(payloads) * tocEntSize
	out := make([]byte, headerSize+tocLength)
	copy(out[:magicLen], MagicString)

	entries := make([]tocEntry, 0, len(payloads))
	offset := uint64(len(out))
	for _, p := range payloads {
		entries = append(entries, tocEntry{
			Kind:   p.kind,
			Offset: offset,
			Length: uint32(len(p.payload)),
			CRC32:  crc32.ChecksumIEEE(p.payload),
		})
		out = append(out, p.payload...)
		offset += uint64(len(p.payload))
	}

	ptr := headerSize
	for _, e := range entries {
		out[ptr] = byte(e.Kind)
		binary.LittleEndian.PutUint64(out[ptr+1:ptr+9], e.Offset)
		binary.LittleEndian.PutUint32(out[ptr+9:ptr+13], e.Length)
		binary.LittleEndian.PutUint32(out[ptr+13:ptr+17], e.CRC32)
		ptr += tocEntSize
	}

	h := out[magicLen:]
	binary.LittleEndian.PutUint16(h[0:2], VersionV1)
	binary.LittleEndian.PutUint16(h[2:4], FlagRandomAccess)
	binary.LittleEndian.PutUint64(h[4:12], uint64(headerSize))
	binary.LittleEndian.PutUint32(h[12:16], uint32(len(entries)))
	return out
}

func decodeDocument(blob []byte) (*Document, error) {
	if len(blob) < headerSize || string(blob[:magicLen]) != MagicString {
		return nil, ErrInvalidMagic
	}
	h := blob[magicLen:]
	if v := binary.LittleEndian.Uint16(h[0:2]); v != VersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVer, v)
	}
	if flags := binary.LittleEndian.Uint16(h[2:4]); flags&FlagRandomAccess == 0 {
		return nil, ErrMissingRandomFlag
	}
	tocOffset := binary.LittleEndian.Uint64(h[4:12])
	tocCount := binary.LittleEndian.Uint32(h[12:16])
	if tocOffset > uint64(len(blob)) {
		return nil, ErrInvalidTOC
	}
	if tocOffset+uint64(tocCount)*tocEntSize > uint64(len(blob)) {
		return nil, ErrInvalidTOC
	}

	entries := make([]tocEntry, 0, tocCount)
	ptr := int(tocOffset)
	for i := 0; i < int(tocCount); i++ {
		entries = append(entries, tocEntry{
			Kind:   BlockKind(blob[ptr]),
			Offset: binary.LittleEndian.Uint64(blob[ptr+1 : ptr+9]),
			Length: binary.LittleEndian.Uint32(blob[ptr+9 : ptr+13]),
			CRC32:  binary.LittleEndian.Uint32(blob[ptr+13 : ptr+17]),
		})
		ptr += tocEntSize
	}
	if err := validateEntryRanges(entries, len(blob)); err != nil {
		return nil, err
	}

	doc := &Document{}
	var text string
	var runs []Run
	for _, e := range entries {
		payload := blob[e.Offset : e.Offset+uint64(e.Length)]
		if crc32.ChecksumIEEE(payload) != e.CRC32 {
			return nil, fmt.Errorf("richtext: crc mismatch for block kind %d", e.Kind)
		}
		var err error
		switch e.Kind {
		case BlockKindMetadata:
			doc.Metadata, err = decodeMetadata(payload)
		case BlockKindText:
			text, err = decodeTextBlock(payload)
		case BlockKindStyle:
			runs, err = decodeFormattingDirective(payload)
		default:
			// Unknown kinds stay skippable through the TOC.
		}
		if err != nil {
			return nil, err
		}
	}
	doc.Text = NewTextFromRuns(text, runs)
	return doc, nil
}

func validateEntryRanges(entries []tocEntry, fileLen int) error {
	type rng struct{ start, end uint64 }
	ranges := make([]rng, 0, len(entries))
	for _, e := range entries {
		end := e.Offset + uint64(e.Length)
		if e.Offset > uint64(fileLen) || end > uint64(fileLen) {
			return ErrInvalidBlockRange
		}
		ranges = append(ranges, rng{start: e.Offset, end: end})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	for i := 1; i < len(ranges); i++ {
		if ranges[i].start < ranges[i-1].end {
			return ErrOverlappingBlocks
		}
	}
	return nil
}

func encodeMetadata(m Metadata) []byte {
	out := make([]byte, 0, 64)
	out = appendString(out, m.Author)
	out = appendString(out, m.Title)
	out = appendU64(out, uint64(m.CreatedUnix))
	out = appendU64(out, uint64(m.ModifiedUnix))
	return out
}

func decodeMetadata(b []byte) (Metadata, error) {
	var m Metadata
	var ok bool
	if m.Author, b, ok = readString(b); !ok {
		return m, fmt.Errorf("%w: metadata author", ErrMalformedBlock)
	}
	if m.Title, b, ok = readString(b); !ok {
		return m, fmt.Errorf("%w: metadata title", ErrMalformedBlock)
	}
	if len(b) < 16 {
		return m, fmt.Errorf("%w: metadata timestamps", ErrMalformedBlock)
	}
	m.CreatedUnix = int64(binary.LittleEndian.Uint64(b[:8]))
	m.ModifiedUnix = int64(binary.LittleEndian.Uint64(b[8:16]))
	return m, nil
}

func encodeTextBlock(t *Text) []byte {
	return appendString(nil, t.String())
}

func decodeTextBlock(b []byte) (string, error) {
	s, _, ok := readString(b)
	if !ok || !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: text payload", ErrMalformedBlock)
	}
	return s, nil
}

// Each formatting entry is start, length, a presence mask over keys and the
// present values in key order.
func encodeFormattingDirective(runs []Run) []byte {
	out := appendU32(nil, uint32(len(runs)))
	for _, r := range runs {
		out = appendU32(out, uint32(r.Range.Location))
		out = appendU32(out, uint32(r.Range.Length))
		var mask uint8
		for _, k := range r.Attrs.Keys() {
			mask |= 1 << k
		}
		out = append(out, mask)
		for _, k := range r.Attrs.Keys() {
			v, _ := r.Attrs.Get(k)
			out = appendValue(out, v)
		}
	}
	return out
}

func appendValue(out []byte, v Value) []byte {
	switch v := v.(type) {
	case Font:
		out = append(out, byte(v.Class), boolByte(v.Bold))
		out = appendF64(out, v.PointSize)
	case Obliqueness:
		out = appendF64(out, float64(v))
	case Strikethrough:
		out = appendU32(out, uint32(int32(v)))
	case Underline:
		out = appendU32(out, uint32(int32(v)))
	case ParagraphStyle:
		out = append(out, byte(v.Alignment), byte(v.List))
		out = appendF64(out, v.FirstLineHeadIndent)
		out = appendF64(out, v.HeadIndent)
		out = appendF64(out, v.TailIndent)
	case Attachment:
		out = appendString(out, v.ID)
		out = appendF64(out, v.Width)
		out = appendF64(out, v.Height)
	}
	return out
}

func decodeFormattingDirective(b []byte) ([]Run, error) {
	r := &reader{b: b}
	count := int(r.u32())
	if r.err != nil {
		return nil, fmt.Errorf("%w: formatting directive", ErrMalformedBlock)
	}
	runs := make([]Run, 0, min(count, len(b)/9))
	for i := 0; i < count; i++ {
		loc := int(r.u32())
		length := int(r.u32())
		mask := r.u8()
		var attrs Attributes
		for k := KeyFont; k <= KeyAttachment; k++ {
			if mask&(1<<k) == 0 {
				continue
			}
			attrs = attrs.With(r.value(k))
		}
		if mask&^validKeyMask() != 0 {
			return nil, fmt.Errorf("%w: formatting entry %d has unknown keys", ErrUnknownKey, i)
		}
		if r.err != nil {
			return nil, fmt.Errorf("%w: formatting entry %d", ErrMalformedBlock, i)
		}
		runs = append(runs, Run{Range: Range{loc, length}, Attrs: attrs})
	}
	return runs, nil
}

func validKeyMask() uint8 {
	var m uint8
	for k := KeyFont; k <= KeyAttachment; k++ {
		m |= 1 << k
	}
	return m
}

type reader struct {
	b   []byte
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil || len(r.b) < n {
		r.err = ErrMalformedBlock
		return make([]byte, n)
	}
	out := r.b[:n]
	r.b = r.b[n:]
	return out
}

func (r *reader) u8() byte     { return r.take(1)[0] }
func (r *reader) u32() uint32  { return binary.LittleEndian.Uint32(r.take(4)) }
func (r *reader) f64() float64 { return math.Float64frombits(binary.LittleEndian.Uint64(r.take(8))) }

// enum reads a one-byte enum value that must not exceed last.
func (r *reader) enum(last uint8) uint8 {
	v := r.u8()
	if v > last && r.err == nil {
		r.err = ErrMalformedBlock
	}
	return v
}

func (r *reader) str() string {
	n := int(r.u32())
	if r.err == nil && n > len(r.b) {
		r.err = ErrMalformedBlock
		return ""
	}
	return string(r.take(n))
}

func (r *reader) value(k Key) Value {
	switch k {
	case KeyFont:
		class := SizeClass(r.enum(uint8(SizeBody)))
		bold := r.u8() != 0
		return Font{Class: class, Bold: bold, PointSize: r.f64()}
	case KeyObliqueness:
		return Obliqueness(r.f64())
	case KeyStrikethrough:
		return Strikethrough(int32(r.u32()))
	case KeyUnderline:
		return Underline(int32(r.u32()))
	case KeyParagraphStyle:
		p := ParagraphStyle{Alignment: Alignment(r.enum(uint8(AlignJustified))), List: ListMode(r.enum(uint8(ListCheck)))}
		p.FirstLineHeadIndent = r.f64()
		p.HeadIndent = r.f64()
		p.TailIndent = r.f64()
		return p
	case KeyAttachment:
		a := Attachment{ID: r.str()}
		a.Width = r.f64()
		a.Height = r.f64()
		return a
	}
	return nil
}

func appendString(dst []byte, s string) []byte {
	dst = appendU32(dst, uint32(len(s)))
	return append(dst, s...)
}

func readString(src []byte) (string, []byte, bool) {
	if len(src) < 4 {
		return "", nil, false
	}
	ln := int(binary.LittleEndian.Uint32(src[:4]))
	src = src[4:]
	if len(src) < ln {
		return "", nil, false
	}
	return string(src[:ln]), src[ln:], true
}

func appendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendU64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func appendF64(dst []byte, v float64) []byte {
	return appendU64(dst, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func isSecureEnvelope(b []byte) bool {
	return len(b) >= len(secureMagic) && string(b[:len(secureMagic)]) == secureMagic
}

func inspectEnvelopeBytes(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !isSecureEnvelope(b) {
		return info, nil
	}
	if len(b) < secureHeaderSize {
		return info, ErrInvalidSecureFile
	}
	version := binary.LittleEndian.Uint16(b[len(secureMagic) : len(secureMagic)+2])
	if version != secureVersionV1 {
		return info, fmt.Errorf("%w: secure envelope version %d", ErrUnsupportedVer, version)
	}
	flags := binary.LittleEndian.Uint16(b[len(secureMagic)+2 : len(secureMagic)+4])
	info.Wrapped = true
	info.Compressed = flags&secureFlagComp != 0
	info.Encrypted = flags&secureFlagEnc != 0
	info.EnvelopeVer = version
	return info, nil
}

func encodeSecureEnvelope(payload []byte, opts SaveOptions) ([]byte, error) {
	flags := uint16(0)
	if opts.Compression {
		flags |= secureFlagComp
	}
	if opts.Encryption.Enabled {
		flags |= secureFlagEnc
	}

	salt := make([]byte, secureSaltSize)
	nonce := make([]byte, secureNonceSize)
	if opts.Encryption.Enabled {
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := newGCM(opts.Encryption.Password, salt)
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, nonce, payload, nil)
	}

	base := len(secureMagic)
	out := make([]byte, secureHeaderSize)
	copy(out[:base], secureMagic)
	binary.LittleEndian.PutUint16(out[base:base+2], secureVersionV1)
	binary.LittleEndian.PutUint16(out[base+2:base+4], flags)
	copy(out[base+4:base+4+secureSaltSize], salt)
	copy(out[base+4+secureSaltSize:base+4+secureSaltSize+secureNonceSize], nonce)
	binary.LittleEndian.PutUint64(out[base+4+secureSaltSize+secureNonceSize:], uint64(len(payload)))
	return append(out, payload...), nil
}

func decodeSecureEnvelope(b []byte, opts LoadOptions) ([]byte, error) {
	info, err := inspectEnvelopeBytes(b)
	if err != nil {
		return nil, err
	}
	if !info.Wrapped {
		return nil, ErrInvalidSecureFile
	}
	base := len(secureMagic)
	salt := append([]byte(nil), b[base+4:base+4+secureSaltSize]...)
	nonce := append([]byte(nil), b[base+4+secureSaltSize:base+4+secureSaltSize+secureNonceSize]...)
	payloadLen := binary.LittleEndian.Uint64(b[base+4+secureSaltSize+secureNonceSize:])
	if uint64(len(b)-secureHeaderSize) != payloadLen {
		return nil, ErrInvalidSecureFile
	}
	payload := append([]byte(nil), b[secureHeaderSize:]...)

	if info.Encrypted {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		payload, err = gcm.Open(nil, nonce, payload, nil)
		if err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		payload, err = decompressBytes(payload)
		if err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
