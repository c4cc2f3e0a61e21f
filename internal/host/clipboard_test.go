package host

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"richtext/internal/editor"
	"richtext/pkg/richtext"
)

func newTestClipboard(t *testing.T, text string, viewWidth float64) (*Clipboard, *editor.MemorySurface, *Memory) {
	t.Helper()
	s := editor.NewMemorySurface(richtext.NewText(text, richtext.NewAttributes(richtext.BodyFont())))
	e := editor.New(s, nil, editor.DefaultOptions())
	e.InitTypingState()
	board := NewMemory()
	c := NewClipboard(e, board, nil, 414)
	c.ViewWidth = func() float64 { return viewWidth }
	return c, s, board
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestInsertImageScalesToWidth(t *testing.T) {
	cases := []struct {
		name      string
		viewWidth float64
		wantW     float64
		wantH     float64
	}{
		{"capped by max width", 1000, 414, 207},
		{"capped by view", 232, 200, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, s, _ := newTestClipboard(t, "", tc.viewWidth)

			a, err := c.InsertImage(solid(800, 400))
			require.NoError(t, err)
			require.Equal(t, tc.wantW, a.Width)
			require.Equal(t, tc.wantH, a.Height)
			require.NotEmpty(t, a.ID)

			got, ok := s.AttributedText().AttributesAt(1).Attachment()
			require.True(t, ok)
			require.Equal(t, a, got)
			require.Equal(t, 1, c.Store().Len())
		})
	}
}

func TestInsertImageRejectsEmpty(t *testing.T) {
	c, _, _ := newTestClipboard(t, "", 500)
	_, err := c.InsertImage(nil)
	require.ErrorIs(t, err, ErrNoImage)
	_, err = c.InsertImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, ErrNoImage)
}

func TestCopyAndPasteText(t *testing.T) {
	c, s, board := newTestClipboard(t, "hello world", 500)
	s.SetSelection(richtext.Range{Location: 0, Length: 5})

	require.NoError(t, c.Copy())
	text, _ := board.ReadText()
	require.Equal(t, "hello", text)
	require.True(t, c.CanPaste())

	s.SetSelection(richtext.Range{Location: 11})
	require.NoError(t, c.Paste())
	require.Equal(t, "hello worldhello", s.AttributedText().String())
}

func TestCutText(t *testing.T) {
	c, s, board := newTestClipboard(t, "hello world", 500)
	s.SetSelection(richtext.Range{Location: 5, Length: 6})

	require.NoError(t, c.Cut())
	require.Equal(t, "hello", s.AttributedText().String())
	text, _ := board.ReadText()
	require.Equal(t, " world", text)
}

func TestCutImagesLeavesText(t *testing.T) {
	c, s, board := newTestClipboard(t, "ab", 500)
	s.SetSelection(richtext.Range{Location: 1})
	_, err := c.InsertImage(solid(10, 10))
	require.NoError(t, err)
	require.Equal(t, "a\n\uFFFC\nb", s.AttributedText().String())

	s.SetSelection(richtext.Range{Length: s.AttributedText().Len()})
	require.NoError(t, c.Cut())

	require.Equal(t, "a\n\nb", s.AttributedText().String())
	require.Equal(t, richtext.Range{Location: 2}, s.Selection())
	require.True(t, board.HasImages())
	imgs, _ := board.ReadImages()
	require.Len(t, imgs, 1)
}

func TestCopyImagesThenPasteInsertsEach(t *testing.T) {
	c, s, board := newTestClipboard(t, "", 500)
	_, err := c.InsertImage(solid(20, 10))
	require.NoError(t, err)
	_, err = c.InsertImage(solid(10, 10))
	require.NoError(t, err)

	s.SetSelection(richtext.Range{Length: s.AttributedText().Len()})
	require.NoError(t, c.Copy())
	imgs, _ := board.ReadImages()
	require.Len(t, imgs, 2)
	before := s.AttributedText().Len()

	s.SetSelection(richtext.Range{Location: before})
	require.NoError(t, c.Paste())
	require.Equal(t, before+6, s.AttributedText().Len())
	require.Equal(t, 4, c.Store().Len())
}

func TestMemoryPasteboardHoldsOneKind(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.WriteImages([]image.Image{solid(1, 1)}))
	require.True(t, m.HasImages())

	require.NoError(t, m.WriteText("x"))
	require.False(t, m.HasImages())
	text, err := m.ReadText()
	require.NoError(t, err)
	require.Equal(t, "x", text)
}
