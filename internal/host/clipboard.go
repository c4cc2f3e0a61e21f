package host

import (
	"errors"
	"fmt"
	"image"

	"richtext/internal/editor"
	"richtext/internal/log"
	"richtext/pkg/richtext"
)

var ErrNoImage = errors.New("host: no image")

// viewPadding is subtracted from the view width when sizing images.
const viewPadding = 32

// Clipboard implements cut, copy and paste over an engine. Selections that
// hold attachments move images; anything else moves plain text.
type Clipboard struct {
	engine   *editor.Engine
	board    Pasteboard
	store    *AttachmentStore
	maxWidth float64

	// ViewWidth reports the current width of the text view.
	ViewWidth func() float64
}

func NewClipboard(engine *editor.Engine, board Pasteboard, store *AttachmentStore, maxWidth float64) *Clipboard {
	if store == nil {
		store = NewAttachmentStore()
	}
	return &Clipboard{engine: engine, board: board, store: store, maxWidth: maxWidth}
}

func (c *Clipboard) Store() *AttachmentStore { return c.store }

// CanPaste reports whether the pasteboard holds anything the editor takes.
func (c *Clipboard) CanPaste() bool {
	if c.board.HasImages() {
		return true
	}
	text, err := c.board.ReadText()
	return err == nil && text != ""
}

// Cut moves the selected images to the pasteboard and removes their
// placeholders. Without images it cuts the selected text.
func (c *Clipboard) Cut() error {
	if imgs := c.selectedImages(); len(imgs) > 0 {
		if err := c.board.WriteImages(imgs); err != nil {
			return fmt.Errorf("cut images: %w", err)
		}
		removed := c.engine.RemoveAttachments()
		log.Info(log.CatHost, "Cut attachments", "count", len(removed))
		return nil
	}
	text := c.engine.SelectedText()
	if text == "" {
		return nil
	}
	if err := c.board.WriteText(text); err != nil {
		return fmt.Errorf("cut text: %w", err)
	}
	c.engine.DeleteSelection()
	return nil
}

func (c *Clipboard) Copy() error {
	if imgs := c.selectedImages(); len(imgs) > 0 {
		if err := c.board.WriteImages(imgs); err != nil {
			return fmt.Errorf("copy images: %w", err)
		}
		return nil
	}
	text := c.engine.SelectedText()
	if text == "" {
		return nil
	}
	if err := c.board.WriteText(text); err != nil {
		return fmt.Errorf("copy text: %w", err)
	}
	return nil
}

// Paste inserts every pasteboard image as inline content, or the
// pasteboard text when there are no images.
func (c *Clipboard) Paste() error {
	if c.board.HasImages() {
		imgs, err := c.board.ReadImages()
		if err != nil {
			return fmt.Errorf("paste images: %w", err)
		}
		for _, img := range imgs {
			if _, err := c.InsertImage(img); err != nil {
				return err
			}
		}
		return nil
	}
	text, err := c.board.ReadText()
	if err != nil {
		return fmt.Errorf("paste text: %w", err)
	}
	c.engine.InsertText(text)
	return nil
}

// InsertImage stores img and inserts it at the selection, scaled to the
// display width.
func (c *Clipboard) InsertImage(img image.Image) (richtext.Attachment, error) {
	if img == nil || img.Bounds().Empty() {
		return richtext.Attachment{}, ErrNoImage
	}
	b := img.Bounds()
	w := c.displayWidth()
	if w <= 0 {
		w = float64(b.Dx())
	}
	a := richtext.Attachment{
		ID:     c.store.Put(img),
		Width:  w,
		Height: float64(b.Dy()) * w / float64(b.Dx()),
	}
	c.engine.InsertInlineContent(a)
	return a, nil
}

func (c *Clipboard) displayWidth() float64 {
	w := c.maxWidth
	if c.ViewWidth != nil {
		if vw := c.ViewWidth() - viewPadding; w <= 0 || vw < w {
			w = vw
		}
	}
	return w
}

func (c *Clipboard) selectedImages() []image.Image {
	var imgs []image.Image
	for _, run := range c.engine.Attachments(c.engine.Selection()) {
		if img, ok := c.store.Get(run.Attachment.ID); ok {
			imgs = append(imgs, img)
		}
	}
	return imgs
}
