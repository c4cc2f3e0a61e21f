package host

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	textclip "github.com/atotto/clipboard"
	imgclip "golang.design/x/clipboard"

	"richtext/internal/log"
)

// System is the OS clipboard. Text goes through atotto/clipboard; images
// go through golang.design/x/clipboard as PNG. The image side holds a
// single image, so only the first one written survives.
type System struct {
	once    sync.Once
	initErr error
}

func NewSystem() *System { return &System{} }

func (s *System) initImages() error {
	s.once.Do(func() {
		if err := imgclip.Init(); err != nil {
			s.initErr = fmt.Errorf("init image clipboard: %w", err)
			log.ErrorErr(log.CatHost, "Image clipboard unavailable", err)
		}
	})
	return s.initErr
}

func (s *System) ReadText() (string, error) {
	text, err := textclip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (s *System) WriteText(text string) error {
	if err := textclip.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func (s *System) ReadImages() ([]image.Image, error) {
	if err := s.initImages(); err != nil {
		return nil, err
	}
	raw := imgclip.Read(imgclip.FmtImage)
	if len(raw) == 0 {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return []image.Image{img}, nil
}

func (s *System) WriteImages(imgs []image.Image) error {
	if len(imgs) == 0 {
		return nil
	}
	if err := s.initImages(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, imgs[0]); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	if len(imgs) > 1 {
		log.Warn(log.CatHost, "System clipboard keeps one image", "dropped", len(imgs)-1)
	}
	imgclip.Write(imgclip.FmtImage, buf.Bytes())
	return nil
}

func (s *System) HasImages() bool {
	if s.initImages() != nil {
		return false
	}
	return len(imgclip.Read(imgclip.FmtImage)) > 0
}
