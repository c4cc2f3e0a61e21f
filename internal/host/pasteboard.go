// Package host connects the engine to the outside world: pasteboards,
// attachment payloads and the cut/copy/paste hooks.
package host

import (
	"image"
	"sync"
)

// Pasteboard is the clipboard the hooks read and write. It is passed in
// explicitly so tests never touch the system clipboard.
type Pasteboard interface {
	ReadText() (string, error)
	WriteText(s string) error
	ReadImages() ([]image.Image, error)
	WriteImages(imgs []image.Image) error
	HasImages() bool
}

// Memory is an in-process pasteboard. Writing text clears images and the
// other way around, like a real pasteboard holding one item.
type Memory struct {
	mu     sync.Mutex
	text   string
	images []image.Image
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = s
	m.images = nil
	return nil
}

func (m *Memory) ReadImages() ([]image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]image.Image(nil), m.images...), nil
}

func (m *Memory) WriteImages(imgs []image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append([]image.Image(nil), imgs...)
	m.text = ""
	return nil
}

func (m *Memory) HasImages() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images) > 0
}
