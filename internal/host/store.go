package host

import (
	"image"
	"sync"

	"github.com/google/uuid"
)

// AttachmentStore keeps the image payloads behind attachment ids. Text only
// carries the id and the display size.
type AttachmentStore struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewAttachmentStore() *AttachmentStore {
	return &AttachmentStore{images: map[string]image.Image{}}
}

// Put stores img under a fresh id.
func (s *AttachmentStore) Put(img image.Image) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.images[id] = img
	s.mu.Unlock()
	return id
}

func (s *AttachmentStore) Get(id string) (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	return img, ok
}

func (s *AttachmentStore) Delete(id string) {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
}

func (s *AttachmentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
