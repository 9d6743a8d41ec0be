// Package preview holds displayable copies of uploaded character images.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/webp"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("preview not found")

type Image struct {
	Data     []byte
	MimeType string
}

// Encoder turns an uploaded image into its display form.
type Encoder func(data []byte, mimeType string) (Image, error)

// Store keeps previews in memory until they are released.
type Store struct {
	mu     sync.RWMutex
	images map[string]Image
	encode Encoder
}

func NewStore() *Store {
	return NewStoreWithEncoder(EncodeWebP)
}

func NewStoreWithEncoder(enc Encoder) *Store {
	return &Store{
		images: make(map[string]Image),
		encode: enc,
	}
}

// Create stores a preview for the image and returns its reference. If the
// image cannot be re-encoded the original bytes are kept, typed by what they
// decode as rather than by the declared media type.
func (s *Store) Create(data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image")
	}

	img, err := s.encode(data, mimeType)
	if err != nil {
		img = Image{Data: bytes.Clone(data), MimeType: sniffRaster(data)}
		log.Debug("keeping original preview bytes", "declared", mimeType, "stored", img.MimeType, "error", err)
	}

	id := ksuid.New().String()
	s.mu.Lock()
	s.images[id] = img
	s.mu.Unlock()
	return id, nil
}

func (s *Store) Get(id string) (Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	if !ok {
		return Image{}, ErrNotFound
	}
	return img, nil
}

// Release drops the preview. Unknown or empty ids are ignored.
func (s *Store) Release(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
}

func (s *Store) ReleaseAll() {
	s.mu.Lock()
	n := len(s.images)
	clear(s.images)
	s.mu.Unlock()
	if n > 0 {
		log.Info("released previews", "count", n)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

var displayable = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Displayable reports whether a preview may be served under its own media
// type. Anything else is served as an opaque download.
func Displayable(mimeType string) bool {
	return displayable[mimeType]
}

func sniffRaster(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || !displayable["image/"+format] {
		return "application/octet-stream"
	}
	return "image/" + format
}

// EncodeWebP decodes the upload and re-encodes it as a high-quality WebP.
func EncodeWebP(data []byte, mimeType string) (Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		// Fallback: try generic decode if not PNG
		var err2 error
		img, _, err2 = image.Decode(bytes.NewReader(data))
		if err2 != nil {
			return Image{}, fmt.Errorf("failed to decode image (png: %v, generic: %v)", err, err2)
		}
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: 90}); err != nil {
		return Image{}, fmt.Errorf("failed to encode webp: %w", err)
	}
	return Image{Data: buf.Bytes(), MimeType: "image/webp"}, nil
}

// Passthrough keeps the upload untouched.
func Passthrough(data []byte, mimeType string) (Image, error) {
	return Image{Data: bytes.Clone(data), MimeType: mimeType}, nil
}
