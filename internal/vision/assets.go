// File: internal/vision/assets.go
package vision

import (
	"fmt"
	"image"
	"os"
	"sync"

	// Template assets are opaque bitmaps; accept the common encodings.
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
)

// Store resolves logical element identifiers (e.g. "send_button") to loaded
// templates. Implementations own the mapping to platform- and
// resolution-specific asset paths.
type Store interface {
	Load(id string) (*Template, error)
}

// FileStore loads template images from disk, decoding each asset once and
// caching the result for reuse across matches.
type FileStore struct {
	paths  map[string]string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*Template
}

// NewFileStore builds a Store over a logical-ID to file-path mapping,
// typically the configuration's templates section.
func NewFileStore(paths map[string]string, logger *zap.Logger) *FileStore {
	return &FileStore{
		paths:  paths,
		logger: logger.With(zap.String("component", "asset_store")),
		cache:  make(map[string]*Template),
	}
}

// Load returns the template for id, reading and decoding it on first use.
func (s *FileStore) Load(id string) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tpl, ok := s.cache[id]; ok {
		return tpl, nil
	}

	path, ok := s.paths[id]
	if !ok {
		return nil, fmt.Errorf("%w: no asset registered for element %q", ErrDecode, id)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDecode, path, err)
	}

	tpl := NewTemplate(id, img)
	s.cache[id] = tpl

	w, h := tpl.Size()
	s.logger.Debug("Loaded template asset",
		zap.String("element", id),
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", w),
		zap.Int("height", h))
	return tpl, nil
}
