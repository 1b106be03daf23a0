// File: internal/screen/debug.go
package screen

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DebugCapturer decorates a Capturer and persists a PNG copy of every
// capture for post-mortem diagnosis of failed matches. Dump failures are
// logged and otherwise ignored; diagnostics must never fail a workflow.
type DebugCapturer struct {
	inner  Capturer
	dir    string
	logger *zap.Logger
}

// NewDebugCapturer wraps inner so every grab is mirrored into dir.
func NewDebugCapturer(inner Capturer, dir string, logger *zap.Logger) *DebugCapturer {
	return &DebugCapturer{
		inner:  inner,
		dir:    dir,
		logger: logger.With(zap.String("component", "debug_capturer")),
	}
}

// Capture delegates to the wrapped Capturer and dumps the result.
func (d *DebugCapturer) Capture(ctx context.Context, monitor int) (*Image, error) {
	img, err := d.inner.Capture(ctx, monitor)
	if err != nil {
		return nil, err
	}
	d.dump(img)
	return img, nil
}

func (d *DebugCapturer) dump(img *Image) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.logger.Warn("Failed to create debug capture directory", zap.String("dir", d.dir), zap.Error(err))
		return
	}

	name := fmt.Sprintf("capture_%s_%s.png",
		img.CapturedAt.Format("20060102_150405"),
		uuid.NewString()[:8])
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		d.logger.Warn("Failed to create debug capture file", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	if err := png.Encode(f, img.Pixels); err != nil {
		d.logger.Warn("Failed to encode debug capture", zap.String("path", path), zap.Error(err))
		return
	}
	d.logger.Debug("Wrote debug capture", zap.String("path", path))
}
