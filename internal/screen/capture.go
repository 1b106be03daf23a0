// File: internal/screen/capture.go
package screen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

// ErrCapture indicates the screen could not be grabbed, typically because
// the requested monitor index is out of range for the enumerated displays.
var ErrCapture = errors.New("screen capture failed")

// Image is a single screen grab: an immutable RGBA pixel buffer tagged with
// the monitor it came from and the capture timestamp. It is owned by the
// call that produced it and never cached.
type Image struct {
	Pixels     *image.RGBA
	Monitor    int
	CapturedAt time.Time
}

// Bounds returns the pixel bounds of the captured frame.
func (i *Image) Bounds() image.Rectangle {
	return i.Pixels.Bounds()
}

// Capturer grabs a bitmap of a specified display at a point in time.
type Capturer interface {
	Capture(ctx context.Context, monitor int) (*Image, error)
}

// DisplayCapturer captures physical displays through the OS.
type DisplayCapturer struct {
	logger *zap.Logger
}

// NewDisplayCapturer returns a Capturer backed by the OS display list.
func NewDisplayCapturer(logger *zap.Logger) *DisplayCapturer {
	return &DisplayCapturer{logger: logger.With(zap.String("component", "screen_capturer"))}
}

// Capture grabs the full frame of the given display index.
func (c *DisplayCapturer) Capture(ctx context.Context, monitor int) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	displays := screenshot.NumActiveDisplays()
	if monitor < 0 || monitor >= displays {
		return nil, fmt.Errorf("%w: monitor %d out of range, %d display(s) available", ErrCapture, monitor, displays)
	}

	img, err := screenshot.CaptureDisplay(monitor)
	if err != nil {
		return nil, fmt.Errorf("%w: display %d: %v", ErrCapture, monitor, err)
	}

	c.logger.Debug("Captured display",
		zap.Int("monitor", monitor),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return &Image{Pixels: img, Monitor: monitor, CapturedAt: time.Now()}, nil
}
