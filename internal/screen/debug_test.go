// File: internal/screen/debug_test.go
package screen

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCapturer returns a scripted frame or error without touching the OS.
type fakeCapturer struct {
	img      *Image
	err      error
	captures int
}

func (f *fakeCapturer) Capture(ctx context.Context, monitor int) (*Image, error) {
	f.captures++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func testFrame(t *testing.T) *Image {
	t.Helper()
	return &Image{
		Pixels:     image.NewRGBA(image.Rect(0, 0, 8, 8)),
		Monitor:    0,
		CapturedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestDebugCapturer_DumpsPNG(t *testing.T) {
	dir := t.TempDir()
	inner := &fakeCapturer{img: testFrame(t)}
	cap := NewDebugCapturer(inner, dir, zap.NewNop())

	img, err := cap.Capture(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, img)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "capture_20260830_120000_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"))
}

func TestDebugCapturer_UniqueFilenames(t *testing.T) {
	dir := t.TempDir()
	inner := &fakeCapturer{img: testFrame(t)}
	cap := NewDebugCapturer(inner, dir, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := cap.Capture(context.Background(), 0)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "same-second captures must not overwrite each other")
}

func TestDebugCapturer_PropagatesCaptureError(t *testing.T) {
	dir := t.TempDir()
	inner := &fakeCapturer{err: ErrCapture}
	cap := NewDebugCapturer(inner, dir, zap.NewNop())

	_, err := cap.Capture(context.Background(), 0)
	assert.ErrorIs(t, err, ErrCapture)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed captures must not leave debug artifacts")
}

func TestDebugCapturer_DumpFailureIsNotFatal(t *testing.T) {
	// Point the dumper at a path that cannot be a directory.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	inner := &fakeCapturer{img: testFrame(t)}
	cap := NewDebugCapturer(inner, filepath.Join(blocker, "sub"), zap.NewNop())

	img, err := cap.Capture(context.Background(), 0)
	require.NoError(t, err, "diagnostics must never fail the capture")
	assert.NotNil(t, img)
}

func TestDisplayCapturer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cap := NewDisplayCapturer(zap.NewNop())
	_, err := cap.Capture(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisplayCapturer_NegativeMonitor(t *testing.T) {
	cap := NewDisplayCapturer(zap.NewNop())
	_, err := cap.Capture(context.Background(), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapture)
}
