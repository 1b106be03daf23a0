// File: internal/vision/assets_test.go
package vision

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: patternAt(x, y)})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFileStore_LoadAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "send_button.png")
	writeTestPNG(t, path, 24, 10)

	store := NewFileStore(map[string]string{"send_button": path}, zap.NewNop())

	tpl, err := store.Load("send_button")
	require.NoError(t, err)
	w, h := tpl.Size()
	assert.Equal(t, 24, w)
	assert.Equal(t, 10, h)

	// Second load must serve the cache, surviving asset deletion.
	require.NoError(t, os.Remove(path))
	again, err := store.Load("send_button")
	require.NoError(t, err)
	assert.Same(t, tpl, again)
}

func TestFileStore_UnknownID(t *testing.T) {
	store := NewFileStore(map[string]string{}, zap.NewNop())
	_, err := store.Load("no_such_element")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(map[string]string{
		"send_button": filepath.Join(t.TempDir(), "gone.png"),
	}, zap.NewNop())
	_, err := store.Load("send_button")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFileStore_UndecodableAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	store := NewFileStore(map[string]string{"send_button": path}, zap.NewNop())
	_, err := store.Load("send_button")
	assert.ErrorIs(t, err, ErrDecode)
}
