// File: internal/vision/template.go
package vision

import (
	"errors"
	"image"
)

// ErrDecode indicates a template asset could not be resolved or decoded.
var ErrDecode = errors.New("template asset decode failed")

// Template is an immutable reference image for one visually recognizable UI
// element. The pixel data is converted to zero-mean grayscale at load time
// so the matcher can reuse it across any number of frames.
type Template struct {
	ID     string
	width  int
	height int

	// gray holds the zero-mean grayscale template, row-major.
	gray []float64
	// sumSq is the sum of squared zero-mean values, the template's half of
	// the normalization denominator.
	sumSq float64
}

// NewTemplate precomputes the matching representation for img.
func NewTemplate(id string, img image.Image) *Template {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	gray := make([]float64, w*h)
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := luminance(img.At(b.Min.X+x, b.Min.Y+y).RGBA())
			gray[y*w+x] = v
			sum += v
		}
	}

	mean := sum / float64(len(gray))
	var sumSq float64
	for i, v := range gray {
		d := v - mean
		gray[i] = d
		sumSq += d * d
	}

	return &Template{ID: id, width: w, height: h, gray: gray, sumSq: sumSq}
}

// Size returns the template dimensions in pixels.
func (t *Template) Size() (w, h int) {
	return t.width, t.height
}

// luminance converts premultiplied 16-bit RGBA to a single brightness value.
func luminance(r, g, b, _ uint32) float64 {
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}
