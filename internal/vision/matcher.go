// File: internal/vision/matcher.go
package vision

import (
	"image"
	"math"

	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/screen"
)

// MatchResult is the raw outcome of matching one template against one frame.
// Score is the best normalized cross-correlation over all offsets, clamped
// to [0, 1]; Center is the screen coordinate of the template's centroid at
// the best offset. The matcher is threshold-agnostic: deciding whether the
// score is good enough belongs to the caller.
type MatchResult struct {
	Score  float64
	Center image.Point
}

// Matcher computes single-scale normalized cross-correlation between a
// template and a captured frame. No rotation or scale invariance: template
// and on-screen element must appear at matching pixel scale, so a DPI or
// scaling mismatch shows up as a silently low score rather than an error.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher returns a Matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{logger: logger.With(zap.String("component", "template_matcher"))}
}

// Match slides tpl over frame and returns the best-scoring alignment.
// Deterministic: the same (frame, template) pair always yields the same
// result. A template larger than the frame scores 0.
func (m *Matcher) Match(frame *screen.Image, tpl *Template) MatchResult {
	fb := frame.Bounds()
	fw, fh := fb.Dx(), fb.Dy()
	tw, th := tpl.Size()

	if tw > fw || th > fh || tw == 0 || th == 0 {
		return MatchResult{}
	}

	gray := grayPlane(frame.Pixels)
	sum, sumSq := integralPlanes(gray, fw, fh)

	n := float64(tw * th)
	best := MatchResult{Score: -1}

	for oy := 0; oy <= fh-th; oy++ {
		for ox := 0; ox <= fw-tw; ox++ {
			winSum := rectSum(sum, fw, ox, oy, tw, th)
			winSumSq := rectSum(sumSq, fw, ox, oy, tw, th)
			winVar := winSumSq - winSum*winSum/n
			if winVar <= 0 || tpl.sumSq <= 0 {
				// A flat window (or flat template) carries no signal.
				continue
			}

			// The template is stored zero-mean, so the cross term needs no
			// window-mean correction.
			var cross float64
			for ty := 0; ty < th; ty++ {
				frameRow := (oy+ty)*fw + ox
				tplRow := ty * tw
				for tx := 0; tx < tw; tx++ {
					cross += gray[frameRow+tx] * tpl.gray[tplRow+tx]
				}
			}

			score := cross / math.Sqrt(winVar*tpl.sumSq)
			if score > best.Score {
				best.Score = score
				best.Center = image.Point{X: ox + tw/2, Y: oy + th/2}
			}
		}
	}

	// Anti-correlated regions are as useless as no match; report them as 0.
	if best.Score < 0 {
		best.Score = 0
	}
	if best.Score > 1 {
		// Guard against floating point drift just above 1.
		best.Score = 1
	}

	m.logger.Debug("Template match computed",
		zap.String("element", tpl.ID),
		zap.Float64("score", best.Score),
		zap.Int("center_x", best.Center.X),
		zap.Int("center_y", best.Center.Y))
	return best
}

// grayPlane converts an RGBA frame to a row-major grayscale plane.
func grayPlane(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			bl := float64(img.Pix[i+2])
			out[y*w+x] = 0.299*r + 0.587*g + 0.114*bl
		}
	}
	return out
}

// integralPlanes builds summed-area tables for the plane and its squares,
// each with a one-cell zero border so rectSum needs no edge cases.
func integralPlanes(gray []float64, w, h int) (sum, sumSq []float64) {
	sw := w + 1
	sum = make([]float64, sw*(h+1))
	sumSq = make([]float64, sw*(h+1))
	for y := 1; y <= h; y++ {
		var rowSum, rowSumSq float64
		for x := 1; x <= w; x++ {
			v := gray[(y-1)*w+(x-1)]
			rowSum += v
			rowSumSq += v * v
			sum[y*sw+x] = sum[(y-1)*sw+x] + rowSum
			sumSq[y*sw+x] = sumSq[(y-1)*sw+x] + rowSumSq
		}
	}
	return sum, sumSq
}

// rectSum reads the sum of a w×h window at (x, y) from an integral plane.
func rectSum(integral []float64, planeW, x, y, w, h int) float64 {
	sw := planeW + 1
	x2, y2 := x+w, y+h
	return integral[y2*sw+x2] - integral[y*sw+x2] - integral[y2*sw+x] + integral[y*sw+x]
}
