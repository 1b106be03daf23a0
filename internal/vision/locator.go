// File: internal/vision/locator.go
package vision

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/screen"
)

// DefaultConfidence is the minimum match score accepted when the caller
// does not supply a threshold.
const DefaultConfidence = 0.8

// Locator answers "is element E visible right now, and where is its
// center?". It performs exactly one capture and one match per call; callers
// that need to wait for an element wrap Locate in a retry policy instead of
// the locator looping internally. Locating is a query, waiting is a policy.
type Locator struct {
	capturer screen.Capturer
	assets   Store
	matcher  *Matcher
	monitor  int
	logger   *zap.Logger
}

// NewLocator wires a Locator over a capturer and an asset store.
func NewLocator(capturer screen.Capturer, assets Store, monitor int, logger *zap.Logger) *Locator {
	return &Locator{
		capturer: capturer,
		assets:   assets,
		matcher:  NewMatcher(logger),
		monitor:  monitor,
		logger:   logger.With(zap.String("component", "element_locator")),
	}
}

// Locate captures the screen, matches the identified template, and returns
// the element's center when the score clears confidence. confidence <= 0
// selects DefaultConfidence. A below-threshold score is a negative answer,
// not an error; errors are reserved for capture and asset failures.
func (l *Locator) Locate(ctx context.Context, templateID string, confidence float64) (image.Point, bool, error) {
	if confidence <= 0 {
		confidence = DefaultConfidence
	}

	tpl, err := l.assets.Load(templateID)
	if err != nil {
		return image.Point{}, false, err
	}

	frame, err := l.capturer.Capture(ctx, l.monitor)
	if err != nil {
		return image.Point{}, false, err
	}

	res := l.matcher.Match(frame, tpl)
	found := res.Score >= confidence

	l.logger.Debug("Located element",
		zap.String("element", templateID),
		zap.Float64("score", res.Score),
		zap.Float64("confidence", confidence),
		zap.Bool("found", found))
	return res.Center, found, nil
}
