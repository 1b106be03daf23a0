// File: internal/input/robot.go
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/config"
	"github.com/Beckjiang/autocomposer/internal/retry"
)

// RobotDriver injects events through robotgo. Every gesture is followed by
// a settle pause; the target application has no completion signal, so pacing
// is the only way to keep injected input from outrunning its event loop.
type RobotDriver struct {
	platform config.Platform
	settle   time.Duration
	logger   *zap.Logger
}

// NewRobotDriver builds a Driver for the configured platform.
func NewRobotDriver(cfg config.InputConfig, logger *zap.Logger) *RobotDriver {
	return &RobotDriver{
		platform: cfg.Platform,
		settle:   cfg.Settle,
		logger:   logger.With(zap.String("component", "input_driver")),
	}
}

// PressKey taps a single key.
func (d *RobotDriver) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("Pressing key", zap.String("key", key))
	if err := robotgo.KeyTap(key); err != nil {
		return fmt.Errorf("press key %q: %w", key, err)
	}
	return retry.Sleep(ctx, d.settle)
}

// KeyChord holds the first key while tapping the remaining keys in order,
// pacing each transition so slow UIs register the modifier.
func (d *RobotDriver) KeyChord(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("Pressing key chord", zap.Strings("keys", keys))

	hold := keys[0]
	if err := robotgo.KeyToggle(hold, "down"); err != nil {
		return fmt.Errorf("hold %q: %w", hold, err)
	}
	// Release the held key no matter how the taps go; a stuck modifier
	// corrupts every subsequent gesture.
	defer func() {
		if err := robotgo.KeyToggle(hold, "up"); err != nil {
			d.logger.Warn("Failed to release held key", zap.String("key", hold), zap.Error(err))
		}
	}()

	for _, key := range keys[1:] {
		if err := retry.Sleep(ctx, d.settle/2); err != nil {
			return err
		}
		if err := robotgo.KeyTap(key); err != nil {
			return fmt.Errorf("tap %q in chord: %w", key, err)
		}
	}
	return retry.Sleep(ctx, d.settle)
}

// TypeText enters text, routing through the clipboard whenever direct
// synthesis would be unreliable for this platform or character set.
func (d *RobotDriver) TypeText(ctx context.Context, text string) error {
	if usePastePath(d.platform, text) {
		return d.PasteText(ctx, text)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("Typing text directly", zap.Int("length", len(text)))
	robotgo.TypeStr(text)
	return retry.Sleep(ctx, d.settle)
}

// PasteText loads the clipboard and issues the platform paste chord. The
// clipboard is a shared, externally owned resource; its previous contents
// are not restored.
func (d *RobotDriver) PasteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("Pasting text via clipboard", zap.Int("length", len(text)))
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	if err := retry.Sleep(ctx, d.settle/2); err != nil {
		return err
	}
	return d.KeyChord(ctx, []string{d.platform.PrimaryModifier(), "v"})
}

// Click moves the pointer to absolute screen coordinates and left-clicks.
func (d *RobotDriver) Click(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("Clicking", zap.Int("x", x), zap.Int("y", y))
	robotgo.Move(x, y)
	robotgo.Click("left", false)
	return retry.Sleep(ctx, d.settle)
}
