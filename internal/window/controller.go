// File: internal/window/controller.go

// Package window activates and focuses the target application's window.
package window

import (
	"context"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/retry"
)

// Controller focuses the window whose title contains the given substring.
// Focus is soft-failing: false means the window could not be activated, and
// the engine decides what that means for the run. Focus must be idempotent
// when the window is already frontmost; the engine calls it defensively
// before every input-injection step because the OS, the user, or another
// application may have stolen focus between steps.
type Controller interface {
	Focus(ctx context.Context, titleSubstring string) bool
}

// RobotController activates windows through robotgo.
type RobotController struct {
	settle time.Duration
	logger *zap.Logger
}

// NewRobotController builds a Controller. settle is the pause after
// activation, giving the window manager time to raise the window.
func NewRobotController(settle time.Duration, logger *zap.Logger) *RobotController {
	return &RobotController{
		settle: settle,
		logger: logger.With(zap.String("component", "window_controller")),
	}
}

// Focus raises the window whose title contains titleSubstring.
func (c *RobotController) Focus(ctx context.Context, titleSubstring string) bool {
	if ctx.Err() != nil {
		return false
	}

	if strings.Contains(robotgo.GetTitle(), titleSubstring) {
		c.logger.Debug("Window already focused", zap.String("title", titleSubstring))
		return true
	}

	if err := robotgo.ActiveName(titleSubstring); err != nil {
		c.logger.Error("Failed to activate window", zap.String("title", titleSubstring), zap.Error(err))
		return false
	}

	if err := retry.Sleep(ctx, c.settle); err != nil {
		return false
	}

	if !strings.Contains(robotgo.GetTitle(), titleSubstring) {
		c.logger.Warn("Window activated but not frontmost", zap.String("title", titleSubstring))
		return false
	}

	c.logger.Debug("Window focused", zap.String("title", titleSubstring))
	return true
}
