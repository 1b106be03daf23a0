// File: internal/launcher/launcher.go

// Package launcher starts the target application with a project path.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/config"
	"github.com/Beckjiang/autocomposer/internal/retry"
)

// Launcher opens the target application. With no launch command configured
// the application is assumed to already be running and Open is a no-op;
// editors that are already open typically just raise the existing window
// when launched again with the same project, so Open is safe to repeat.
type Launcher interface {
	Open(ctx context.Context, projectPath string) error
}

// CommandLauncher spawns the configured launch command.
type CommandLauncher struct {
	command []string
	settle  time.Duration
	logger  *zap.Logger
}

// NewCommandLauncher builds a Launcher from the app configuration.
func NewCommandLauncher(cfg config.AppConfig, settle time.Duration, logger *zap.Logger) *CommandLauncher {
	return &CommandLauncher{
		command: cfg.LaunchCommand,
		settle:  settle,
		logger:  logger.With(zap.String("component", "launcher")),
	}
}

// Open starts the application and waits for it to settle. The spawned
// process is not supervised; the workflow observes the application through
// the screen, not through the process table.
func (l *CommandLauncher) Open(ctx context.Context, projectPath string) error {
	if len(l.command) == 0 {
		l.logger.Debug("No launch command configured, assuming application is running")
		return nil
	}

	args := append(append([]string{}, l.command[1:]...), projectPath)
	cmd := exec.CommandContext(ctx, l.command[0], args...)
	l.logger.Info("Launching target application",
		zap.String("command", l.command[0]),
		zap.String("project", projectPath))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %q: %w", l.command[0], err)
	}
	// Detach: the editor owns its own lifetime.
	go func() {
		_ = cmd.Wait()
	}()

	return retry.Sleep(ctx, l.settle)
}
