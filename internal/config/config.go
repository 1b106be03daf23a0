// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// ErrConfig marks a fatal configuration problem detected at startup.
// Validation runs before any screen capture or window action, so a workflow
// with a broken configuration never touches the target application.
var ErrConfig = errors.New("invalid configuration")

// Platform identifies the operating system the workflow runs on. It is an
// explicit configuration value rather than ambient process state so tests
// and cross-platform configs can pin it.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
)

// PrimaryModifier returns the platform's primary shortcut modifier key.
func (p Platform) PrimaryModifier() string {
	if p == PlatformDarwin {
		return "command"
	}
	return "ctrl"
}

// DirectTypingReliable reports whether synthesized per-character keystrokes
// are dependable on this platform. On darwin the "hold modifier, then type"
// path drops characters, so text entry must go through the clipboard.
func (p Platform) DirectTypingReliable() bool {
	return p != PlatformDarwin
}

func (p Platform) valid() bool {
	switch p {
	case PlatformWindows, PlatformDarwin, PlatformLinux:
		return true
	}
	return false
}

// Template IDs every workflow needs. The locator resolves these through the
// templates map to platform- and resolution-specific reference images.
const (
	TemplatePanelReady    = "panel_ready"
	TemplateSendButton    = "send_button"
	TemplateBusyIndicator = "busy_indicator"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	App       AppConfig         `mapstructure:"app" yaml:"app"`
	Input     InputConfig       `mapstructure:"input" yaml:"input"`
	Capture   CaptureConfig     `mapstructure:"capture" yaml:"capture"`
	Match     MatchConfig       `mapstructure:"match" yaml:"match"`
	Hotkeys   HotkeysConfig     `mapstructure:"hotkeys" yaml:"hotkeys"`
	Waits     WaitConfig        `mapstructure:"wait_timeouts" yaml:"wait_timeouts"`
	Templates map[string]string `mapstructure:"templates" yaml:"templates"`
	Report    ReportConfig      `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AppConfig identifies the target application and the project it should open.
type AppConfig struct {
	// WindowTitle is the substring used to find and focus the target window.
	WindowTitle string `mapstructure:"window_title" yaml:"window_title"`
	// ProjectPath is passed to the launch command as its argument.
	ProjectPath string `mapstructure:"project_path" yaml:"project_path"`
	// LaunchCommand opens the target application. Empty means the
	// application is assumed to already be running.
	LaunchCommand []string `mapstructure:"launch_command" yaml:"launch_command"`
}

// InputConfig tunes synthetic input injection.
type InputConfig struct {
	Platform Platform `mapstructure:"platform" yaml:"platform"`
	// Settle is the pause inserted after each injected gesture so the
	// target UI can catch up. There is no completion signal to wait on.
	Settle time.Duration `mapstructure:"settle" yaml:"settle"`
}

// CaptureConfig controls screen capture.
type CaptureConfig struct {
	Monitor int `mapstructure:"monitor" yaml:"monitor"`
	// DebugDir, when set, receives a timestamped PNG of every capture.
	// Diagnostics only; leave empty in production.
	DebugDir string `mapstructure:"debug_dir" yaml:"debug_dir"`
}

// MatchConfig tunes template matching.
type MatchConfig struct {
	// Confidence is the minimum normalized cross-correlation score for a
	// template match to count as found.
	Confidence float64 `mapstructure:"confidence" yaml:"confidence"`
}

// HotkeysConfig maps workflow gestures to ordered key chords. The first key
// of a chord is held while the rest are tapped.
type HotkeysConfig struct {
	OpenPanel  []string `mapstructure:"open_panel" yaml:"open_panel"`
	NewSession []string `mapstructure:"new_session" yaml:"new_session"`
	Submit     []string `mapstructure:"submit" yaml:"submit"`
	Accept     []string `mapstructure:"accept" yaml:"accept"`
	SelectAll  []string `mapstructure:"select_all" yaml:"select_all"`
}

// WaitConfig gathers every delay constant of the workflow in one place.
// All four values are required; there are deliberately no defaults, since
// sensible values depend entirely on the target machine and application.
type WaitConfig struct {
	// AfterOpen is the settle time after opening the application or panel.
	AfterOpen time.Duration `mapstructure:"after_open" yaml:"after_open"`
	// PerFile is the settle time after each attached file reference.
	PerFile time.Duration `mapstructure:"per_file" yaml:"per_file"`
	// Execution bounds the wait for the target's long-running task.
	Execution time.Duration `mapstructure:"execution" yaml:"execution"`
	// PollInterval is the spacing of busy-indicator checks during that wait.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// ReportConfig controls the JSON run report.
type ReportConfig struct {
	// Path of the report file. Empty disables reporting.
	Path string `mapstructure:"path" yaml:"path"`
}

// SetDefaults initializes default values for configuration parameters that
// have a sane machine-independent answer. Required keys (window title,
// hotkeys, wait timeouts, templates) intentionally have no defaults.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "autocomposer")
	v.SetDefault("logger.log_file", "autocomposer.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Input --
	v.SetDefault("input.platform", runtime.GOOS)
	v.SetDefault("input.settle", "500ms")

	// -- Capture --
	v.SetDefault("capture.monitor", 0)
	v.SetDefault("capture.debug_dir", "")

	// -- Match --
	v.SetDefault("match.confidence", 0.8)
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for required keys and sane values.
// Any violation is fatal and reported before a single step executes.
func (c *Config) Validate() error {
	if c.App.WindowTitle == "" {
		return fmt.Errorf("%w: app.window_title is required", ErrConfig)
	}
	if !c.Input.Platform.valid() {
		return fmt.Errorf("%w: input.platform %q is not one of windows, darwin, linux", ErrConfig, c.Input.Platform)
	}
	if c.Input.Settle < 0 {
		return fmt.Errorf("%w: input.settle must not be negative", ErrConfig)
	}
	if c.Capture.Monitor < 0 {
		return fmt.Errorf("%w: capture.monitor must not be negative", ErrConfig)
	}
	if c.Match.Confidence < 0.0 || c.Match.Confidence > 1.0 {
		return fmt.Errorf("%w: match.confidence must be between 0.0 and 1.0", ErrConfig)
	}
	if err := c.Hotkeys.validate(); err != nil {
		return err
	}
	if err := c.Waits.validate(); err != nil {
		return err
	}
	for _, id := range []string{TemplatePanelReady, TemplateSendButton, TemplateBusyIndicator} {
		if c.Templates[id] == "" {
			return fmt.Errorf("%w: templates.%s is required", ErrConfig, id)
		}
	}
	return nil
}

func (h *HotkeysConfig) validate() error {
	chords := map[string][]string{
		"open_panel":  h.OpenPanel,
		"new_session": h.NewSession,
		"submit":      h.Submit,
		"accept":      h.Accept,
		"select_all":  h.SelectAll,
	}
	for name, chord := range chords {
		if len(chord) == 0 {
			return fmt.Errorf("%w: hotkeys.%s is required", ErrConfig, name)
		}
		for _, key := range chord {
			if key == "" {
				return fmt.Errorf("%w: hotkeys.%s contains an empty key", ErrConfig, name)
			}
		}
	}
	return nil
}

func (w *WaitConfig) validate() error {
	durations := map[string]time.Duration{
		"after_open":    w.AfterOpen,
		"per_file":      w.PerFile,
		"execution":     w.Execution,
		"poll_interval": w.PollInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: wait_timeouts.%s must be a positive duration", ErrConfig, name)
		}
	}
	if w.PollInterval > w.Execution {
		return fmt.Errorf("%w: wait_timeouts.poll_interval must not exceed wait_timeouts.execution", ErrConfig)
	}
	return nil
}
