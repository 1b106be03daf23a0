// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully populated configuration that passes Validate.
// Tests mutate individual fields to exercise specific failure paths.
func validConfig() Config {
	return Config{
		App: AppConfig{
			WindowTitle: "fastapi-demo",
			ProjectPath: "/work/fastapi-demo",
		},
		Input: InputConfig{
			Platform: PlatformLinux,
			Settle:   500 * time.Millisecond,
		},
		Capture: CaptureConfig{Monitor: 0},
		Match:   MatchConfig{Confidence: 0.8},
		Hotkeys: HotkeysConfig{
			OpenPanel:  []string{"ctrl", "i"},
			NewSession: []string{"ctrl", "n"},
			Submit:     []string{"ctrl", "enter"},
			Accept:     []string{"ctrl", "enter"},
			SelectAll:  []string{"ctrl", "a"},
		},
		Waits: WaitConfig{
			AfterOpen:    time.Second,
			PerFile:      time.Second,
			Execution:    300 * time.Second,
			PollInterval: 5 * time.Second,
		},
		Templates: map[string]string{
			TemplatePanelReady:    "images/linux/panel_ready.png",
			TemplateSendButton:    "images/linux/send_button.png",
			TemplateBusyIndicator: "images/linux/busy_indicator.png",
		},
	}
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{
			name:    "missing window title",
			mutate:  func(c *Config) { c.App.WindowTitle = "" },
			wantMsg: "app.window_title",
		},
		{
			name:    "unknown platform",
			mutate:  func(c *Config) { c.Input.Platform = "beos" },
			wantMsg: "input.platform",
		},
		{
			name:    "negative monitor index",
			mutate:  func(c *Config) { c.Capture.Monitor = -1 },
			wantMsg: "capture.monitor",
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.Match.Confidence = 1.5 },
			wantMsg: "match.confidence",
		},
		{
			name:    "missing hotkey chord",
			mutate:  func(c *Config) { c.Hotkeys.Submit = nil },
			wantMsg: "hotkeys.submit",
		},
		{
			name:    "empty key inside chord",
			mutate:  func(c *Config) { c.Hotkeys.Accept = []string{"ctrl", ""} },
			wantMsg: "hotkeys.accept",
		},
		{
			name:    "missing wait timeouts",
			mutate:  func(c *Config) { c.Waits = WaitConfig{} },
			wantMsg: "wait_timeouts",
		},
		{
			name:    "zero execution timeout",
			mutate:  func(c *Config) { c.Waits.Execution = 0 },
			wantMsg: "wait_timeouts.execution",
		},
		{
			name:    "poll interval exceeding execution timeout",
			mutate:  func(c *Config) { c.Waits.PollInterval = c.Waits.Execution + time.Second },
			wantMsg: "poll_interval",
		},
		{
			name:    "missing busy indicator template",
			mutate:  func(c *Config) { delete(c.Templates, TemplateBusyIndicator) },
			wantMsg: "templates.busy_indicator",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestNewConfigFromViper_DefaultsOnly(t *testing.T) {
	// Defaults alone are not a runnable configuration: the required keys
	// (window title, hotkeys, waits, templates) are absent and must fail
	// fast before any capture or window action.
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Nil(t, cfg)
}

func TestNewConfigFromViper_CompleteConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("app.window_title", "fastapi-demo")
	v.Set("hotkeys.open_panel", []string{"ctrl", "i"})
	v.Set("hotkeys.new_session", []string{"ctrl", "n"})
	v.Set("hotkeys.submit", []string{"ctrl", "enter"})
	v.Set("hotkeys.accept", []string{"ctrl", "enter"})
	v.Set("hotkeys.select_all", []string{"ctrl", "a"})
	v.Set("wait_timeouts.after_open", "1s")
	v.Set("wait_timeouts.per_file", "1s")
	v.Set("wait_timeouts.execution", "300s")
	v.Set("wait_timeouts.poll_interval", "5s")
	v.Set("templates.panel_ready", "images/panel_ready.png")
	v.Set("templates.send_button", "images/send_button.png")
	v.Set("templates.busy_indicator", "images/busy_indicator.png")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "fastapi-demo", cfg.App.WindowTitle)
	assert.Equal(t, 0.8, cfg.Match.Confidence, "confidence should default to 0.8")
	assert.Equal(t, 500*time.Millisecond, cfg.Input.Settle)
	assert.Equal(t, 300*time.Second, cfg.Waits.Execution)
	assert.Equal(t, 5*time.Second, cfg.Waits.PollInterval)
	assert.Equal(t, "autocomposer", cfg.Logger.ServiceName)
}

func TestPlatform_PrimaryModifier(t *testing.T) {
	assert.Equal(t, "command", PlatformDarwin.PrimaryModifier())
	assert.Equal(t, "ctrl", PlatformWindows.PrimaryModifier())
	assert.Equal(t, "ctrl", PlatformLinux.PrimaryModifier())
}

func TestPlatform_DirectTypingReliable(t *testing.T) {
	assert.False(t, PlatformDarwin.DirectTypingReliable())
	assert.True(t, PlatformWindows.DirectTypingReliable())
	assert.True(t, PlatformLinux.DirectTypingReliable())
}
