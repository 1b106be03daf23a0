// File: internal/input/driver_test.go
package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Beckjiang/autocomposer/internal/config"
)

func TestUsePastePath(t *testing.T) {
	tests := []struct {
		name     string
		platform config.Platform
		text     string
		want     bool
	}{
		{
			name:     "ascii on windows types directly",
			platform: config.PlatformWindows,
			text:     "initialize a fastapi project",
			want:     false,
		},
		{
			name:     "ascii on linux types directly",
			platform: config.PlatformLinux,
			text:     "plain prompt",
			want:     false,
		},
		{
			name:     "ascii on darwin still pastes",
			platform: config.PlatformDarwin,
			text:     "plain prompt",
			want:     true,
		},
		{
			name:     "cjk text pastes on any platform",
			platform: config.PlatformWindows,
			text:     "构建对于实体Task的接口",
			want:     true,
		},
		{
			name:     "accented latin pastes",
			platform: config.PlatformLinux,
			text:     "café déployé",
			want:     true,
		},
		{
			name:     "empty text types directly",
			platform: config.PlatformWindows,
			text:     "",
			want:     false,
		},
		{
			name:     "ascii punctuation types directly",
			platform: config.PlatformLinux,
			text:     "task: build CRUD @ /api/v1!",
			want:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, usePastePath(tc.platform, tc.text))
		})
	}
}
