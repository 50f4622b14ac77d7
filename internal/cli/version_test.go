package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{"0.3.1-rc1", "v0.3.1-rc1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatVersion(tt.input))
		})
	}
}

func TestSetVersionInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	defer SetVersionInfo(originalVersion, originalCommit, originalDate)

	SetVersionInfo("1.2.3", "abc123", "2024-06-01")

	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "v1.2.3 (commit abc123, built 2024-06-01, "+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+")", rootCmd.Version)
	assert.Equal(t, rootCmd.Version, newRootCmd().Version)
}
