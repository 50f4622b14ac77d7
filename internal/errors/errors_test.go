package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrDecode,
		ErrTerminal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid port: abc",
			suggestion: "Pass the device port as an integer",
		},
		{
			name:       "transport error",
			code:       ErrTransport,
			message:    "Can't reach miner at 10.0.0.5:4111",
			suggestion: "Check the miner is powered on",
		},
		{
			name:       "terminal error",
			code:       ErrTerminal,
			message:    "Not a terminal",
			suggestion: "Run rigmon from an interactive terminal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name:          "message and suggestion",
			err:           New(ErrConfig, "Invalid port", "Use a number like 4111"),
			expectedParts: []string{"✗", "Invalid port", "Use a number like 4111"},
		},
		{
			name:          "message and cause",
			err:           WrapWithCode(fmt.Errorf("connection refused"), ErrTransport, "Can't reach miner", ""),
			expectedParts: []string{"✗ Can't reach miner", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "output should contain %q", part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 10.0.0.5:4111: connect: connection refused"),
		ErrTransport,
		"Can't reach miner at 10.0.0.5:4111",
		"Check the address and that the miner API port is open",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Can't reach miner")
}

func TestDecode(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Decode("boardpow", cause)

	assert.Equal(t, ErrDecode, err.Code)
	assert.Contains(t, err.Message, "boardpow")
	assert.True(t, IsCode(err, ErrDecode))
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrTransport))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.True(t, IsCode(fmt.Errorf("outer: %w", err), ErrConfig))
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{"exit error", NewExitError(1), 1, true},
		{"wrapped exit error", fmt.Errorf("usage: %w", NewExitError(2)), 2, true},
		{"standard error", errors.New("standard error"), 0, false},
		{"nil", nil, 0, false},
		{"structured error", New(ErrTransport, "test", ""), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 1", NewExitError(1).Error())
}
