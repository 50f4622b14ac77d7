package logger

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestStdLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		expectLog bool
	}{
		{name: "logs when debug is on", debug: true, expectLog: true},
		{name: "silent when debug is off", debug: false, expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			SetDebug(tt.debug)
			defer SetDebug(false)

			l := New("[test]")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] test message arg")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestStdLogger_Levels(t *testing.T) {
	buf := captureLog(t)

	l := New("[device]")
	l.Info("info message %d", 42)
	l.Warn("warning message")
	l.Error("error message")

	output := buf.String()
	assert.Contains(t, output, "[device] info message 42")
	assert.Contains(t, output, "[device] WARN: warning message")
	assert.Contains(t, output, "[device] ERROR: error message")
}

func TestNoopLogger(t *testing.T) {
	buf := captureLog(t)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String(), "noop logger should not produce any output")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, l.Messages[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, l.Messages[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])
}

func TestBufferLogger_HasLevelAndClear(t *testing.T) {
	l := NewBufferLogger()
	assert.False(t, l.HasLevel("warn"))

	l.Warn("slow reply")
	assert.True(t, l.HasLevel("warn"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("warn"))
}

func TestStdLogger_FormatStrings(t *testing.T) {
	buf := captureLog(t)

	New("[fmt]").Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.True(t, strings.Contains(output, "int: 42"))
	assert.True(t, strings.Contains(output, "string: hello"))
	assert.True(t, strings.Contains(output, "float: 3.14"))
}
