package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("Actions")
	require.NoError(t, err)
	assert.Equal(t, FormatActions, f)

	_, err = ParseFormat("json")
	assert.Error(t, err)
}

func TestInitText(t *testing.T) {
	var buf bytes.Buffer
	Init(FormatText, LevelInfo, &buf)

	Info("test-subsystem", "test message %d", 42)

	output := buf.String()
	assert.Contains(t, output, "test message 42")
	assert.Contains(t, output, "subsystem=test-subsystem")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(FormatText, LevelInfo, &buf)

	Debug("test", "debug message")
	Info("test", "info message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should be filtered out at INFO level")
	}
	if !strings.Contains(output, "info message") {
		t.Error("Info message should appear at INFO level")
	}
}

func TestActionsFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(FormatActions, LevelDebug, &buf)

	Debug("Gateway", "payload echo")
	Info("Reconciler", "Creating new app")
	Warn("Reconciler", "slow cluster")
	Error("Gateway", errors.New("boom"), "call failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "::debug::payload echo", lines[0])
	assert.Equal(t, "Creating new app", lines[1])
	assert.Equal(t, "::warning::slow cluster", lines[2])
	assert.Equal(t, "::error::call failed error=boom", lines[3])
}

func TestActionsHandlerEscapesMultiline(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewActionsHandler(&buf, slog.LevelInfo))

	logger.Error("line one\nline two 100%")

	assert.Equal(t, "::error::line one%0Aline two 100%25\n", buf.String())
}

func TestActionsHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewActionsHandler(&buf, slog.LevelInfo)).With("run", "abc")

	logger.Info("hello", "n", 1)

	assert.Equal(t, "hello run=abc n=1\n", buf.String())
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("ACTIONS_STEP_DEBUG", "true")
	assert.Equal(t, LevelDebug, LevelFromEnv(LevelInfo))

	t.Setenv("ACTIONS_STEP_DEBUG", "")
	assert.Equal(t, LevelInfo, LevelFromEnv(LevelInfo))
}
