package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

func TestXLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerEncoder(JSON),
		WithXLoggerOutput(buf),
	)
	require.Equal(t, zapcore.InfoLevel.String(), logger.Level())

	logger.Debug("dropped")
	logger.Info("kept", zap.Int("size", 16))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "INFO", entry["lvl"])
	require.Equal(t, float64(16), entry["size"])
	require.Contains(t, entry["callAt"], "zap_test.go")
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerOutput(buf))

	logger.ErrorStack(infra.WrapErrorStackWithMessage(errors.New("boom"), "rotate"), "failed")
	logger.ErrorStack(errors.New("plain"), "failed again")
	logger.Error(nil, "no error")
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "rotate: boom", entry["error"])
	require.NotEmpty(t, entry["errorStack"])

	entry = map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "plain", entry["error"])
	require.Nil(t, entry["errorStack"])

	entry = map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	require.Nil(t, entry["error"])
}

func TestXLogger_Logf(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerOutput(buf), WithXLoggerEncoder(PlainText))
	logger.Logf(zapcore.WarnLevel, "rotations=%d", 3)
	require.NoError(t, logger.Sync())
	require.Contains(t, buf.String(), "rotations=3")
	require.Contains(t, buf.String(), "WARN")
}

func TestXLoggerOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerOutput(nil))
	})
	require.NotPanics(t, func() {
		NewXLogger(nil, WithXLoggerWriter(StdErr)).Info("stderr")
	})
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" WARN ", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.expected, getLogLevelOrDefault(tc.in))
		})
	}
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	logger.Info("nothing")
	require.NoError(t, logger.Sync())
	require.NotNil(t, logger.Named("child"))
}
