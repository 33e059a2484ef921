package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// newTestLogger creates a logger writing to a buffer for verification.
func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
}

func TestNopLogger_With_ReturnsSelf(t *testing.T) {
	l := NewNopLogger()
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("child"))
}

func TestZapLogger_LevelsWriteLog(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Debug("debug msg")
	assert.Contains(t, buf.String(), "debug msg")

	l.Info("info msg")
	assert.Contains(t, buf.String(), "info msg")

	l.Warn("warn msg")
	assert.Contains(t, buf.String(), "warn msg")

	l.Error("error msg")
	assert.Contains(t, buf.String(), "error msg")
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(String("foo", "bar")).Info("msg")
	assert.Contains(t, buf.String(), `"foo":"bar"`)
}

func TestZapLogger_Named_AddsLoggerName(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Named("http").Info("msg")
	assert.Contains(t, buf.String(), "http")
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("typed",
		String("s", "v"),
		Int("i", 7),
		Int64("i64", 9),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", 250*time.Millisecond),
		Err(errors.New("boom")),
	)

	out := buf.String()
	assert.Contains(t, out, `"s":"v"`)
	assert.Contains(t, out, `"i":7`)
	assert.Contains(t, out, `"i64":9`)
	assert.Contains(t, out, `"f":1.5`)
	assert.Contains(t, out, `"b":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestSetDefault_ReplacesDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	orig := Default()
	SetDefault(nil)
	assert.Equal(t, orig, Default())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
