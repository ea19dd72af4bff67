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

// newBufferLogger builds a JSON logger backed by an in-memory buffer so tests
// can assert on the emitted entries.
func newBufferLogger() (Logger, *zaptest.Buffer) {
	buf := &zaptest.Buffer{}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_CallerAndSampling(t *testing.T) {
	l, err := NewLogger(LogConfig{
		Level:            "debug",
		EnableCaller:     true,
		EnableStacktrace: true,
		SamplingRate:     100,
	})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"unknown-scheme://x"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_Levels(t *testing.T) {
	l, buf := newBufferLogger()
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "\"level\":\"debug\"")
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newBufferLogger()
	l.With(String("foo", "bar")).Info("msg")
	assert.Contains(t, buf.String(), "\"foo\":\"bar\"")
}

func TestZapLogger_With_DoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger()
	_ = l.With(String("child_only", "yes"))
	l.Info("parent msg")
	assert.NotContains(t, buf.String(), "child_only")
}

func TestZapLogger_Named(t *testing.T) {
	l, buf := newBufferLogger()
	l.Named("http").Named("router").Info("msg")
	assert.Contains(t, buf.String(), "\"logger\":\"http.router\"")
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, buf := newBufferLogger()
	l.Info("msg",
		String("s", "v"),
		Int("i", 7),
		Int64("i64", 9),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", 250*time.Millisecond),
		Err(errors.New("boom")),
		Any("m", map[string]int{"k": 1}),
	)
	out := buf.String()
	assert.Contains(t, out, "\"s\":\"v\"")
	assert.Contains(t, out, "\"i\":7")
	assert.Contains(t, out, "\"i64\":9")
	assert.Contains(t, out, "\"f\":1.5")
	assert.Contains(t, out, "\"b\":true")
	assert.Contains(t, out, "\"error\":\"boom\"")
	assert.Contains(t, out, "\"k\":1")
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	l.Fatal("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestSetDefault_ReplacesGlobal(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	SetDefault(nil)
	assert.NotNil(t, Default())
}

func TestNewLoggerFromCore(t *testing.T) {
	buf := &zaptest.Buffer{}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		buf, zapcore.InfoLevel,
	)
	l := NewLoggerFromCore(core)
	l.Info("from core")
	assert.Contains(t, buf.String(), "from core")
}
