package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
)

// Logger is the structured logging surface shared across packages.
// Each call logs obj as a single structured field named key.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Zap is the zap-backed Logger used by the binaries.
type Zap struct {
	base *zap.Logger
}

// Init builds a JSON zap logger using settings from config.
func Init(cfg *config.Config) (*Zap, error) {
	level := zapcore.InfoLevel
	sink := zapcore.Lock(os.Stdout)
	if cfg != nil {
		level = parseLevel(cfg.LogLevel)
		if cfg.LogOutput == "stderr" {
			sink = zapcore.Lock(os.Stderr)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		sink,
		level,
	)

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if cfg != nil && cfg.AppName != "" {
		base = base.With(zap.String("app", cfg.AppName))
	}
	return &Zap{base: base}, nil
}

func parseLevel(raw string) zapcore.Level {
	switch raw {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered log entries.
func (z *Zap) Close() error {
	if z == nil || z.base == nil {
		return nil
	}
	return z.base.Sync()
}

func (z *Zap) InfoObj(msg, key string, obj interface{}) {
	if z == nil || z.base == nil {
		return
	}
	z.base.Info(msg, zap.Any(key, obj))
}

func (z *Zap) DebugObj(msg, key string, obj interface{}) {
	if z == nil || z.base == nil {
		return
	}
	z.base.Debug(msg, zap.Any(key, obj))
}

func (z *Zap) WarnObj(msg, key string, obj interface{}) {
	if z == nil || z.base == nil {
		return
	}
	z.base.Warn(msg, zap.Any(key, obj))
}

func (z *Zap) ErrorObj(msg, key string, obj interface{}) {
	if z == nil || z.base == nil {
		return
	}
	z.base.Error(msg, zap.Any(key, obj))
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Ensure returns log, or a NopLogger when log is nil.
func Ensure(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
