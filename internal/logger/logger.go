// Package logger defines the structured logging sink the rest of the
// module depends on. The interactor never logs directly to a global;
// every component that wants to log takes a Logger at construction
// time, defaulting to Nop() when the caller supplies none.
package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zap's severity levels so callers never import zap directly.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Field is a structured logging field, decoupled from zap.Field so the
// public API of this package stays stable even if the backing
// implementation changes.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func (f Field) zapField() zap.Field {
	return zap.Any(f.Key, f.Value)
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = f.zapField()
	}
	return out
}

// Logger is the interface every component accepts. The interactor holds
// one as an unowned reference — it never outlives the application that
// injected it.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	WithContext(ctx context.Context) Logger
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// zapLogger is the default Logger backed by go.uber.org/zap.
type zapLogger struct {
	mu    sync.RWMutex
	base  *zap.Logger
	level zap.AtomicLevel
}

// New builds a zap-backed Logger writing JSON to stdout at the given level.
func New(level Level) Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(os.Stdout), atom)
	base := zap.New(core, zap.AddCaller())

	return &zapLogger{base: base, level: atom}
}

// NewFromEnv reads WALLETBRIDGE_LOG_LEVEL (debug/info/warn/error), defaulting to info.
func NewFromEnv() Logger {
	level := InfoLevel
	switch strings.ToUpper(os.Getenv("WALLETBRIDGE_LOG_LEVEL")) {
	case "DEBUG":
		level = DebugLevel
	case "WARN":
		level = WarnLevel
	case "ERROR":
		level = ErrorLevel
	}
	return New(level)
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.base.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.base.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.base.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.base.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.base.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fields := []zap.Field{}
	if rid, ok := ctx.Value(contextKey("request_id")).(string); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	return &zapLogger{base: l.base.With(fields...), level: l.level}
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &zapLogger{base: l.base.With(toZapFields(fields)...), level: l.level}
}

func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

type contextKey string

// nopLogger discards everything. It is the interactor's zero-value default
// so an application that never supplies a Logger still runs safely.
type nopLogger struct{}

// Nop returns a Logger that does nothing.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field)               {}
func (nopLogger) Info(string, ...Field)                {}
func (nopLogger) Warn(string, ...Field)                {}
func (nopLogger) Error(string, ...Field)               {}
func (nopLogger) Fatal(string, ...Field)               {}
func (n nopLogger) WithContext(context.Context) Logger { return n }
func (n nopLogger) WithFields(...Field) Logger         { return n }
func (nopLogger) SetLevel(Level)                       {}
