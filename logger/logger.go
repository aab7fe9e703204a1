// Package logger exposes the two loggers used by the rendering pipeline,
// backed by zap.
package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a named channel of the global zap logger.
type Logger struct {
	name  string
	level zapcore.Level
}

var (
	// ProgressLogger logs the main steps of the rendering.
	ProgressLogger = Logger{name: "progress", level: zapcore.InfoLevel}

	// WarningLogger emits a warning for each non fatal error, like unsupported CSS
	// properties or image loading errors.
	WarningLogger = Logger{name: "warning", level: zapcore.WarnLevel}
)

type loggers struct {
	base     *zap.Logger
	progress *zap.SugaredLogger
	warning  *zap.SugaredLogger
}

var current atomic.Pointer[loggers]

func init() {
	core := zapcore.NewCore(newEncoder("console"), zapcore.Lock(os.Stderr), zapcore.WarnLevel)
	store(zap.New(core))
}

func store(base *zap.Logger) *loggers {
	l := &loggers{
		base:     base,
		progress: base.Named(ProgressLogger.name).Sugar(),
		warning:  base.Named(WarningLogger.name).Sugar(),
	}
	return current.Swap(l)
}

func (l Logger) sugared() *zap.SugaredLogger {
	ls := current.Load()
	if l.name == WarningLogger.name {
		return ls.warning
	}
	return ls.progress
}

// Printf logs a formatted message at the level of the logger.
func (l Logger) Printf(format string, args ...interface{}) {
	l.sugared().Logf(l.level, format, args...)
}

// With returns a logger carrying the given structured fields,
// given as alternated keys and values.
func (l Logger) With(args ...interface{}) *zap.SugaredLogger {
	return l.sugared().With(args...)
}

// Config selects the level, the encoding and the optional
// rotated log file.
type Config struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // console or json
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Configure replaces the global logger.
func Configure(cfg Config) error {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stderr), level),
	}
	if cfg.File != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(newEncoder("json"), writer, level))
	}
	store(zap.New(zapcore.NewTee(cores...)))
	return nil
}

// ReplaceCore installs `core` and returns a function restoring
// the previous logger. It is mainly useful in tests.
func ReplaceCore(core zapcore.Core) (restore func()) {
	previous := store(zap.New(core))
	return func() { current.Store(previous) }
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = current.Load().base.Sync()
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}
