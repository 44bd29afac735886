// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps command output free of log lines unless something is wrong
const DefaultLevel = "warn"

// NewTo returns a development-style sugared logger writing to w
func NewTo(level string, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core).Sugar(), nil
}

// ParseLevel parses a level name; empty means DefaultLevel
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Nop returns a logger that discards everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// GooseLogger adapts a sugared logger to goose's Logger interface.
// Migration chatter goes to debug.
type GooseLogger struct {
	Log *zap.SugaredLogger
}

// Printf logs at debug level
func (g GooseLogger) Printf(format string, v ...interface{}) {
	g.Log.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

// Fatalf logs at error level. Goose calls it for unrecoverable migration
// state; the error is also returned from goose.Up, so the process is not
// terminated here.
func (g GooseLogger) Fatalf(format string, v ...interface{}) {
	g.Log.Errorf(strings.TrimSuffix(format, "\n"), v...)
}
