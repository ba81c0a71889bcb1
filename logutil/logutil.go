// Package logutil owns the logger shared by the pretokenizer packages.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ollama/pretokenizer/envconfig"
)

// LevelTrace is below debug and carries per-call detail such as the offsets
// produced for every split.
const LevelTrace slog.Level = -8

// NewLogger returns a text logger that names the trace level and trims
// source paths to their base name.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				if l, ok := attr.Value.Any().(slog.Level); ok && l <= LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			case slog.SourceKey:
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

var logger atomic.Pointer[slog.Logger]

// Logger returns the shared logger. Until SetLogger installs another one it
// writes to stderr at the level chosen by OLLAMA_DEBUG.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	logger.CompareAndSwap(nil, NewLogger(os.Stderr, envconfig.LogLevel()))
	return logger.Load()
}

// SetLogger replaces the shared logger. nil restores the default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

type key string

// Trace logs at LevelTrace through the shared logger.
func Trace(msg string, args ...any) {
	TraceContext(context.WithValue(context.TODO(), key("skip"), 1), msg, args...)
}

func TraceContext(ctx context.Context, msg string, args ...any) {
	if l := Logger(); l.Enabled(ctx, LevelTrace) {
		skip, _ := ctx.Value(key("skip")).(int)
		pc, _, _, _ := runtime.Caller(1 + skip)
		record := slog.NewRecord(time.Now(), LevelTrace, msg, pc)
		record.Add(args...)
		l.Handler().Handle(ctx, record)
	}
}
