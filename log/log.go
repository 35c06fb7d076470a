package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	kitlog "github.com/go-kit/kit/log"
	kitlevel "github.com/go-kit/kit/log/level"
)

// Logger is the leveled logger used throughout ethaddr.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) Logger
}

type kitLogger struct {
	kitlog.Logger
}

var _ Logger = kitLogger{}

func (l kitLogger) Debug(msg string, keyvals ...interface{}) {
	kitlevel.Debug(l.Logger).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l kitLogger) Info(msg string, keyvals ...interface{}) {
	kitlevel.Info(l.Logger).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l kitLogger) Warn(msg string, keyvals ...interface{}) {
	kitlevel.Warn(l.Logger).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l kitLogger) Error(msg string, keyvals ...interface{}) {
	kitlevel.Error(l.Logger).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func (l kitLogger) With(keyvals ...interface{}) Logger {
	return kitLogger{kitlog.With(l.Logger, keyvals...)}
}

// NewLogger returns a logfmt Logger that writes to w.
func NewLogger(w io.Writer) Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	return kitLogger{logger}
}

var (
	// Root is the process-wide logger, replaced by Setup.
	Root Logger = NewLogger(os.Stderr)
	// Default mirrors Root for callers that don't attach module fields.
	Default Logger = Root

	setupOnce sync.Once
)

// Setup configures the Root logger from config values. logLevel is one of
// debug, info, warn, error. dest accepts "file://-" for stdout and
// "file://path" to append to path; anything else falls back to stderr.
// Only the first call has any effect.
func Setup(logLevel, dest string) {
	setupOnce.Do(func() {
		logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(destWriter(dest)))
		logger = kitlevel.NewFilter(logger, levelAllow(logLevel))
		logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
		Root = kitLogger{logger}
		Default = Root
	})
}

func levelAllow(logLevel string) kitlevel.Option {
	switch strings.ToLower(logLevel) {
	case "debug":
		return kitlevel.AllowDebug()
	case "info":
		return kitlevel.AllowInfo()
	case "warn":
		return kitlevel.AllowWarn()
	case "error":
		return kitlevel.AllowError()
	default:
		return kitlevel.AllowInfo()
	}
}

func destWriter(dest string) io.Writer {
	parts := strings.SplitN(dest, "://", 2)
	if len(parts) != 2 || parts[0] != "file" {
		return os.Stderr
	}
	if parts[1] == "-" {
		return os.Stdout
	}
	f, err := os.OpenFile(parts[1], os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr
	}
	return f
}

func Debug(msg string, keyvals ...interface{}) { Root.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { Root.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { Root.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { Root.Error(msg, keyvals...) }

type contextKey string

func (c contextKey) String() string {
	return "log " + string(c)
}

var (
	contextKeyLog = contextKey("log")
)

func SetContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, contextKeyLog, log)
}

func Log(ctx context.Context) Logger {
	logger, _ := ctx.Value(contextKeyLog).(Logger)
	if logger == nil {
		return Root
	}

	return logger
}
