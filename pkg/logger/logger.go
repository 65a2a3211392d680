// Package logger wires zap behind logr for the mdplay commands and keeps a
// process-wide logger that packages can fetch from a context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/oakwood-commons/mdplay/pkg/settings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Define an unexported custom type for the context key to prevent collisions.
type loggerContextKey struct{}

const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
	InputKey       = "input"
)

var (
	once sync.Once // Ensures Setup is called only once

	// globalZapLogger is the underlying *zap.Logger for Sync().
	globalZapLogger *zap.Logger

	// globalLogrLogger is the logr.Logger handed out when a context carries
	// none.
	globalLogrLogger *logr.Logger

	// defaultNoopLogger is a logger that does nothing, used as a fallback.
	defaultNoopLogger logr.Logger = logr.Discard()
)

// Options configures Setup.
type Options struct {
	// Level is the minimum zap level: -1 debug, 0 info, 1 warn.
	Level int8
	// Output receives JSON log lines. Nil discards them.
	Output io.Writer
}

// Setup initializes the global Zap and Logr loggers. Only the first call
// has an effect; later calls return the logger built by the first.
func Setup(opts Options) *logr.Logger {
	once.Do(func() {
		globalZapLogger = newZapLogger(opts)
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// Get initializes the global loggers writing to stderr.
func Get(logLevel int8) *logr.Logger {
	return Setup(Options{Level: logLevel, Output: os.Stderr})
}

func newZapLogger(opts Options) *zap.Logger {
	if opts.Output == nil {
		return zap.NewNop()
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	goVersion := ""
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		goVersion = buildInfo.GoVersion
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(opts.Output)),
		zap.NewAtomicLevelAt(zapcore.Level(opts.Level)),
	).With(
		[]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
			zap.String(GoVersionKey, goVersion),
		},
	)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// OutputFor picks the log destination for a run: the log file when set,
// stderr for batch commands, nothing while the full-screen UI is active.
// The returned close func is never nil.
func OutputFor(run *settings.Run) (io.Writer, func(), error) {
	switch {
	case run == nil:
		return os.Stderr, func() {}, nil
	case run.LogFile != "":
		f, err := OpenFile(run.LogFile)
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() { _ = f.Close() }, nil
	case run.LogToStderr():
		return os.Stderr, func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

// WithLogger returns a new context with the provided logr.Logger attached.
// If the context already contains the same logger instance, it returns the original context.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		if lp == log {
			return ctx
		}
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext retrieves the logr.Logger from the context, falling back to
// the global logger and then to a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	} else if log := globalLogrLogger; log != nil {
		return log
	}
	return &defaultNoopLogger
}

// Sync flushes any buffered log entries to their destination.
func Sync() {
	if globalZapLogger != nil {
		if err := globalZapLogger.Sync(); err != nil {
			if isIgnorableSyncError(err) {
				return
			}
			fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
		}
	}
}

// isIgnorableSyncError returns true for common Sync errors on pipes/TTYs.
// Windows consoles can return ERROR_INVALID_HANDLE wrapped in *os.PathError,
// which does not compare equal to syscall.EINVAL, so we also string-match.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetGlobalLogger returns the globally configured logr.Logger, or a no-op
// logger before Setup.
func GetGlobalLogger() *logr.Logger {
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

func GetNoopLogger() *logr.Logger {
	return &defaultNoopLogger
}

// WithValues returns a new logger with additional key-value pairs.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}
