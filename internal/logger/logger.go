// Package logger provides the process-wide structured logger used by
// every engine package. It mirrors the teacher's once-initialized
// package-level accessor shape, built on zerolog instead of log/slog —
// zerolog is a real teacher dependency that the teacher's own
// logger.go never actually wired in.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Options configures the default logger. Pretty enables a human-readable
// console writer instead of JSON (MWI_LOG_PRETTY=1).
type Options struct {
	Level  string
	Pretty bool
}

// Init initializes the default logger. It is safe to call more than
// once; only the first call takes effect.
func Init(opts Options) {
	once.Do(func() {
		level, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		var w = os.Stdout
		if opts.Pretty {
			defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
		} else {
			defaultLogger = zerolog.New(w).With().Timestamp().Logger()
		}
	})
}

// Get returns the initialized default logger, initializing it with
// sensible defaults first if Init was never called.
func Get() *zerolog.Logger {
	Init(Options{Level: "info"})
	return &defaultLogger
}

// Info logs an informational message with structured key/value pairs.
func Info(msg string, kv ...any) {
	event := Get().Info()
	withFields(event, kv)
	event.Msg(msg)
}

// Warn logs a warning message with structured key/value pairs.
func Warn(msg string, kv ...any) {
	event := Get().Warn()
	withFields(event, kv)
	event.Msg(msg)
}

// Error logs an error with structured key/value pairs.
func Error(msg string, err error, kv ...any) {
	event := Get().Error()
	if err != nil {
		event = event.Err(err)
	}
	withFields(event, kv)
	event.Msg(msg)
}

// Debug logs a debug message with structured key/value pairs.
func Debug(msg string, kv ...any) {
	event := Get().Debug()
	withFields(event, kv)
	event.Msg(msg)
}

func withFields(event *zerolog.Event, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, kv[i+1])
	}
}
