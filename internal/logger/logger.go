// Package logger provides a singleton structured logger backed by zerolog.
//
// Initialise once at startup with Init and pass the returned logger down.
//
//	TRACE (-1) → DEBUG (0) → INFO (1) → WARN (2) → ERROR (3)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty enables human-friendly console output.
	Pretty bool
	// Output is the writer logs are sent to. Defaults to os.Stdout.
	Output io.Writer
	// File, when set, additionally writes JSON logs to a daily rotated file.
	// The value is a path prefix: "logs/catalog.log" produces logs/catalog.log.20260101.
	File string
}

var (
	instance zerolog.Logger
	once     sync.Once
	initErr  error
)

// Init initialises the singleton logger. Only the first call has any effect.
func Init(opts Options) (zerolog.Logger, error) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		if opts.File != "" {
			rotated, err := rotatingFile(opts.File)
			if err != nil {
				initErr = err
				return
			}
			out = zerolog.MultiLevelWriter(out, rotated)
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	})
	return instance, initErr
}

// Reset tears down the singleton so that the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initErr = nil
}

func rotatingFile(prefix string) (io.Writer, error) {
	w, err := rotatelogs.New(
		prefix+".%Y%m%d",
		rotatelogs.WithLinkName(prefix),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("logger: open rotating file %s: %w", prefix, err)
	}
	return w, nil
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
