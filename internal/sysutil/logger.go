package sysutil

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions describes the process logger sinks.
type LogOptions struct {
	Level      string
	Pretty     bool
	File       string // optional rotating file, written alongside stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Service    string
}

// NewLogger builds the base zerolog logger and sets the global level;
// an unknown level falls back to info.
// The returned closer flushes the rotating file sink; it is a no-op when no
// file is configured.
func NewLogger(opts LogOptions) (zerolog.Logger, io.Closer, error) {
	lvl, _ := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var console io.Writer = os.Stdout
	if opts.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	out := console
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), closer, err
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		closer = lj
		out = zerolog.MultiLevelWriter(console, lj)
	}

	ctx := zerolog.New(out).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
