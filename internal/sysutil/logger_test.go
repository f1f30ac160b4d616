package sysutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_WritesToRotatingFile(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := NewLogger(LogOptions{Level: "debug", File: path, MaxSizeMB: 1, Service: "portfolio-backend"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info().Str("k", "v").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level not applied: %v", zerolog.GlobalLevel())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"message":"hello"`) || !strings.Contains(s, `"service":"portfolio-backend"`) {
		t.Fatalf("unexpected log content: %s", s)
	}
}

func TestNewLogger_NoFile_NopCloser(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	_, closer, err := NewLogger(LogOptions{Level: "warn", Pretty: true})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("nop closer returned %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v; want warn", zerolog.GlobalLevel())
	}
}
