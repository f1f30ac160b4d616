// Package sysutil holds the small process-level helpers shared by config
// loading and logger setup: env value parsing and the zerolog sinks.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel maps a LOG_LEVEL value onto a zerolog level. Matching ignores
// case and surrounding space, "warning" is an alias of "warn" and an empty
// value means info. ok is false for anything else.
func ParseLevel(s string) (lvl zerolog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	}
	return zerolog.InfoLevel, false
}

// ParseBool reads an env flag. "1", "true", "yes", "y" and "on" are true;
// "0", "false", "no", "n" and "off" are false. ok reports whether v was
// one of those.
func ParseBool(v string) (val, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

// Coalesce returns the first value that is not blank, trimmed.
func Coalesce(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
