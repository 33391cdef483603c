// Package logging configures logrus and forwards pad-side log entries to the host.
package logging

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LocalOnly is a field that keeps an entry out of CommentHook.
const LocalOnly = "local_only"

// Setup configures the standard logger with a text formatter at level.
func Setup(level string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}

// LevelPrefix returns the comment prefix used for lvl.
func LevelPrefix(lvl log.Level) string {
	switch lvl {
	case log.TraceLevel, log.DebugLevel:
		return "Debug"
	case log.InfoLevel:
		return "Info"
	case log.WarnLevel:
		return "Warning"
	default:
		return "Error"
	}
}

// ParsePrefix splits "Warning: text" into its level and text. Unknown prefixes are Info.
func ParsePrefix(s string) (log.Level, string) {
	head, rest, ok := strings.Cut(s, ":")
	if !ok {
		return log.InfoLevel, strings.TrimSpace(s)
	}
	switch strings.TrimSpace(head) {
	case "Debug":
		return log.DebugLevel, strings.TrimSpace(rest)
	case "Info":
		return log.InfoLevel, strings.TrimSpace(rest)
	case "Warning", "Warn":
		return log.WarnLevel, strings.TrimSpace(rest)
	case "Error":
		return log.ErrorLevel, strings.TrimSpace(rest)
	default:
		return log.InfoLevel, strings.TrimSpace(s)
	}
}
