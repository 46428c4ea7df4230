package setup

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	LogFormatText = "text"
	LogFormatJson = "json"
)

// ConfigureLogging installs the default slog logger writing to w.
func ConfigureLogging(w io.Writer, level string, format string) error {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case LogFormatJson:
		handler = slog.NewJSONHandler(w, opts)
	case LogFormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("%s must be %q or %q", EnvLogFormat, LogFormatText, LogFormatJson)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("%s is invalid: %w", EnvLogLevel, err)
	}
	return lvl, nil
}
