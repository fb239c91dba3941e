// Package logging writes run logs to a stream.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/andrescamacho/processor-go/internal/infrastructure/config"
)

var levels = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARNING": slog.LevelWarn,
	"WARN":    slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// parseLevel maps a run log level name onto slog; unknown names log as INFO
func parseLevel(name string) slog.Level {
	if level, ok := levels[strings.ToUpper(name)]; ok {
		return level
	}
	return slog.LevelInfo
}

// StdLogger implements common.RunLogger on top of log/slog
type StdLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewStdLogger creates a logger writing to w. format is "text" or "json"; level is
// the minimum level written.
func NewStdLogger(w io.Writer, level, format string) *StdLogger {
	l := &StdLogger{now: time.Now}
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Time(slog.TimeKey, l.now().UTC())
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	l.logger = slog.New(handler)
	return l
}

// NewFromConfig opens the configured output and builds a logger for it.
// The returned closer must be called when logging is done.
func NewFromConfig(cfg config.LoggingConfig) (*StdLogger, io.Closer, error) {
	var w io.WriteCloser
	switch cfg.Output {
	case "stderr":
		w = nopCloser{os.Stderr}
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	default:
		w = nopCloser{os.Stdout}
	}
	return NewStdLogger(w, cfg.Level, cfg.Format), w, nil
}

// Log writes one entry if level is at or above the configured minimum.
// Metadata keys are written in key order.
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.LogAttrs(context.Background(), parseLevel(level), message, attrs...)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
