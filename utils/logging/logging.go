// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	EnvLogLevel  = "VUDL_LOGGER_LOG_LEVEL"
	EnvLogFormat = "VUDL_LOGGER_LOG_FORMAT"
)

var (
	root     *slog.Logger
	rootOnce sync.Once
)

// Logger returns a logger tagged with the given component name.
func Logger(component string) *slog.Logger {
	rootOnce.Do(func() {
		root = newRoot(os.Stderr, os.Getenv(EnvLogLevel), os.Getenv(EnvLogFormat))
	})

	return root.With("component", component)
}

func newRoot(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, falling back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
