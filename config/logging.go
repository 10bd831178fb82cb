// SPDX-License-Identifier: MIT

package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger returns a text logger on stderr and, when logFile is set, a
// JSON copy of every record appended to logFile. The cleanup closes the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if logFile == "" {
		return newLogger(os.Stderr, nil, level), noop
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := newLogger(os.Stderr, nil, level)
		logger.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return logger, noop
	}

	return newLogger(os.Stderr, file, level), file.Close
}

// newLogger writes text records to stderr and, when file is non-nil, fans
// every record out to a JSON handler on file as well.
func newLogger(stderr, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(stderr, opts)
	if file == nil {
		return slog.New(text)
	}

	return slog.New(slogmulti.Fanout(text, slog.NewJSONHandler(file, opts)))
}
