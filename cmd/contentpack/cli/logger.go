// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LoggerOptions selects a command logger's level and format.
type LoggerOptions struct {
	// Level is debug, info, warn or error. Empty selects info.
	Level string

	// Format is text, json or auto. Auto (or empty) selects text when
	// the output is a terminal and JSON otherwise.
	Format string

	// Output receives log records. Nil selects os.Stderr.
	Output io.Writer
}

// NewCommandLogger creates a structured logger for CLI command operations.
// When the output is a terminal, uses slog.TextHandler for human-readable
// output. When it is piped or redirected (CI, scripts, tests), uses
// slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("command", "pack", "source", dir)
func NewCommandLogger(options LoggerOptions) (*slog.Logger, error) {
	var level slog.Level
	if options.Level != "" {
		if err := level.UnmarshalText([]byte(options.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", options.Level, err)
		}
	}
	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	switch options.Format {
	case "text":
		return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	case "", "auto":
		if IsTerminal(output) {
			return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
		}
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", options.Format)
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
