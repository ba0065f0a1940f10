// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/atlas"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/clock"
	"github.com/bureau-foundation/contentpack/lib/config"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/packer"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/source"
)

// Streams are the writers a command tree prints to.
type Streams struct {
	// Out receives command results.
	Out io.Writer
	// Err receives logs, progress and help text.
	Err io.Writer
}

// GlobalParams are the flags shared by every command that touches
// configuration or logs.
type GlobalParams struct {
	Config    string `flag:"config,c" desc:"config file (default: $CONTENTPACK_CONFIG, else built-in defaults)"`
	Verbose   bool   `flag:"verbose,v" desc:"log at debug level"`
	LogFormat string `flag:"log-format" desc:"log format: auto, text or json (default: from config)"`
}

// environment is everything a command needs after setup.
type environment struct {
	config   *config.Config
	logger   *slog.Logger
	registry *handle.Registry
	streams  Streams
}

// setup loads configuration and builds the logger and handle registry.
// An explicit --config wins over CONTENTPACK_CONFIG; with neither the
// built-in defaults apply.
func (p *GlobalParams) setup(command string, streams Streams) (*environment, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.Config != "":
		cfg, err = config.LoadFile(p.Config)
	case os.Getenv(config.EnvVar) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if p.Verbose {
		cfg.Log.Level = "debug"
	}
	if p.LogFormat != "" {
		cfg.Log.Format = p.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}

	logger, err := cli.NewCommandLogger(cli.LoggerOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: streams.Err,
	})
	if err != nil {
		return nil, err
	}

	return &environment{
		config:   cfg,
		logger:   logger.With("command", command),
		registry: handle.NewRegistry(clock.Real()),
		streams:  streams,
	}, nil
}

// packerOptions returns orchestrator options built from the config.
func (e *environment) packerOptions() packer.Options {
	storeOptions := blobstore.Options{GzipLevel: e.config.Pack.GzipLevel}
	if e.config.Pack.GzipLevel == 0 {
		storeOptions.NoCompression = true
	}
	return packer.Options{
		Registry: e.registry,
		Store:    blobstore.NewStore(storeOptions),
		Atlas: atlas.Options{
			MinSize: e.config.Atlas.MinSize,
			MaxSize: e.config.Atlas.MaxSize,
		},
		Logger: e.logger,
	}
}

// loadProject reads a project from a source directory or a packed
// archive file.
func (e *environment) loadProject(ctx context.Context, path string) (*project.Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return source.Load(path, e.registry)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return packer.Unpack(ctx, data, e.packerOptions())
}

// requireArgs checks the positional argument count.
func requireArgs(args []string, names ...string) error {
	if len(args) < len(names) {
		missing := names[len(args):]
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	if len(args) > len(names) {
		return fmt.Errorf("unexpected argument %q", args[len(names)])
	}
	return nil
}

// trimExtension returns path without its final extension.
func trimExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// writeFile writes data through a temporary file in the same
// directory, so a failed run never leaves a truncated output.
func writeFile(path string, data []byte) (err error) {
	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(temporary.Name())
		}
	}()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(temporary.Name(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// formatSize returns a human-readable byte count.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
