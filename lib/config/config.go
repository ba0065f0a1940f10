// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "CONTENTPACK_CONFIG"

// Config is the contentpack configuration.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Atlas bounds the sprite atlases the packer builds.
	Atlas AtlasConfig `yaml:"atlas"`

	// Pack configures archive output.
	Pack PackConfig `yaml:"pack"`

	// Preview configures rendered particle previews.
	Preview PreviewConfig `yaml:"preview"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for contentpack data.
	Root string `yaml:"root"`

	// Workspace holds saved project snapshots and their assets.
	// Default: ${CONTENTPACK_ROOT}/workspace
	Workspace string `yaml:"workspace"`
}

// AtlasConfig bounds atlas dimensions. Atlases grow from MinSize by
// doubling.
type AtlasConfig struct {
	// MinSize is the side length of the smallest atlas tried.
	// Default: 128
	MinSize int `yaml:"min_size"`

	// MaxSize is the largest side length before packing fails.
	// Default: 4096
	MaxSize int `yaml:"max_size"`
}

// PackConfig configures archive output.
type PackConfig struct {
	// GzipLevel compresses JSON documents: -1 for the library default,
	// 0 for none, 1 (fastest) through 9 (smallest).
	// Default: -1
	GzipLevel int `yaml:"gzip_level"`
}

// PreviewConfig configures rendered particle previews.
type PreviewConfig struct {
	// Size is the side length of one frame in pixels.
	// Default: 256
	Size int `yaml:"size"`

	// Extent is the half-width of the visible world square.
	// Default: 1
	Extent float64 `yaml:"extent"`

	// Frames is the number of frames in a preview strip.
	// Default: 1
	Frames int `yaml:"frames"`

	// Background is the CSS hex colour behind the sprites.
	// Default: #00000000
	Background string `yaml:"background"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is text, json, or auto (text on a terminal, JSON
	// otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

// Log levels and formats accepted by [Config.Validate].
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"auto", "text", "json"}
)

// Default returns the configuration used when no file is given, and
// the base a loaded file is merged into.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".local", "share", "contentpack")

	return &Config{
		Paths: PathsConfig{
			Root:      defaultRoot,
			Workspace: filepath.Join(defaultRoot, "workspace"),
		},
		Atlas: AtlasConfig{
			MinSize: 128,
			MaxSize: 4096,
		},
		Pack: PackConfig{
			GzipLevel: -1,
		},
		Preview: PreviewConfig{
			Size:       256,
			Extent:     1,
			Frames:     1,
			Background: "#00000000",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by CONTENTPACK_CONFIG.
// It fails if the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your contentpack.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file omits keep their [Default] values. Only ${HOME},
// ${CONTENTPACK_ROOT} and ${VAR:-default} patterns in paths are
// expanded; environment variables never override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// A root override moves the default workspace with it.
	defaults := Default()
	if cfg.Paths.Root != defaults.Paths.Root && cfg.Paths.Workspace == defaults.Paths.Workspace {
		cfg.Paths.Workspace = filepath.Join("${CONTENTPACK_ROOT}", "workspace")
	}

	cfg.expandVariables()

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"CONTENTPACK_ROOT": c.Paths.Root,
		"HOME":             os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["CONTENTPACK_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Workspace = expandVars(c.Paths.Workspace, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Root == "" {
		errs = append(errs, errors.New("paths.root is required"))
	}
	if c.Paths.Workspace == "" {
		errs = append(errs, errors.New("paths.workspace is required"))
	}

	if c.Atlas.MinSize <= 0 {
		errs = append(errs, fmt.Errorf("atlas.min_size must be positive, got %d", c.Atlas.MinSize))
	}
	if c.Atlas.MaxSize < c.Atlas.MinSize {
		errs = append(errs, fmt.Errorf("atlas.max_size %d is smaller than atlas.min_size %d", c.Atlas.MaxSize, c.Atlas.MinSize))
	}

	if c.Pack.GzipLevel < -1 || c.Pack.GzipLevel > 9 {
		errs = append(errs, fmt.Errorf("pack.gzip_level must be between -1 and 9, got %d", c.Pack.GzipLevel))
	}

	if c.Preview.Size <= 0 {
		errs = append(errs, fmt.Errorf("preview.size must be positive, got %d", c.Preview.Size))
	}
	if c.Preview.Extent <= 0 {
		errs = append(errs, fmt.Errorf("preview.extent must be positive, got %v", c.Preview.Extent))
	}
	if c.Preview.Frames <= 0 {
		errs = append(errs, fmt.Errorf("preview.frames must be positive, got %d", c.Preview.Frames))
	}
	if !colorPattern.MatchString(c.Preview.Background) {
		errs = append(errs, fmt.Errorf("preview.background must be a hex colour, got %q", c.Preview.Background))
	}

	if !slices.Contains(LogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", LogLevels))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", LogFormats))
	}

	return errors.Join(errs...)
}

// colorPattern matches the CSS hex colours project documents accept.
var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// EnsurePaths creates the configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.Workspace} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
