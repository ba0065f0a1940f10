// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/contentpack/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Build is the resolved build stamp.
type Build struct {
	Version string
	Commit  string
	Dirty   bool
	Time    string
}

// Current resolves the build stamp, preferring injected values and
// filling the rest from the embedded VCS settings.
func Current() Build {
	return resolve(GitCommit, GitDirty, BuildTime, readSettings())
}

func readSettings() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	return settings
}

func resolve(commit, dirty, buildTime string, settings map[string]string) Build {
	build := Build{Version: Version, Commit: commit, Dirty: dirty == "true", Time: buildTime}
	if commit != "unknown" {
		return build
	}
	if revision := settings["vcs.revision"]; revision != "" {
		build.Commit = revision[:min(len(revision), 7)]
		build.Dirty = settings["vcs.modified"] == "true"
	}
	if stamp := settings["vcs.time"]; stamp != "" && buildTime == "unknown" {
		build.Time = stamp
	}
	return build
}

// String formats the build for --version output.
func (b Build) String() string {
	dirty := ""
	if b.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, dirty, b.Time)
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return Current().String()
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}
