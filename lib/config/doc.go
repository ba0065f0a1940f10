// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for contentpack.
//
// Configuration is loaded from a single file specified by either the
// CONTENTPACK_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search. Commands run without a
// file use [Default].
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CONTENTPACK_ROOT}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Atlas, Pack, Preview, Log
//   - [Default] -- returns a Config with every field set
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other contentpack packages.
package config
