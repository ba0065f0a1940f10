// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	vcs := map[string]string{
		"vcs.revision": "0123456789abcdef",
		"vcs.modified": "true",
		"vcs.time":     "2026-03-04T05:06:07Z",
	}
	tests := []struct {
		name      string
		commit    string
		dirty     string
		buildTime string
		settings  map[string]string
		want      string
	}{
		{"injected", "abc1234", "false", "2026-01-01", vcs, Version + " (abc1234, 2026-01-01)"},
		{"injected dirty", "abc1234", "true", "2026-01-01", nil, Version + " (abc1234-dirty, 2026-01-01)"},
		{"embedded", "unknown", "false", "unknown", vcs, Version + " (0123456-dirty, 2026-03-04T05:06:07Z)"},
		{"nothing", "unknown", "false", "unknown", nil, Version + " (unknown, unknown)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := resolve(test.commit, test.dirty, test.buildTime, test.settings).String(); got != test.want {
				t.Errorf("resolve = %q, want %q", got, test.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version+" (") || !strings.Contains(full, "Go: go") {
		t.Errorf("Full() = %q", full)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
