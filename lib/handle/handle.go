// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package handle

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Prefix starts every issued handle.
const Prefix = "blob:"

// Handle names asset bytes held by a Registry. The zero value means
// "no asset".
type Handle string

// IsZero reports whether h is unset.
func (h Handle) IsZero() bool { return h == "" }

// ID returns the ULID embedded in h.
func (h Handle) ID() (ulid.ULID, error) {
	raw, ok := strings.CutPrefix(string(h), Prefix)
	if !ok {
		return ulid.ULID{}, fmt.Errorf("handle %q lacks %q prefix", h, Prefix)
	}
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("handle %q: %w", h, err)
	}
	return id, nil
}

// Set is a collection of handles, used as the purge whitelist.
type Set map[Handle]struct{}

// Add inserts h unless it is the zero handle.
func (s Set) Add(h Handle) {
	if !h.IsZero() {
		s[h] = struct{}{}
	}
}

// Contains reports whether h is in the set.
func (s Set) Contains(h Handle) bool {
	_, ok := s[h]
	return ok
}
