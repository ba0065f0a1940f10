// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package handle

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bureau-foundation/contentpack/lib/clock"
)

// ErrUnknownHandle is returned for handles the registry never issued or
// has already released.
var ErrUnknownHandle = errors.New("unknown handle")

// Registry owns the bytes behind issued handles. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	clock   clock.Clock
	entropy io.Reader
	entries map[Handle][]byte
}

// NewRegistry creates an empty registry. A nil clock selects
// clock.Real().
func NewRegistry(c clock.Clock) *Registry {
	if c == nil {
		c = clock.Real()
	}
	return &Registry{
		clock:   c,
		entropy: ulid.Monotonic(rand.Reader, 0),
		entries: make(map[Handle][]byte),
	}
}

// Issue stores a private copy of data and returns a new handle for it.
// Every call returns a distinct handle, even for identical bytes.
func (r *Registry) Issue(data []byte) Handle {
	stored := make([]byte, len(data))
	copy(stored, data)

	r.mu.Lock()
	defer r.mu.Unlock()
	id := ulid.MustNew(timestamp(r.clock.Now()), r.entropy)
	handle := Handle(Prefix + id.String())
	r.entries[handle] = stored
	return handle
}

// timestamp converts t to ULID milliseconds, clamped to the range a
// ULID can encode.
func timestamp(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return min(uint64(ms), ulid.MaxTime())
}

// Bytes returns the bytes behind h. The slice must not be modified.
func (r *Registry) Bytes(h Handle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandle, h)
	}
	return data, nil
}

// Has reports whether h is live.
func (r *Registry) Has(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[h]
	return ok
}

// Release drops h. It reports whether h was live.
func (r *Registry) Release(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[h]; !ok {
		return false
	}
	delete(r.entries, h)
	return true
}

// ReleaseAll drops every handle in handles and returns how many were
// live.
func (r *Registry) ReleaseAll(handles []Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	released := 0
	for _, h := range handles {
		if _, ok := r.entries[h]; ok {
			delete(r.entries, h)
			released++
		}
	}
	return released
}

// Purge releases every handle not present in live and returns the
// released handles in sorted order. Handles in live that the registry
// does not hold are ignored.
func (r *Registry) Purge(live Set) []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var released []Handle
	for h := range r.entries {
		if !live.Contains(h) {
			delete(r.entries, h)
			released = append(released, h)
		}
	}
	slices.Sort(released)
	return released
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Handles returns every live handle in sorted (issue-time) order.
func (r *Registry) Handles() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := make([]Handle, 0, len(r.entries))
	for h := range r.entries {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	return handles
}
