// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync"
)

// ErrNotFound is returned when a hash has no stored blob.
var ErrNotFound = errors.New("blob not found")

// Store is an append-only, hash-keyed blob map. Writes are idempotent
// per hash, so the store behaves as a monotonic set: a Store shared by
// several pack processes holds one copy of every distinct payload.
//
// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	blobs     map[Hash][]byte
	order     []Hash
	size      int64
	gzipLevel int
}

// Options configures a Store.
type Options struct {
	// GzipLevel is the compression level for PutJSON. Zero selects
	// DefaultGzipLevel; use gzip.NoCompression (0) explicitly via
	// NoCompression to disable.
	GzipLevel int

	// NoCompression stores JSON documents with gzip framing but no
	// compression. Overrides GzipLevel.
	NoCompression bool
}

// NewStore creates an empty store.
func NewStore(options Options) *Store {
	level := options.GzipLevel
	if level == 0 {
		level = DefaultGzipLevel
	}
	if options.NoCompression {
		level = 0
	}
	return &Store{
		blobs:     make(map[Hash][]byte),
		gzipLevel: level,
	}
}

// Put stores data and returns its hash. The store keeps its own copy;
// the caller may reuse data afterwards.
func (s *Store) Put(data []byte) Hash {
	hash := Sum(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.blobs[hash]; exists {
		return hash
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[hash] = stored
	s.order = append(s.order, hash)
	s.size += int64(len(stored))
	return hash
}

// PutJSON marshals value, gzip-compresses it, and stores the result.
func (s *Store) PutJSON(value any) (Hash, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Hash{}, fmt.Errorf("marshaling document: %w", err)
	}
	compressed, err := Compress(data, s.gzipLevel)
	if err != nil {
		return Hash{}, err
	}
	return s.Put(compressed), nil
}

// Get returns the stored bytes for hash. The returned slice must not be
// modified.
func (s *Store) Get(hash Hash) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	return data, nil
}

// GetJSON decompresses and unmarshals a document stored by PutJSON.
func (s *Store) GetJSON(hash Hash, value any) error {
	data, err := s.Get(hash)
	if err != nil {
		return err
	}
	return DecodeJSON(data, value)
}

// DecodeJSON gunzips and unmarshals a stored JSON document.
func DecodeJSON(compressed []byte, value any) error {
	data, err := Decompress(compressed)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// Has reports whether hash is stored.
func (s *Store) Has(hash Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[hash]
	return ok
}

// Len returns the number of distinct blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Size returns the total stored bytes.
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Blobs iterates over stored blobs in first-insertion order. The
// iteration sees blobs present when it started.
func (s *Store) Blobs() iter.Seq2[Hash, []byte] {
	s.mu.RLock()
	order := make([]Hash, len(s.order))
	copy(order, s.order)
	s.mu.RUnlock()

	return func(yield func(Hash, []byte) bool) {
		for _, hash := range order {
			s.mu.RLock()
			data := s.blobs[hash]
			s.mu.RUnlock()
			if !yield(hash, data) {
				return
			}
		}
	}
}
