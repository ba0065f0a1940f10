// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Hash is a SHA-1 digest of a blob's stored bytes.
type Hash [sha1.Size]byte

// Sum computes the hash of data.
func Sum(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// String returns the lowercase hex encoding, the canonical form used in
// locators and repository paths.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses a 40-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing blob hash: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("blob hash is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}
