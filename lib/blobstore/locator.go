// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"fmt"
	"strings"
)

// RepositoryPrefix is the URL prefix under which blobs are served and
// stored in an archive.
const RepositoryPrefix = "/sonolus/repository/"

// Locator references a stored blob from an archive document.
type Locator struct {
	// Type names the role of the resource (e.g. "SkinTexture").
	Type string `json:"type"`

	// Hash is the hex SHA-1 of the stored bytes.
	Hash string `json:"hash"`

	// URL is the repository path of the blob.
	URL string `json:"url"`
}

// NewLocator builds a locator for a stored blob.
func NewLocator(resourceType string, hash Hash) Locator {
	hexHash := hash.String()
	return Locator{
		Type: resourceType,
		Hash: hexHash,
		URL:  RepositoryPrefix + hexHash,
	}
}

// IsZero reports whether the locator is unset.
func (l Locator) IsZero() bool {
	return l == Locator{}
}

// Path returns the archive entry path the URL refers to.
func (l Locator) Path() string {
	return strings.TrimPrefix(l.URL, "/")
}

// Digest parses the locator's hash.
func (l Locator) Digest() (Hash, error) {
	hash, err := ParseHash(l.Hash)
	if err != nil {
		return hash, fmt.Errorf("locator %s: %w", l.Type, err)
	}
	return hash, nil
}
