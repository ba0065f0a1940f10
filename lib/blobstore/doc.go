// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package blobstore implements the content-addressed blob repository
// that backs a content archive.
//
// Every payload is keyed by its SHA-1 digest, the repository digest of
// the content platform. Writing the same bytes twice yields the same
// [Hash] and stores one copy; deduplication is by content, never by the
// logical item that referenced it. Correctness relies on SHA-1 only for
// the practical infeasibility of accidental collisions.
//
// JSON documents go through [Store.PutJSON], which marshals and then
// gzip-compresses them (deterministic header, no name or mtime) before
// hashing. Raw binary assets (images, audio) go through [Store.Put]
// unchanged.
//
// Archive documents reference blobs with a [Locator] instead of
// embedding bytes.
package blobstore
