// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace persists named project snapshots on local disk.
//
// A workspace is a directory with three subdirectories:
//
//	snapshots/<name>.cbor   one deterministic CBOR document per snapshot
//	assets/<xx>/<hash>      asset bytes, content-addressed and compressed
//	tmp/                    staging area for atomic writes
//
// Asset files are addressed by a domain-separated BLAKE3 keyed hash of
// their uncompressed bytes, so an asset shared by several snapshots
// (or several items of one snapshot) is stored once. Each asset file
// starts with a one-byte compression tag and the uncompressed length
// as a uvarint; the payload is zstd, LZ4 or raw depending on what the
// bytes compress to. Images and audio that are already compressed are
// stored raw without probing.
//
// Snapshots store the project with every handle replaced by an
// "asset:<hash>" reference. [Workspace.Load] resolves the references
// and issues fresh handles into the caller's registry, issuing one
// handle per distinct asset so items that shared a handle when saved
// share one after loading.
//
// Every file is written to tmp/ and renamed into place, so readers
// never observe a partial snapshot or asset. [Workspace.Delete]
// removes a snapshot and then sweeps asset files no remaining snapshot
// references. A Workspace serializes its own writers; separate
// processes sharing one directory must not save and delete
// concurrently.
package workspace
