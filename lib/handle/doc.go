// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package handle issues opaque references to in-memory asset bytes and
// reclaims them when nothing refers to them any more.
//
// A project never embeds image or audio bytes directly. Each asset is
// issued into a [Registry] and the project stores the returned
// [Handle] ("blob:" followed by a ULID). Editing replaces handles
// freely; [Registry.Purge] takes the set of handles still reachable
// from the live project (see project.Handles) and releases every other
// handle the registry holds.
//
// Handles are stable strings, so they survive project snapshots and
// clones without aliasing the bytes they name.
package handle
