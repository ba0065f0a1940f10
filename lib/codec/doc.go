// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR encoding configuration.
//
// contentpack uses two serialization formats with a clear boundary:
//
//   - JSON for the package archive: every document a game client
//     reads (package, info, lists, details, data documents) and the
//     hand-authored project.jsonc manifest.
//   - CBOR for local state: workspace snapshots that only contentpack
//     itself reads back.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical data always produces identical bytes, so saving an
// unchanged project rewrites an identical snapshot.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// A `cbor` tag marks a type that is only ever stored as CBOR. A `json`
// tag marks a type that may be serialized as both; fxamacker/cbor
// reads `json` tags when `cbor` tags are absent, so project types
// carry only `json` tags and encode identically in both formats.
// Never put both tags on the same field.
package codec
