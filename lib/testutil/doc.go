// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared fixtures for contentpack tests.
//
// [SolidPNG] and [PatternPNG] generate small deterministic images for
// sprite, thumbnail and texture assets. [SampleProject] builds a
// project with one item of every kind, its assets issued into the
// given registry. [Canonical] replaces every handle in a project with a
// digest of the bytes behind it, so two projects can be compared for
// structural equality regardless of which registry issued their
// handles.
//
// [UniqueID] generates monotonically increasing names for snapshots
// and items that must not collide within a test binary.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
