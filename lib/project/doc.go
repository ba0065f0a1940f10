// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package project defines the in-memory content package: a project
// holding named skins, backgrounds, sound effects and particle effects.
//
// Items are values keyed by name within their kind; an item's Name
// must equal its map key. Assets are never embedded. Every image or
// audio reference is a [handle.Handle] into a registry owned by the
// caller, and [Project.Handles] walks the whole graph to collect the
// handles still in use for garbage collection.
//
// Parametric values are display equations: a [Property] animates
// between two expressions over the 25-variable property basis, and a
// [Transform] maps the four corners of a sprite quad through eight
// expressions over the transform basis. Both are stored as text and
// converted to coefficient vectors with the expr package at the
// archive boundary.
//
// [Project.Clone] produces a deep copy with no shared slices or maps,
// so an editor can snapshot a project before every mutation.
package project
