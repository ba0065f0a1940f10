// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package atlas packs sprite images into a single square texture.
//
// [Layout] runs guillotine bin packing over a free-rectangle list. Each
// sprite's footprint is its image size plus a 1px bleed border on every
// side its [Padding] requests. Sprites are placed largest first (area,
// then width+height, both descending; equal sprites keep input order)
// into the first free rectangle that holds them. The used rectangle is
// split into a bottom remainder and a right remainder, which go to the
// front of the free list. When a sprite does not fit, the whole layout
// restarts at twice the atlas size, up to [Options.MaxSize]; beyond
// that the layout fails with [ErrAtlasOverflow].
//
// [Bake] renders a layout into pixels: each sprite is copied inside its
// bleed border and the border is filled by replicating the sprite's
// outermost pixels, edge by edge and corner by corner, so texture
// filtering at sprite boundaries samples the sprite rather than its
// neighbours.
//
// [Slice] is the inverse used when unpacking an archive: it crops one
// sprite's pixels back out of an atlas.
package atlas
