// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"fmt"
	"image"

	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/atlas"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/imagecodec"
)

// spriteSheet collects the distinct sprite images of one item and
// packs them into an atlas. Sprites are deduplicated by content, so two
// handles to identical bytes share one atlas slot.
type spriteSheet struct {
	byContent map[blobstore.Hash]int
	byHandle  map[handle.Handle]int
	sources   [][]byte
	result    *atlas.Result
}

func newSpriteSheet() *spriteSheet {
	return &spriteSheet{
		byContent: make(map[blobstore.Hash]int),
		byHandle:  make(map[handle.Handle]int),
	}
}

// add registers a sprite and returns its slot.
func (s *spriteSheet) add(h handle.Handle, data []byte) int {
	if index, ok := s.byHandle[h]; ok {
		return index
	}
	hash := blobstore.Sum(data)
	index, ok := s.byContent[hash]
	if !ok {
		index = len(s.sources)
		s.byContent[hash] = index
		s.sources = append(s.sources, data)
	}
	s.byHandle[h] = index
	return index
}

// slot returns the slot of a registered handle.
func (s *spriteSheet) slot(h handle.Handle) (int, error) {
	index, ok := s.byHandle[h]
	if !ok {
		return 0, fmt.Errorf("sprite %s was not collected", h)
	}
	return index, nil
}

// pack decodes, lays out and bakes the sheet, returning the atlas as
// PNG bytes.
func (s *spriteSheet) pack(decoder imagecodec.Decoder, options atlas.Options) ([]byte, error) {
	sprites := make([]atlas.Sprite, len(s.sources))
	for i, data := range s.sources {
		img, err := decoder.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding sprite %d: %w", i, err)
		}
		sprites[i] = atlas.Sprite{ID: i, Image: imagecodec.ToNRGBA(img), Padding: atlas.All()}
	}
	result, err := atlas.Layout(sprites, options)
	if err != nil {
		return nil, fmt.Errorf("laying out %d sprites: %w", len(sprites), err)
	}
	baked, err := atlas.Bake(result, sprites)
	if err != nil {
		return nil, err
	}
	s.result = result
	return imagecodec.EncodePNG(baked)
}

// rect returns the sprite pixel rectangle of a slot.
func (s *spriteSheet) rect(slot int) archive.Rect {
	inner := s.result.Placements[slot].Inner()
	return archive.Rect{X: inner.Min.X, Y: inner.Min.Y, W: inner.Dx(), H: inner.Dy()}
}

// sliceSprites cuts every rect out of an atlas texture and encodes
// each as PNG.
func sliceSprites(texture image.Image, rects []archive.Rect) ([][]byte, error) {
	bounds := texture.Bounds()
	sprites := make([][]byte, len(rects))
	for i, rect := range rects {
		area := image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H).Add(bounds.Min)
		if rect.W <= 0 || rect.H <= 0 || !area.In(bounds) {
			return nil, fmt.Errorf("%w: sprite %d rect %v outside %dx%d texture",
				archive.ErrCorruptArchive, i, rect, bounds.Dx(), bounds.Dy())
		}
		encoded, err := imagecodec.EncodePNG(atlas.Slice(texture, area))
		if err != nil {
			return nil, err
		}
		sprites[i] = encoded
	}
	return sprites, nil
}
