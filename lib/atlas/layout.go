// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atlas

import (
	"errors"
	"fmt"
	"image"
	"slices"
)

// ErrAtlasOverflow is returned when the sprites do not fit even in an
// atlas of Options.MaxSize.
var ErrAtlasOverflow = errors.New("sprites do not fit in the largest atlas")

// Atlas size bounds.
const (
	DefaultMinSize = 128
	DefaultMaxSize = 4096
)

// Padding selects which sides of a sprite get a 1px bleed border.
type Padding struct {
	Left, Right, Top, Bottom bool
}

// All returns padding on every side.
func All() Padding { return Padding{Left: true, Right: true, Top: true, Bottom: true} }

func (p Padding) horizontal() int { return boolInt(p.Left) + boolInt(p.Right) }
func (p Padding) vertical() int   { return boolInt(p.Top) + boolInt(p.Bottom) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Sprite is one image to place in the atlas. Layout only reads the
// image bounds; Bake reads its pixels.
type Sprite struct {
	ID      int
	Image   image.Image
	Padding Padding
}

func (s Sprite) footprint() (width, height int) {
	size := s.Image.Bounds().Size()
	return size.X + s.Padding.horizontal(), size.Y + s.Padding.vertical()
}

// Placement is a sprite's position in the atlas. X, Y, W, H describe
// the outer rectangle, bleed border included.
type Placement struct {
	ID         int
	X, Y, W, H int
	Padding    Padding
}

// Rect returns the outer rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H)
}

// Inner returns the rectangle holding the sprite's own pixels.
func (p Placement) Inner() image.Rectangle {
	return image.Rect(
		p.X+boolInt(p.Padding.Left),
		p.Y+boolInt(p.Padding.Top),
		p.X+p.W-boolInt(p.Padding.Right),
		p.Y+p.H-boolInt(p.Padding.Bottom),
	)
}

// Result is a finished layout. Placements are in the same order as the
// sprites passed to Layout.
type Result struct {
	Size       int
	Placements []Placement
}

// Options bounds the atlas size. Zero fields take the defaults.
type Options struct {
	MinSize int
	MaxSize int
}

func (o Options) withDefaults() (Options, error) {
	if o.MinSize == 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MinSize < 0 || o.MaxSize < o.MinSize {
		return o, fmt.Errorf("invalid atlas size bounds [%d, %d]", o.MinSize, o.MaxSize)
	}
	return o, nil
}

// Layout places sprites into the smallest power-of-two multiple of
// MinSize that holds them all.
func Layout(sprites []Sprite, options Options) (*Result, error) {
	options, err := options.withDefaults()
	if err != nil {
		return nil, err
	}
	for i, sprite := range sprites {
		if sprite.Image == nil {
			return nil, fmt.Errorf("sprite %d (index %d) has no image", sprite.ID, i)
		}
	}

	order := make([]int, len(sprites))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		aw, ah := sprites[a].footprint()
		bw, bh := sprites[b].footprint()
		if aw*ah != bw*bh {
			return bw*bh - aw*ah
		}
		return (bw + bh) - (aw + ah)
	})

	for size := options.MinSize; size <= options.MaxSize; size *= 2 {
		if placements, ok := place(sprites, order, size); ok {
			return &Result{Size: size, Placements: placements}, nil
		}
	}
	return nil, fmt.Errorf("%w: %d sprites, max size %d", ErrAtlasOverflow, len(sprites), options.MaxSize)
}

type freeRect struct {
	x, y, w, h int
}

// place attempts one layout at the given size.
func place(sprites []Sprite, order []int, size int) ([]Placement, bool) {
	placements := make([]Placement, len(sprites))
	free := []freeRect{{0, 0, size, size}}

	for _, index := range order {
		sprite := sprites[index]
		width, height := sprite.footprint()

		chosen := -1
		for i, candidate := range free {
			if width <= candidate.w && height <= candidate.h {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			return nil, false
		}

		target := free[chosen]
		free = slices.Delete(free, chosen, chosen+1)
		placements[index] = Placement{
			ID:      sprite.ID,
			X:       target.x,
			Y:       target.y,
			W:       width,
			H:       height,
			Padding: sprite.Padding,
		}

		var split []freeRect
		if target.w > width {
			split = append(split, freeRect{target.x + width, target.y, target.w - width, height})
		}
		if target.h > height {
			split = append(split, freeRect{target.x, target.y + height, target.w, target.h - height})
		}
		free = append(split, free...)
	}
	return placements, true
}
