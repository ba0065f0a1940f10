// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atlas

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Bake renders the sprites into a Size×Size image according to result.
// sprites must be the slice passed to Layout.
func Bake(result *Result, sprites []Sprite) (*image.NRGBA, error) {
	if len(result.Placements) != len(sprites) {
		return nil, fmt.Errorf("baking atlas: %d placements for %d sprites", len(result.Placements), len(sprites))
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, result.Size, result.Size))
	for i, placement := range result.Placements {
		sprite := sprites[i]
		inner := placement.Inner()
		if inner.Size() != sprite.Image.Bounds().Size() {
			return nil, fmt.Errorf("baking atlas: sprite %d is %v, placement holds %v",
				sprite.ID, sprite.Image.Bounds().Size(), inner.Size())
		}
		blit(canvas, inner.Min, sprite.Image, sprite.Image.Bounds())
		bleed(canvas, inner, placement.Padding)
	}
	return canvas, nil
}

// bleed replicates the outermost pixels of inner one pixel outward on
// each padded side, then fills the corners where both adjacent sides
// are padded.
func bleed(canvas *image.NRGBA, inner image.Rectangle, padding Padding) {
	if inner.Empty() {
		return
	}
	left, right := inner.Min.X, inner.Max.X-1
	top, bottom := inner.Min.Y, inner.Max.Y-1

	if padding.Left {
		for y := top; y <= bottom; y++ {
			copyPixel(canvas, left-1, y, left, y)
		}
	}
	if padding.Right {
		for y := top; y <= bottom; y++ {
			copyPixel(canvas, right+1, y, right, y)
		}
	}
	if padding.Top {
		for x := left; x <= right; x++ {
			copyPixel(canvas, x, top-1, x, top)
		}
	}
	if padding.Bottom {
		for x := left; x <= right; x++ {
			copyPixel(canvas, x, bottom+1, x, bottom)
		}
	}
	if padding.Left && padding.Top {
		copyPixel(canvas, left-1, top-1, left, top)
	}
	if padding.Right && padding.Top {
		copyPixel(canvas, right+1, top-1, right, top)
	}
	if padding.Left && padding.Bottom {
		copyPixel(canvas, left-1, bottom+1, left, bottom)
	}
	if padding.Right && padding.Bottom {
		copyPixel(canvas, right+1, bottom+1, right, bottom)
	}
}

func copyPixel(canvas *image.NRGBA, dstX, dstY, srcX, srcY int) {
	dst := canvas.PixOffset(dstX, dstY)
	src := canvas.PixOffset(srcX, srcY)
	copy(canvas.Pix[dst:dst+4], canvas.Pix[src:src+4])
}

// Slice copies rect out of an atlas into a new image anchored at the
// origin. Parts of rect outside the atlas are transparent.
func Slice(atlas image.Image, rect image.Rectangle) *image.NRGBA {
	sprite := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	blit(sprite, image.Point{}, atlas, rect)
	return sprite
}

// blit copies sr of src to dst at dp. NRGBA sources are copied row by
// row so low-alpha pixels survive unchanged; other sources go through
// draw, which converts via premultiplied colour.
func blit(dst *image.NRGBA, dp image.Point, src image.Image, sr image.Rectangle) {
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		draw.Copy(dst, dp, src, sr, draw.Src, nil)
		return
	}
	clipped := sr.Intersect(nrgba.Rect)
	dp = dp.Add(clipped.Min.Sub(sr.Min))
	target := image.Rectangle{Min: dp, Max: dp.Add(clipped.Size())}.Intersect(dst.Rect)
	clipped = image.Rectangle{Min: clipped.Min.Add(target.Min.Sub(dp)), Max: clipped.Min.Add(target.Max.Sub(dp))}
	if target.Empty() {
		return
	}
	rowBytes := target.Dx() * 4
	for y := 0; y < target.Dy(); y++ {
		from := nrgba.PixOffset(clipped.Min.X, clipped.Min.Y+y)
		to := dst.PixOffset(target.Min.X, target.Min.Y+y)
		copy(dst.Pix[to:to+rowBytes], nrgba.Pix[from:from+rowBytes])
	}
}
