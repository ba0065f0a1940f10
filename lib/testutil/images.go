// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"image"
	"image/color"

	"github.com/bureau-foundation/contentpack/lib/imagecodec"
)

// Fatalf is the subset of testing.TB the helpers need.
type Fatalf interface {
	Helper()
	Fatalf(format string, args ...any)
}

// SolidPNG returns a PNG of the given size filled with c.
func SolidPNG(t Fatalf, width, height int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, c)
		}
	}
	return encode(t, img)
}

// PatternPNG returns a PNG whose every pixel differs, seeded so that
// different seeds give different images. Edge pixels are distinct
// from their neighbours, which makes bleed or offset mistakes visible.
func PatternPNG(t Fatalf, width, height int, seed uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*16) + seed,
				G: uint8(y*16) ^ seed,
				B: uint8(x+y) + 3*seed,
				A: 255 - uint8((x+y)%4),
			})
		}
	}
	return encode(t, img)
}

func encode(t Fatalf, img image.Image) []byte {
	t.Helper()
	data, err := imagecodec.EncodePNG(img)
	if err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}
	return data
}
