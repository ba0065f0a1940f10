// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package atlas

import (
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

// boundsOnly is an image with dimensions but no pixel storage, for
// layouts too large to allocate.
type boundsOnly image.Rectangle

func (b boundsOnly) ColorModel() color.Model { return color.NRGBAModel }
func (b boundsOnly) Bounds() image.Rectangle  { return image.Rectangle(b) }
func (b boundsOnly) At(x, y int) color.Color  { return color.NRGBA{} }

func sized(width, height int) image.Image {
	return boundsOnly(image.Rect(0, 0, width, height))
}

func solid(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func checkValid(t *testing.T, result *Result, sprites []Sprite) {
	t.Helper()
	bounds := image.Rect(0, 0, result.Size, result.Size)
	if result.Size&(result.Size-1) != 0 || result.Size < DefaultMinSize {
		t.Errorf("atlas size %d is not a power of two ≥ %d", result.Size, DefaultMinSize)
	}
	if len(result.Placements) != len(sprites) {
		t.Fatalf("%d placements for %d sprites", len(result.Placements), len(sprites))
	}
	for i, placement := range result.Placements {
		if placement.ID != sprites[i].ID {
			t.Errorf("placement %d has ID %d, want %d", i, placement.ID, sprites[i].ID)
		}
		rect := placement.Rect()
		if !rect.In(bounds) {
			t.Errorf("placement %d %v escapes atlas %v", i, rect, bounds)
		}
		if placement.Inner().Size() != sprites[i].Image.Bounds().Size() {
			t.Errorf("placement %d inner %v does not match sprite size %v",
				i, placement.Inner().Size(), sprites[i].Image.Bounds().Size())
		}
		for j := range i {
			if rect.Overlaps(result.Placements[j].Rect()) {
				t.Errorf("placements %d %v and %d %v overlap", i, rect, j, result.Placements[j].Rect())
			}
		}
	}
}

func TestLayoutRandomSets(t *testing.T) {
	random := rand.New(rand.NewPCG(42, 99))
	for trial := range 40 {
		count := 1 + random.IntN(80)
		sprites := make([]Sprite, count)
		for i := range sprites {
			sprites[i] = Sprite{
				ID:    i,
				Image: sized(1+random.IntN(96), 1+random.IntN(96)),
				Padding: Padding{
					Left:   random.IntN(2) == 0,
					Right:  random.IntN(2) == 0,
					Top:    random.IntN(2) == 0,
					Bottom: random.IntN(2) == 0,
				},
			}
		}
		result, err := Layout(sprites, Options{})
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		checkValid(t, result, sprites)
	}
}

func TestLayoutSmallSetUsesMinimum(t *testing.T) {
	sprites := []Sprite{
		{ID: 0, Image: sized(16, 16), Padding: All()},
		{ID: 1, Image: sized(16, 16), Padding: All()},
	}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Size != 128 {
		t.Errorf("size = %d, want 128", result.Size)
	}
	checkValid(t, result, sprites)
	for _, placement := range result.Placements {
		if placement.W != 18 || placement.H != 18 {
			t.Errorf("placement %d is %dx%d, want 18x18 with bleed", placement.ID, placement.W, placement.H)
		}
	}
}

func TestLayoutGrows(t *testing.T) {
	sprites := []Sprite{{ID: 7, Image: sized(200, 100)}}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Size != 256 {
		t.Errorf("size = %d, want 256", result.Size)
	}
}

func TestLayoutExactFit(t *testing.T) {
	var sprites []Sprite
	for i := range 16 {
		sprites = append(sprites, Sprite{ID: i, Image: sized(32, 32)})
	}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Size != 128 {
		t.Errorf("sixteen 32x32 sprites packed into %d, want 128", result.Size)
	}
	checkValid(t, result, sprites)
}

func TestLayoutOverflow(t *testing.T) {
	tests := map[string][]Sprite{
		"too wide": {{Image: sized(4097, 1)}},
		"bleed pushes over": {{Image: sized(4096, 4096), Padding: Padding{Left: true}}},
		"too many": func() []Sprite {
			sprites := make([]Sprite, 17)
			for i := range sprites {
				sprites[i] = Sprite{ID: i, Image: sized(1024, 1024)}
			}
			return sprites
		}(),
	}
	for name, sprites := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Layout(sprites, Options{})
			if !errors.Is(err, ErrAtlasOverflow) {
				t.Fatalf("Layout: got %v, want ErrAtlasOverflow", err)
			}
		})
	}
}

func TestLayoutFullAtlasFits(t *testing.T) {
	sprites := make([]Sprite, 16)
	for i := range sprites {
		sprites[i] = Sprite{ID: i, Image: sized(1024, 1024)}
	}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Size != 4096 {
		t.Errorf("size = %d, want 4096", result.Size)
	}
	checkValid(t, result, sprites)
}

func TestLayoutOrdering(t *testing.T) {
	sprites := []Sprite{
		{ID: 0, Image: sized(10, 10)},
		{ID: 1, Image: sized(50, 2)},
		{ID: 2, Image: sized(20, 5)},
		{ID: 3, Image: sized(30, 30)},
	}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// The largest sprite is placed first, at the origin.
	if placement := result.Placements[3]; placement.X != 0 || placement.Y != 0 {
		t.Errorf("largest sprite placed at (%d,%d), want origin", placement.X, placement.Y)
	}
	checkValid(t, result, sprites)
}

func TestLayoutRejectsBadInput(t *testing.T) {
	if _, err := Layout([]Sprite{{ID: 1}}, Options{}); err == nil {
		t.Error("Layout accepted a sprite without an image")
	}
	if _, err := Layout(nil, Options{MinSize: 512, MaxSize: 256}); err == nil {
		t.Error("Layout accepted MinSize > MaxSize")
	}
	result, err := Layout(nil, Options{})
	if err != nil || result.Size != 128 || len(result.Placements) != 0 {
		t.Errorf("empty layout = %+v, %v", result, err)
	}
}

func TestBakeBleed(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	source := solid(3, 2, red)
	source.SetNRGBA(0, 0, color.NRGBA{0, 255, 0, 255})
	source.SetNRGBA(2, 1, color.NRGBA{0, 0, 255, 255})

	sprites := []Sprite{{ID: 0, Image: source, Padding: All()}}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := Bake(result, sprites)
	if err != nil {
		t.Fatal(err)
	}

	inner := result.Placements[0].Inner()
	outer := result.Placements[0].Rect()
	if inner.Min != outer.Min.Add(image.Pt(1, 1)) {
		t.Fatalf("inner %v not inset within outer %v", inner, outer)
	}
	for y := range 2 {
		for x := range 3 {
			if got := canvas.NRGBAAt(inner.Min.X+x, inner.Min.Y+y); got != source.NRGBAAt(x, y) {
				t.Errorf("sprite pixel (%d,%d) = %v, want %v", x, y, got, source.NRGBAAt(x, y))
			}
		}
	}

	green := color.NRGBA{0, 255, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	checks := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"top-left corner", outer.Min.X, outer.Min.Y, green},
		{"left edge", outer.Min.X, inner.Min.Y, green},
		{"top edge", inner.Min.X, outer.Min.Y, green},
		{"bottom-right corner", outer.Max.X - 1, outer.Max.Y - 1, blue},
		{"right edge", outer.Max.X - 1, inner.Max.Y - 1, blue},
		{"bottom edge", inner.Max.X - 1, outer.Max.Y - 1, blue},
		{"top-right corner", outer.Max.X - 1, outer.Min.Y, red},
		{"bottom-left corner", outer.Min.X, outer.Max.Y - 1, red},
	}
	for _, check := range checks {
		if got := canvas.NRGBAAt(check.x, check.y); got != check.want {
			t.Errorf("%s (%d,%d) = %v, want %v", check.name, check.x, check.y, got, check.want)
		}
	}
}

func TestBakeCornerRequiresBothSides(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	sprites := []Sprite{{ID: 0, Image: solid(2, 2, white), Padding: Padding{Left: true, Bottom: true}}}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := Bake(result, sprites)
	if err != nil {
		t.Fatal(err)
	}
	outer := result.Placements[0].Rect()
	if outer.Dx() != 3 || outer.Dy() != 3 {
		t.Fatalf("outer rect %v, want 3x3", outer)
	}
	if got := canvas.NRGBAAt(outer.Min.X, outer.Max.Y-1); got != white {
		t.Errorf("bottom-left corner = %v, want bleed", got)
	}
	// Only left and bottom are padded: nothing outside the outer rect
	// may be written.
	if got := canvas.NRGBAAt(outer.Max.X, outer.Min.Y); got != (color.NRGBA{}) {
		t.Errorf("pixel right of placement = %v, want transparent", got)
	}
}

func TestSliceRecoversSprites(t *testing.T) {
	colors := []color.NRGBA{{255, 0, 0, 255}, {0, 255, 0, 128}, {0, 0, 255, 255}}
	var sprites []Sprite
	for i, c := range colors {
		img := solid(5+i, 7, c)
		img.SetNRGBA(0, 0, color.NRGBA{uint8(i), 1, 2, 3})
		sprites = append(sprites, Sprite{ID: i, Image: img, Padding: All()})
	}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := Bake(result, sprites)
	if err != nil {
		t.Fatal(err)
	}
	for i, placement := range result.Placements {
		slice := Slice(canvas, placement.Inner())
		original := sprites[i].Image.(*image.NRGBA)
		if slice.Bounds() != original.Bounds() {
			t.Fatalf("slice %d bounds %v, want %v", i, slice.Bounds(), original.Bounds())
		}
		for y := range original.Bounds().Dy() {
			for x := range original.Bounds().Dx() {
				if slice.NRGBAAt(x, y) != original.NRGBAAt(x, y) {
					t.Fatalf("slice %d pixel (%d,%d) = %v, want %v", i, x, y, slice.NRGBAAt(x, y), original.NRGBAAt(x, y))
				}
			}
		}
	}
}

func TestBakeMismatch(t *testing.T) {
	sprites := []Sprite{{ID: 0, Image: solid(2, 2, color.NRGBA{})}}
	result, err := Layout(sprites, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Bake(result, nil); err == nil {
		t.Error("Bake accepted a sprite count mismatch")
	}
}
