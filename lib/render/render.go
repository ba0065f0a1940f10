// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package render rasterizes a particle effect at one instant, for
// previews and thumbnails.
//
// The visible world is the square [-Extent, Extent]² with y pointing
// up. A leaf sprite is a w×h rectangle centred on (x, y) and rotated r
// radians counterclockwise; its corners, bottom-left first and
// clockwise, are passed through the effect transform. Every output
// pixel whose centre falls inside the transformed quad samples the
// sprite texture through [geom.InverseBilinear].
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/bureau-foundation/contentpack/lib/expr"
	"github.com/bureau-foundation/contentpack/lib/geom"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/imagecodec"
	"github.com/bureau-foundation/contentpack/lib/project"
)

// ErrEffectNotFound is returned by [FindEffect] for an unknown name.
var ErrEffectNotFound = errors.New("effect not found")

const (
	defaultSize   = 256
	defaultExtent = 1.0
)

// Options configures a [Renderer].
type Options struct {
	// Registry resolves sprite handles. Required.
	Registry *handle.Registry

	// Decoder decodes sprite images. Nil selects imagecodec.Default().
	Decoder imagecodec.Decoder

	// Size is the output width and height in pixels. Zero selects 256.
	Size int

	// Extent is the half-width of the visible world square. Zero
	// selects 1.
	Extent float64

	// Seed seeds the random inputs of every particle instance. The
	// same seed always renders the same frame.
	Seed uint64

	// Background fills the frame before sprites are drawn.
	Background color.NRGBA
}

// Instance is one spawned sprite resolved to world geometry.
type Instance struct {
	Sprite handle.Handle
	Quad   geom.Quad
	// Tint multiplies the texture. Its alpha includes the sprite's
	// animated opacity.
	Tint color.NRGBA
}

// Renderer draws particle effects. Decoded textures are cached, so a
// Renderer is meant for a series of frames from one project. It is
// not safe for concurrent use.
type Renderer struct {
	options  Options
	textures map[handle.Handle]*image.NRGBA
}

// New returns a Renderer.
func New(options Options) *Renderer {
	if options.Decoder == nil {
		options.Decoder = imagecodec.Default()
	}
	if options.Size <= 0 {
		options.Size = defaultSize
	}
	if options.Extent <= 0 {
		options.Extent = defaultExtent
	}
	return &Renderer{options: options, textures: make(map[handle.Handle]*image.NRGBA)}
}

// FindEffect returns the named effect of a particle item.
func FindEffect(particle project.Particle, name string) (project.ParticleEffect, error) {
	for _, effect := range particle.Data.Effects {
		if effect.Name == name {
			return effect, nil
		}
	}
	return project.ParticleEffect{}, fmt.Errorf("%w: %q", ErrEffectNotFound, name)
}

// Instances evaluates effect at progress, a fraction of the effect's
// lifetime. Sprites whose [Start, Start+Duration] window does not
// contain progress, or whose opacity is zero, are omitted. Every
// instance of a group draws its own eight random values, shared by
// the group's sprites; the draws depend only on seed and position.
func Instances(effect project.ParticleEffect, progress float64, seed uint64) ([]Instance, error) {
	transform, err := effect.Transform.Parse()
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", effect.Name, err)
	}
	var instances []Instance
	for g, group := range effect.Groups {
		sprites, err := parseSprites(group.Particles)
		if err != nil {
			return nil, fmt.Errorf("effect %q group %d: %w", effect.Name, g, err)
		}
		random := rand.New(rand.NewPCG(seed, uint64(g)))
		for range group.Count {
			var values [expr.RandomCount]float64
			for i := range values {
				values[i] = random.Float64()
			}
			inputs := expr.NewPropertyInputs(values)
			for _, sprite := range sprites {
				if instance, ok := sprite.instance(inputs, &transform, progress); ok {
					instances = append(instances, instance)
				}
			}
		}
	}
	return instances, nil
}

// Render draws effect at progress into a new Size×Size image.
func (r *Renderer) Render(effect project.ParticleEffect, progress float64) (*image.NRGBA, error) {
	instances, err := Instances(effect, progress, r.options.Seed)
	if err != nil {
		return nil, err
	}
	size := r.options.Size
	frame := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(frame, frame.Rect, image.NewUniform(r.options.Background), image.Point{}, draw.Src)
	for _, instance := range instances {
		texture, err := r.texture(instance.Sprite)
		if err != nil {
			return nil, err
		}
		r.fill(frame, instance, texture)
	}
	return frame, nil
}

// Strip renders frames evenly spaced over the effect's lifetime,
// from progress 0 to 1 inclusive, side by side in one image.
func (r *Renderer) Strip(effect project.ParticleEffect, frames int) (*image.NRGBA, error) {
	if frames < 1 {
		return nil, fmt.Errorf("frame count %d, want at least 1", frames)
	}
	size := r.options.Size
	strip := image.NewNRGBA(image.Rect(0, 0, size*frames, size))
	for i := range frames {
		progress := 0.0
		if frames > 1 {
			progress = float64(i) / float64(frames-1)
		}
		frame, err := r.Render(effect, progress)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		target := image.Rect(i*size, 0, (i+1)*size, size)
		draw.Draw(strip, target, frame, image.Point{}, draw.Src)
	}
	return strip, nil
}

func (r *Renderer) texture(h handle.Handle) (*image.NRGBA, error) {
	if texture, ok := r.textures[h]; ok {
		return texture, nil
	}
	if r.options.Registry == nil {
		return nil, fmt.Errorf("sprite %s: no registry", h)
	}
	data, err := r.options.Registry.Bytes(h)
	if err != nil {
		return nil, fmt.Errorf("sprite %s: %w", h, err)
	}
	img, err := r.options.Decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("sprite %s: %w", h, err)
	}
	texture := imagecodec.ToNRGBA(img)
	if texture.Rect.Empty() {
		return nil, fmt.Errorf("sprite %s: empty image", h)
	}
	r.textures[h] = texture
	return texture, nil
}

// fill composites one instance over frame.
func (r *Renderer) fill(frame *image.NRGBA, instance Instance, texture *image.NRGBA) {
	size := float64(r.options.Size)
	extent := r.options.Extent
	scale := size / (2 * extent)

	low, high := instance.Quad.Bounds()
	x0 := max(int(math.Floor((low.X+extent)*scale)), 0)
	x1 := min(int(math.Ceil((high.X+extent)*scale)), r.options.Size)
	y0 := max(int(math.Floor((extent-high.Y)*scale)), 0)
	y1 := min(int(math.Ceil((extent-low.Y)*scale)), r.options.Size)

	width, height := texture.Rect.Dx(), texture.Rect.Dy()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			world := geom.Point{
				X: (float64(px)+0.5)/scale - extent,
				Y: extent - (float64(py)+0.5)/scale,
			}
			u, v, ok := geom.InverseBilinear(world, instance.Quad)
			if !ok {
				continue
			}
			// u runs up the sprite (corner a to b), v runs across it
			// (corner a to d); image rows run down.
			tx := min(int(v*float64(width)), width-1)
			ty := min(int((1-u)*float64(height)), height-1)
			source := tint(texture.NRGBAAt(tx, ty), instance.Tint)
			frame.SetNRGBA(px, py, over(source, frame.NRGBAAt(px, py)))
		}
	}
}

func tint(c, by color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: mul8(c.R, by.R),
		G: mul8(c.G, by.G),
		B: mul8(c.B, by.B),
		A: mul8(c.A, by.A),
	}
}

func mul8(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}

// over composites non-premultiplied src over dst.
func over(src, dst color.NRGBA) color.NRGBA {
	if src.A == 255 || dst.A == 0 {
		return src
	}
	if src.A == 0 {
		return dst
	}
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	channel := func(s, d uint8) uint8 {
		value := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
		return uint8(math.Round(value))
	}
	return color.NRGBA{
		R: channel(src.R, dst.R),
		G: channel(src.G, dst.G),
		B: channel(src.B, dst.B),
		A: uint8(math.Round(outA * 255)),
	}
}
