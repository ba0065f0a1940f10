// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/bureau-foundation/contentpack/lib/expr"
	"github.com/bureau-foundation/contentpack/lib/geom"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
)

// parsedSprite is a leaf with its equations and colour parsed once per
// frame rather than once per instance.
type parsedSprite struct {
	sprite   handle.Handle
	color    color.NRGBA
	start    float64
	duration float64
	// x, y, w, h, r, a
	properties [6]project.ParsedProperty
}

func parseSprites(sprites []project.ParticleSprite) ([]parsedSprite, error) {
	parsed := make([]parsedSprite, len(sprites))
	for i := range sprites {
		sprite := &sprites[i]
		c, err := project.ParseColor(sprite.Color)
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
		parsed[i] = parsedSprite{
			sprite:   sprite.Sprite,
			color:    c,
			start:    sprite.Start,
			duration: sprite.Duration,
		}
		for j, property := range sprite.Properties() {
			if parsed[i].properties[j], err = property.Parse(); err != nil {
				return nil, fmt.Errorf("particle %d %s: %w", i, project.PropertyNames[j], err)
			}
		}
	}
	return parsed, nil
}

// instance evaluates the sprite for one set of random inputs. ok is
// false when the sprite is not visible at progress.
func (s *parsedSprite) instance(inputs *expr.PropertyInputs, transform *expr.Transform, progress float64) (Instance, bool) {
	if s.duration <= 0 {
		return Instance{}, false
	}
	local := (progress - s.start) / s.duration
	if local < 0 || local > 1 {
		return Instance{}, false
	}
	var values [6]float64
	for i := range s.properties {
		values[i] = s.properties[i].Evaluate(inputs, local)
	}
	x, y, w, h, r, a := values[0], values[1], values[2], values[3], values[4], values[5]

	tint := s.color
	tint.A = uint8(math.Round(float64(tint.A) * min(max(a, 0), 1)))
	if tint.A == 0 {
		return Instance{}, false
	}

	quad := rectangle(x, y, w, h, r)
	return Instance{
		Sprite: s.sprite,
		Quad:   geom.QuadFromCorners(transform.Apply(quad.Corners())),
		Tint:   tint,
	}, true
}

// rectangle returns the w×h rectangle centred on (x, y) rotated r
// radians counterclockwise, corners bottom-left, top-left, top-right,
// bottom-right before rotation.
func rectangle(x, y, w, h, r float64) geom.Quad {
	sin, cos := math.Sincos(r)
	center := geom.Point{X: x, Y: y}
	corner := func(dx, dy float64) geom.Point {
		return center.Add(geom.Point{X: dx*cos - dy*sin, Y: dx*sin + dy*cos})
	}
	hw, hh := w/2, h/2
	return geom.Quad{corner(-hw, -hh), corner(-hw, hh), corner(hw, hh), corner(hw, -hh)}
}
