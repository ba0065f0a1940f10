// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"image/color"

	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/ease"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
)

// Leaf returns a particle leaf drawing sprite with canonical property
// equations, as a formatter would produce them.
func Leaf(sprite handle.Handle) project.ParticleSprite {
	return project.ParticleSprite{
		Sprite:   sprite,
		Color:    "#ffffff",
		Start:    0,
		Duration: 0.5,
		X:        project.Property{From: "-0.25+0.5*r1", To: "0.75*cosr2", Ease: "outQuad"},
		Y:        project.Property{From: "0.5*sinr3", To: "1.5*sinr2", Ease: "inOutSine"},
		W:        project.Property{From: "0.25", To: "0.1+0.05*r4", Ease: ease.Linear},
		H:        project.Property{From: "0.25", To: "0.1+0.05*r4", Ease: ease.Linear},
		R:        project.Property{From: "", To: "3.14*r5", Ease: "outInBack"},
		A:        project.Property{From: "1", To: "", Ease: ease.None},
	}
}

// SampleProject builds a project with one skin, background, effect and
// particle item. Every asset is issued into registry.
func SampleProject(t Fatalf, registry *handle.Registry) *project.Project {
	t.Helper()
	red := color.NRGBA{R: 255, A: 255}
	p := project.New("Sample pack")
	p.Description = "Fixture covering every item kind."
	p.Banner = registry.Issue(SolidPNG(t, 64, 16, red))

	transform := project.IdentityTransform()
	transform[0] = "0.5*x1+0.5*x2"
	p.Skins["pixel"] = project.Skin{
		Meta: project.Meta{
			Name: "pixel", Title: "Pixel", Subtitle: "Retro", Author: "fixture",
			Tags: []string{"retro", "8bit"}, Thumbnail: registry.Issue(PatternPNG(t, 8, 8, 1)),
		},
		Data: project.SkinData{Interpolation: true, Sprites: []project.SkinSprite{
			{ID: 1, Texture: registry.Issue(PatternPNG(t, 12, 10, 2)), Transform: project.IdentityTransform()},
			{ID: 2, Texture: registry.Issue(PatternPNG(t, 7, 30, 3)), Transform: transform},
		}},
	}
	p.Backgrounds["night"] = project.Background{
		Meta:          project.Meta{Name: "night", Title: "Night", Thumbnail: registry.Issue(PatternPNG(t, 8, 8, 4))},
		Image:         registry.Issue(PatternPNG(t, 32, 18, 5)),
		Data:          project.DefaultBackgroundData(),
		Configuration: project.BackgroundConfiguration{Blur: 2.5, Mask: "#00000080"},
	}
	p.Effects["clicks"] = project.Effect{
		Meta: project.Meta{Name: "clicks", Title: "Clicks", Thumbnail: registry.Issue(PatternPNG(t, 8, 8, 6))},
		Clips: []project.EffectClip{
			{ID: 1, Audio: registry.Issue([]byte("RIFF perfect clip"))},
			{ID: 4, Audio: registry.Issue([]byte("RIFF miss clip"))},
		},
	}
	p.Particles["sparks"] = project.Particle{
		Meta: project.Meta{Name: "sparks", Title: "Sparks", Thumbnail: registry.Issue(PatternPNG(t, 8, 8, 7))},
		Data: project.ParticleData{Effects: []project.ParticleEffect{{
			Name:      "hit",
			Transform: project.IdentityTransform(),
			Groups: []project.ParticleGroup{{Count: 3, Particles: []project.ParticleSprite{
				Leaf(registry.Issue(PatternPNG(t, 16, 16, 8))),
				Leaf(registry.Issue(PatternPNG(t, 16, 16, 9))),
			}}},
		}}},
	}
	return p
}

// Canonical returns a clone of p in which every handle is replaced by
// "sha1:" and the hex digest of the bytes it names.
func Canonical(t Fatalf, p *project.Project, registry *handle.Registry) *project.Project {
	t.Helper()
	canonical, err := p.MapHandles(func(h handle.Handle) (handle.Handle, error) {
		data, err := registry.Bytes(h)
		if err != nil {
			return "", err
		}
		return handle.Handle("sha1:" + blobstore.Sum(data).String()), nil
	})
	if err != nil {
		t.Fatalf("canonicalizing project: %v", err)
	}
	return canonical
}
