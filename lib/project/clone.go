// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of p. The copy shares no maps or slices
// with p; handles are strings and are copied by value.
func (p *Project) Clone() *Project {
	return &Project{
		Title:       p.Title,
		Description: p.Description,
		Banner:      p.Banner,
		Skins:       cloneItems(p.Skins, Skin.Clone),
		Backgrounds: cloneItems(p.Backgrounds, Background.Clone),
		Effects:     cloneItems(p.Effects, Effect.Clone),
		Particles:   cloneItems(p.Particles, Particle.Clone),
	}
}

func cloneItems[T any](items map[string]T, clone func(T) T) map[string]T {
	cloned := make(map[string]T, len(items))
	for name, item := range items {
		cloned[name] = clone(item)
	}
	return cloned
}

// Clone returns a deep copy of m.
func (m Meta) Clone() Meta {
	m.Tags = slices.Clone(m.Tags)
	return m
}

// Clone returns a deep copy of s.
func (s Skin) Clone() Skin {
	s.Meta = s.Meta.Clone()
	s.Data.Sprites = slices.Clone(s.Data.Sprites)
	return s
}

// Clone returns a deep copy of b.
func (b Background) Clone() Background {
	b.Meta = b.Meta.Clone()
	return b
}

// Clone returns a deep copy of e.
func (e Effect) Clone() Effect {
	e.Meta = e.Meta.Clone()
	e.Clips = slices.Clone(e.Clips)
	return e
}

// Clone returns a deep copy of p.
func (p Particle) Clone() Particle {
	p.Meta = p.Meta.Clone()
	p.Data.Effects = slices.Clone(p.Data.Effects)
	for i := range p.Data.Effects {
		effect := &p.Data.Effects[i]
		effect.Groups = slices.Clone(effect.Groups)
		for j := range effect.Groups {
			effect.Groups[j].Particles = slices.Clone(effect.Groups[j].Particles)
		}
	}
	return p
}

// Equal reports whether two projects are structurally identical,
// handles included.
func Equal(a, b *Project) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Banner == b.Banner &&
		maps.EqualFunc(a.Skins, b.Skins, skinEqual) &&
		maps.EqualFunc(a.Backgrounds, b.Backgrounds, backgroundEqual) &&
		maps.EqualFunc(a.Effects, b.Effects, effectEqual) &&
		maps.EqualFunc(a.Particles, b.Particles, particleEqual)
}

func metaEqual(a, b Meta) bool {
	return a.Name == b.Name && a.Title == b.Title && a.Subtitle == b.Subtitle &&
		a.Author == b.Author && a.Description == b.Description &&
		slices.Equal(a.Tags, b.Tags) && a.Thumbnail == b.Thumbnail
}

func skinEqual(a, b Skin) bool {
	return metaEqual(a.Meta, b.Meta) &&
		a.Data.Interpolation == b.Data.Interpolation &&
		slices.Equal(a.Data.Sprites, b.Data.Sprites)
}

func backgroundEqual(a, b Background) bool {
	return metaEqual(a.Meta, b.Meta) && a.Image == b.Image &&
		a.Data == b.Data && a.Configuration == b.Configuration
}

func effectEqual(a, b Effect) bool {
	return metaEqual(a.Meta, b.Meta) && slices.Equal(a.Clips, b.Clips)
}

func particleEqual(a, b Particle) bool {
	return metaEqual(a.Meta, b.Meta) &&
		a.Data.Interpolation == b.Data.Interpolation &&
		slices.EqualFunc(a.Data.Effects, b.Data.Effects, func(x, y ParticleEffect) bool {
			return x.Name == y.Name && x.Transform == y.Transform &&
				slices.EqualFunc(x.Groups, y.Groups, func(g, h ParticleGroup) bool {
					return g.Count == h.Count && slices.Equal(g.Particles, h.Particles)
				})
		})
}
