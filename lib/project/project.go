// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"maps"
	"slices"

	"github.com/bureau-foundation/contentpack/lib/ease"
	"github.com/bureau-foundation/contentpack/lib/handle"
)

// Kind names an item category. Its value is the archive path segment.
type Kind string

// Item kinds in packing order.
const (
	KindSkins       Kind = "skins"
	KindBackgrounds Kind = "backgrounds"
	KindEffects     Kind = "effects"
	KindParticles   Kind = "particles"
)

// Kinds returns every kind in packing order.
func Kinds() []Kind {
	return []Kind{KindSkins, KindBackgrounds, KindEffects, KindParticles}
}

// Project is the root of a content package.
type Project struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Banner      handle.Handle         `json:"banner,omitempty"`
	Skins       map[string]Skin       `json:"skins"`
	Backgrounds map[string]Background `json:"backgrounds"`
	Effects     map[string]Effect     `json:"effects"`
	Particles   map[string]Particle   `json:"particles"`
}

// New returns an empty project with every item map allocated.
func New(title string) *Project {
	return &Project{
		Title:       title,
		Skins:       make(map[string]Skin),
		Backgrounds: make(map[string]Background),
		Effects:     make(map[string]Effect),
		Particles:   make(map[string]Particle),
	}
}

// Count returns the number of items of kind.
func (p *Project) Count(kind Kind) int {
	switch kind {
	case KindSkins:
		return len(p.Skins)
	case KindBackgrounds:
		return len(p.Backgrounds)
	case KindEffects:
		return len(p.Effects)
	case KindParticles:
		return len(p.Particles)
	default:
		return 0
	}
}

// Names returns the keys of items in sorted order.
func Names[T any](items map[string]T) []string {
	return slices.Sorted(maps.Keys(items))
}

// Meta is the display metadata shared by every item kind.
type Meta struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Author      string        `json:"author"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags,omitempty"`
	Thumbnail   handle.Handle `json:"thumbnail,omitempty"`
}

// Skin is a set of note and stage sprites.
type Skin struct {
	Meta
	Data SkinData `json:"data"`
}

// SkinData is the sprite table of a skin.
type SkinData struct {
	Interpolation bool         `json:"interpolation"`
	Sprites       []SkinSprite `json:"sprites"`
}

// SkinSprite is one skin texture, identified by the engine sprite ID
// it replaces.
type SkinSprite struct {
	ID        int           `json:"id"`
	Texture   handle.Handle `json:"texture"`
	Transform Transform     `json:"transform"`
}

// Background is a stage backdrop image with its layout settings.
type Background struct {
	Meta
	Image         handle.Handle           `json:"image"`
	Data          BackgroundData          `json:"data"`
	Configuration BackgroundConfiguration `json:"configuration"`
}

// BackgroundData controls how the background image fills the screen.
type BackgroundData struct {
	AspectRatio float64 `json:"aspectRatio"`
	Fit         string  `json:"fit"`
	Color       string  `json:"color"`
}

// BackgroundConfiguration holds the user-adjustable defaults.
type BackgroundConfiguration struct {
	Blur float64 `json:"blur"`
	Mask string  `json:"mask"`
}

// Background fit modes.
const (
	FitWidth   = "width"
	FitHeight  = "height"
	FitContain = "contain"
	FitCover   = "cover"
)

// DefaultBackgroundData returns the settings new backgrounds start with.
func DefaultBackgroundData() BackgroundData {
	return BackgroundData{AspectRatio: 16.0 / 9.0, Fit: FitCover, Color: "#000000"}
}

// DefaultBackgroundConfiguration returns the configuration new
// backgrounds start with.
func DefaultBackgroundConfiguration() BackgroundConfiguration {
	return BackgroundConfiguration{Blur: 0, Mask: "#000000c0"}
}

// Effect is a set of sound clips, identified by engine clip ID.
type Effect struct {
	Meta
	Clips []EffectClip `json:"clips"`
}

// EffectClip is one audio clip.
type EffectClip struct {
	ID    int           `json:"id"`
	Audio handle.Handle `json:"audio"`
}

// Particle is a set of named particle effects sharing one sprite atlas.
type Particle struct {
	Meta
	Data ParticleData `json:"data"`
}

// ParticleData is the effect tree of a particle item.
type ParticleData struct {
	Interpolation bool             `json:"interpolation"`
	Effects       []ParticleEffect `json:"effects"`
}

// ParticleEffect is one engine particle effect: a transform applied to
// every spawned sprite, and groups of sprites spawned together.
type ParticleEffect struct {
	Name      string          `json:"name"`
	Transform Transform       `json:"transform"`
	Groups    []ParticleGroup `json:"groups"`
}

// ParticleGroup spawns Count instances of each of its particles, each
// instance drawing its own random inputs.
type ParticleGroup struct {
	Count     int              `json:"count"`
	Particles []ParticleSprite `json:"particles"`
}

// ParticleSprite is a leaf particle: one sprite animated over
// [Start, Start+Duration] of the effect's lifetime.
type ParticleSprite struct {
	Sprite   handle.Handle `json:"sprite"`
	Color    string        `json:"color"`
	Start    float64       `json:"start"`
	Duration float64       `json:"duration"`
	X        Property      `json:"x"`
	Y        Property      `json:"y"`
	W        Property      `json:"w"`
	H        Property      `json:"h"`
	R        Property      `json:"r"`
	A        Property      `json:"a"`
}

// Properties returns pointers to the six animated properties in
// document order: x, y, w, h, r, a.
func (s *ParticleSprite) Properties() [6]*Property {
	return [6]*Property{&s.X, &s.Y, &s.W, &s.H, &s.R, &s.A}
}

// PropertyNames are the document keys of ParticleSprite.Properties.
var PropertyNames = [6]string{"x", "y", "w", "h", "r", "a"}

// Property animates a value from one expression to another.
type Property struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Ease ease.Type `json:"ease"`
}

// Constant returns a property that holds value for its whole lifetime.
func Constant(value string) Property {
	return Property{From: value, To: value, Ease: ease.Linear}
}
