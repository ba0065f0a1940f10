// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/expr"
)

// Resource locator types.
const (
	ResourceServerBanner = "ServerBanner"

	ResourceSkinThumbnail = "SkinThumbnail"
	ResourceSkinData      = "SkinData"
	ResourceSkinTexture   = "SkinTexture"

	ResourceBackgroundThumbnail     = "BackgroundThumbnail"
	ResourceBackgroundData          = "BackgroundData"
	ResourceBackgroundImage         = "BackgroundImage"
	ResourceBackgroundConfiguration = "BackgroundConfiguration"

	ResourceEffectThumbnail = "EffectThumbnail"
	ResourceEffectData      = "EffectData"
	ResourceEffectAudio     = "EffectAudio"

	ResourceParticleThumbnail = "ParticleThumbnail"
	ResourceParticleData      = "ParticleData"
	ResourceParticleTexture   = "ParticleTexture"
)

// Item format versions written into summaries.
const (
	SkinVersion       = 4
	BackgroundVersion = 2
	EffectVersion     = 5
	ParticleVersion   = 3
)

// Package is the compatibility marker.
type Package struct {
	ShouldUpdate bool `json:"shouldUpdate"`
}

// Info describes the whole package.
type Info struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Banner      *blobstore.Locator `json:"banner,omitempty"`
}

// Tag is a display tag on an item.
type Tag struct {
	Title string `json:"title"`
}

// Summary is an item's entry in a list document. Only the locators of
// the item's kind are set.
type Summary struct {
	Name          string             `json:"name"`
	Version       int                `json:"version"`
	Title         string             `json:"title"`
	Subtitle      string             `json:"subtitle"`
	Author        string             `json:"author"`
	Tags          []Tag              `json:"tags"`
	Thumbnail     *blobstore.Locator `json:"thumbnail,omitempty"`
	Data          *blobstore.Locator `json:"data,omitempty"`
	Texture       *blobstore.Locator `json:"texture,omitempty"`
	Image         *blobstore.Locator `json:"image,omitempty"`
	Configuration *blobstore.Locator `json:"configuration,omitempty"`
	Audio         *blobstore.Locator `json:"audio,omitempty"`
}

// List enumerates a kind's items.
type List struct {
	PageCount int       `json:"pageCount"`
	Items     []Summary `json:"items"`
}

// Details is the per-item document.
type Details struct {
	Item        Summary `json:"item"`
	Description string  `json:"description"`
}

// Rect is a packed sprite rectangle in an atlas texture. It covers the
// sprite's own pixels, bleed excluded.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// SkinData is the data document of a skin.
type SkinData struct {
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	Interpolation bool         `json:"interpolation"`
	Sprites       []SkinSprite `json:"sprites"`
}

// SkinSprite places one engine sprite in the skin texture.
type SkinSprite struct {
	ID        int            `json:"id"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	W         int            `json:"w"`
	H         int            `json:"h"`
	Transform expr.Transform `json:"transform"`
}

// BackgroundData is the data document of a background.
type BackgroundData struct {
	AspectRatio float64 `json:"aspectRatio"`
	Fit         string  `json:"fit"`
	Color       string  `json:"color"`
}

// BackgroundConfiguration is the configuration document of a
// background.
type BackgroundConfiguration struct {
	Blur float64 `json:"blur"`
	Mask string  `json:"mask"`
}

// EffectData is the data document of an effect.
type EffectData struct {
	Clips []EffectClip `json:"clips"`
}

// EffectClip names the audio sub-container entry holding a clip.
type EffectClip struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

// ParticleData is the data document of a particle item.
type ParticleData struct {
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	Interpolation bool             `json:"interpolation"`
	Sprites       []Rect           `json:"sprites"`
	Effects       []ParticleEffect `json:"effects"`
}

// ParticleEffect is one effect of a particle data document.
type ParticleEffect struct {
	Name      string          `json:"name"`
	Transform expr.Transform  `json:"transform"`
	Groups    []ParticleGroup `json:"groups"`
}

// ParticleGroup is a group of a particle effect.
type ParticleGroup struct {
	Count     int                `json:"count"`
	Particles []ParticleParticle `json:"particles"`
}

// ParticleParticle is a leaf particle. Sprite indexes ParticleData.Sprites.
type ParticleParticle struct {
	Sprite   int              `json:"sprite"`
	Color    string           `json:"color"`
	Start    float64          `json:"start"`
	Duration float64          `json:"duration"`
	X        ParticleProperty `json:"x"`
	Y        ParticleProperty `json:"y"`
	W        ParticleProperty `json:"w"`
	H        ParticleProperty `json:"h"`
	R        ParticleProperty `json:"r"`
	A        ParticleProperty `json:"a"`
}

// Properties returns pointers to the six properties in x, y, w, h, r, a
// order.
func (p *ParticleParticle) Properties() [6]*ParticleProperty {
	return [6]*ParticleProperty{&p.X, &p.Y, &p.W, &p.H, &p.R, &p.A}
}

// ParticleProperty is an animated value stored as coefficient maps.
type ParticleProperty struct {
	From expr.PropertyExpression `json:"from"`
	To   expr.PropertyExpression `json:"to"`
	Ease string                  `json:"ease"`
}
