// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"slices"
	"strings"

	"github.com/bureau-foundation/contentpack/lib/expr"
)

// ReservedNames are item names that collide with archive documents: a
// kind's item list is stored beside its items as "list".
var ReservedNames = []string{"list"}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidColor reports whether s is a CSS hex colour (#rgb, #rgba,
// #rrggbb or #rrggbbaa).
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// ParseColor converts a CSS hex colour to NRGBA. Short forms repeat
// each digit, so #f80 is #ff8800; a missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	if !ValidColor(s) {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	digits := s[1:]
	if len(digits) <= 4 {
		expanded := make([]byte, 0, 2*len(digits))
		for i := range len(digits) {
			expanded = append(expanded, digits[i], digits[i])
		}
		digits = string(expanded)
	}
	if len(digits) == 6 {
		digits += "ff"
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}, nil
}

// Validate checks the project for structural errors and reports every
// problem found.
func (p *Project) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	addErr := func(prefix string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}

	checkMeta := func(kind Kind, key string, meta Meta) {
		if key == "" {
			add("%s: item with empty name", kind)
		}
		if strings.ContainsAny(key, "/\\") {
			add("%s/%s: name must not contain a path separator", kind, key)
		}
		if slices.Contains(ReservedNames, key) {
			add("%s/%s: name is reserved", kind, key)
		}
		if meta.Name != key {
			add("%s/%s: name field %q does not match key", kind, key, meta.Name)
		}
	}

	for _, key := range Names(p.Skins) {
		skin := p.Skins[key]
		checkMeta(KindSkins, key, skin.Meta)
		seen := make(map[int]bool)
		for i, sprite := range skin.Data.Sprites {
			where := fmt.Sprintf("skins/%s sprite %d", key, i)
			if seen[sprite.ID] {
				add("%s: duplicate sprite id %d", where, sprite.ID)
			}
			seen[sprite.ID] = true
			addErr(where, validateTransform(sprite.Transform))
		}
	}

	for _, key := range Names(p.Backgrounds) {
		background := p.Backgrounds[key]
		checkMeta(KindBackgrounds, key, background.Meta)
		if background.Data.AspectRatio <= 0 {
			add("backgrounds/%s: aspect ratio must be positive, got %v", key, background.Data.AspectRatio)
		}
		switch background.Data.Fit {
		case FitWidth, FitHeight, FitContain, FitCover:
		default:
			add("backgrounds/%s: unknown fit %q", key, background.Data.Fit)
		}
		if !ValidColor(background.Data.Color) {
			add("backgrounds/%s: invalid color %q", key, background.Data.Color)
		}
		if background.Configuration.Blur < 0 {
			add("backgrounds/%s: blur must not be negative", key)
		}
		if !ValidColor(background.Configuration.Mask) {
			add("backgrounds/%s: invalid mask %q", key, background.Configuration.Mask)
		}
	}

	for _, key := range Names(p.Effects) {
		effect := p.Effects[key]
		checkMeta(KindEffects, key, effect.Meta)
		seen := make(map[int]bool)
		for _, clip := range effect.Clips {
			if seen[clip.ID] {
				add("effects/%s: duplicate clip id %d", key, clip.ID)
			}
			seen[clip.ID] = true
		}
	}

	for _, key := range Names(p.Particles) {
		particle := p.Particles[key]
		checkMeta(KindParticles, key, particle.Meta)
		for i, effect := range particle.Data.Effects {
			where := fmt.Sprintf("particles/%s effect %d (%s)", key, i, effect.Name)
			addErr(where, validateTransform(effect.Transform))
			for j, group := range effect.Groups {
				if group.Count < 0 {
					add("%s group %d: negative count %d", where, j, group.Count)
				}
				for k, sprite := range group.Particles {
					leaf := fmt.Sprintf("%s group %d particle %d", where, j, k)
					if !ValidColor(sprite.Color) {
						add("%s: invalid color %q", leaf, sprite.Color)
					}
					if sprite.Duration < 0 {
						add("%s: negative duration", leaf)
					}
					for index, property := range sprite.Properties() {
						name := PropertyNames[index]
						if err := expr.ValidateProperty(property.From); err != nil {
							addErr(leaf+" "+name+".from", err)
						}
						if err := expr.ValidateProperty(property.To); err != nil {
							addErr(leaf+" "+name+".to", err)
						}
						addErr(leaf+" "+name, property.Ease.Validate())
					}
				}
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateTransform(t Transform) error {
	var errs []error
	for i, text := range t {
		if err := expr.ValidateTransform(text); err != nil {
			errs = append(errs, fmt.Errorf("transform %s: %w", expr.CornerNames[i], err))
		}
	}
	return errors.Join(errs...)
}
