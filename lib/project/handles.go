// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import "github.com/bureau-foundation/contentpack/lib/handle"

// Handles returns every asset handle reachable from p. Pass the result
// to handle.Registry.Purge to release assets the project no longer
// references.
func (p *Project) Handles() handle.Set {
	live := make(handle.Set)
	live.Add(p.Banner)
	for _, skin := range p.Skins {
		live.Add(skin.Thumbnail)
		for _, sprite := range skin.Data.Sprites {
			live.Add(sprite.Texture)
		}
	}
	for _, background := range p.Backgrounds {
		live.Add(background.Thumbnail)
		live.Add(background.Image)
	}
	for _, effect := range p.Effects {
		live.Add(effect.Thumbnail)
		for _, clip := range effect.Clips {
			live.Add(clip.Audio)
		}
	}
	for _, particle := range p.Particles {
		live.Add(particle.Thumbnail)
		for _, effect := range particle.Data.Effects {
			for _, group := range effect.Groups {
				for _, sprite := range group.Particles {
					live.Add(sprite.Sprite)
				}
			}
		}
	}
	return live
}

// MapHandles returns a deep copy of p with every set handle replaced
// by mapping's result. Unset handles stay unset. The first mapping
// error is returned.
func (p *Project) MapHandles(mapping func(handle.Handle) (handle.Handle, error)) (*Project, error) {
	var err error
	replace := func(h *handle.Handle) {
		if err != nil || h.IsZero() {
			return
		}
		*h, err = mapping(*h)
	}

	clone := p.Clone()
	replace(&clone.Banner)
	for name, skin := range clone.Skins {
		replace(&skin.Thumbnail)
		for i := range skin.Data.Sprites {
			replace(&skin.Data.Sprites[i].Texture)
		}
		clone.Skins[name] = skin
	}
	for name, background := range clone.Backgrounds {
		replace(&background.Thumbnail)
		replace(&background.Image)
		clone.Backgrounds[name] = background
	}
	for name, effect := range clone.Effects {
		replace(&effect.Thumbnail)
		for i := range effect.Clips {
			replace(&effect.Clips[i].Audio)
		}
		clone.Effects[name] = effect
	}
	for name, particle := range clone.Particles {
		replace(&particle.Thumbnail)
		for i := range particle.Data.Effects {
			for j := range particle.Data.Effects[i].Groups {
				leaves := particle.Data.Effects[i].Groups[j].Particles
				for k := range leaves {
					replace(&leaves[k].Sprite)
				}
			}
		}
		clone.Particles[name] = particle
	}
	if err != nil {
		return nil, err
	}
	return clone, nil
}
