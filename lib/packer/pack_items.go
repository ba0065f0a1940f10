// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/task"
)

func (p *PackProcess) planSkin(skin project.Skin) {
	record := newItemRecord(project.KindSkins, skin.Meta, archive.SkinVersion)
	sheet := newSpriteSheet()

	p.queue.Push(
		p.thumbnailStep(record, skin.Thumbnail, archive.ResourceSkinThumbnail),
		p.step(record, "collect sprites", func() error {
			for _, sprite := range skin.Data.Sprites {
				data, err := p.asset(sprite.Texture, fmt.Sprintf("sprite %d texture", sprite.ID))
				if err != nil {
					return err
				}
				sheet.add(sprite.Texture, data)
			}
			return nil
		}),
		p.step(record, "pack texture", func() error {
			texture, err := sheet.pack(p.options.Decoder, p.options.Atlas)
			if err != nil {
				return err
			}
			record.summary.Texture = p.putBytes(texture, archive.ResourceSkinTexture)
			return nil
		}),
		p.step(record, "store data", func() error {
			data := archive.SkinData{
				Width:         sheet.result.Size,
				Height:        sheet.result.Size,
				Interpolation: skin.Data.Interpolation,
				Sprites:       make([]archive.SkinSprite, 0, len(skin.Data.Sprites)),
			}
			for _, sprite := range skin.Data.Sprites {
				slot, err := sheet.slot(sprite.Texture)
				if err != nil {
					return err
				}
				transform, err := sprite.Transform.Parse()
				if err != nil {
					return fmt.Errorf("sprite %d: %w", sprite.ID, err)
				}
				rect := sheet.rect(slot)
				data.Sprites = append(data.Sprites, archive.SkinSprite{
					ID: sprite.ID, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H,
					Transform: transform,
				})
			}
			locator, err := p.putJSON(data, archive.ResourceSkinData)
			if err != nil {
				return err
			}
			record.summary.Data = locator
			return nil
		}),
		p.detailsStep(record),
	)
}

func (p *PackProcess) planBackground(background project.Background) {
	record := newItemRecord(project.KindBackgrounds, background.Meta, archive.BackgroundVersion)

	p.queue.Push(
		p.thumbnailStep(record, background.Thumbnail, archive.ResourceBackgroundThumbnail),
		p.step(record, "store image", func() error {
			locator, err := p.storeAsset(background.Image, "image", archive.ResourceBackgroundImage)
			if err != nil {
				return err
			}
			record.summary.Image = locator
			return nil
		}),
		p.step(record, "store data", func() error {
			locator, err := p.putJSON(archive.BackgroundData{
				AspectRatio: background.Data.AspectRatio,
				Fit:         background.Data.Fit,
				Color:       background.Data.Color,
			}, archive.ResourceBackgroundData)
			if err != nil {
				return err
			}
			record.summary.Data = locator
			return nil
		}),
		p.step(record, "store configuration", func() error {
			locator, err := p.putJSON(archive.BackgroundConfiguration{
				Blur: background.Configuration.Blur,
				Mask: background.Configuration.Mask,
			}, archive.ResourceBackgroundConfiguration)
			if err != nil {
				return err
			}
			record.summary.Configuration = locator
			return nil
		}),
		p.detailsStep(record),
	)
}

// planEffect queues the thumbnail and a discovery task. Discovery runs
// after everything planned up front and appends one task per clip, the
// audio container assembly, and the details writer.
func (p *PackProcess) planEffect(effect project.Effect) {
	record := newItemRecord(project.KindEffects, effect.Meta, archive.EffectVersion)

	p.queue.Push(
		p.thumbnailStep(record, effect.Thumbnail, archive.ResourceEffectThumbnail),
		task.Task{
			Description: record.label("discover clips"),
			Execute: func(_ context.Context, queue *task.Queue) error {
				var container bytes.Buffer
				writer := archive.NewWriter(&container)
				data := archive.EffectData{Clips: make([]archive.EffectClip, 0, len(effect.Clips))}

				for index, clip := range effect.Clips {
					filename := strconv.Itoa(index)
					queue.Push(p.step(record, fmt.Sprintf("store clip %d", clip.ID), func() error {
						audio, err := p.asset(clip.Audio, fmt.Sprintf("clip %d audio", clip.ID))
						if err != nil {
							return err
						}
						if err := writer.Store(filename, audio); err != nil {
							return err
						}
						data.Clips = append(data.Clips, archive.EffectClip{ID: clip.ID, Filename: filename})
						return nil
					}))
				}

				queue.Push(
					p.step(record, "pack audio", func() error {
						if err := writer.Close(); err != nil {
							return err
						}
						record.summary.Audio = p.putBytes(container.Bytes(), archive.ResourceEffectAudio)
						locator, err := p.putJSON(data, archive.ResourceEffectData)
						if err != nil {
							return err
						}
						record.summary.Data = locator
						return nil
					}),
					p.detailsStep(record),
				)
				return nil
			},
		},
	)
}

// planParticle queues the particle chain. Leaf sprites are flattened
// into one atlas; each leaf then refers to its atlas slot by index.
func (p *PackProcess) planParticle(particle project.Particle) {
	record := newItemRecord(project.KindParticles, particle.Meta, archive.ParticleVersion)
	sheet := newSpriteSheet()

	p.queue.Push(
		p.thumbnailStep(record, particle.Thumbnail, archive.ResourceParticleThumbnail),
		p.step(record, "collect sprites", func() error {
			for i, effect := range particle.Data.Effects {
				for j, group := range effect.Groups {
					for k, leaf := range group.Particles {
						what := fmt.Sprintf("effect %d group %d particle %d sprite", i, j, k)
						data, err := p.asset(leaf.Sprite, what)
						if err != nil {
							return err
						}
						sheet.add(leaf.Sprite, data)
					}
				}
			}
			return nil
		}),
		p.step(record, "pack texture", func() error {
			texture, err := sheet.pack(p.options.Decoder, p.options.Atlas)
			if err != nil {
				return err
			}
			record.summary.Texture = p.putBytes(texture, archive.ResourceParticleTexture)
			return nil
		}),
		p.step(record, "store data", func() error {
			data, err := particleDocument(particle.Data, sheet)
			if err != nil {
				return err
			}
			locator, err := p.putJSON(data, archive.ResourceParticleData)
			if err != nil {
				return err
			}
			record.summary.Data = locator
			return nil
		}),
		p.detailsStep(record),
	)
}

func particleDocument(source project.ParticleData, sheet *spriteSheet) (archive.ParticleData, error) {
	data := archive.ParticleData{
		Width:         sheet.result.Size,
		Height:        sheet.result.Size,
		Interpolation: source.Interpolation,
		Sprites:       make([]archive.Rect, len(sheet.sources)),
		Effects:       make([]archive.ParticleEffect, 0, len(source.Effects)),
	}
	for slot := range data.Sprites {
		data.Sprites[slot] = sheet.rect(slot)
	}

	for i, effect := range source.Effects {
		transform, err := effect.Transform.Parse()
		if err != nil {
			return data, fmt.Errorf("effect %d (%s): %w", i, effect.Name, err)
		}
		encoded := archive.ParticleEffect{
			Name:      effect.Name,
			Transform: transform,
			Groups:    make([]archive.ParticleGroup, 0, len(effect.Groups)),
		}
		for j, group := range effect.Groups {
			encodedGroup := archive.ParticleGroup{
				Count:     group.Count,
				Particles: make([]archive.ParticleParticle, 0, len(group.Particles)),
			}
			for k, leaf := range group.Particles {
				slot, err := sheet.slot(leaf.Sprite)
				if err != nil {
					return data, err
				}
				encodedLeaf := archive.ParticleParticle{
					Sprite:   slot,
					Color:    leaf.Color,
					Start:    leaf.Start,
					Duration: leaf.Duration,
				}
				targets := encodedLeaf.Properties()
				for index, property := range leaf.Properties() {
					parsed, err := property.Parse()
					if err != nil {
						return data, fmt.Errorf("effect %d group %d particle %d %s: %w",
							i, j, k, project.PropertyNames[index], err)
					}
					*targets[index] = archive.ParticleProperty{
						From: parsed.From,
						To:   parsed.To,
						Ease: string(parsed.Ease),
					}
				}
				encodedGroup.Particles = append(encodedGroup.Particles, encodedLeaf)
			}
			encoded.Groups = append(encoded.Groups, encodedGroup)
		}
		data.Effects = append(data.Effects, encoded)
	}
	return data, nil
}
