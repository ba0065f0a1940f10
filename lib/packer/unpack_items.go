// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/ease"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/task"
)

// unpackRecord is the in-flight state of one item's unpack chain.
type unpackRecord struct {
	kind    project.Kind
	name    string
	summary archive.Summary
	meta    project.Meta
}

func (r *unpackRecord) label(step string) string {
	return string(r.kind) + "/" + r.name + ": " + step
}

func (u *UnpackProcess) step(record *unpackRecord, label string, run func() error) task.Task {
	return task.Task{
		Description: record.label(label),
		Execute: func(context.Context, *task.Queue) error {
			if err := run(); err != nil {
				return fmt.Errorf("%s %s: %w", record.kind, record.name, err)
			}
			return nil
		},
	}
}

func (u *UnpackProcess) planItem(kind project.Kind, name string, queue *task.Queue) {
	record := &unpackRecord{kind: kind, name: name}
	queue.Push(u.step(record, "read details", func() error {
		var details archive.Details
		if err := u.reader.ReadJSON(archive.ItemPath(string(kind), name), &details); err != nil {
			return err
		}
		if details.Item.Name != name {
			return fmt.Errorf("%w: details name %q", archive.ErrCorruptArchive, details.Item.Name)
		}
		record.summary = details.Item
		record.meta = project.Meta{
			Name:        name,
			Title:       details.Item.Title,
			Subtitle:    details.Item.Subtitle,
			Author:      details.Item.Author,
			Description: details.Description,
		}
		for _, tag := range details.Item.Tags {
			record.meta.Tags = append(record.meta.Tags, tag.Title)
		}
		if details.Item.Thumbnail != nil {
			thumbnail, err := u.issueBlob(*details.Item.Thumbnail)
			if err != nil {
				return fmt.Errorf("thumbnail: %w", err)
			}
			record.meta.Thumbnail = thumbnail
		}
		return nil
	}))

	switch kind {
	case project.KindSkins:
		u.planSkin(record, queue)
	case project.KindBackgrounds:
		u.planBackground(record, queue)
	case project.KindEffects:
		u.planEffect(record, queue)
	case project.KindParticles:
		u.planParticle(record, queue)
	}
}

// textureSprites decodes an atlas texture and issues one handle per
// rect.
func (u *UnpackProcess) textureSprites(texture *archive.Summary, rects []archive.Rect) ([]handle.Handle, error) {
	locator, err := requireLocator(texture.Texture, "texture")
	if err != nil {
		return nil, err
	}
	data, err := u.reader.Blob(locator)
	if err != nil {
		return nil, err
	}
	img, err := u.options.Decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: texture: %v", archive.ErrCorruptArchive, err)
	}
	sprites, err := sliceSprites(img, rects)
	if err != nil {
		return nil, err
	}
	handles := make([]handle.Handle, len(sprites))
	for i, sprite := range sprites {
		handles[i] = u.issue(sprite)
	}
	return handles, nil
}

func (u *UnpackProcess) planSkin(record *unpackRecord, queue *task.Queue) {
	queue.Push(u.step(record, "unpack texture", func() error {
		locator, err := requireLocator(record.summary.Data, "data")
		if err != nil {
			return err
		}
		var data archive.SkinData
		if err := u.reader.BlobJSON(locator, &data); err != nil {
			return err
		}
		rects := make([]archive.Rect, len(data.Sprites))
		for i, sprite := range data.Sprites {
			rects[i] = archive.Rect{X: sprite.X, Y: sprite.Y, W: sprite.W, H: sprite.H}
		}
		textures, err := u.textureSprites(&record.summary, rects)
		if err != nil {
			return err
		}
		skin := project.Skin{
			Meta: record.meta,
			Data: project.SkinData{
				Interpolation: data.Interpolation,
				Sprites:       make([]project.SkinSprite, len(data.Sprites)),
			},
		}
		for i, sprite := range data.Sprites {
			skin.Data.Sprites[i] = project.SkinSprite{
				ID:        sprite.ID,
				Texture:   textures[i],
				Transform: project.FormatTransform(sprite.Transform),
			}
		}
		u.project.Skins[record.name] = skin
		return nil
	}))
}

func (u *UnpackProcess) planBackground(record *unpackRecord, queue *task.Queue) {
	queue.Push(u.step(record, "unpack image and documents", func() error {
		imageLocator, err := requireLocator(record.summary.Image, "image")
		if err != nil {
			return err
		}
		dataLocator, err := requireLocator(record.summary.Data, "data")
		if err != nil {
			return err
		}
		configurationLocator, err := requireLocator(record.summary.Configuration, "configuration")
		if err != nil {
			return err
		}

		var data archive.BackgroundData
		if err := u.reader.BlobJSON(dataLocator, &data); err != nil {
			return err
		}
		var configuration archive.BackgroundConfiguration
		if err := u.reader.BlobJSON(configurationLocator, &configuration); err != nil {
			return err
		}
		image, err := u.issueBlob(imageLocator)
		if err != nil {
			return err
		}
		u.project.Backgrounds[record.name] = project.Background{
			Meta:  record.meta,
			Image: image,
			Data: project.BackgroundData{
				AspectRatio: data.AspectRatio,
				Fit:         data.Fit,
				Color:       data.Color,
			},
			Configuration: project.BackgroundConfiguration{
				Blur: configuration.Blur,
				Mask: configuration.Mask,
			},
		}
		return nil
	}))
}

func (u *UnpackProcess) planEffect(record *unpackRecord, queue *task.Queue) {
	queue.Push(u.step(record, "unpack clips", func() error {
		dataLocator, err := requireLocator(record.summary.Data, "data")
		if err != nil {
			return err
		}
		audioLocator, err := requireLocator(record.summary.Audio, "audio")
		if err != nil {
			return err
		}
		var data archive.EffectData
		if err := u.reader.BlobJSON(dataLocator, &data); err != nil {
			return err
		}
		audio, err := u.reader.Blob(audioLocator)
		if err != nil {
			return err
		}
		container, err := archive.NewReader(audio)
		if err != nil {
			return fmt.Errorf("audio container: %w", err)
		}

		effect := project.Effect{Meta: record.meta, Clips: make([]project.EffectClip, len(data.Clips))}
		for i, clip := range data.Clips {
			clipData, err := container.ReadFile(clip.Filename)
			if err != nil {
				return fmt.Errorf("clip %d: %w", clip.ID, err)
			}
			effect.Clips[i] = project.EffectClip{ID: clip.ID, Audio: u.issue(clipData)}
		}
		u.project.Effects[record.name] = effect
		return nil
	}))
}

func (u *UnpackProcess) planParticle(record *unpackRecord, queue *task.Queue) {
	queue.Push(u.step(record, "unpack texture", func() error {
		locator, err := requireLocator(record.summary.Data, "data")
		if err != nil {
			return err
		}
		var data archive.ParticleData
		if err := u.reader.BlobJSON(locator, &data); err != nil {
			return err
		}
		sprites, err := u.textureSprites(&record.summary, data.Sprites)
		if err != nil {
			return err
		}
		particleData, err := particleProject(data, sprites)
		if err != nil {
			return err
		}
		u.project.Particles[record.name] = project.Particle{Meta: record.meta, Data: particleData}
		return nil
	}))
}

func particleProject(data archive.ParticleData, sprites []handle.Handle) (project.ParticleData, error) {
	result := project.ParticleData{
		Interpolation: data.Interpolation,
		Effects:       make([]project.ParticleEffect, 0, len(data.Effects)),
	}
	for i, effect := range data.Effects {
		decoded := project.ParticleEffect{
			Name:      effect.Name,
			Transform: project.FormatTransform(effect.Transform),
			Groups:    make([]project.ParticleGroup, 0, len(effect.Groups)),
		}
		for j, group := range effect.Groups {
			decodedGroup := project.ParticleGroup{
				Count:     group.Count,
				Particles: make([]project.ParticleSprite, 0, len(group.Particles)),
			}
			for k, leaf := range group.Particles {
				if leaf.Sprite < 0 || leaf.Sprite >= len(sprites) {
					return result, fmt.Errorf("%w: effect %d group %d particle %d references sprite %d of %d",
						archive.ErrCorruptArchive, i, j, k, leaf.Sprite, len(sprites))
				}
				decodedLeaf := project.ParticleSprite{
					Sprite:   sprites[leaf.Sprite],
					Color:    leaf.Color,
					Start:    leaf.Start,
					Duration: leaf.Duration,
				}
				targets := decodedLeaf.Properties()
				for index, property := range leaf.Properties() {
					kind := ease.Type(property.Ease)
					if !kind.Valid() {
						return result, fmt.Errorf("%w: effect %d group %d particle %d %s: unknown ease %q",
							archive.ErrCorruptArchive, i, j, k, project.PropertyNames[index], property.Ease)
					}
					*targets[index] = project.ParsedProperty{From: property.From, To: property.To, Ease: kind}.Format()
				}
				decodedGroup.Particles = append(decodedGroup.Particles, decodedLeaf)
			}
			decoded.Groups = append(decoded.Groups, decodedGroup)
		}
		result.Effects = append(result.Effects, decoded)
	}
	return result, nil
}
