// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/task"
)

// processState tracks a process through its single run.
type processState int

const (
	statePending processState = iota
	stateRunning
	stateSucceeded
	stateFailed
)

// errNotFinished is returned when results are requested before a
// successful Run.
var errNotFinished = errors.New("process has not completed successfully")

// itemRecord is the in-flight state of one item's task chain. Earlier
// tasks in the chain fill the summary; the details task publishes it.
type itemRecord struct {
	kind        project.Kind
	name        string
	summary     archive.Summary
	description string
}

func (r *itemRecord) label(step string) string {
	return string(r.kind) + "/" + r.name + ": " + step
}

// PackProcess converts one project into an archive.
type PackProcess struct {
	source  *project.Project
	options Options
	logger  *slog.Logger
	queue   *task.Queue

	referenced    []blobstore.Hash
	referencedSet map[blobstore.Hash]struct{}
	info          archive.Info
	published     map[project.Kind][]*itemRecord

	state   processState
	archive []byte
}

// NewPackProcess prepares the task list for packing p. The project is
// cloned, so later edits to p do not affect the process.
func NewPackProcess(p *project.Project, options Options) *PackProcess {
	options = options.withDefaults()
	process := &PackProcess{
		source:        p.Clone(),
		options:       options,
		logger:        options.Logger,
		queue:         options.newQueue(),
		referencedSet: make(map[blobstore.Hash]struct{}),
		published:     make(map[project.Kind][]*itemRecord),
	}
	process.plan()
	return process
}

// Tasks returns the descriptions of tasks not yet run. Before Run this
// is the initial task list; effects add more tasks while running.
func (p *PackProcess) Tasks() []string { return p.queue.Pending() }

// Store returns the blob store the process writes to.
func (p *PackProcess) Store() *blobstore.Store { return p.options.Store }

// Records returns the timings of completed tasks.
func (p *PackProcess) Records() []task.Record { return p.queue.Records() }

// Run drains the task list and assembles the archive. A process runs at
// most once.
func (p *PackProcess) Run(ctx context.Context) error {
	if p.state != statePending {
		return fmt.Errorf("pack process already ran")
	}
	p.state = stateRunning
	start := p.options.Clock.Now()

	if err := p.run(ctx); err != nil {
		p.state = stateFailed
		p.queue.Discard()
		p.archive = nil
		return fmt.Errorf("packing %q: %w", p.source.Title, err)
	}
	p.state = stateSucceeded
	p.logger.Info("packed archive",
		"title", p.source.Title,
		"tasks", p.queue.Completed(),
		"blobs", len(p.referenced),
		"bytes", len(p.archive),
		"duration", p.options.Clock.Since(start),
	)
	return nil
}

func (p *PackProcess) run(ctx context.Context) error {
	if p.options.Registry == nil {
		return fmt.Errorf("%w: no handle registry", ErrMissingResource)
	}
	if err := p.queue.Drain(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.finalize()
}

// Archive returns the archive bytes of a successful run.
func (p *PackProcess) Archive() ([]byte, error) {
	if p.state != stateSucceeded {
		return nil, errNotFinished
	}
	return p.archive, nil
}

// Pack packs p in one call.
func Pack(ctx context.Context, p *project.Project, options Options) ([]byte, error) {
	process := NewPackProcess(p, options)
	if err := process.Run(ctx); err != nil {
		return nil, err
	}
	return process.Archive()
}

// plan seeds the queue. Kind order is fixed; names sort within a kind.
func (p *PackProcess) plan() {
	p.queue.Push(task.Task{
		Description: "validate project",
		Execute: func(context.Context, *task.Queue) error {
			return p.source.Validate()
		},
	})
	if !p.source.Banner.IsZero() {
		p.queue.Push(task.Task{
			Description: "store banner",
			Execute: func(context.Context, *task.Queue) error {
				locator, err := p.storeAsset(p.source.Banner, "banner", archive.ResourceServerBanner)
				if err != nil {
					return err
				}
				p.info.Banner = locator
				return nil
			},
		})
	}
	for _, name := range project.Names(p.source.Skins) {
		p.planSkin(p.source.Skins[name])
	}
	for _, name := range project.Names(p.source.Backgrounds) {
		p.planBackground(p.source.Backgrounds[name])
	}
	for _, name := range project.Names(p.source.Effects) {
		p.planEffect(p.source.Effects[name])
	}
	for _, name := range project.Names(p.source.Particles) {
		p.planParticle(p.source.Particles[name])
	}
}

func newItemRecord(kind project.Kind, meta project.Meta, version int) *itemRecord {
	tags := make([]archive.Tag, 0, len(meta.Tags))
	for _, tag := range meta.Tags {
		tags = append(tags, archive.Tag{Title: tag})
	}
	return &itemRecord{
		kind: kind,
		name: meta.Name,
		summary: archive.Summary{
			Name:     meta.Name,
			Version:  version,
			Title:    meta.Title,
			Subtitle: meta.Subtitle,
			Author:   meta.Author,
			Tags:     tags,
		},
		description: meta.Description,
	}
}

// step builds a task in record's chain.
func (p *PackProcess) step(record *itemRecord, label string, run func() error) task.Task {
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

func (p *PackProcess) thumbnailStep(record *itemRecord, thumbnail handle.Handle, resourceType string) task.Task {
	return p.step(record, "store thumbnail", func() error {
		locator, err := p.storeAsset(thumbnail, "thumbnail", resourceType)
		if err != nil {
			return err
		}
		record.summary.Thumbnail = locator
		return nil
	})
}

func (p *PackProcess) detailsStep(record *itemRecord) task.Task {
	return p.step(record, "write details", func() error {
		p.published[record.kind] = append(p.published[record.kind], record)
		return nil
	})
}

// asset resolves a handle to its bytes.
func (p *PackProcess) asset(h handle.Handle, what string) ([]byte, error) {
	if h.IsZero() {
		return nil, fmt.Errorf("%w: %s is not set", ErrMissingResource, what)
	}
	data, err := p.options.Registry.Bytes(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingResource, what, err)
	}
	return data, nil
}

func (p *PackProcess) reference(hash blobstore.Hash) {
	if _, seen := p.referencedSet[hash]; seen {
		return
	}
	p.referencedSet[hash] = struct{}{}
	p.referenced = append(p.referenced, hash)
}

func (p *PackProcess) putBytes(data []byte, resourceType string) *blobstore.Locator {
	hash := p.options.Store.Put(data)
	p.reference(hash)
	locator := blobstore.NewLocator(resourceType, hash)
	return &locator
}

func (p *PackProcess) putJSON(value any, resourceType string) (*blobstore.Locator, error) {
	hash, err := p.options.Store.PutJSON(value)
	if err != nil {
		return nil, fmt.Errorf("storing %s: %w", resourceType, err)
	}
	p.reference(hash)
	locator := blobstore.NewLocator(resourceType, hash)
	return &locator, nil
}

func (p *PackProcess) storeAsset(h handle.Handle, what, resourceType string) (*blobstore.Locator, error) {
	data, err := p.asset(h, what)
	if err != nil {
		return nil, err
	}
	return p.putBytes(data, resourceType), nil
}

// finalize writes every document and referenced blob into the
// container.
func (p *PackProcess) finalize() error {
	var buffer bytes.Buffer
	writer := archive.NewWriter(&buffer)

	if err := writer.WriteJSON(archive.PackagePath, archive.Package{ShouldUpdate: false}); err != nil {
		return err
	}
	p.info.Title = p.source.Title
	p.info.Description = p.source.Description
	if err := writer.WriteJSON(archive.InfoPath, p.info); err != nil {
		return err
	}

	for _, kind := range project.Kinds() {
		records := p.published[kind]
		if len(records) == 0 {
			continue
		}
		slices.SortFunc(records, func(a, b *itemRecord) int { return strings.Compare(a.name, b.name) })
		list := archive.List{PageCount: 1, Items: make([]archive.Summary, 0, len(records))}
		for _, record := range records {
			list.Items = append(list.Items, record.summary)
		}
		if err := writer.WriteJSON(archive.ListPath(string(kind)), list); err != nil {
			return err
		}
		for _, record := range records {
			details := archive.Details{Item: record.summary, Description: record.description}
			if err := writer.WriteJSON(archive.ItemPath(string(kind), record.name), details); err != nil {
				return err
			}
		}
	}

	for _, hash := range p.referenced {
		data, err := p.options.Store.Get(hash)
		if err != nil {
			return fmt.Errorf("writing repository: %w", err)
		}
		if err := writer.Store(archive.RepositoryPath(hash), data); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return err
	}
	p.archive = buffer.Bytes()
	return nil
}
