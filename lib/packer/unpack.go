// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/task"
)

// UnpackProcess rebuilds a project from an archive.
type UnpackProcess struct {
	data    []byte
	options Options
	logger  *slog.Logger
	queue   *task.Queue

	reader  *archive.Reader
	project *project.Project
	issued  []handle.Handle
	state   processState
}

// NewUnpackProcess prepares the task list for unpacking data. Item
// tasks are discovered while running, from the archive's lists.
func NewUnpackProcess(data []byte, options Options) *UnpackProcess {
	options = options.withDefaults()
	process := &UnpackProcess{
		data:    data,
		options: options,
		logger:  options.Logger,
		queue:   options.newQueue(),
		project: project.New(""),
	}
	process.plan()
	return process
}

// Tasks returns the descriptions of tasks not yet run.
func (u *UnpackProcess) Tasks() []string { return u.queue.Pending() }

// Records returns the timings of completed tasks.
func (u *UnpackProcess) Records() []task.Record { return u.queue.Records() }

// Run drains the task list. On failure or cancellation every handle the
// process issued is released and no project is exposed.
func (u *UnpackProcess) Run(ctx context.Context) error {
	if u.state != statePending {
		return fmt.Errorf("unpack process already ran")
	}
	u.state = stateRunning
	start := u.options.Clock.Now()

	err := u.run(ctx)
	if err != nil {
		u.state = stateFailed
		u.queue.Discard()
		released := 0
		if u.options.Registry != nil {
			released = u.options.Registry.ReleaseAll(u.issued)
		}
		u.issued = nil
		u.project = nil
		u.logger.Debug("unpack failed, released handles", "released", released)
		return fmt.Errorf("unpacking archive: %w", err)
	}
	u.state = stateSucceeded
	u.logger.Info("unpacked archive",
		"title", u.project.Title,
		"tasks", u.queue.Completed(),
		"handles", len(u.issued),
		"duration", u.options.Clock.Since(start),
	)
	return nil
}

func (u *UnpackProcess) run(ctx context.Context) error {
	if u.options.Registry == nil {
		return fmt.Errorf("%w: no handle registry", ErrMissingResource)
	}
	if err := u.queue.Drain(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// Project returns the project of a successful run.
func (u *UnpackProcess) Project() (*project.Project, error) {
	if u.state != stateSucceeded {
		return nil, errNotFinished
	}
	return u.project, nil
}

// Unpack unpacks data in one call.
func Unpack(ctx context.Context, data []byte, options Options) (*project.Project, error) {
	process := NewUnpackProcess(data, options)
	if err := process.Run(ctx); err != nil {
		return nil, err
	}
	return process.Project()
}

func (u *UnpackProcess) plan() {
	u.queue.Push(
		task.Task{
			Description: "open archive",
			Execute: func(context.Context, *task.Queue) error {
				reader, err := archive.NewReader(u.data)
				if err != nil {
					return err
				}
				if err := reader.CheckPackage(); err != nil {
					return err
				}
				u.reader = reader
				return nil
			},
		},
		task.Task{
			Description: "read info",
			Execute: func(context.Context, *task.Queue) error {
				var info archive.Info
				if err := u.reader.ReadJSON(archive.InfoPath, &info); err != nil {
					return err
				}
				u.project.Title = info.Title
				u.project.Description = info.Description
				if info.Banner != nil {
					banner, err := u.issueBlob(*info.Banner)
					if err != nil {
						return fmt.Errorf("banner: %w", err)
					}
					u.project.Banner = banner
				}
				return nil
			},
		},
	)
	for _, kind := range project.Kinds() {
		u.queue.Push(task.Task{
			Description: "read " + string(kind) + " list",
			Execute: func(_ context.Context, queue *task.Queue) error {
				return u.readList(kind, queue)
			},
		})
	}
}

// readList queues one chain per listed item. An absent list is an
// empty kind.
func (u *UnpackProcess) readList(kind project.Kind, queue *task.Queue) error {
	path := archive.ListPath(string(kind))
	if !u.reader.Has(path) {
		return nil
	}
	var list archive.List
	if err := u.reader.ReadJSON(path, &list); err != nil {
		return err
	}
	seen := make(map[string]bool, len(list.Items))
	for _, item := range list.Items {
		if item.Name == "" || seen[item.Name] {
			return fmt.Errorf("%w: %s list has empty or duplicate name %q", archive.ErrCorruptArchive, kind, item.Name)
		}
		seen[item.Name] = true
		u.planItem(kind, item.Name, queue)
	}
	return nil
}

// issueBlob fetches a verified blob and issues a handle for it.
func (u *UnpackProcess) issueBlob(locator blobstore.Locator) (handle.Handle, error) {
	data, err := u.reader.Blob(locator)
	if err != nil {
		return "", err
	}
	return u.issue(data), nil
}

func (u *UnpackProcess) issue(data []byte) handle.Handle {
	h := u.options.Registry.Issue(data)
	u.issued = append(u.issued, h)
	return h
}

// requireLocator dereferences a summary locator that must be present.
func requireLocator(locator *blobstore.Locator, field string) (blobstore.Locator, error) {
	if locator == nil {
		return blobstore.Locator{}, fmt.Errorf("%w: summary has no %s", archive.ErrCorruptArchive, field)
	}
	return *locator, nil
}
