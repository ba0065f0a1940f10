// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"errors"
	"log/slog"

	"github.com/bureau-foundation/contentpack/lib/atlas"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/clock"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/imagecodec"
	"github.com/bureau-foundation/contentpack/lib/task"
)

// ErrMissingResource is returned when a project references an asset
// with no backing bytes.
var ErrMissingResource = errors.New("missing resource")

// Options carries every collaborator of a pack or unpack process.
type Options struct {
	// Registry resolves handles when packing and issues them when
	// unpacking. Required.
	Registry *handle.Registry

	// Store receives blobs when packing. Nil creates a private store.
	// Share one store between processes to deduplicate across them.
	Store *blobstore.Store

	// Decoder decodes sprite images. Nil selects imagecodec.Default().
	Decoder imagecodec.Decoder

	// Atlas bounds the sprite atlas size.
	Atlas atlas.Options

	// Logger receives per-task Debug records and an Info summary.
	// Nil discards.
	Logger *slog.Logger

	// Clock times tasks. Nil selects clock.Real().
	Clock clock.Clock

	// OnProgress is called after every completed task.
	OnProgress func(task.Progress)
}

func (o Options) withDefaults() Options {
	if o.Store == nil {
		o.Store = blobstore.NewStore(blobstore.Options{})
	}
	if o.Decoder == nil {
		o.Decoder = imagecodec.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	return o
}

func (o Options) newQueue() *task.Queue {
	return task.NewQueue(task.Options{
		Logger:     o.Logger,
		Clock:      o.Clock,
		OnProgress: o.OnProgress,
	})
}
