// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package packer converts a project into a content archive and back.
//
// Packing and unpacking are both modelled as a [task.Queue] drained by
// a single worker. [NewPackProcess] seeds the queue with one linear
// chain per item, in kind order (skins, backgrounds, effects,
// particles) and by sorted name within a kind. A chain stores the
// item's raw assets, builds its atlas or data documents, and finally
// records its details. Effects discover their clips at run time and
// push one task per clip, a task that assembles the audio
// sub-container, and the details writer. Once the queue is empty the
// process writes the package marker, info, list and details documents
// and every referenced blob into the zip container. A failing task
// aborts the process and no archive is exposed.
//
// [NewUnpackProcess] mirrors this: it checks the package marker, reads
// the info document and each kind's list (a missing list is an empty
// kind), then pushes per-item chains that fetch details, verify every
// blob against its locator, slice atlases back into per-sprite PNG
// images, and format coefficient vectors back into display equations.
// Every asset is issued into the caller's handle registry; if the
// process fails or is cancelled, all handles it issued are released.
//
// Neither process mutates its input. The blob store may be shared
// between pack processes to deduplicate assets across projects; each
// archive only contains the blobs its own project references.
package packer
