// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps or measures time accepts a Clock instead of calling
// time.Now directly. Production wiring passes Real(); tests pass a
// FakeClock, which only moves when told to:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.SetStep(10 * time.Millisecond) // every Now() advances by 10ms
//	queue := task.NewQueue(task.Options{Clock: c})
//
// The pack/unpack task queue uses the clock to time each task, and the
// workspace stamps snapshot metadata with it, so both produce
// reproducible output under a fake clock.
package clock
