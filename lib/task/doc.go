// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package task runs a growing list of work items strictly in order.
//
// A [Queue] is a FIFO of [Task] values drained by a single worker.
// A task may push more tasks while it runs; they go to the back of the
// queue and run after everything already queued. [Queue.Drain] runs
// until the queue is empty, the context is cancelled, or a task fails.
// Task N+1 never starts before task N returns, so tasks in one chain
// can hand results to each other through shared records without
// locking.
//
// Each executed task is timed with the queue's clock and logged at
// Debug level. A failed task is reported as an [*Error] naming the
// task; errors.Is and errors.As see through it to the task's own error.
package task
