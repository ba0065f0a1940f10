// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/contentpack/lib/clock"
)

// Task is one unit of deferred work.
type Task struct {
	// Description names the task in logs, progress output and errors.
	Description string

	// Execute performs the work. It may push follow-up tasks onto
	// queue.
	Execute func(ctx context.Context, queue *Queue) error
}

// Record is the timing of one completed task.
type Record struct {
	Index       int
	Description string
	Duration    time.Duration
}

// Progress reports a completed task. Total counts completed plus
// pending tasks at the moment of the report, so it can grow as tasks
// push more work.
type Progress struct {
	Record
	Total int
}

// Error wraps the failure of a single task.
type Error struct {
	Index       int
	Description string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("task %d (%s): %v", e.Index, e.Description, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures a Queue.
type Options struct {
	// Logger receives a Debug record per task. Nil discards.
	Logger *slog.Logger

	// Clock times tasks. Nil selects clock.Real().
	Clock clock.Clock

	// OnProgress, if set, is called after every successful task.
	OnProgress func(Progress)
}

// Queue is a FIFO of tasks. It is not safe for concurrent use: only
// the draining goroutine and the tasks it runs may touch it.
type Queue struct {
	logger     *slog.Logger
	clock      clock.Clock
	onProgress func(Progress)

	pending []Task
	head    int
	records []Record
}

// NewQueue creates an empty queue.
func NewQueue(options Options) *Queue {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := options.Clock
	if c == nil {
		c = clock.Real()
	}
	return &Queue{
		logger:     logger,
		clock:      c,
		onProgress: options.OnProgress,
	}
}

// Push appends tasks to the back of the queue.
func (q *Queue) Push(tasks ...Task) {
	for _, t := range tasks {
		if t.Execute == nil {
			panic(fmt.Sprintf("task: %q has no Execute function", t.Description))
		}
	}
	q.pending = append(q.pending, tasks...)
}

// Len returns the number of tasks not yet started.
func (q *Queue) Len() int { return len(q.pending) - q.head }

// Completed returns the number of tasks that finished successfully.
func (q *Queue) Completed() int { return len(q.records) }

// Records returns the timings of completed tasks in execution order.
func (q *Queue) Records() []Record {
	records := make([]Record, len(q.records))
	copy(records, q.records)
	return records
}

// Pending returns the descriptions of tasks not yet started.
func (q *Queue) Pending() []string {
	descriptions := make([]string, 0, q.Len())
	for _, t := range q.pending[q.head:] {
		descriptions = append(descriptions, t.Description)
	}
	return descriptions
}

// Discard drops every pending task.
func (q *Queue) Discard() {
	clear(q.pending)
	q.pending = q.pending[:0]
	q.head = 0
}

func (q *Queue) pop() Task {
	next := q.pending[q.head]
	q.pending[q.head] = Task{}
	q.head++
	if q.head == len(q.pending) {
		q.pending = q.pending[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.pending) {
		remaining := copy(q.pending, q.pending[q.head:])
		clear(q.pending[remaining:])
		q.pending = q.pending[:remaining]
		q.head = 0
	}
	return next
}

// Drain runs tasks until the queue is empty. It checks ctx before each
// task and stops at the first failure, leaving the remaining tasks
// pending.
func (q *Queue) Drain(ctx context.Context) error {
	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("draining task queue with %d pending: %w", q.Len(), err)
		}

		index := len(q.records)
		next := q.pop()
		start := q.clock.Now()
		err := next.Execute(ctx, q)
		duration := q.clock.Since(start)
		if err != nil {
			q.logger.Debug("task failed",
				"task", next.Description,
				"index", index,
				"duration", duration,
				"error", err,
			)
			return &Error{Index: index, Description: next.Description, Err: err}
		}

		record := Record{Index: index, Description: next.Description, Duration: duration}
		q.records = append(q.records, record)
		q.logger.Debug("task completed",
			"task", next.Description,
			"index", index,
			"duration", duration,
		)
		if q.onProgress != nil {
			q.onProgress(Progress{Record: record, Total: len(q.records) + q.Len()})
		}
	}
	return nil
}
