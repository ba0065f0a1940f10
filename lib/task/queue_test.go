// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/contentpack/lib/clock"
)

func record(log *[]string, name string) Task {
	return Task{Description: name, Execute: func(context.Context, *Queue) error {
		*log = append(*log, name)
		return nil
	}}
}

func TestDrainRunsPushedTasksAfterQueued(t *testing.T) {
	var log []string
	queue := NewQueue(Options{})
	queue.Push(
		Task{Description: "discover", Execute: func(_ context.Context, q *Queue) error {
			log = append(log, "discover")
			q.Push(record(&log, "clip 0"), record(&log, "clip 1"))
			return nil
		}},
		record(&log, "already queued"),
	)

	if err := queue.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"discover", "already queued", "clip 0", "clip 1"}
	if !slices.Equal(log, want) {
		t.Errorf("execution order %v, want %v", log, want)
	}
	if queue.Completed() != 4 || queue.Len() != 0 {
		t.Errorf("Completed = %d, Len = %d", queue.Completed(), queue.Len())
	}
}

func TestDrainStopsAtFirstError(t *testing.T) {
	var log []string
	sentinel := errors.New("decode failed")
	queue := NewQueue(Options{})
	queue.Push(
		record(&log, "first"),
		Task{Description: "broken", Execute: func(context.Context, *Queue) error { return sentinel }},
		record(&log, "never"),
	)

	err := queue.Drain(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("Drain: got %v, want wrapped sentinel", err)
	}
	var taskErr *Error
	if !errors.As(err, &taskErr) || taskErr.Description != "broken" || taskErr.Index != 1 {
		t.Errorf("task error = %+v", taskErr)
	}
	if !slices.Equal(log, []string{"first"}) {
		t.Errorf("ran %v after failure", log)
	}
	if !slices.Equal(queue.Pending(), []string{"never"}) {
		t.Errorf("Pending = %v", queue.Pending())
	}
	queue.Discard()
	if queue.Len() != 0 {
		t.Errorf("Len after Discard = %d", queue.Len())
	}
}

func TestDrainHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var log []string
	queue := NewQueue(Options{})
	queue.Push(
		Task{Description: "cancel", Execute: func(context.Context, *Queue) error {
			cancel()
			return nil
		}},
		record(&log, "after cancel"),
	)
	err := queue.Drain(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Drain: got %v, want context.Canceled", err)
	}
	if len(log) != 0 {
		t.Errorf("task ran after cancellation: %v", log)
	}
}

func TestDrainTimesTasks(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var progress []Progress
	queue := NewQueue(Options{Clock: fake, OnProgress: func(p Progress) { progress = append(progress, p) }})
	queue.Push(Task{Description: "slow", Execute: func(_ context.Context, q *Queue) error {
		fake.Advance(250 * time.Millisecond)
		q.Push(Task{Description: "fast", Execute: func(context.Context, *Queue) error { return nil }})
		return nil
	}})
	if err := queue.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	records := queue.Records()
	if len(records) != 2 || records[0].Duration != 250*time.Millisecond || records[1].Duration != 0 {
		t.Errorf("records = %+v", records)
	}
	if len(progress) != 2 || progress[0].Total != 2 || progress[1].Total != 2 {
		t.Errorf("progress = %+v", progress)
	}
}

func TestLongQueueCompacts(t *testing.T) {
	queue := NewQueue(Options{})
	count := 0
	var push func(n int) Task
	push = func(n int) Task {
		return Task{Description: fmt.Sprint(n), Execute: func(_ context.Context, q *Queue) error {
			count++
			if n < 1000 {
				q.Push(push(n + 1))
			}
			return nil
		}}
	}
	for i := range 100 {
		queue.Push(push(i * 1000))
	}
	queue.Push(push(0))
	if err := queue.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Two chains of 1001 from n=0, plus 99 tasks that start at or past
	// the limit.
	if count != 2*1001+99 {
		t.Errorf("ran %d tasks, want %d", count, 2*1001+99)
	}
}

func TestPushRejectsNilExecute(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Push accepted a task without Execute")
		}
	}()
	NewQueue(Options{}).Push(Task{Description: "empty"})
}
