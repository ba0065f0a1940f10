// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeStandsStill(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) || !c.Now().Equal(epoch) {
		t.Error("fake clock moved without Advance")
	}
}

func TestFakeAdvanceAndSet(t *testing.T) {
	c := Fake(epoch)
	c.Advance(3 * time.Second)
	if got := c.Since(epoch); got != 3*time.Second {
		t.Errorf("Since after Advance(3s) = %v", got)
	}
	c.Set(epoch.Add(-time.Hour))
	if got := c.Now(); !got.Equal(epoch.Add(-time.Hour)) {
		t.Errorf("Now after Set = %v", got)
	}
}

func TestFakeStep(t *testing.T) {
	c := Fake(epoch)
	c.SetStep(10 * time.Millisecond)
	start := c.Now()
	if got := c.Since(start); got != 10*time.Millisecond {
		t.Errorf("Since with 10ms step = %v, want 10ms", got)
	}
	if got := c.Now(); !got.Equal(epoch.Add(20 * time.Millisecond)) {
		t.Errorf("third Now = %v, want epoch+20ms", got)
	}
}

func TestFakeAdvanceNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Advance(-1) did not panic")
		}
	}()
	Fake(epoch).Advance(-1)
}

func TestRealSince(t *testing.T) {
	c := Real()
	if c.Since(c.Now()) < 0 {
		t.Error("real clock went backwards")
	}
}
