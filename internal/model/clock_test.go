package model

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(time.Minute)
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(20 * time.Second)
	if got := c.GetTimeLeft(); got != 40*time.Second {
		t.Errorf("running GetTimeLeft() = %v, want 40s", got)
	}
	c.Stop()
	now = now.Add(time.Hour)
	if got := c.GetTimeLeft(); got != 40*time.Second {
		t.Errorf("stopped GetTimeLeft() = %v, want 40s", got)
	}
	if got := c.deciseconds(); got != 400 {
		t.Errorf("deciseconds() = %d, want 400", got)
	}

	c.Start()
	now = now.Add(41 * time.Second)
	if !c.Expired() {
		t.Error("Expired() = false after running out")
	}
	if got := c.deciseconds(); got != 0 {
		t.Errorf("deciseconds() = %d, want 0", got)
	}
}
