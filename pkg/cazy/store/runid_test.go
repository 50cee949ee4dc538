package store

import (
	"testing"
	"time"
)

func TestNewRunIDOrdered(t *testing.T) {
	now := time.Now()
	a := NewRunID(now)
	b := NewRunID(now)
	c := NewRunID(now.Add(time.Second))

	if !(a < b && b < c) {
		t.Errorf("Run ids should sort by creation: %s %s %s", a, b, c)
	}
	if len(a) != 26 {
		t.Errorf("Expected 26-character ULID, got %q", a)
	}
}

func TestRunTime(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	got, err := RunTime(NewRunID(now))
	if err != nil {
		t.Fatalf("RunTime: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("RunTime = %v, want %v", got, now)
	}

	if _, err := RunTime("not-a-ulid"); err == nil {
		t.Error("Expected error for invalid id")
	}
}
