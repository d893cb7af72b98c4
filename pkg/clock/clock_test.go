package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := Real()
	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	c := Real()
	start := c.Now()
	if c.Since(start) < 0 {
		t.Error("Since must not be negative for a past time")
	}
}

func TestFake_Advance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFake(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(time.Hour)
	if got := c.Since(start); got != time.Hour {
		t.Errorf("Since(start) = %v, want 1h", got)
	}
}

func TestFake_After(t *testing.T) {
	c := NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	ch := c.After(time.Minute)

	select {
	case <-ch:
		t.Fatal("After fired before the clock advanced")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before the full duration elapsed")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After did not fire once the duration elapsed")
	}
}

func TestFake_AfterZeroFiresImmediately(t *testing.T) {
	c := NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) must fire without an Advance")
	}
}
