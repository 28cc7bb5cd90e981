package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	early := f.After(time.Second)
	late := f.After(3 * time.Second)

	f.Advance(2 * time.Second)

	select {
	case got := <-early:
		if !got.Equal(start.Add(2 * time.Second)) {
			t.Fatalf("unexpected fire time %v", got)
		}
	default:
		t.Fatalf("expected early timer to fire")
	}

	select {
	case <-late:
		t.Fatalf("late timer fired too soon")
	default:
	}

	if f.Waiters() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", f.Waiters())
	}
}

func TestFakeBlockUntil(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	go func() {
		<-f.After(time.Minute)
	}()

	if !f.BlockUntil(1, time.Second) {
		t.Fatalf("expected a pending timer")
	}
	f.Advance(time.Minute)
	if f.Waiters() != 0 {
		t.Fatalf("expected no pending timers")
	}
}

func TestFakeNonPositiveDurationFiresImmediately(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	select {
	case <-f.After(0):
	default:
		t.Fatalf("expected zero-duration timer to fire immediately")
	}
}
