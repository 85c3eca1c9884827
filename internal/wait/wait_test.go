package wait

import (
	"testing"
	"time"
)

func TestStrategyString(t *testing.T) {
	cases := map[Strategy]string{Spin: "Spin", Yield: "Yield", AtomicWait: "AtomicWait", Strategy(99): "Strategy(?)"}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Strategy(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestBackoffDoesNotPanic(t *testing.T) {
	for _, s := range []Strategy{Spin, Yield, AtomicWait} {
		for _, spins := range []uint32{0, 1, 40, 1000} {
			Backoff(s, spins)
		}
	}
}

func TestNotifierParkBlocksUntilNotify(t *testing.T) {
	n := NewNotifier()
	done := make(chan struct{})
	go func() {
		n.Park()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Park returned before Notify was called")
	case <-time.After(20 * time.Millisecond):
	}

	n.Notify()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Park did not return after Notify")
	}
}

func TestNotifierNotifyBeforeParkIsNotLost(t *testing.T) {
	n := NewNotifier()
	n.Notify()

	done := make(chan struct{})
	go func() {
		n.Park()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Park blocked despite an earlier Notify")
	}
}

func TestNotifierNotifyWithoutWaiterDoesNotBlock(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify() // second call must not block even though the buffer is full
}
