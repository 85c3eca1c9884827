package lfchan

import (
	"sync"
	"testing"
	"time"
)

// Scenario 5: Spin. Send 57, receive 57, then TryReceive reports
// ErrReceiverClosed and a further Send reports ErrSenderClosed.
func TestOneShotSendReceiveThenClosed(t *testing.T) {
	tx, rx := NewOneShot[int]()
	defer tx.Close()
	defer rx.Close()

	if err := tx.Send(57); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	v, err := rx.TryReceive()
	if err != nil || v != 57 {
		t.Fatalf("expected (57, nil), got (%d, %v)", v, err)
	}

	if _, err := rx.TryReceive(); err != ErrReceiverClosed {
		t.Fatalf("expected ErrReceiverClosed on second TryReceive, got %v", err)
	}
	if err := tx.Send(58); err != ErrSenderClosed {
		t.Fatalf("expected ErrSenderClosed on second Send, got %v", err)
	}
}

// Scenario 6: AtomicWait. A receiver blocked on Receive must wake once a
// delayed Send arrives.
func TestOneShotAtomicWaitWakesBlockedReceiver(t *testing.T) {
	tx, rx := NewOneShot[string](WithOneShotWait(AtomicWait))
	defer tx.Close()
	defer rx.Close()

	result := make(chan string, 1)
	go func() {
		result <- rx.Receive()
	}()

	time.Sleep(20 * time.Millisecond)
	if err := tx.Send("ready"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case v := <-result:
		if v != "ready" {
			t.Fatalf("expected %q, got %q", "ready", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("blocked receiver never woke up")
	}
}

// TryReceive on an unsent channel must report ErrChannelEmpty, not
// ErrReceiverClosed.
func TestOneShotTryReceiveBeforeSendIsEmpty(t *testing.T) {
	tx, rx := NewOneShot[int]()
	defer tx.Close()
	defer rx.Close()

	if _, err := rx.TryReceive(); err != ErrChannelEmpty {
		t.Fatalf("expected ErrChannelEmpty, got %v", err)
	}
}

// IsClosed must be false until a sent value is actually received, then
// stay true thereafter.
func TestOneShotIsClosedTracksReceivedState(t *testing.T) {
	tx, rx := NewOneShot[int]()
	defer tx.Close()
	defer rx.Close()

	if rx.IsClosed() {
		t.Fatal("expected IsClosed false before send")
	}
	tx.Send(1)
	if rx.IsClosed() {
		t.Fatal("expected IsClosed false after send but before receive")
	}
	rx.TryReceive()
	if !rx.IsClosed() {
		t.Fatal("expected IsClosed true after receive")
	}
}

// A value that was sent but never received must be destroyed exactly
// once at teardown; a value that was received must never be destroyed.
func TestOneShotTeardownDestroysUnreceivedValue(t *testing.T) {
	var mu sync.Mutex
	var destroyed []int

	tx, rx := NewOneShot[destroyCounter]()
	tx.Send(destroyCounter{id: 42, mu: &mu, log: &destroyed})
	tx.Close()
	rx.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(destroyed) != 1 || destroyed[0] != 42 {
		t.Fatalf("expected exactly one destroy of id 42, got %v", destroyed)
	}
}

func TestOneShotTeardownDoesNotDestroyReceivedValue(t *testing.T) {
	var mu sync.Mutex
	var destroyed []int

	tx, rx := NewOneShot[destroyCounter]()
	tx.Send(destroyCounter{id: 7, mu: &mu, log: &destroyed})
	rx.TryReceive()
	tx.Close()
	rx.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(destroyed) != 0 {
		t.Fatalf("expected no destroy of a delivered value, got %v", destroyed)
	}
}

// Receive called a second time, after a value has already been
// received, is a protocol violation and must panic.
func TestOneShotReceiveTwicePanics(t *testing.T) {
	tx, rx := NewOneShot[int]()
	defer tx.Close()
	defer rx.Close()

	tx.Send(1)
	rx.Receive()

	defer func() {
		if recover() == nil {
			t.Fatal("expected second Receive to panic")
		}
	}()
	rx.Receive()
}
