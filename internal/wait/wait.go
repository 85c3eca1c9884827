// Package wait implements the retry-delay policies that turn the
// channels in lfchan's non-blocking Try* operations into blocking ones.
//
// Go's sync/atomic has no equivalent of a futex-style wait/notify pair,
// so AtomicWait is built on a single-slot buffered channel instead of a
// futex word — the standard channel-backed single-waiter condition
// variable idiom.
package wait

import (
	"runtime"

	"github.com/valyala/fastrand"
)

// Strategy selects how a blocking operation delays between failed retries
// of its underlying Try* primitive.
type Strategy uint8

const (
	// Spin busy-loops with no syscall and no scheduler yield: lowest
	// latency, highest CPU. Required companion for OverwriteOnFull, since
	// parking or yielding while the producer keeps relocating the
	// boundary being waited on is meaningless.
	Spin Strategy = iota

	// Yield hands the scheduler a cooperative runtime.Gosched() between
	// retries, with a small randomized extra spin count under sustained
	// contention so a producer and consumer that keep narrowly missing
	// each other don't settle into a synchronized polling cadence.
	Yield

	// AtomicWait parks on a Notifier between retries instead of polling,
	// at the cost of a channel operation per park/notify pair. Best for
	// waits expected to be long.
	AtomicWait
)

// String renders the strategy for diagnostics and panic messages.
func (s Strategy) String() string {
	switch s {
	case Spin:
		return "Spin"
	case Yield:
		return "Yield"
	case AtomicWait:
		return "AtomicWait"
	default:
		return "Strategy(?)"
	}
}

// jitterThreshold is the spin count after which Yield starts adding
// randomized extra Gosched calls instead of one per retry.
const jitterThreshold = 32

// Backoff executes one retry delay for s. spins is the number of
// consecutive failed attempts on this loop before the current one (the
// caller increments it after calling Backoff); Spin ignores it entirely.
// AtomicWait ignores it too — callers blocking under AtomicWait should
// call a Notifier's Park method directly instead of Backoff, since the
// delay needs to be tied to a specific peer, not a strategy value alone.
func Backoff(s Strategy, spins uint32) {
	switch s {
	case Spin:
		// Nothing: the retried Try* call's own atomic loads already act
		// as the compiler barrier the source's busy loop relies on.
	case Yield:
		runtime.Gosched()
		if spins > jitterThreshold {
			extra := fastrand.Uint32n(spins - jitterThreshold)
			for i := uint32(0); i < extra; i++ {
				runtime.Gosched()
			}
		}
	case AtomicWait:
		runtime.Gosched()
	}
}

// Notifier is a single-slot wakeup channel standing in for a futex word.
// One side calls Notify after publishing; the other parks on Park while
// waiting for that publish. The one-slot buffer means a Notify that lands
// before its matching Park is never lost: Park simply drains the buffered
// token immediately instead of blocking.
type Notifier struct {
	ping chan struct{}
}

// NewNotifier returns a ready-to-use Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ping: make(chan struct{}, 1)}
}

// Notify wakes a parked waiter, if any is or later becomes parked. Never
// blocks; a Notify with no corresponding Park simply leaves a token
// buffered for the next Park call.
func (n *Notifier) Notify() {
	select {
	case n.ping <- struct{}{}:
	default:
	}
}

// Park blocks until the next Notify call (or returns immediately if one
// already landed since the last Park).
func (n *Notifier) Park() {
	<-n.ping
}
