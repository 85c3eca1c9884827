// Package lfchan implements lock-free single-producer/single-consumer
// channels: a bounded ring-buffer channel (SPSC) and a single-value
// one-shot channel. Both are built on an internal Arc cell so the
// sender and receiver halves can be dropped independently, and both are
// parameterized by a pluggable wait strategy for the blocking Send and
// Receive paths.
package lfchan

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"lfchan/internal/arc"
	"lfchan/internal/wait"
)

// spscInner is the shared control block behind one SPSC channel. Sender and
// receiver each hold an Arc handle to the same inner; the inner is only
// torn down once both handles have dropped their reference.
//
// Cursor fields are grouped onto separate cache lines by role, not by
// field order alone: sendCursor is written only by the producer (the one
// exception, the OverwriteOnFull eviction store into recvCursor, is
// explained at trySend) and read by the consumer; recvCursor is written
// only by the consumer (or by the producer under OverwriteOnFull) and read
// by the producer. Each side also keeps a private cached shadow of the
// other side's cursor so the hot-path full/empty check usually touches
// only its own cache line.
type spscInner[T any] struct {
	sendCursor      atomic.Uint64
	recvCursorCache uint64
	_               cpu.CacheLinePad

	recvCursor      atomic.Uint64
	sendCursorCache uint64
	_               cpu.CacheLinePad

	buffer   []T
	mask     uint64
	overflow Overflow
	strategy WaitStrategy

	// spaceReady is parked on by a blocking Send under AtomicWait,
	// notified by TryReceive after it frees a slot.
	spaceReady *wait.Notifier
	// dataReady is parked on by a blocking Receive under AtomicWait,
	// notified by TrySend after it publishes a slot.
	dataReady *wait.Notifier
}

// nextPow2 returns the smallest power of two greater than or equal to n.
// n must be >= 1: a request for 4 yields 4, not 8.
func nextPow2(n int) uint64 {
	if n <= 1 {
		return 1
	}
	v := uint64(n - 1)
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// usableCapacity is capacity-1: the ring always keeps one slot empty so
// sendCursor == recvCursor is an unambiguous "empty" marker.
func (in *spscInner[T]) usableCapacity() int {
	return int(in.mask)
}

// trySend publishes v without blocking. It returns ErrChannelFull under
// WaitOnFull when the ring has no free slot, and never fails under
// OverwriteOnFull (it evicts the oldest unread element instead).
func (in *spscInner[T]) trySend(v T) error {
	sc := in.sendCursor.Load()
	next := (sc + 1) & in.mask
	if next == in.recvCursorCache {
		in.recvCursorCache = in.recvCursor.Load()
	}
	if next == in.recvCursorCache {
		if in.overflow != OverwriteOnFull {
			return ErrChannelFull
		}
		// Evict the oldest element. The store into recvCursor here is
		// the one place a producer writes the consumer's cursor; it is
		// a plain Store, not a CAS, so a concurrent TryReceive racing
		// on the same victim slot can observe recvCursor move out from
		// under it. That race is deliberate and documented: the
		// consumer detects it via CompareAndSwap in tryReceive and
		// reports ErrSkipDueToOverwrite rather than ever returning a
		// torn or double-destroyed value.
		victim := in.recvCursorCache
		destroy(in.buffer[victim])
		var zero T
		in.buffer[victim] = zero
		evicted := (victim + 1) & in.mask
		in.recvCursor.Store(evicted)
		in.recvCursorCache = evicted
	}
	in.buffer[sc] = v
	in.sendCursor.Store(next)
	if in.dataReady != nil {
		in.dataReady.Notify()
	}
	return nil
}

// tryReceive reads the oldest unread element without blocking. It returns
// ErrChannelEmpty when there is nothing to read, and under OverwriteOnFull
// may return ErrSkipDueToOverwrite if the slot it attempted to claim was
// concurrently evicted by a full send; the caller should just retry.
func (in *spscInner[T]) tryReceive() (T, error) {
	var zero T
	rc := in.recvCursor.Load()
	if rc == in.sendCursorCache {
		in.sendCursorCache = in.sendCursor.Load()
		if rc == in.sendCursorCache {
			return zero, ErrChannelEmpty
		}
	}
	v := in.buffer[rc]
	next := (rc + 1) & in.mask
	if in.overflow == OverwriteOnFull {
		if !in.recvCursor.CompareAndSwap(rc, next) {
			return zero, ErrSkipDueToOverwrite
		}
	} else {
		in.recvCursor.Store(next)
	}
	// v is being handed to the caller, not discarded, so Destroy is not
	// called on it; the slot is zeroed only to drop the ring's own
	// reference to the value now that it has logically left the buffer.
	in.buffer[rc] = zero
	if in.spaceReady != nil {
		in.spaceReady.Notify()
	}
	return v, nil
}

// SPSCSender is the write half of an SPSC channel. It is not safe to copy;
// embed by pointer or pass the pointer received from NewSPSC.
type SPSCSender[T any] struct {
	_   noCopy
	arc arc.Arc[spscInner[T]]
}

// SPSCReceiver is the read half of an SPSC channel.
type SPSCReceiver[T any] struct {
	_   noCopy
	arc arc.Arc[spscInner[T]]
}

// NewSPSC creates a single-producer/single-consumer channel with room for
// at least capacity elements (rounded up to the next power of two; the
// ring then reserves one slot to distinguish full from empty, so a
// request for 4 yields a usable capacity of 3 inside a backing array of
// 4). Panics if capacity < 1, or if OverwriteOnFull is combined with any
// WaitStrategy other than Spin — overwrite eviction assumes a busy-loop
// retry, not a parked waiter, on both sides.
func NewSPSC[T any](capacity int, opts ...SPSCOption) (*SPSCSender[T], *SPSCReceiver[T]) {
	if capacity < 1 {
		panic(fmt.Sprintf("lfchan: NewSPSC: capacity must be >= 1, got %d", capacity))
	}
	cfg := defaultSPSCConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.overflow == OverwriteOnFull && cfg.strategy != Spin {
		panic("lfchan: NewSPSC: OverwriteOnFull requires WaitStrategy Spin")
	}

	size := nextPow2(capacity)
	handle := arc.New[spscInner[T]]()
	in := handle.Deref()
	in.buffer = make([]T, size)
	in.mask = size - 1
	in.overflow = cfg.overflow
	in.strategy = cfg.strategy
	if cfg.strategy == AtomicWait {
		in.spaceReady = wait.NewNotifier()
		in.dataReady = wait.NewNotifier()
	}

	sender := &SPSCSender[T]{arc: handle.Clone()}
	receiver := &SPSCReceiver[T]{arc: handle}
	return sender, receiver
}

// TrySend is the non-blocking form of Send.
func (s *SPSCSender[T]) TrySend(v T) error {
	in := s.arc.Deref()
	if in == nil {
		panic("lfchan: TrySend on a closed SPSCSender")
	}
	return in.trySend(v)
}

// Send publishes v, retrying under the channel's WaitStrategy while the
// ring is full. Under OverwriteOnFull this never blocks, since trySend
// always succeeds by evicting the oldest element.
func (s *SPSCSender[T]) Send(v T) {
	in := s.arc.Deref()
	if in == nil {
		panic("lfchan: Send on a closed SPSCSender")
	}
	var spins uint32
	for {
		err := in.trySend(v)
		if err == nil {
			return
		}
		if in.strategy == AtomicWait {
			in.spaceReady.Park()
			continue
		}
		wait.Backoff(in.strategy, spins)
		spins++
	}
}

// Close drops the sender's reference. Once both sender and receiver have
// closed, any elements still resident in the ring are destroyed and the
// backing buffer is released.
func (s *SPSCSender[T]) Close() {
	s.arc.Drop(teardownSPSC[T])
}

// TryReceive is the non-blocking form of Receive.
func (r *SPSCReceiver[T]) TryReceive() (T, error) {
	in := r.arc.Deref()
	if in == nil {
		panic("lfchan: TryReceive on a closed SPSCReceiver")
	}
	return in.tryReceive()
}

// Receive reads the oldest unread element, retrying under the channel's
// WaitStrategy while the ring is empty. Under OverwriteOnFull it also
// retries transparently on ErrSkipDueToOverwrite.
func (r *SPSCReceiver[T]) Receive() T {
	in := r.arc.Deref()
	if in == nil {
		panic("lfchan: Receive on a closed SPSCReceiver")
	}
	var spins uint32
	for {
		v, err := in.tryReceive()
		if err == nil {
			return v
		}
		if err == ErrSkipDueToOverwrite {
			continue
		}
		if in.strategy == AtomicWait {
			in.dataReady.Park()
			continue
		}
		wait.Backoff(in.strategy, spins)
		spins++
	}
}

// Close drops the receiver's reference. See SPSCSender.Close.
func (r *SPSCReceiver[T]) Close() {
	r.arc.Drop(teardownSPSC[T])
}

// teardownSPSC runs once, when both the sender and the receiver have
// dropped their Arc reference. Any element still between recvCursor and
// sendCursor was never delivered to a Receive call, so it is genuinely
// discarded and Destroy runs on it.
func teardownSPSC[T any](in *spscInner[T]) {
	rc := in.recvCursor.Load()
	sc := in.sendCursor.Load()
	for i := rc; i != sc; i = (i + 1) & in.mask {
		destroy(in.buffer[i])
		var zero T
		in.buffer[i] = zero
	}
}
