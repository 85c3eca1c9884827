package lfchan

import (
	"sync/atomic"

	"lfchan/internal/arc"
	"lfchan/internal/wait"
)

// oneshotState is the tri-state lifecycle of a one-shot slot: it starts
// NotSent, moves to Sent exactly once when the producer calls Send, and
// moves to Received exactly once when the consumer successfully reads
// it.
type oneshotState uint32

const (
	oneshotNotSent oneshotState = iota
	oneshotSent
	oneshotReceived
)

// oneshotInner is the shared control block behind one one-shot channel.
type oneshotInner[T any] struct {
	state atomic.Uint32
	slot  T

	strategy WaitStrategy
	// ready is parked on by a blocking Receive under AtomicWait, notified
	// by Send once the slot is published.
	ready *wait.Notifier
}

// OneShotSender is the write half of a one-shot channel. Not safe to
// copy; embed or pass by pointer.
type OneShotSender[T any] struct {
	_   noCopy
	arc arc.Arc[oneshotInner[T]]

	// sentCache is a local hint set once this handle's own Send succeeds.
	// It never needs to consult the shared state: a sender only cares
	// whether IT has already sent, which it alone decides.
	sentCache bool
}

// OneShotReceiver is the read half of a one-shot channel.
type OneShotReceiver[T any] struct {
	_   noCopy
	arc arc.Arc[oneshotInner[T]]

	// receivedCache is a local hint set once this handle's own receive
	// succeeds. Like sentCache, it mirrors only what this handle itself
	// has observed and may lag a moment behind the shared atomic state.
	receivedCache bool
}

// NewOneShot creates a channel that carries exactly one value from a
// single sender to a single receiver.
func NewOneShot[T any](opts ...OneShotOption) (*OneShotSender[T], *OneShotReceiver[T]) {
	cfg := defaultOneShotConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	handle := arc.New[oneshotInner[T]]()
	in := handle.Deref()
	in.strategy = cfg.strategy
	if cfg.strategy == AtomicWait {
		in.ready = wait.NewNotifier()
	}

	sender := &OneShotSender[T]{arc: handle.Clone()}
	receiver := &OneShotReceiver[T]{arc: handle}
	return sender, receiver
}

// Send publishes v. It returns ErrSenderClosed if a value was already
// sent on this channel; Send never blocks.
func (s *OneShotSender[T]) Send(v T) error {
	in := s.arc.Deref()
	if in == nil {
		panic("lfchan: Send on a closed OneShotSender")
	}
	if oneshotState(in.state.Load()) != oneshotNotSent {
		return ErrSenderClosed
	}
	in.slot = v
	in.state.Store(uint32(oneshotSent))
	s.sentCache = true
	if in.ready != nil {
		in.ready.Notify()
	}
	return nil
}

// IsClosed reports whether this handle has already sent its value. It is
// a local cache set the moment this handle's own Send succeeds, not a
// read of the shared state, since a sender only ever needs to know
// whether it itself is done.
func (s *OneShotSender[T]) IsClosed() bool {
	return s.sentCache
}

// TryReceive is the non-blocking form of Receive. It returns
// ErrChannelEmpty if no value has been sent yet, ErrReceiverClosed if a
// value was already received, and otherwise the value and nil.
func (r *OneShotReceiver[T]) TryReceive() (T, error) {
	in := r.arc.Deref()
	if in == nil {
		panic("lfchan: TryReceive on a closed OneShotReceiver")
	}
	// v is being handed to the caller, not discarded: no Destroy call,
	// matching the SPSC receive path.
	v, err := in.tryReceiveLocked()
	if err == nil {
		r.receivedCache = true
	}
	return v, err
}

// Receive blocks until a value has been sent, retrying under the
// channel's WaitStrategy. Panics if a value was already received;
// one-shot channels carry exactly one value and cannot be read twice.
func (r *OneShotReceiver[T]) Receive() T {
	in := r.arc.Deref()
	if in == nil {
		panic("lfchan: Receive on a closed OneShotReceiver")
	}
	var spins uint32
	for {
		v, err := in.tryReceiveLocked()
		if err == nil {
			r.receivedCache = true
			return v
		}
		if err == ErrReceiverClosed {
			panic("lfchan: Receive called twice on the same OneShotReceiver")
		}
		if in.strategy == AtomicWait {
			in.ready.Park()
			continue
		}
		wait.Backoff(in.strategy, spins)
		spins++
	}
}

// tryReceiveLocked is TryReceive's logic without the nil-handle panic,
// shared by TryReceive and the Receive retry loop.
func (in *oneshotInner[T]) tryReceiveLocked() (T, error) {
	var zero T
	switch oneshotState(in.state.Load()) {
	case oneshotNotSent:
		return zero, ErrChannelEmpty
	case oneshotReceived:
		return zero, ErrReceiverClosed
	}
	if !in.state.CompareAndSwap(uint32(oneshotSent), uint32(oneshotReceived)) {
		// Lost a race with a concurrent receive attempt (only possible
		// if the receiver handle is misused from multiple goroutines).
		return zero, ErrReceiverClosed
	}
	v := in.slot
	var empty T
	in.slot = empty
	return v, nil
}

// IsClosed reports whether this handle has already received its value.
// Like OneShotSender.IsClosed, it is a local cache set the moment this
// handle's own receive succeeds, not a read of the shared state.
func (r *OneShotReceiver[T]) IsClosed() bool {
	return r.receivedCache
}

// Close drops the sender's reference. Once both sender and receiver have
// closed, a value that was sent but never received is destroyed.
func (s *OneShotSender[T]) Close() {
	s.arc.Drop(teardownOneShot[T])
}

// Close drops the receiver's reference. See OneShotSender.Close.
func (r *OneShotReceiver[T]) Close() {
	r.arc.Drop(teardownOneShot[T])
}

// teardownOneShot runs once, when both handles have dropped their Arc
// reference. A value that was sent but never received was never handed
// to a caller, so it is genuinely discarded here.
func teardownOneShot[T any](in *oneshotInner[T]) {
	if oneshotState(in.state.Load()) == oneshotSent {
		destroy(in.slot)
		var zero T
		in.slot = zero
	}
}
