package lfchan

import "fmt"

// Sentinel status values returned by the non-blocking Try* operations.
// Checked with errors.Is or direct comparison, never by type-asserting a
// custom error struct.
var (
	// ErrChannelFull is returned by SPSCSender.TrySend when the ring has
	// no free slot under the WaitOnFull overflow policy.
	ErrChannelFull = fmt.Errorf("lfchan: channel full")

	// ErrChannelEmpty is returned by TryReceive when there is nothing to
	// read yet.
	ErrChannelEmpty = fmt.Errorf("lfchan: channel empty")

	// ErrSkipDueToOverwrite is returned by SPSCReceiver.TryReceive, under
	// the OverwriteOnFull policy only, when the slot it attempted to read
	// was concurrently reclaimed by the producer's eviction of the oldest
	// element. The caller should simply retry TryReceive.
	ErrSkipDueToOverwrite = fmt.Errorf("lfchan: slot reclaimed by overwrite, retry")

	// ErrChannelClosed is part of the shared status taxonomy alongside
	// ErrChannelFull/ErrChannelEmpty/ErrSkipDueToOverwrite; the current
	// SPSC core signals closing by dropping a handle rather than
	// returning this status, so it has no caller yet.
	ErrChannelClosed = fmt.Errorf("lfchan: channel closed")

	// ErrSenderClosed is returned by OneShotSender.Send when a value was
	// already sent on this channel.
	ErrSenderClosed = fmt.Errorf("lfchan: sender closed, value already sent")

	// ErrReceiverClosed is returned by OneShotReceiver.TryReceive when a
	// value was already received from this channel.
	ErrReceiverClosed = fmt.Errorf("lfchan: receiver closed, value already received")
)
