package lfchan

// Destroyer is implemented by payload types that hold resources needing
// explicit teardown. Go has no destructors, so the channel runtime calls
// Destroy itself, exactly once, for every value it discards without ever
// handing it to a successful Receive: an element evicted by
// OverwriteOnFull, an element still resident in the ring when both SPSC
// handles close, or a one-shot value that was sent but never received.
//
// Types that don't hold such resources simply don't implement Destroyer;
// destroy becomes a no-op for them, matching the source's distinction
// between types with and without a meaningful destructor.
type Destroyer interface {
	Destroy()
}

// destroy invokes v's Destroy method if it implements Destroyer.
func destroy[T any](v T) {
	if d, ok := any(v).(Destroyer); ok {
		d.Destroy()
	}
}
