package lfchan

import "lfchan/internal/wait"

// Overflow selects SPSCSender.Send's behavior when the ring is full.
type Overflow uint8

const (
	// WaitOnFull makes TrySend return ErrChannelFull and blocking Send
	// retry under the channel's WaitStrategy. The default.
	WaitOnFull Overflow = iota

	// OverwriteOnFull makes a full send evict the oldest unread element
	// instead of failing. Requires WaitStrategy Spin (enforced by
	// NewSPSC, which panics otherwise).
	OverwriteOnFull
)

func (o Overflow) String() string {
	if o == OverwriteOnFull {
		return "OverwriteOnFull"
	}
	return "WaitOnFull"
}

// WaitStrategy selects the retry-delay policy used by blocking Send and
// Receive operations. Re-exported from internal/wait since Go generics
// cannot parameterize over a runtime enum the way the source's C++
// templates parameterize over WaitStrategy as a non-type template
// argument; here it is simply a constructor option.
type WaitStrategy = wait.Strategy

const (
	Spin       = wait.Spin
	Yield      = wait.Yield
	AtomicWait = wait.AtomicWait
)

// spscConfig holds the constructor-time options for NewSPSC.
type spscConfig struct {
	overflow Overflow
	strategy WaitStrategy
}

func defaultSPSCConfig() spscConfig {
	return spscConfig{overflow: WaitOnFull, strategy: Spin}
}

// SPSCOption configures a channel created by NewSPSC.
type SPSCOption func(*spscConfig)

// WithOverflow selects the overflow policy. Default WaitOnFull.
func WithOverflow(o Overflow) SPSCOption {
	return func(c *spscConfig) { c.overflow = o }
}

// WithSPSCWait selects the wait strategy used by blocking Send/Receive.
// Default Spin.
func WithSPSCWait(s WaitStrategy) SPSCOption {
	return func(c *spscConfig) { c.strategy = s }
}

// oneshotConfig holds the constructor-time options for NewOneShot.
type oneshotConfig struct {
	strategy WaitStrategy
}

func defaultOneShotConfig() oneshotConfig {
	return oneshotConfig{strategy: Spin}
}

// OneShotOption configures a channel created by NewOneShot.
type OneShotOption func(*oneshotConfig)

// WithOneShotWait selects the wait strategy used by blocking Receive.
// Default Spin.
func WithOneShotWait(s WaitStrategy) OneShotOption {
	return func(c *oneshotConfig) { c.strategy = s }
}
