// Package capacity models the per-channel flow-control surface of the
// shared consumer that the harness drives into. The consumer itself is
// opaque; the harness only sees acceptance and remaining-capacity feedback.
package capacity

// An Oracle is the flow-control interface of one channel of the shared
// consumer. Drivers offer data words against it edge by edge; scenario
// barriers read the margin back from it.
//
// Acceptance is level-triggered. A caller that is not accepted at one edge
// re-offers the same word at the next edge; if acceptance never comes the
// caller blocks forever. Bounding the total run time is the caller's
// responsibility.
type Oracle interface {
	// Offer asserts item-valid with the given word for the current edge.
	// It returns true if the consumer accepts the word at this edge.
	Offer(value uint32) bool

	// Idle deasserts item-valid for the current edge. Drivers use it both
	// for pacing between words and packets and as the explicit
	// post-cancellation cooldown pulse.
	Idle()

	// Margin returns the remaining buffering headroom of the channel, in
	// [0, capacity].
	Margin() int

	// FullThreshold is the margin at which the channel is saturated.
	FullThreshold() int

	// DrainedThreshold is the margin at which the channel counts as
	// drained.
	DrainedThreshold() int
}
