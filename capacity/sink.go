package capacity

import (
	"github.com/sarchlab/muxbench/sim"
)

// HookPosSinkAccept marks when a sink accepts an offered word.
var HookPosSinkAccept = &sim.HookPos{Name: "Sink Accept"}

// HookPosSinkDrain marks when a sink consumes a buffered word.
var HookPosSinkDrain = &sim.HookPos{Name: "Sink Drain"}

// A Sink is a stub consumer channel backed by a bounded buffer. It accepts
// an offered word whenever the buffer has room and consumes one buffered
// word every DrainEvery cycles. It stands in for one channel of the real
// multiplexing device in tests and scenario runs.
type Sink struct {
	*sim.TickingComponent

	buf              sim.Buffer
	capacity         int
	drainedThreshold int
	drainEvery       int

	sinceDrain  int
	validPulses uint64
	idlePulses  uint64
}

// Offer asserts item-valid with the given word for the current edge.
func (s *Sink) Offer(value uint32) bool {
	s.validPulses++

	if !s.buf.CanPush() {
		return false
	}

	s.buf.Push(value)

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosSinkAccept,
		Item:   value,
	})

	s.TickLater()

	return true
}

// Idle deasserts item-valid for the current edge.
func (s *Sink) Idle() {
	s.idlePulses++
}

// Margin returns the remaining buffering headroom.
func (s *Sink) Margin() int {
	return s.capacity - s.buf.Size()
}

// FullThreshold returns the margin value at which the sink is saturated.
func (s *Sink) FullThreshold() int {
	return 0
}

// DrainedThreshold returns the margin value at which the sink counts as
// drained.
func (s *Sink) DrainedThreshold() int {
	return s.drainedThreshold
}

// ValidPulses returns the number of edges at which item-valid was asserted
// against the sink.
func (s *Sink) ValidPulses() uint64 {
	return s.validPulses
}

// IdlePulses returns the number of explicit idle edges observed.
func (s *Sink) IdlePulses() uint64 {
	return s.idlePulses
}

// Tick consumes buffered words at the configured pace.
func (s *Sink) Tick() bool {
	if s.drainEvery == 0 || s.buf.Size() == 0 {
		return false
	}

	s.sinceDrain++
	if s.sinceDrain < s.drainEvery {
		return true
	}

	s.sinceDrain = 0
	item := s.buf.Pop()

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosSinkDrain,
		Item:   item,
	})

	return true
}

// SinkBuilder builds sinks.
type SinkBuilder struct {
	engine           sim.Engine
	freq             sim.Freq
	capacity         int
	drainedThreshold int
	drainEvery       int
}

// MakeSinkBuilder returns a builder with the default sink configuration:
// a 0x20-entry buffer drained every other cycle, drained threshold at full
// capacity.
func MakeSinkBuilder() SinkBuilder {
	return SinkBuilder{
		freq:       1 * sim.GHz,
		capacity:   0x20,
		drainEvery: 2,
	}
}

// WithEngine sets the engine the sink runs on.
func (b SinkBuilder) WithEngine(engine sim.Engine) SinkBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency of the sink.
func (b SinkBuilder) WithFreq(freq sim.Freq) SinkBuilder {
	b.freq = freq
	return b
}

// WithCapacity sets the buffer capacity.
func (b SinkBuilder) WithCapacity(capacity int) SinkBuilder {
	b.capacity = capacity
	return b
}

// WithDrainedThreshold sets the margin at which the sink counts as
// drained. Zero keeps the default of the full capacity.
func (b SinkBuilder) WithDrainedThreshold(threshold int) SinkBuilder {
	b.drainedThreshold = threshold
	return b
}

// WithDrainEvery sets the number of cycles between two consumed words.
// Zero disables consumption entirely, which forces saturation.
func (b SinkBuilder) WithDrainEvery(n int) SinkBuilder {
	b.drainEvery = n
	return b
}

// Build creates the sink.
func (b SinkBuilder) Build(name string) *Sink {
	s := &Sink{
		buf:              sim.NewBuffer(name+".Buf", b.capacity),
		capacity:         b.capacity,
		drainedThreshold: b.drainedThreshold,
		drainEvery:       b.drainEvery,
	}

	if s.drainedThreshold == 0 {
		s.drainedThreshold = b.capacity
	}

	s.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, s)

	return s
}
