package channel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/sim"
)

var _ = Describe("Agent", func() {
	var (
		engine *sim.SerialEngine
		sink   *capacity.Sink
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		sink = capacity.MakeSinkBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.MHz).
			WithCapacity(0x20).
			WithDrainEvery(1).
			Build("Sink")
	})

	It("should run a bounded count to completion", func() {
		agent := MakeAgentBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.MHz).
			WithChannelID(0).
			WithOracle(sink).
			WithCount(3).
			WithSeed(7).
			Build("Agent")

		agent.TickNow()
		Expect(engine.Run()).To(Succeed())

		Expect(agent.Done()).To(BeTrue())
		Expect(agent.Generator.PassCount()).To(Equal(3))
		Expect(agent.Generator.FailCount()).To(Equal(0))
		Expect(agent.Driver.ItemsDriven()).To(
			BeNumerically(">=", uint64(3*4)))
	})

	It("should issue flush pulses after a back-to-back run", func() {
		agent := MakeAgentBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.MHz).
			WithChannelID(0).
			WithOracle(sink).
			WithCount(2).
			WithSeed(7).
			WithFixedIdle(0).
			WithFlushPulses(1).
			Build("Agent")

		agent.TickNow()
		Expect(engine.Run()).To(Succeed())

		Expect(agent.Done()).To(BeTrue())
		Expect(sink.IdlePulses()).To(Equal(uint64(1)))
	})

	It("should complete through the driver when cancelled under "+
		"backpressure", func() {
		stuck := capacity.MakeSinkBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.MHz).
			WithCapacity(2).
			WithDrainEvery(0).
			Build("StuckSink")

		agent := MakeAgentBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.MHz).
			WithChannelID(0).
			WithOracle(stuck).
			WithCount(CountUnbounded).
			WithSeed(7).
			WithFixedIdle(0).
			Build("Agent")

		agent.TickNow()

		// Let the agent wedge itself against the full sink, then cancel.
		cancelAt := stopwatch{
			agent: agent,
			after: 100,
		}
		cancelAt.start(engine)

		Expect(engine.Run()).To(Succeed())

		Expect(agent.Done()).To(BeTrue())
		pulsesAtCancel := cancelAt.pulsesSeen

		// Only the single cooldown idle follows cancellation; item-valid
		// is never asserted again.
		Expect(stuck.ValidPulses()).To(Equal(pulsesAtCancel))
		Expect(stuck.IdlePulses()).To(Equal(uint64(1)))

		// The abandoned in-flight transaction never produces a response.
		Expect(agent.Generator.PassCount()).To(Equal(0))
		Expect(agent.Generator.Done()).To(BeFalse())
	})
})

// stopwatch cancels an agent a fixed number of cycles into a run and
// records the item-valid pulse count observed at that edge.
type stopwatch struct {
	*sim.TickingComponent

	agent      *Agent
	after      uint64
	pulsesSeen uint64
	fired      bool
}

func (s *stopwatch) start(engine sim.Engine) {
	s.TickingComponent = sim.NewSecondaryTickingComponent(
		"Stopwatch", engine, 1*sim.MHz, s)
	s.TickNow()
}

func (s *stopwatch) Tick() bool {
	if s.fired {
		return false
	}

	if s.CurrentCycle() < s.after {
		return true
	}

	s.agent.Cancel()

	sink := s.agent.Driver.oracle.(*capacity.Sink)
	s.pulsesSeen = sink.ValidPulses()
	s.fired = true

	return true
}