package capacity

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/muxbench/sim"
)

var _ = Describe("Sink", func() {
	var (
		engine *sim.SerialEngine
		sink   *Sink
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		sink = MakeSinkBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.Hz).
			WithCapacity(4).
			WithDrainEvery(0).
			Build("Sink")
	})

	It("should accept offers while the buffer has room", func() {
		for i := 0; i < 4; i++ {
			Expect(sink.Offer(uint32(i))).To(BeTrue())
		}

		Expect(sink.Offer(4)).To(BeFalse())
		Expect(sink.Margin()).To(Equal(0))
		Expect(sink.ValidPulses()).To(Equal(uint64(5)))
	})

	It("should count idle pulses", func() {
		sink.Idle()
		sink.Idle()

		Expect(sink.IdlePulses()).To(Equal(uint64(2)))
	})

	It("should report the drained threshold as the capacity by default",
		func() {
			Expect(sink.DrainedThreshold()).To(Equal(4))
			Expect(sink.FullThreshold()).To(Equal(0))
		})

	It("should never drain when consumption is disabled", func() {
		sink.Offer(1)

		Expect(engine.Run()).To(Succeed())
		Expect(sink.Margin()).To(Equal(3))
	})

	It("should drain one word every DrainEvery cycles", func() {
		sink = MakeSinkBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.Hz).
			WithCapacity(4).
			WithDrainEvery(2).
			Build("Sink2")

		sink.Offer(1)
		sink.Offer(2)

		Expect(engine.Run()).To(Succeed())
		Expect(sink.Margin()).To(Equal(4))
		// Two words at one word per two cycles, plus the final empty tick.
		Expect(engine.CurrentTime()).To(BeNumerically("~", 5.0, 1e-9))
	})

	It("should restart draining after new offers", func() {
		sink = MakeSinkBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.Hz).
			WithCapacity(4).
			WithDrainEvery(1).
			Build("Sink3")

		sink.Offer(1)
		Expect(engine.Run()).To(Succeed())
		Expect(sink.Margin()).To(Equal(4))

		sink.Offer(2)
		Expect(engine.Run()).To(Succeed())
		Expect(sink.Margin()).To(Equal(4))
	})
})
