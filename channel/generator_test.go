package channel

import (
	"github.com/HdrHistogram/hdrhistogram-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/muxbench/sim"
	"github.com/sarchlab/muxbench/txn"
)

var _ = Describe("Generator", func() {
	var (
		reqBuf sim.Buffer
		rspBuf sim.Buffer
		gen    *Generator
	)

	newGenerator := func(count int) *Generator {
		return &Generator{
			name:      "Generator",
			factory:   txn.MakeFactoryBuilder().WithChannelID(1).WithSeed(1).Build(),
			reqBuf:    reqBuf,
			rspBuf:    rspBuf,
			count:     count,
			latencies: hdrhistogram.New(1, 1_000_000, 3),
		}
	}

	respond := func(flag bool) {
		req := reqBuf.Pop().(*txn.Transaction)
		rsp := req.Clone()
		rsp.ResponseFlag = flag
		rspBuf.Push(rsp)
	}

	BeforeEach(func() {
		reqBuf = sim.NewBuffer("ReqBuf", 1)
		rspBuf = sim.NewBuffer("RspBuf", 1)
		gen = newGenerator(2)
	})

	It("should keep at most one transaction outstanding", func() {
		Expect(gen.Tick(0)).To(BeTrue())
		Expect(reqBuf.Size()).To(Equal(1))

		// Waiting for the response. No second request is built.
		Expect(gen.Tick(1)).To(BeFalse())
		Expect(reqBuf.Size()).To(Equal(1))
	})

	It("should pair responses with requests in issue order", func() {
		gen.Tick(0)
		respond(true)
		Expect(gen.Tick(5)).To(BeTrue())

		gen.Tick(6)
		respond(true)
		Expect(gen.Tick(12)).To(BeTrue())

		Expect(gen.PassCount()).To(Equal(2))
		Expect(gen.FailCount()).To(Equal(0))
		Expect(gen.Latencies().TotalCount()).To(Equal(int64(2)))

		// Bounded run complete.
		Expect(gen.Tick(13)).To(BeTrue())
		Expect(gen.Done()).To(BeTrue())
	})

	It("should record a cleared response flag as non-fatal", func() {
		gen.Tick(0)
		respond(false)
		gen.Tick(5)

		Expect(gen.FailCount()).To(Equal(1))
		Expect(gen.FatalErr()).To(BeNil())

		// The run continues.
		Expect(gen.Tick(6)).To(BeTrue())
		Expect(reqBuf.Size()).To(Equal(1))
	})

	It("should escalate randomization failure as fatal", func() {
		gen.factory = txn.MakeFactoryBuilder().
			WithSeed(1).
			WithWordCountRange(8, 4).
			Build()

		Expect(gen.Tick(0)).To(BeTrue())
		Expect(gen.FatalErr()).To(HaveOccurred())
		Expect(gen.Tick(1)).To(BeFalse())
	})

	It("should leave a cancelled response wait unresolved", func() {
		gen.Tick(0)
		gen.Cancel()

		Expect(gen.Tick(1)).To(BeFalse())
		Expect(gen.Done()).To(BeFalse())
	})

	It("should stop producing after cancellation", func() {
		gen.Tick(0)
		respond(true)
		gen.Tick(5)

		gen.Cancel()
		Expect(gen.Tick(6)).To(BeTrue())
		Expect(gen.Done()).To(BeTrue())
		Expect(reqBuf.Size()).To(Equal(0))
	})
})
