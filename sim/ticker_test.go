package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickScheduler", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *MockEngine
		handler   *MockHandler
		scheduler *TickScheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		handler = NewMockHandler(mockCtrl)
		scheduler = NewTickScheduler(handler, engine, 1*Hz)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule a tick at the next cycle", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(1.0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any()).Do(func(e Event) {
			Expect(e.Time()).To(BeNumerically("~", 2.0, 1e-12))
			Expect(e.IsSecondary()).To(BeFalse())
		})

		scheduler.TickLater()
	})

	It("should not schedule the same cycle twice", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(1.0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any()).Times(1)

		scheduler.TickLater()
		scheduler.TickLater()
	})
})

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		ticker = NewMockTicker(mockCtrl)
		comp = NewTickingComponent("Comp", engine, 1*Hz, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick until no more progress is made", func() {
		ticker.EXPECT().Tick().Return(true).Times(3)
		ticker.EXPECT().Tick().Return(false)

		comp.TickNow()

		Expect(engine.Run()).To(Succeed())
		Expect(comp.CurrentCycle()).To(Equal(uint64(3)))
	})
})
