package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueue", func() {
	var queue EventQueue

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop events in time order", func() {
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 100; i++ {
			t := VTimeInSec(rng.Float64())
			queue.Push(NewEventBase(t, nil))
		}

		Expect(queue.Len()).To(Equal(100))

		prev := queue.Pop()
		for queue.Len() > 0 {
			curr := queue.Pop()
			Expect(curr.Time()).To(BeNumerically(">=", prev.Time()))
			prev = curr
		}
	})

	It("should peek without removing", func() {
		evt := NewEventBase(1.0, nil)
		queue.Push(evt)

		Expect(queue.Peek().Time()).To(Equal(VTimeInSec(1.0)))
		Expect(queue.Len()).To(Equal(1))
	})
})
