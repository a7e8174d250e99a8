// Package channel implements the per-channel traffic pipeline of the
// harness: a transaction generator and a driver bound to one channel of the
// shared consumer, run together by an agent.
package channel

import (
	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/sarchlab/muxbench/sim"
	"github.com/sarchlab/muxbench/txn"
)

// CountUnbounded configures a generator to produce transactions until it is
// cancelled.
const CountUnbounded = -1

type genState int

const (
	genBuild genState = iota
	genWaitRsp
	genDone
)

// A Generator produces constrained-random transactions for one channel,
// enqueues them as requests, and validates the completion responses. It
// keeps at most one transaction outstanding: the next request is not built
// before the previous response is consumed.
type Generator struct {
	name    string
	factory *txn.Factory
	reqBuf  sim.Buffer
	rspBuf  sim.Buffer
	count   int

	state      genState
	inflight   *txn.Transaction
	issued     int
	issueCycle uint64
	cancelled  bool
	fatalErr   error

	pass, fail int
	latencies  *hdrhistogram.Histogram
}

// Tick advances the generator by one edge of the shared timing reference.
func (g *Generator) Tick(cycle uint64) bool {
	if g.fatalErr != nil {
		return false
	}

	switch g.state {
	case genBuild:
		return g.build(cycle)
	case genWaitRsp:
		return g.consumeRsp(cycle)
	default:
		return false
	}
}

func (g *Generator) build(cycle uint64) bool {
	if g.cancelled {
		g.state = genDone
		return true
	}

	if g.count != CountUnbounded && g.issued >= g.count {
		g.state = genDone
		return true
	}

	if !g.reqBuf.CanPush() {
		return false
	}

	t, err := g.factory.Next()
	if err != nil {
		g.fatalErr = err
		return true
	}

	g.reqBuf.Push(t)
	g.inflight = t
	g.issueCycle = cycle
	g.state = genWaitRsp

	return true
}

func (g *Generator) consumeRsp(cycle uint64) bool {
	// A cancelled agent's pending response wait is deliberately left
	// unresolved. The agent completes through its driver instead.
	if g.cancelled {
		return false
	}

	item := g.rspBuf.Pop()
	if item == nil {
		return false
	}

	rsp := item.(*txn.Transaction)
	if rsp.ResponseFlag && rsp.PacketID == g.inflight.PacketID {
		g.pass++
	} else {
		g.fail++
	}

	_ = g.latencies.RecordValue(int64(cycle - g.issueCycle))

	g.inflight = nil
	g.issued++
	g.state = genBuild

	return true
}

// Cancel stops further generation at the next edge. It is idempotent.
func (g *Generator) Cancel() {
	g.cancelled = true
}

// Done returns true once the bounded production run has finished.
func (g *Generator) Done() bool {
	return g.state == genDone
}

// FatalErr returns the randomization error that aborted the generator, if
// any.
func (g *Generator) FatalErr() error {
	return g.fatalErr
}

// PassCount returns the number of responses that carried a set response
// flag in issue order.
func (g *Generator) PassCount() int {
	return g.pass
}

// FailCount returns the number of responses that failed verification.
func (g *Generator) FailCount() int {
	return g.fail
}

// Latencies returns the histogram of per-transaction completion latencies
// in cycles.
func (g *Generator) Latencies() *hdrhistogram.Histogram {
	return g.latencies
}
