package channel

import (
	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/sim"
	"github.com/sarchlab/muxbench/txn"
)

// HookPosItemDriven marks when the consumer accepts one data word from a
// driver.
var HookPosItemDriven = &sim.HookPos{Name: "Item Driven"}

type drvState int

const (
	drvFetch drvState = iota
	drvOffer
	drvWordIdle
	drvPacketIdle
	drvComplete
)

// A Driver dequeues requests and drives each data word against the
// channel's flow-control interface, with the idle pacing the transaction
// carries. When a whole packet has been driven it returns a completion
// clone through the response queue.
type Driver struct {
	sim.HookableBase

	name   string
	oracle capacity.Oracle
	reqBuf sim.Buffer
	rspBuf sim.Buffer

	state    drvState
	current  *txn.Transaction
	wordIdx  int
	idleLeft int

	cancelled    bool
	cooldownDone bool

	itemsDriven uint64
}

// Tick advances the driver by one edge of the shared timing reference.
func (d *Driver) Tick() bool {
	if d.cancelled {
		return d.cooldown()
	}

	switch d.state {
	case drvFetch:
		return d.fetch()
	case drvOffer:
		return d.offer()
	case drvWordIdle:
		return d.wordIdle()
	case drvPacketIdle:
		return d.packetIdle()
	case drvComplete:
		return d.complete()
	default:
		return false
	}
}

// cooldown discards the in-flight transaction without a response and emits
// the single post-cancellation idle pulse. Abandonment is intentional, not
// a fault.
func (d *Driver) cooldown() bool {
	if d.cooldownDone {
		return false
	}

	d.current = nil
	d.oracle.Idle()
	d.cooldownDone = true

	return true
}

func (d *Driver) fetch() bool {
	item := d.reqBuf.Pop()
	if item == nil {
		return false
	}

	d.current = item.(*txn.Transaction)
	d.wordIdx = 0
	d.state = drvOffer

	return true
}

func (d *Driver) offer() bool {
	accepted := d.oracle.Offer(d.current.Data[d.wordIdx])
	if !accepted {
		// Item-valid stays asserted. Acceptance is re-checked every
		// edge; if it never comes the driver blocks here.
		return true
	}

	d.itemsDriven++
	d.InvokeHook(sim.HookCtx{
		Domain: &d.HookableBase,
		Pos:    HookPosItemDriven,
		Item:   d.current.Data[d.wordIdx],
	})

	d.wordIdx++
	if d.wordIdx < len(d.current.Data) {
		if d.current.DataItemIdle > 0 {
			d.idleLeft = d.current.DataItemIdle
			d.state = drvWordIdle
		}
		return true
	}

	if d.current.PacketIdle > 0 {
		d.idleLeft = d.current.PacketIdle
		d.state = drvPacketIdle
		return true
	}

	d.state = drvComplete

	return d.complete()
}

func (d *Driver) wordIdle() bool {
	d.oracle.Idle()

	d.idleLeft--
	if d.idleLeft == 0 {
		d.state = drvOffer
	}

	return true
}

func (d *Driver) packetIdle() bool {
	d.oracle.Idle()

	d.idleLeft--
	if d.idleLeft == 0 {
		d.state = drvComplete
	}

	return true
}

// complete clones the driven transaction, marks the clone as responded, and
// enqueues it. The request object itself is never mutated.
func (d *Driver) complete() bool {
	if !d.rspBuf.CanPush() {
		return true
	}

	rsp := d.current.Clone()
	rsp.ResponseFlag = true
	d.rspBuf.Push(rsp)

	d.current = nil
	d.state = drvFetch

	return true
}

// Idle deasserts item-valid for one edge. Agents use it to flush the
// pipeline after a back-to-back run.
func (d *Driver) Idle() {
	d.oracle.Idle()
}

// Cancel requests a cooperative stop at the next edge. It is idempotent.
func (d *Driver) Cancel() {
	d.cancelled = true
}

// CancelComplete returns true once a cancelled driver has discarded its
// in-flight state and emitted the cooldown pulse.
func (d *Driver) CancelComplete() bool {
	return d.cancelled && d.cooldownDone
}

// Drained returns true when the driver holds no in-flight transaction and
// the request queue is empty.
func (d *Driver) Drained() bool {
	return d.current == nil && d.reqBuf.Size() == 0
}

// ItemsDriven returns the number of data words the consumer has accepted.
func (d *Driver) ItemsDriven() uint64 {
	return d.itemsDriven
}
