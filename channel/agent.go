package channel

import (
	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/sim"
	"github.com/sarchlab/muxbench/txn"
)

// An Agent binds one Generator and one Driver 1:1:1 to a channel of the
// shared consumer and runs them in lockstep on the shared timing reference.
//
// A bounded agent reports done once its generator has finished AND the
// driver has drained the request queue and issued its flush pulses, so the
// final transition is never lost to a barrier observing the channel. A
// cancelled agent reports done as soon as its driver has completed the
// cancellation cooldown, even if the generator is still parked on an
// unresolved response wait.
type Agent struct {
	*sim.TickingComponent

	ChannelID int
	Generator *Generator
	Driver    *Driver

	flushLeft int
	done      bool
}

// Tick advances the whole channel pipeline by one edge. The driver ticks
// before the generator so that a completion pushed at this edge is consumed
// by the generator at the next one.
func (a *Agent) Tick() bool {
	if a.done {
		return false
	}

	madeProgress := a.Driver.Tick()
	madeProgress = a.Generator.Tick(a.CurrentCycle()) || madeProgress

	if a.Driver.CancelComplete() {
		a.done = true
		return true
	}

	if a.Generator.Done() && a.Driver.Drained() {
		if a.flushLeft > 0 {
			a.Driver.Idle()
			a.flushLeft--
			return true
		}

		a.done = true
		return true
	}

	return madeProgress
}

// Cancel requests a cooperative stop of both sub-tasks at the next edge.
// It is idempotent and scoped to this agent only.
func (a *Agent) Cancel() {
	a.Generator.Cancel()
	a.Driver.Cancel()
	a.TickLater()
}

// Done returns true once the combined run has completed.
func (a *Agent) Done() bool {
	return a.done
}

// AgentBuilder builds channel agents.
type AgentBuilder struct {
	engine      sim.Engine
	freq        sim.Freq
	channelID   int
	oracle      capacity.Oracle
	count       int
	seed        int64
	fixedIdle   int
	hasFixed    bool
	flushPulses int

	wordLo, wordHi int
	hasWordRange   bool
}

// MakeAgentBuilder returns a builder with the default agent configuration.
func MakeAgentBuilder() AgentBuilder {
	return AgentBuilder{
		freq:  1 * sim.GHz,
		count: CountUnbounded,
	}
}

// WithEngine sets the engine the agent runs on.
func (b AgentBuilder) WithEngine(engine sim.Engine) AgentBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the shared timing reference.
func (b AgentBuilder) WithFreq(freq sim.Freq) AgentBuilder {
	b.freq = freq
	return b
}

// WithChannelID binds the agent to a channel.
func (b AgentBuilder) WithChannelID(id int) AgentBuilder {
	b.channelID = id
	return b
}

// WithOracle sets the flow-control interface the driver drives against.
func (b AgentBuilder) WithOracle(oracle capacity.Oracle) AgentBuilder {
	b.oracle = oracle
	return b
}

// WithCount sets the number of transactions to generate, or CountUnbounded.
func (b AgentBuilder) WithCount(count int) AgentBuilder {
	b.count = count
	return b
}

// WithSeed sets the randomization seed of the agent's factory.
func (b AgentBuilder) WithSeed(seed int64) AgentBuilder {
	b.seed = seed
	return b
}

// WithFixedIdle pins the idle pacing of every transaction to one value.
func (b AgentBuilder) WithFixedIdle(idle int) AgentBuilder {
	b.fixedIdle = idle
	b.hasFixed = true
	return b
}

// WithWordCountRange narrows the number of data words per transaction.
func (b AgentBuilder) WithWordCountRange(lo, hi int) AgentBuilder {
	b.wordLo = lo
	b.wordHi = hi
	b.hasWordRange = true
	return b
}

// WithFlushPulses sets the number of extra idle pulses the agent issues
// after its bounded run completes.
func (b AgentBuilder) WithFlushPulses(n int) AgentBuilder {
	b.flushPulses = n
	return b
}

// Build creates the agent together with its generator and driver. The
// request and response queues are owned by the generator and shared by
// reference with the driver.
func (b AgentBuilder) Build(name string) *Agent {
	if b.oracle == nil {
		panic("agent " + name + " has no oracle bound")
	}

	fb := txn.MakeFactoryBuilder().
		WithChannelID(b.channelID).
		WithSeed(b.seed)
	if b.hasFixed {
		fb = fb.WithFixedIdle(b.fixedIdle)
	}
	if b.hasWordRange {
		fb = fb.WithWordCountRange(b.wordLo, b.wordHi)
	}

	reqBuf := sim.NewBuffer(name+".ReqBuf", 1)
	rspBuf := sim.NewBuffer(name+".RspBuf", 1)

	a := &Agent{
		ChannelID: b.channelID,
		Generator: &Generator{
			name:      name + ".Generator",
			factory:   fb.Build(),
			reqBuf:    reqBuf,
			rspBuf:    rspBuf,
			count:     b.count,
			latencies: hdrhistogram.New(1, 1_000_000, 3),
		},
		Driver: &Driver{
			name:   name + ".Driver",
			oracle: b.oracle,
			reqBuf: reqBuf,
			rspBuf: rspBuf,
		},
		flushLeft: b.flushPulses,
	}

	a.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, a)

	return a
}
