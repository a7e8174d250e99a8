// Package scenario configures and runs the multi-channel load scenarios of
// the harness. One parameterized Scenario type covers the steady-state,
// back-to-back burst, and saturate-then-drain profiles; the variants differ
// only in idle policy and barrier/termination policy.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/muxbench/capacity"
	"github.com/sarchlab/muxbench/channel"
	"github.com/sarchlab/muxbench/sim"
)

// HookPosScenarioStart marks when a scenario starts running.
var HookPosScenarioStart = &sim.HookPos{Name: "Scenario Start"}

// HookPosStateChange marks a scenario phase transition.
var HookPosStateChange = &sim.HookPos{Name: "Scenario State Change"}

// HookPosBarrierReached marks when a margin barrier is satisfied across all
// channels.
var HookPosBarrierReached = &sim.HookPos{Name: "Barrier Reached"}

// HookPosScenarioFinish marks when a scenario reaches the finished state.
var HookPosScenarioFinish = &sim.HookPos{Name: "Scenario Finish"}

// Kind selects the load profile of a scenario.
type Kind int

// The supported load profiles.
const (
	// Basic runs a bounded count per channel with randomized idle pacing.
	Basic Kind = iota

	// Burst runs a bounded count back-to-back with no idle pacing, plus
	// one flush pulse per channel.
	Burst

	// Saturation generates unbounded traffic until every channel is
	// saturated, then cancels and drains.
	Saturation
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Burst:
		return "burst"
	case Saturation:
		return "saturation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a profile name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "basic":
		return Basic, nil
	case "burst":
		return Burst, nil
	case "saturation":
		return Saturation, nil
	default:
		return 0, fmt.Errorf("unknown scenario kind %q", s)
	}
}

// State is the phase a scenario is in.
type State int

// The scenario phases.
const (
	Configured State = iota
	Running
	Draining
	Finished
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config parameterizes a scenario.
type Config struct {
	Kind            Kind
	Channels        int
	TransPerChannel int
	Seed            int64

	// MaxCycles bounds the run. Zero disables the bound, accepting that a
	// consumer that never accepts blocks the run forever.
	MaxCycles uint64
}

// A Scenario drives N channel agents against their capacity oracles and
// applies the profile's barrier and termination policy. It observes the
// margins as a secondary ticker, so all N channels are sampled at one
// consistent logical edge, after all same-edge agent activity.
type Scenario struct {
	*sim.TickingComponent

	name   string
	engine sim.Engine
	config Config

	oracles []capacity.Oracle
	agents  []*channel.Agent

	state        State
	fullLatch    []bool
	drainedLatch []bool
	cycles       uint64
	fatalErr     error
	timedOut     bool
}

// Tick applies the barrier and termination policy for one edge.
func (s *Scenario) Tick() bool {
	if s.state == Finished || s.fatalErr != nil || s.timedOut {
		return false
	}

	s.cycles++

	if s.checkFatal() {
		return false
	}

	if s.config.MaxCycles > 0 && s.cycles > s.config.MaxCycles {
		s.timedOut = true
		s.cancelAgents()
		return false
	}

	switch s.state {
	case Running:
		s.tickRunning()
	case Draining:
		s.tickDraining()
	}

	return true
}

func (s *Scenario) tickRunning() {
	if s.config.Kind == Saturation {
		s.latch(s.fullLatch, func(o capacity.Oracle) bool {
			return o.Margin() <= o.FullThreshold()
		})

		if allTrue(s.fullLatch) {
			s.invokeHook(HookPosBarrierReached, "saturated")
			s.enterDraining()
		}

		return
	}

	if !s.allAgentsDone() {
		return
	}

	s.latch(s.drainedLatch, func(o capacity.Oracle) bool {
		return o.Margin() >= o.DrainedThreshold()
	})

	if allTrue(s.drainedLatch) {
		s.invokeHook(HookPosBarrierReached, "drained")
		s.finish()
	}
}

func (s *Scenario) tickDraining() {
	s.latch(s.drainedLatch, func(o capacity.Oracle) bool {
		return o.Margin() >= o.DrainedThreshold()
	})

	if allTrue(s.drainedLatch) {
		s.invokeHook(HookPosBarrierReached, "drained")
		s.finish()
	}
}

// enterDraining cancels all agents. Each cancelled driver discards its
// in-flight state and emits one idle pulse on its own at the next edge.
func (s *Scenario) enterDraining() {
	s.cancelAgents()
	s.state = Draining
	s.invokeHook(HookPosStateChange, s.state)
}

func (s *Scenario) finish() {
	s.state = Finished
	s.invokeHook(HookPosStateChange, s.state)
	s.invokeHook(HookPosScenarioFinish, nil)
}

func (s *Scenario) checkFatal() bool {
	for _, a := range s.agents {
		if err := a.Generator.FatalErr(); err != nil {
			s.fatalErr = err
			s.cancelAgents()
			return true
		}
	}

	return false
}

func (s *Scenario) cancelAgents() {
	for _, a := range s.agents {
		a.Cancel()
	}
}

func (s *Scenario) allAgentsDone() bool {
	for _, a := range s.agents {
		if !a.Done() {
			return false
		}
	}

	return true
}

// latch samples every channel's oracle at the current edge and records the
// channels whose condition holds. A latched channel stays latched: the
// barrier is conjunctive with no cross-channel ordering.
func (s *Scenario) latch(latches []bool, cond func(capacity.Oracle) bool) {
	for i, o := range s.oracles {
		if !latches[i] && cond(o) {
			latches[i] = true
		}
	}
}

func allTrue(latches []bool) bool {
	for _, l := range latches {
		if !l {
			return false
		}
	}

	return true
}

func (s *Scenario) invokeHook(pos *sim.HookPos, detail interface{}) {
	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    pos,
		Detail: detail,
	})
}

// Run starts all agents, runs the engine until the scenario terminates,
// and returns the per-channel summary. Fatal errors abort the whole
// scenario; verification mismatches only show up in the summary counts.
func (s *Scenario) Run() (*Summary, error) {
	if s.state != Configured {
		return nil, fmt.Errorf("scenario %s has already run", s.name)
	}

	s.state = Running
	s.invokeHook(HookPosScenarioStart, s.config)

	for _, a := range s.agents {
		a.TickNow()
	}
	s.TickNow()

	if err := s.engine.Run(); err != nil {
		return nil, err
	}

	if s.fatalErr != nil {
		return nil, s.fatalErr
	}

	summary := s.summarize()
	if s.timedOut {
		return summary, ErrCycleLimit
	}

	return summary, nil
}

// Config returns the configuration the scenario was built with.
func (s *Scenario) Config() Config {
	return s.config
}

// State returns the phase the scenario is in.
func (s *Scenario) State() State {
	return s.state
}

// Agents returns the channel agents of the scenario.
func (s *Scenario) Agents() []*channel.Agent {
	return s.agents
}

// Cycles returns the number of edges the scenario has observed.
func (s *Scenario) Cycles() uint64 {
	return s.cycles
}

func (s *Scenario) summarize() *Summary {
	summary := &Summary{
		Name:   s.name,
		Kind:   s.config.Kind,
		State:  s.state,
		Cycles: s.cycles,
	}

	for _, a := range s.agents {
		summary.PerChannel = append(summary.PerChannel, ChannelResult{
			ChannelID:   a.ChannelID,
			Pass:        a.Generator.PassCount(),
			Fail:        a.Generator.FailCount(),
			ItemsDriven: a.Driver.ItemsDriven(),
			Latencies:   a.Generator.Latencies(),
		})
	}

	return summary
}

// Builder builds scenarios.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	config  Config
	oracles []capacity.Oracle

	fixedIdle    int
	hasFixedIdle bool
}

// MakeBuilder returns a scenario builder with the default configuration:
// three channels, ten transactions each, basic profile.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		config: Config{
			Kind:            Basic,
			Channels:        3,
			TransPerChannel: 10,
		},
	}
}

// WithEngine sets the engine the scenario runs on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the shared timing reference.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithConfig sets the scenario configuration.
func (b Builder) WithConfig(config Config) Builder {
	b.config = config
	return b
}

// WithFixedIdle pins the packet idle spacing of every channel, overriding
// the profile's own idle policy.
func (b Builder) WithFixedIdle(idle int) Builder {
	b.fixedIdle = idle
	b.hasFixedIdle = true
	return b
}

// WithOracles binds the per-channel capacity oracles, in channel order.
func (b Builder) WithOracles(oracles ...capacity.Oracle) Builder {
	b.oracles = oracles
	return b
}

// Build validates the configuration and creates the scenario with its
// agents. A missing or nil channel binding is a ConfigurationError.
func (b Builder) Build(name string) (*Scenario, error) {
	if b.engine == nil {
		panic("scenario must have an engine")
	}

	if b.config.Channels <= 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("channel count %d must be positive",
				b.config.Channels),
		}
	}

	if len(b.oracles) != b.config.Channels {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%d channels configured, %d oracles bound",
				b.config.Channels, len(b.oracles)),
		}
	}

	for i, o := range b.oracles {
		if o == nil {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("channel %d has no oracle bound", i),
			}
		}
	}

	s := &Scenario{
		name:         name,
		engine:       b.engine,
		config:       b.config,
		oracles:      b.oracles,
		fullLatch:    make([]bool, b.config.Channels),
		drainedLatch: make([]bool, b.config.Channels),
	}
	s.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, s)

	idleRng := rand.New(rand.NewSource(b.config.Seed))
	for i := 0; i < b.config.Channels; i++ {
		s.agents = append(s.agents, b.buildAgent(name, i, idleRng))
	}

	return s, nil
}

func (b Builder) buildAgent(
	name string,
	channelID int,
	idleRng *rand.Rand,
) *channel.Agent {
	ab := channel.MakeAgentBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithChannelID(channelID).
		WithOracle(b.oracles[channelID]).
		WithSeed(b.config.Seed + int64(channelID))

	switch b.config.Kind {
	case Basic:
		ab = ab.
			WithCount(b.config.TransPerChannel).
			WithFixedIdle(1 + idleRng.Intn(3))
	case Burst:
		ab = ab.
			WithCount(b.config.TransPerChannel).
			WithFixedIdle(0).
			WithFlushPulses(1)
	case Saturation:
		ab = ab.WithCount(channel.CountUnbounded)
	}

	if b.hasFixedIdle {
		ab = ab.WithFixedIdle(b.fixedIdle)
	}

	return ab.Build(fmt.Sprintf("%s.Agent%d", name, channelID))
}
