package trace

import (
	"github.com/sarchlab/muxbench/channel"
	"github.com/sarchlab/muxbench/scenario"
	"github.com/sarchlab/muxbench/sim"
)

// A PhaseEntry records one scenario phase transition.
type PhaseEntry struct {
	Scenario string
	Time     float64
	Phase    string
}

// A BarrierEntry records a margin barrier being satisfied across all
// channels.
type BarrierEntry struct {
	Scenario string
	Time     float64
	Barrier  string
}

// An ItemEntry records one data word accepted by the consumer.
type ItemEntry struct {
	Channel int
	Time    float64
	Word    uint32
}

// A ScenarioTracer hooks into a scenario and its drivers and records the
// phase transitions, barriers, and accepted words into a Recorder.
type ScenarioTracer struct {
	recorder   Recorder
	timeTeller sim.TimeTeller
}

// NewScenarioTracer creates a tracer that writes through the given
// recorder, stamping entries with the time teller's current time.
func NewScenarioTracer(
	recorder Recorder,
	timeTeller sim.TimeTeller,
) *ScenarioTracer {
	t := &ScenarioTracer{
		recorder:   recorder,
		timeTeller: timeTeller,
	}

	recorder.CreateTable("scenario_phase", PhaseEntry{})
	recorder.CreateTable("barrier", BarrierEntry{})
	recorder.CreateTable("item", ItemEntry{})

	return t
}

// CollectScenario attaches the tracer to a scenario and to the driver of
// each of its channels.
func (t *ScenarioTracer) CollectScenario(s *scenario.Scenario) {
	s.AcceptHook(t)

	for _, a := range s.Agents() {
		a.Driver.AcceptHook(&driverTap{
			tracer:    t,
			channelID: a.ChannelID,
		})
	}
}

// Func records scenario-level hook events.
func (t *ScenarioTracer) Func(ctx sim.HookCtx) {
	name := ""
	if n, ok := ctx.Domain.(sim.Named); ok {
		name = n.Name()
	}

	switch ctx.Pos {
	case scenario.HookPosScenarioStart:
		t.recordPhase(name, scenario.Running.String())
	case scenario.HookPosStateChange:
		t.recordPhase(name, ctx.Detail.(scenario.State).String())
	case scenario.HookPosBarrierReached:
		t.recorder.InsertData("barrier", BarrierEntry{
			Scenario: name,
			Time:     float64(t.timeTeller.CurrentTime()),
			Barrier:  ctx.Detail.(string),
		})
	}
}

func (t *ScenarioTracer) recordPhase(name, phase string) {
	t.recorder.InsertData("scenario_phase", PhaseEntry{
		Scenario: name,
		Time:     float64(t.timeTeller.CurrentTime()),
		Phase:    phase,
	})
}

// driverTap forwards one driver's accepted words, stamped with the channel
// the driver is bound to.
type driverTap struct {
	tracer    *ScenarioTracer
	channelID int
}

func (h *driverTap) Func(ctx sim.HookCtx) {
	if ctx.Pos != channel.HookPosItemDriven {
		return
	}

	h.tracer.recorder.InsertData("item", ItemEntry{
		Channel: h.channelID,
		Time:    float64(h.tracer.timeTeller.CurrentTime()),
		Word:    ctx.Item.(uint32),
	})
}
