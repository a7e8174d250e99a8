package scenario

import (
	"log"

	"github.com/sarchlab/muxbench/sim"
)

// A Logger is a hook that writes advisory progress traces at scenario
// phase transitions. The format is logging-only, not a binding contract.
type Logger struct {
	sim.LogHookBase
}

// NewLogger returns a Logger writing into the given logger.
func NewLogger(logger *log.Logger) *Logger {
	h := new(Logger)
	h.Logger = logger
	return h
}

// Func writes one trace line per observed scenario hook.
func (h *Logger) Func(ctx sim.HookCtx) {
	name := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosScenarioStart:
		h.Printf("%s: start %+v", name, ctx.Detail)
	case HookPosBarrierReached:
		h.Printf("%s: barrier reached (%v)", name, ctx.Detail)
	case HookPosStateChange:
		h.Printf("%s: -> %v", name, ctx.Detail)
	case HookPosScenarioFinish:
		h.Printf("%s: finished", name)
	}
}
