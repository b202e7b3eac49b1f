package sim

import (
	"log"
)

// A LogHook is a hook that is responsible for recording information from the
// simulation
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}

// EntityLogger is a hook that prints the lifecycle of entities, one line per
// hook position, tagged the same way as the run log of the simulator kit.
type EntityLogger struct {
	LogHookBase
}

// NewEntityLogger returns a new EntityLogger which will write in to the logger
func NewEntityLogger(logger *log.Logger) *EntityLogger {
	h := new(EntityLogger)
	h.Logger = logger
	return h
}

// Func writes the entity information into the logger
func (h *EntityLogger) Func(ctx HookCtx) {
	name := "unknown"
	if named, ok := ctx.Domain.(Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosInit:
		h.Printf("I: Initializing %s", name)
	case HookPosBeforeRun:
		h.Printf("I: Running %s with model %v", name, ctx.Item)
	case HookPosAfterRun:
		if err, ok := ctx.Detail.(error); ok && err != nil {
			h.Printf("E: %s failed: %v", name, err)
			return
		}

		h.Printf("I: %s finished", name)
	}
}
