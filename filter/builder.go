package filter

import (
	"github.com/sarchlab/filterkit/sim"
)

// Builder can build filters.
type Builder struct {
	resistance  float64
	capacitance float64
	sampleRate  float64
	resultPort  string
	model       Model
	parent      Parent
	hooks       []sim.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		resistance:  DefaultResistance,
		capacitance: DefaultCapacitance,
		sampleRate:  DefaultSampleRate,
		resultPort:  PortOutput,
		model:       SoftwareModel{},
	}
}

// WithResistance sets the resistance in ohms.
func (b Builder) WithResistance(r float64) Builder {
	b.resistance = r
	return b
}

// WithCapacitance sets the capacitance in farads.
func (b Builder) WithCapacitance(c float64) Builder {
	b.capacitance = c
	return b
}

// WithSampleRate sets the sample rate used by the behavioral model.
func (b Builder) WithSampleRate(fs float64) Builder {
	b.sampleRate = fs
	return b
}

// WithResultPort selects the port reported after a run.
func (b Builder) WithResultPort(port string) Builder {
	b.resultPort = port
	return b
}

// WithModel sets the model.
func (b Builder) WithModel(m Model) Builder {
	b.model = m
	return b
}

// WithParent sets the entity whose parameters are propagated.
func (b Builder) WithParent(p Parent) Builder {
	b.parent = p
	return b
}

// WithHook attaches a hook to the filter before it is initialized.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// Build creates a new filter.
func (b Builder) Build(name string) *Filter {
	f := &Filter{
		EntityBase:  sim.NewEntityBase(name),
		Resistance:  b.resistance,
		Capacitance: b.capacitance,
		SampleRate:  b.sampleRate,
		ResultPort:  b.resultPort,
		Model:       b.model,
	}

	f.IOS().Register(PortInput, sim.NewIO())
	f.IOS().Register(PortOutput, sim.NewIO())

	if b.parent != nil {
		f.inherit(b.parent)
	}

	for _, h := range b.hooks {
		f.AcceptHook(h)
	}

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosInit,
	})

	f.Init()

	return f
}
