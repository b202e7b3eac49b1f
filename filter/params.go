package filter

// Port names of a Filter.
const (
	PortInput    = "input"
	PortOutput   = "output"
	PortWaveform = "waveform"
)

// Default parameter values.
const (
	DefaultResistance  = 1e3
	DefaultCapacitance = 1e-12
	DefaultSampleRate  = 1e12
)

// Propagated holds the parameters a filter inherits from its parent. Only
// the fields listed here are ever copied.
type Propagated struct {
	Rs float64
}

// A Parent is an entity whose parameters propagate into the filters it
// creates.
type Parent interface {
	Propagated() Propagated
}

// Propagated returns the parameters this filter passes on to its own
// children.
func (f *Filter) Propagated() Propagated {
	return Propagated{Rs: f.Rs}
}

func (f *Filter) inherit(p Parent) {
	props := p.Propagated()
	f.Rs = props.Rs
	f.parent = p
}
