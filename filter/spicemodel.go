package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/spice"
)

// ErrNoSimulator is returned when the spice model has no simulator to run.
var ErrNoSimulator = errors.New("no external simulator configured")

// Literal settings of the spice testbench.
const (
	SpiceEps         = "1e-6"
	SpiceCorner      = "top_tt"
	SpiceTemperature = 27
	SpiceStimulus    = "Vinput input gnd dc 0 ac 1"
)

// SpiceModel delegates the filter to an external analog simulator.
type SpiceModel struct {
	Simulator *spice.Simulator

	// DUTFile replaces the built-in RC netlist when set.
	DUTFile string
	// LibFile holds the process corners.
	LibFile string
	// Sweep defaults to spice.DefaultACSweep().
	Sweep *spice.SimCmd

	PreserveIOFiles    bool
	PreserveSpiceFiles bool
}

// Name returns "spice".
func (SpiceModel) Name() string {
	return "spice"
}

func (m SpiceModel) execute(ctx context.Context, f *Filter) error {
	f.publish(PortWaveform, sim.NewIO())

	cfg := m.Configure(f)
	f.Lock()
	f.Spice = cfg
	f.Unlock()

	if m.Simulator == nil {
		return fmt.Errorf("%w: %s", ErrNoSimulator, f.Name())
	}

	outputs, err := m.Simulator.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name(), err)
	}

	waveform := outputs[PortWaveform]

	output := sim.NewIO()
	output.Data = make([][]complex128, waveform.NumRows())
	for i, v := range waveform.Column(2) {
		output.Data[i] = []complex128{v}
	}

	f.publish(PortWaveform, waveform)
	f.publish(PortOutput, output)

	return nil
}

// Configure builds the simulator configuration of the filter.
func (m SpiceModel) Configure(f *Filter) *spice.Config {
	cfg := spice.NewConfig()
	cfg.Title = f.Name()
	cfg.PreserveIOFiles = m.PreserveIOFiles
	cfg.PreserveSpiceFiles = m.PreserveSpiceFiles

	cfg.AddIOFile(spice.IOFile{
		Name:       PortWaveform,
		Dir:        spice.Out,
		IOType:     "event",
		SourceType: "v",
		DataType:   "complex",
		IONames:    []string{PortInput, PortOutput},
	})

	cfg.NProc = 1
	cfg.Options["eps"] = SpiceEps
	cfg.Parameters["Capval"] = spice.FormatValue(f.Capacitance)
	cfg.Parameters["rval"] = spice.FormatValue(f.Resistance)
	cfg.Corner = spice.Corner{
		Name:    SpiceCorner,
		Temp:    SpiceTemperature,
		LibFile: m.LibFile,
	}

	cfg.DUTFile = m.DUTFile
	if m.DUTFile == "" {
		cfg.DUT = []string{
			"Rfilter input output {rval}",
			"Cfilter output gnd {Capval}",
		}
	}

	cfg.Misc = append(cfg.Misc, SpiceStimulus)
	cfg.AddDCSource(spice.DCSource{Name: "gnd", Value: 0, Pos: "gnd", Neg: "0"})

	sweep := spice.DefaultACSweep()
	if m.Sweep != nil {
		sweep = *m.Sweep
	}
	cfg.AddSimCmd(sweep)

	return cfg
}
