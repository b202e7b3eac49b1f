package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/spice"
)

// ErrNoInput is returned when the behavioral model finds no samples on the
// input port.
var ErrNoInput = errors.New("no input samples")

// BehavioralModel filters the input samples in-process with a first-order
// low-pass obtained from the RC prototype by the bilinear transform. It also
// fills the waveform port with the response over Sweep, so that it can be
// plotted next to a spice run.
type BehavioralModel struct {
	// Sweep defaults to spice.DefaultACSweep().
	Sweep *spice.SimCmd
}

// Name returns "behavioral".
func (BehavioralModel) Name() string {
	return "behavioral"
}

func (m BehavioralModel) execute(_ context.Context, f *Filter) error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%s: sample rate must be positive, got %g",
			f.Name(), f.SampleRate)
	}

	in := f.IOS().Get(PortInput)
	if in.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrNoInput, f.Name())
	}

	samples := in.RealColumn(0)
	coeffs := RCCoefficients(f.Resistance, f.Capacitance, f.SampleRate)

	out := make([]float64, len(samples))
	biquad.NewSection(coeffs).ProcessBlockTo(out, samples)

	f.publish(PortOutput, sim.NewIOFromReal(out))
	f.publish(PortWaveform, m.response(coeffs, f.SampleRate))

	return nil
}

func (m BehavioralModel) response(
	coeffs biquad.Coefficients,
	sampleRate float64,
) *sim.IO {
	sweep := spice.DefaultACSweep()
	if m.Sweep != nil {
		sweep = *m.Sweep
	}

	io := sim.NewIO()
	for _, freq := range sweep.Frequencies() {
		if freq >= sampleRate/2 {
			break
		}

		io.Data = append(io.Data, []complex128{
			complex(freq, 0),
			1,
			coeffs.Response(freq, sampleRate),
		})
	}

	return io
}

// RCCoefficients returns the digital first-order low-pass equivalent to an
// RC divider, H(s) = 1 / (1 + sRC), sampled at sampleRate.
func RCCoefficients(r, c, sampleRate float64) biquad.Coefficients {
	k := 2 * sampleRate * r * c

	return biquad.Coefficients{
		B0: 1 / (1 + k),
		B1: 1 / (1 + k),
		A1: (1 - k) / (1 + k),
	}
}
