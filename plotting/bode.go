// Package plotting draws the frequency response stored in a waveform port.
package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/cmplx"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/filterkit/sim"
)

// ErrNoWaveform is returned when there is nothing to plot.
var ErrNoWaveform = errors.New("no waveform data")

// Plot size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// FloorDB is drawn for zero magnitudes.
const FloorDB = -300.0

// Curves extracts the input and output magnitudes in dB from waveform rows
// laid out as [f, V(input), V(output)]. Rows at non-positive frequencies are
// skipped since they cannot be drawn on a log axis.
func Curves(io *sim.IO) (in, out plotter.XYs, err error) {
	if io == nil || io.IsEmpty() {
		return nil, nil, ErrNoWaveform
	}

	for i, row := range io.Data {
		if len(row) < 3 {
			return nil, nil, fmt.Errorf(
				"waveform row %d has %d columns, need 3", i, len(row))
		}

		freq := real(row[0])
		if freq <= 0 {
			continue
		}

		in = append(in, plotter.XY{X: freq, Y: decibel(row[1])})
		out = append(out, plotter.XY{X: freq, Y: decibel(row[2])})
	}

	if len(in) == 0 {
		return nil, nil, ErrNoWaveform
	}

	return in, out, nil
}

// Bode saves the magnitude response of an entity run with the named model to
// path. The image format follows the file extension.
func Bode(entityName, model string, io *sim.IO, path string) error {
	in, out, err := Curves(io)
	if err != nil {
		return fmt.Errorf("plotting %s: %w", entityName, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", entityName, model)
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Magnitude (dB)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	inLine, err := plotter.NewLine(in)
	if err != nil {
		return err
	}
	inLine.LineStyle.Color = color.RGBA{B: 200, A: 255}
	inLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	outLine, err := plotter.NewLine(out)
	if err != nil {
		return err
	}
	outLine.LineStyle.Color = color.RGBA{R: 200, A: 255}
	outLine.LineStyle.Width = vg.Points(1.5)

	p.Add(inLine, outLine)
	p.Legend.Add("input", inLine)
	p.Legend.Add("output", outLine)
	p.Legend.Top = true

	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}

func decibel(v complex128) float64 {
	mag := cmplx.Abs(v)
	if mag == 0 {
		return FloorDB
	}

	return math.Max(20*math.Log10(mag), FloorDB)
}
