package spice

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/filterkit/sim"
)

var (
	// ErrNoOutput is returned when the simulator did not produce any sample
	// for an IO file.
	ErrNoOutput = errors.New("simulator produced no output")

	// ErrMalformedOutput is returned when a row of simulator output does not
	// match the declared vectors.
	ErrMalformedOutput = errors.New("malformed simulator output")
)

// ReadWaveform imports a file written by wrdata. Each row of the result holds
// the scale (frequency or time) followed by one value per IO name.
func ReadWaveform(r io.Reader, f IOFile) (*sim.IO, error) {
	perVector := 1
	if f.IsComplex() {
		perVector = 2
	}
	expected := perVector * len(f.IONames)

	out := sim.NewIO()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		values, isNumeric := parseFields(fields)
		if !isNumeric {
			if out.IsEmpty() {
				continue // vector-name header
			}

			return nil, fmt.Errorf("%w: %s line %d: %q",
				ErrMalformedOutput, f.FileName(), lineNo, scanner.Text())
		}

		row, err := assembleRow(values, expected, perVector)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v",
				ErrMalformedOutput, f.FileName(), lineNo, err)
		}

		out.Data = append(out.Data, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if out.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrNoOutput, f.FileName())
	}

	return out, nil
}

func parseFields(fields []string) ([]float64, bool) {
	values := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}

	return values, true
}

// assembleRow accepts both a real scale column and a complex scale written as
// two columns.
func assembleRow(values []float64, expected, perVector int) ([]complex128, error) {
	var offset int

	switch len(values) {
	case expected + 1:
		offset = 1
	case expected + 2:
		offset = 2
	default:
		return nil, fmt.Errorf("got %d columns, want %d", len(values), expected+1)
	}

	row := make([]complex128, 0, expected/perVector+1)
	row = append(row, complex(values[0], 0))

	for i := offset; i < len(values); i += perVector {
		if perVector == 2 {
			row = append(row, complex(values[i], values[i+1]))
		} else {
			row = append(row, complex(values[i], 0))
		}
	}

	return row, nil
}
