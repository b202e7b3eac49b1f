package sim

import "fmt"

// IO is a data container attached to a named port of an entity. Data is a
// row-major matrix; a single-signal port uses one column.
type IO struct {
	Data [][]complex128
}

// NewIO creates an empty IO.
func NewIO() *IO {
	return &IO{}
}

// NewIOFromReal creates a single-column IO holding the given samples.
func NewIOFromReal(samples []float64) *IO {
	io := &IO{Data: make([][]complex128, len(samples))}
	for i, s := range samples {
		io.Data[i] = []complex128{complex(s, 0)}
	}

	return io
}

// NumRows returns the number of rows stored.
func (io *IO) NumRows() int {
	return len(io.Data)
}

// IsEmpty returns true if no data has been assigned to the IO.
func (io *IO) IsEmpty() bool {
	return len(io.Data) == 0
}

// Column extracts one column of the data. Rows shorter than the column index
// contribute a zero.
func (io *IO) Column(col int) []complex128 {
	if col < 0 {
		panic(fmt.Sprintf("column %d is negative", col))
	}

	out := make([]complex128, len(io.Data))
	for i, row := range io.Data {
		if col < len(row) {
			out[i] = row[col]
		}
	}

	return out
}

// RealColumn extracts the real part of one column.
func (io *IO) RealColumn(col int) []float64 {
	c := io.Column(col)

	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}

	return out
}

// Clone returns a deep copy of the IO.
func (io *IO) Clone() *IO {
	clone := &IO{Data: make([][]complex128, len(io.Data))}
	for i, row := range io.Data {
		clone.Data[i] = append([]complex128(nil), row...)
	}

	return clone
}
