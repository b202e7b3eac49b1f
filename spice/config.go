package spice

import (
	"fmt"
	"math"
	"sort"
)

// Direction tells whether an IO file feeds the simulator or is extracted from
// it.
type Direction int

// The directions of IO files.
const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}

	return "out"
}

// IOFile declares a set of simulator vectors bound to an entity port.
type IOFile struct {
	// Name is the port the extracted data is assigned to.
	Name       string
	Dir        Direction
	IOType     string // "event" or "sample"
	SourceType string // "v" or "i"
	DataType   string // "complex" or "real"
	// IONames are the nodes (SourceType "v") or branches (SourceType "i") to
	// extract.
	IONames []string
}

// FileName returns the name of the file the simulator writes the vectors to.
func (f IOFile) FileName() string {
	return "tb_" + f.Name + ".txt"
}

// Vectors returns the simulator vector expressions of the IO file.
func (f IOFile) Vectors() []string {
	vectors := make([]string, 0, len(f.IONames))
	for _, n := range f.IONames {
		vectors = append(vectors, f.SourceType+"("+n+")")
	}

	return vectors
}

// IsComplex returns true if the vectors are written as real/imaginary pairs.
func (f IOFile) IsComplex() bool {
	return f.DataType == "complex"
}

// DCSource is an ideal DC voltage source.
type DCSource struct {
	Name  string
	Value float64
	Pos   string
	Neg   string
}

// Line renders the source as a netlist element.
func (s DCSource) Line() string {
	return fmt.Sprintf("V%s %s %s dc %s", s.Name, s.Pos, s.Neg, FormatValue(s.Value))
}

// Analysis is the kind of simulation command.
type Analysis string

// Supported analyses.
const (
	AnalysisAC   Analysis = "ac"
	AnalysisTran Analysis = "tran"
	AnalysisOP   Analysis = "op"
)

// SimCmd is a simulation command.
type SimCmd struct {
	Analysis Analysis

	// AC sweep
	Sweep  string // dec, oct or lin
	Points int
	FStart float64
	FStop  float64

	// Transient
	TStep float64
	TStop float64
}

// DefaultACSweep returns an AC sweep with 10 points per decade from 1 kHz to
// 100 GHz.
func DefaultACSweep() SimCmd {
	return SimCmd{
		Analysis: AnalysisAC,
		Sweep:    "dec",
		Points:   10,
		FStart:   1e3,
		FStop:    1e11,
	}
}

// Line renders the simulation command.
func (c SimCmd) Line() (string, error) {
	switch c.Analysis {
	case AnalysisAC:
		switch c.Sweep {
		case "dec", "oct", "lin":
		default:
			return "", fmt.Errorf("invalid sweep type: %q", c.Sweep)
		}

		if c.Points <= 0 || c.FStart <= 0 || c.FStop < c.FStart {
			return "", fmt.Errorf("invalid ac sweep %d %g %g",
				c.Points, c.FStart, c.FStop)
		}

		return fmt.Sprintf(".ac %s %d %s %s", c.Sweep, c.Points,
			FormatValue(c.FStart), FormatValue(c.FStop)), nil
	case AnalysisTran:
		if c.TStep <= 0 || c.TStop <= c.TStep {
			return "", fmt.Errorf("invalid tran %g %g", c.TStep, c.TStop)
		}

		return fmt.Sprintf(".tran %s %s",
			FormatValue(c.TStep), FormatValue(c.TStop)), nil
	case AnalysisOP:
		return ".op", nil
	default:
		return "", fmt.Errorf("unknown analysis %q", c.Analysis)
	}
}

// Corner selects the process corner and the temperature.
type Corner struct {
	Name string
	Temp float64
	// LibFile is the model library containing the corner section. Without it
	// the corner is only recorded in the deck as a comment.
	LibFile string
}

// Config holds everything the external simulator needs to simulate an
// entity. Options and parameters are passed through without validation.
type Config struct {
	Title      string
	NProc      int
	Options    map[string]string
	Parameters map[string]string
	Corner     Corner
	Misc       []string

	// DUTFile is included verbatim. DUT lines are emitted after it.
	DUTFile string
	DUT     []string

	DCSources []DCSource
	IOFiles   []IOFile
	SimCmds   []SimCmd

	PreserveIOFiles    bool
	PreserveSpiceFiles bool
}

// NewConfig creates an empty configuration.
func NewConfig() *Config {
	return &Config{
		NProc:      1,
		Options:    make(map[string]string),
		Parameters: make(map[string]string),
	}
}

// AddIOFile declares an IO file. A file with the same name is replaced.
func (c *Config) AddIOFile(f IOFile) {
	for i, existing := range c.IOFiles {
		if existing.Name == f.Name {
			c.IOFiles[i] = f
			return
		}
	}

	c.IOFiles = append(c.IOFiles, f)
}

// AddDCSource declares a DC source. A source with the same name is replaced.
func (c *Config) AddDCSource(s DCSource) {
	for i, existing := range c.DCSources {
		if existing.Name == s.Name {
			c.DCSources[i] = s
			return
		}
	}

	c.DCSources = append(c.DCSources, s)
}

// AddSimCmd declares a simulation command. A command of the same analysis is
// replaced.
func (c *Config) AddSimCmd(cmd SimCmd) {
	for i, existing := range c.SimCmds {
		if existing.Analysis == cmd.Analysis {
			c.SimCmds[i] = cmd
			return
		}
	}

	c.SimCmds = append(c.SimCmds, cmd)
}

// OutputFiles returns the IO files extracted from the simulator.
func (c *Config) OutputFiles() []IOFile {
	var out []IOFile
	for _, f := range c.IOFiles {
		if f.Dir == Out {
			out = append(out, f)
		}
	}

	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Frequencies returns the points an AC sweep visits.
func (c SimCmd) Frequencies() []float64 {
	if c.Analysis != AnalysisAC || c.Points <= 0 || c.FStart <= 0 ||
		c.FStop < c.FStart {
		return nil
	}

	var step func(i int) float64

	switch c.Sweep {
	case "dec":
		step = func(i int) float64 {
			return c.FStart * math.Pow(10, float64(i)/float64(c.Points))
		}
	case "oct":
		step = func(i int) float64 {
			return c.FStart * math.Pow(2, float64(i)/float64(c.Points))
		}
	case "lin":
		if c.Points == 1 {
			return []float64{c.FStart}
		}

		delta := (c.FStop - c.FStart) / float64(c.Points-1)
		step = func(i int) float64 { return c.FStart + float64(i)*delta }
	default:
		return nil
	}

	limit := c.FStop * (1 + 1e-9)

	var freqs []float64
	for i := 0; ; i++ {
		f := step(i)
		if f > limit {
			break
		}

		freqs = append(freqs, f)
	}

	return freqs
}
