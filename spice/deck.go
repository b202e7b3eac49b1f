package spice

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAnalysis is returned when a deck is rendered without any simulation
// command.
var ErrNoAnalysis = errors.New("no simulation command declared")

// DeckFileName is the name of the rendered netlist inside a work directory.
const DeckFileName = "tb.cir"

// WriteDeck renders the configuration as an ngspice netlist.
func (c *Config) WriteDeck(w io.Writer) error {
	if err := c.deckMustBeRenderable(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	title := c.Title
	if title == "" {
		title = "filterkit testbench"
	}
	fmt.Fprintf(bw, "* %s\n", title)

	c.writeDevice(bw)
	c.writeSettings(bw)
	c.writeStimuli(bw)

	if err := c.writeAnalyses(bw); err != nil {
		return err
	}

	c.writeControl(bw)
	fmt.Fprintln(bw, ".end")

	return bw.Flush()
}

// Deck renders the configuration as a string.
func (c *Config) Deck() (string, error) {
	sb := new(strings.Builder)
	if err := c.WriteDeck(sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (c *Config) deckMustBeRenderable() error {
	if len(c.SimCmds) == 0 {
		return ErrNoAnalysis
	}

	for _, f := range c.IOFiles {
		if f.Dir == In {
			return fmt.Errorf("io file %s: input files are not supported", f.Name)
		}

		if len(f.IONames) == 0 {
			return fmt.Errorf("io file %s: no io names", f.Name)
		}

		if f.SourceType != "v" && f.SourceType != "i" {
			return fmt.Errorf("io file %s: unknown source type %q",
				f.Name, f.SourceType)
		}
	}

	return nil
}

func (c *Config) writeDevice(w io.Writer) {
	if c.DUTFile != "" {
		fmt.Fprintf(w, ".include \"%s\"\n", c.DUTFile)
	}

	for _, l := range c.DUT {
		fmt.Fprintln(w, l)
	}
}

func (c *Config) writeSettings(w io.Writer) {
	for _, k := range sortedKeys(c.Parameters) {
		fmt.Fprintf(w, ".param %s=%s\n", k, c.Parameters[k])
	}

	if len(c.Options) > 0 {
		opts := make([]string, 0, len(c.Options))
		for _, k := range sortedKeys(c.Options) {
			opts = append(opts, k+"="+c.Options[k])
		}
		fmt.Fprintf(w, ".options %s\n", strings.Join(opts, " "))
	}

	fmt.Fprintf(w, ".temp %s\n", FormatValue(c.Corner.Temp))

	switch {
	case c.Corner.LibFile != "":
		fmt.Fprintf(w, ".lib \"%s\" %s\n", c.Corner.LibFile, c.Corner.Name)
	case c.Corner.Name != "":
		fmt.Fprintf(w, "* corner %s\n", c.Corner.Name)
	}
}

func (c *Config) writeStimuli(w io.Writer) {
	for _, l := range c.Misc {
		fmt.Fprintln(w, l)
	}

	for _, s := range c.DCSources {
		fmt.Fprintln(w, s.Line())
	}
}

func (c *Config) writeAnalyses(w io.Writer) error {
	for _, cmd := range c.SimCmds {
		line, err := cmd.Line()
		if err != nil {
			return err
		}

		fmt.Fprintln(w, line)
	}

	return nil
}

func (c *Config) writeControl(w io.Writer) {
	nproc := c.NProc
	if nproc < 1 {
		nproc = 1
	}

	fmt.Fprintln(w, ".control")
	fmt.Fprintf(w, "set num_threads=%d\n", nproc)
	fmt.Fprintln(w, "set wr_singlescale")
	fmt.Fprintln(w, "set wr_vecnames")
	fmt.Fprintln(w, "run")

	for _, f := range c.OutputFiles() {
		fmt.Fprintf(w, "wrdata %s %s\n",
			f.FileName(), strings.Join(f.Vectors(), " "))
	}

	fmt.Fprintln(w, ".endc")
}
