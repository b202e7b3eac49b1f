// Package cmd provides the command-line interface of filtersim.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/spice"
)

// Environment variables that provide flag defaults. They may also be set in
// a .env file in the working directory.
const (
	EnvSpiceBin    = "FILTERSIM_SPICE_BIN"
	EnvWorkDir     = "FILTERSIM_WORK_DIR"
	EnvMonitorPort = "FILTERSIM_MONITOR_PORT"
)

type settings struct {
	spiceBin    string
	workDir     string
	monitorPort int

	resistance  float64
	capacitance float64
	sampleRate  float64
	rs          float64
	sweep       string
	dutFile     string
	libFile     string
	preserve    bool
	verbose     bool
}

var globals settings

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "filtersim",
	Short: "filtersim builds and runs RC filter entities.",
	Long: `filtersim builds RC filter entities and runs them with a ` +
		`software hook, an in-process behavioral model or an external ` +
		`SPICE simulator (ngspice).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadEnv(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.spiceBin, "spice-bin", "ngspice",
		"SPICE simulator binary, env "+EnvSpiceBin)
	flags.StringVar(&globals.workDir, "work-dir", "",
		"directory that holds simulator work directories, env "+EnvWorkDir)
	flags.Float64Var(&globals.resistance, "resistance",
		filter.DefaultResistance, "filter resistance in ohm")
	flags.Float64Var(&globals.capacitance, "capacitance",
		filter.DefaultCapacitance, "filter capacitance in farad")
	flags.Float64Var(&globals.sampleRate, "sample-rate",
		filter.DefaultSampleRate, "behavioral model sample rate in Hz")
	flags.Float64Var(&globals.rs, "rs", 0,
		"source resistance propagated to every filter")
	flags.StringVar(&globals.sweep, "sweep", ".ac dec 10 1k 100g",
		"simulation command of the spice testbench")
	flags.StringVar(&globals.dutFile, "dut", "",
		"netlist included instead of the built-in RC divider")
	flags.StringVar(&globals.libFile, "lib", "",
		"model library holding the process corners")
	flags.BoolVar(&globals.preserve, "preserve", false,
		"keep simulator work directories")
	flags.BoolVarP(&globals.verbose, "verbose", "v", false,
		"log the lifecycle of every filter")
}

func loadEnv(cmd *cobra.Command) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	flags := cmd.Flags()

	if v, ok := os.LookupEnv(EnvSpiceBin); ok && !flags.Changed("spice-bin") {
		globals.spiceBin = v
	}

	if v, ok := os.LookupEnv(EnvWorkDir); ok && !flags.Changed("work-dir") {
		globals.workDir = v
	}

	if v, ok := os.LookupEnv(EnvMonitorPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMonitorPort, err)
		}

		globals.monitorPort = port
	}

	return nil
}

func (s settings) simulator() *spice.Simulator {
	return spice.NewSimulator(spice.NewNgspiceExecutor(s.spiceBin), s.workDir)
}

func (s settings) model(name string) (filter.Model, error) {
	model, err := filter.ParseModel(name, s.simulator())
	if err != nil {
		return nil, err
	}

	sweep, err := spice.ParseSimCmd(s.sweep)
	if err != nil {
		return nil, fmt.Errorf("--sweep: %w", err)
	}

	switch m := model.(type) {
	case filter.SpiceModel:
		m.Sweep = &sweep
		m.DUTFile = s.dutFile
		m.LibFile = s.libFile
		m.PreserveIOFiles = s.preserve
		m.PreserveSpiceFiles = s.preserve

		return m, nil
	case filter.BehavioralModel:
		m.Sweep = &sweep
		return m, nil
	}

	return model, nil
}

func (s settings) builder(model filter.Model) filter.Builder {
	b := filter.MakeBuilder().
		WithResistance(s.resistance).
		WithCapacitance(s.capacitance).
		WithSampleRate(s.sampleRate).
		WithParent(source{rs: s.rs}).
		WithModel(model)

	if s.verbose {
		b = b.WithHook(sim.NewEntityLogger(log.New(os.Stderr, "", 0)))
	}

	return b
}

// source carries the propagated parameters of a command-line run.
type source struct {
	rs float64
}

func (s source) Propagated() filter.Propagated {
	return filter.Propagated{Rs: s.rs}
}

// stepInput returns n samples of a unit step.
func stepInput(n int) *sim.IO {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 1
	}

	return sim.NewIOFromReal(samples)
}
