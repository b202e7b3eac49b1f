package cmd

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/spf13/cobra"

	"github.com/sarchlab/filterkit/datarecording"
	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/monitoring"
	"github.com/sarchlab/filterkit/parallel"
	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/tracing"
)

type runOptions struct {
	model       string
	count       int
	spread      float64
	samples     int
	parallel    bool
	workers     int
	record      string
	monitor     bool
	openBrowser bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch of filters.",
	Long: "`run --count N` builds N filters whose resistance grows by " +
		"--spread from one to the next and runs them, one after another " +
		"or over a worker pool with --parallel.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBatch(cmd, runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVar(&runOpts.model, "model", "behavioral",
		"model of every filter")
	flags.IntVar(&runOpts.count, "count", 8, "number of filters")
	flags.Float64Var(&runOpts.spread, "spread", 2,
		"resistance ratio between neighboring filters")
	flags.IntVar(&runOpts.samples, "samples", 64,
		"length of the step applied to every input port")
	flags.BoolVar(&runOpts.parallel, "parallel", false,
		"run the filters over a worker pool")
	flags.IntVar(&runOpts.workers, "workers", 0,
		"worker count of the pool, 0 means GOMAXPROCS")
	flags.StringVar(&runOpts.record, "record", "",
		"record the runs into this SQLite database (without extension)")
	flags.BoolVar(&runOpts.monitor, "monitor", false,
		"serve the filters over HTTP while they run")
	flags.BoolVar(&runOpts.openBrowser, "open-browser", false,
		"open the monitor in the default browser")
}

func runBatch(cmd *cobra.Command, opts runOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be positive, got %d", opts.count)
	}

	model, err := globals.model(opts.model)
	if err != nil {
		return err
	}

	timeTracer := tracing.NewTimeTracer(tracing.AllRuns)
	b := globals.builder(model).WithHook(timeTracer)

	if opts.record != "" {
		recorder := datarecording.NewDataRecorder(opts.record)
		execRecorder := datarecording.NewExecRecorder(recorder)
		execRecorder.Start()
		defer execRecorder.End()

		b = b.WithHook(datarecording.NewRunTracer(recorder, filter.PortWaveform))
	}

	var monitor *monitoring.Monitor
	if opts.monitor {
		monitor = monitoring.NewMonitor().
			WithPortNumber(globals.monitorPort).
			WithBrowser(opts.openBrowser)
		monitor.StartServer()
	}

	filters := make([]*filter.Filter, opts.count)
	r := globals.resistance
	for i := range filters {
		f := b.WithResistance(r).
			Build(sim.BuildNameWithIndex("Batch", "Filter", i))
		f.IOS().Get(filter.PortInput).Data = stepInput(opts.samples).Data
		filters[i] = f
		r *= opts.spread

		if monitor != nil {
			monitor.RegisterEntity(f)
		}
	}

	var results []sim.Result
	if opts.parallel {
		results, err = runPooled(cmd.Context(), filters, opts, monitor)
	} else {
		results, err = runSerial(cmd.Context(), filters)
	}

	byEntity := parallel.ByEntity(results)
	for _, f := range filters {
		res, found := byEntity[f.Name()]
		if !found {
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s R=%g: %s\n",
			f.Name(), f.Resistance, summarize(res))
	}

	fmt.Fprintln(cmd.ErrOrStderr(), timeTracer)

	return err
}

func runSerial(
	ctx context.Context,
	filters []*filter.Filter,
) ([]sim.Result, error) {
	results := make([]sim.Result, 0, len(filters))
	for _, f := range filters {
		res, err := f.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}

func runPooled(
	ctx context.Context,
	filters []*filter.Filter,
	opts runOptions,
	monitor *monitoring.Monitor,
) ([]sim.Result, error) {
	pool := parallel.NewPool()
	if opts.workers > 0 {
		pool = pool.WithWorkers(opts.workers)
	}

	if monitor != nil {
		bar := monitor.CreateProgressBar("Batch", uint64(len(filters)))
		defer monitor.CompleteProgressBar(bar)

		pool = pool.WithProgressTracker(bar)
	}

	tasks := make([]parallel.Task, len(filters))
	for i, f := range filters {
		tasks[i] = f
	}

	return pool.Run(ctx, tasks)
}

// summarize reports the last row of a single-column result.
func summarize(res sim.Result) string {
	if res.Data == nil || res.Data.IsEmpty() {
		return res.Port + " is empty"
	}

	last := res.Data.Data[res.Data.NumRows()-1]
	if len(last) == 0 {
		return fmt.Sprintf("%s has %d rows", res.Port, res.Data.NumRows())
	}

	return fmt.Sprintf("%s has %d rows, last |%s| = %.6g",
		res.Port, res.Data.NumRows(), res.Port, cmplx.Abs(last[0]))
}
