package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/spice"
)

// ErrNoResultPort is returned when the port selected as the result is not
// registered after a run.
var ErrNoResultPort = errors.New("result port not registered")

// ErrNoModel is returned when a filter is run without a model.
var ErrNoModel = errors.New("no model selected")

// Filter is an RC filter entity.
type Filter struct {
	*sim.EntityBase

	Resistance  float64
	Capacitance float64
	Rs          float64
	SampleRate  float64

	// ResultPort is the port reported by Run and pushed in parallel mode.
	ResultPort string

	// Model can be replaced after construction. It is not propagated.
	Model Model

	// Spice is the external simulator configuration of the last spice run.
	Spice *spice.Config

	parent Parent
	par    bool
	queue  chan<- sim.Result
}

// Parent returns the entity the filter inherited its parameters from, or nil.
func (f *Filter) Parent() Parent {
	return f.parent
}

// Parallel returns true if the filter has been run in parallel mode.
func (f *Filter) Parallel() bool {
	return f.par
}

// Queue returns the result queue retained in parallel mode.
func (f *Filter) Queue() chan<- sim.Result {
	return f.queue
}

// Init re-initializes the filter after its attributes have been changed. It
// only makes sure that the input and output ports exist, so it can be called
// any number of times.
func (f *Filter) Init() {
	f.Lock()
	defer f.Unlock()

	for _, port := range []string{PortInput, PortOutput} {
		if !f.IOS().Has(port) {
			f.IOS().Register(port, sim.NewIO())
		}
	}
}

// publish replaces the container of a port. Models never mutate a container
// that has been published, so readers may hold on to it.
func (f *Filter) publish(port string, io *sim.IO) {
	f.Lock()
	defer f.Unlock()

	f.IOS().Register(port, io)
}

// Run executes the model and reports the result port.
func (f *Filter) Run(ctx context.Context) (sim.Result, error) {
	if f.Model == nil {
		return sim.Result{}, fmt.Errorf("%w: %s", ErrNoModel, f.Name())
	}

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosBeforeRun,
		Item:   f.Model.Name(),
	})

	err := f.Model.execute(ctx, f)

	var res sim.Result
	if err == nil {
		res, err = f.result()
	}

	f.InvokeHook(sim.HookCtx{
		Domain: f,
		Pos:    sim.HookPosAfterRun,
		Item:   res,
		Detail: err,
	})

	return res, err
}

// RunParallel marks the filter for parallel operation, retains q, runs the
// model and pushes exactly one result onto q.
func (f *Filter) RunParallel(ctx context.Context, q chan<- sim.Result) error {
	f.Lock()
	f.par = true
	f.queue = q
	f.Unlock()

	res, err := f.Run(ctx)
	if err != nil {
		return err
	}

	select {
	case q <- res:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Filter) result() (sim.Result, error) {
	res, found := sim.MakeResult(f, f.ResultPort)
	if !found {
		return sim.Result{}, fmt.Errorf("%w: %s on %s",
			ErrNoResultPort, f.ResultPort, f.Name())
	}

	return res, nil
}
