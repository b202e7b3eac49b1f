// Package tracing measures how long entities spend in their models.
package tracing

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/filterkit/sim"
)

// A RunFilter selects the runs a tracer accounts for. The model is the name
// reported by the entity when the run starts.
type RunFilter func(entity sim.Entity, model string) bool

// AllRuns accepts every run.
func AllRuns(sim.Entity, string) bool {
	return true
}

// ModelIs accepts the runs of one model.
func ModelIs(model string) RunFilter {
	return func(_ sim.Entity, m string) bool {
		return m == model
	}
}

// TimeTracer collects the total and the average wall-clock time of runs. If
// two runs overlap, their durations are simply added together.
type TimeTracer struct {
	filter RunFilter
	now    func() time.Time

	lock        sync.Mutex
	inflight    map[string]time.Time
	totalTime   time.Duration
	averageTime time.Duration
	runCount    uint64
	failCount   uint64
}

// NewTimeTracer creates a new TimeTracer
func NewTimeTracer(filter RunFilter) *TimeTracer {
	return &TimeTracer{
		filter:   filter,
		now:      time.Now,
		inflight: make(map[string]time.Time),
	}
}

// TotalTime returns the total time spent in the selected runs.
func (t *TimeTracer) TotalTime() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalTime
}

// AverageTime returns the average duration of the selected runs.
func (t *TimeTracer) AverageTime() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.averageTime
}

// TotalCount returns the number of finished runs, failed ones included.
func (t *TimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.runCount
}

// FailedCount returns the number of runs that returned an error.
func (t *TimeTracer) FailedCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.failCount
}

// String summarizes the tracer.
func (t *TimeTracer) String() string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return fmt.Sprintf("%d runs (%d failed), total %v, average %v",
		t.runCount, t.failCount, t.totalTime, t.averageTime)
}

// Func starts timing on HookPosBeforeRun and stops on HookPosAfterRun.
func (t *TimeTracer) Func(ctx sim.HookCtx) {
	entity, ok := ctx.Domain.(sim.Entity)
	if !ok {
		return
	}

	switch ctx.Pos {
	case sim.HookPosBeforeRun:
		t.startRun(entity, fmt.Sprint(ctx.Item))
	case sim.HookPosAfterRun:
		err, _ := ctx.Detail.(error)
		t.endRun(entity, err)
	}
}

func (t *TimeTracer) startRun(entity sim.Entity, model string) {
	if !t.filter(entity, model) {
		return
	}

	t.lock.Lock()
	t.inflight[entity.Name()] = t.now()
	t.lock.Unlock()
}

func (t *TimeTracer) endRun(entity sim.Entity, err error) {
	end := t.now()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflight[entity.Name()]
	if !ok {
		return
	}

	runTime := end.Sub(start)
	t.totalTime += runTime
	t.averageTime = time.Duration(
		(float64(t.averageTime)*float64(t.runCount) + float64(runTime)) /
			float64(t.runCount+1))
	t.runCount++

	if err != nil {
		t.failCount++
	}

	delete(t.inflight, entity.Name())
}
