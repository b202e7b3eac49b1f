package datarecording

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/sarchlab/filterkit/sim"
)

// Table names written by RunTracer.
const (
	RunTableName      = "filter_runs"
	WaveformTableName = "filter_waveform"
)

// RunEntry is one run of an entity.
type RunEntry struct {
	ID       string
	Entity   string
	Model    string
	Port     string
	Rows     int
	Error    string
	Start    string
	Duration float64
}

// WaveformEntry is one row of the waveform port after a run, expressed as
// magnitude in dB and phase in degrees.
type WaveformEntry struct {
	RunID       string
	Entity      string
	Row         int
	Frequency   float64
	InputDB     float64
	InputPhase  float64
	OutputDB    float64
	OutputPhase float64
}

// RunTracer is a hook that records every run of the entities it is attached
// to.
type RunTracer struct {
	recorder     DataRecorder
	waveformPort string

	lock     sync.Mutex
	inflight map[string]inflightRun
}

type inflightRun struct {
	model string
	start time.Time
}

// NewRunTracer creates the run tables in recorder. The waveform rows are read
// from waveformPort; an empty name disables waveform recording.
func NewRunTracer(recorder DataRecorder, waveformPort string) *RunTracer {
	recorder.CreateTable(RunTableName, RunEntry{})
	recorder.CreateTable(WaveformTableName, WaveformEntry{})

	return &RunTracer{
		recorder:     recorder,
		waveformPort: waveformPort,
		inflight:     make(map[string]inflightRun),
	}
}

// Func records runs on HookPosBeforeRun and HookPosAfterRun.
func (t *RunTracer) Func(ctx sim.HookCtx) {
	entity, ok := ctx.Domain.(sim.Entity)
	if !ok {
		return
	}

	switch ctx.Pos {
	case sim.HookPosBeforeRun:
		t.startRun(entity, ctx)
	case sim.HookPosAfterRun:
		t.endRun(entity, ctx)
	}
}

func (t *RunTracer) startRun(entity sim.Entity, ctx sim.HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.inflight[entity.Name()] = inflightRun{
		model: fmt.Sprint(ctx.Item),
		start: time.Now(),
	}
}

func (t *RunTracer) endRun(entity sim.Entity, ctx sim.HookCtx) {
	t.lock.Lock()
	run, found := t.inflight[entity.Name()]
	delete(t.inflight, entity.Name())
	t.lock.Unlock()

	if !found {
		run.start = time.Now()
	}

	entry := RunEntry{
		ID:       sim.GetIDGenerator().Generate(),
		Entity:   entity.Name(),
		Model:    run.model,
		Start:    run.start.Format(time.RFC3339Nano),
		Duration: time.Since(run.start).Seconds(),
	}

	if res, ok := ctx.Item.(sim.Result); ok && res.Data != nil {
		entry.Port = res.Port
		entry.Rows = res.Data.NumRows()
	}

	if err, ok := ctx.Detail.(error); ok && err != nil {
		entry.Error = err.Error()
	}

	t.recorder.InsertData(RunTableName, entry)

	if entry.Error == "" {
		t.recordWaveform(entity, entry.ID)
	}
}

func (t *RunTracer) recordWaveform(entity sim.Entity, runID string) {
	if t.waveformPort == "" {
		return
	}

	io, found := entity.IOS().Lookup(t.waveformPort)
	if !found {
		return
	}

	for i, row := range io.Data {
		if len(row) < 3 {
			continue
		}

		t.recorder.InsertData(WaveformTableName, WaveformEntry{
			RunID:       runID,
			Entity:      entity.Name(),
			Row:         i,
			Frequency:   real(row[0]),
			InputDB:     decibel(row[1]),
			InputPhase:  degrees(row[1]),
			OutputDB:    decibel(row[2]),
			OutputPhase: degrees(row[2]),
		})
	}
}

func decibel(v complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(v))
}

func degrees(v complex128) float64 {
	return cmplx.Phase(v) * 180 / math.Pi
}
