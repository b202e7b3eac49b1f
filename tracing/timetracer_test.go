package tracing

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/sim"
)

var _ = Describe("TimeTracer", func() {
	var (
		tracer *TimeTracer
		clock  time.Time
	)

	BeforeEach(func() {
		clock = time.Unix(0, 0)
		tracer = NewTimeTracer(AllRuns)
		tracer.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}
	})

	run := func(name string, model filter.Model) {
		f := filter.MakeBuilder().
			WithModel(model).
			WithHook(tracer).
			Build(name)
		f.IOS().Get(filter.PortInput).Data = sim.NewIOFromReal([]float64{1}).Data

		_, _ = f.Run(context.Background())
	}

	It("should accumulate run times", func() {
		run("A", filter.SoftwareModel{})
		run("B", filter.BehavioralModel{})

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.TotalTime()).To(Equal(2 * time.Second))
		Expect(tracer.AverageTime()).To(Equal(time.Second))
		Expect(tracer.String()).To(ContainSubstring("2 runs (0 failed)"))
	})

	It("should count failures", func() {
		run("A", filter.SoftwareModel{
			Main: func(context.Context, *filter.Filter) error {
				return errors.New("boom")
			},
		})

		Expect(tracer.TotalCount()).To(Equal(uint64(1)))
		Expect(tracer.FailedCount()).To(Equal(uint64(1)))
	})

	It("should only trace selected models", func() {
		tracer.filter = ModelIs("behavioral")

		run("A", filter.SoftwareModel{})
		run("B", filter.BehavioralModel{})

		Expect(tracer.TotalCount()).To(Equal(uint64(1)))
	})

	It("should ignore runs that never started", func() {
		f := filter.MakeBuilder().Build("A")
		tracer.Func(sim.HookCtx{Domain: f, Pos: sim.HookPosAfterRun})

		Expect(tracer.TotalCount()).To(BeZero())
	})
})
