package filter

import (
	"bytes"
	"context"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/filterkit/sim"
)

type staticParent struct {
	props Propagated
}

func (p staticParent) Propagated() Propagated {
	return p.props
}

var _ = Describe("Filter", func() {
	var f *Filter

	BeforeEach(func() {
		f = MakeBuilder().Build("Filter")
	})

	Context("construction", func() {
		It("should use the default parameters", func() {
			Expect(f.Resistance).To(Equal(1e3))
			Expect(f.Capacitance).To(Equal(1e-12))
			Expect(f.Model.Name()).To(Equal("software"))
			Expect(f.ResultPort).To(Equal(PortOutput))
			Expect(f.Parallel()).To(BeFalse())
			Expect(f.Queue()).To(BeNil())
			Expect(f.Parent()).To(BeNil())
		})

		It("should register the input and output ports in order", func() {
			Expect(f.IOS().Names()).To(Equal([]string{PortInput, PortOutput}))
		})

		It("should copy the propagated parameters of the parent", func() {
			parent := staticParent{props: Propagated{Rs: 50}}

			child := MakeBuilder().WithParent(parent).Build("Child")

			Expect(child.Rs).To(Equal(50.0))
			Expect(child.Parent()).To(Equal(parent))
		})

		It("should propagate from another filter", func() {
			f.Rs = 75

			child := MakeBuilder().WithParent(f).Build("Filter.Child")

			Expect(child.Rs).To(Equal(f.Rs))
			Expect(child.Parent()).To(BeIdenticalTo(f))
		})

		It("should not copy anything but the allow-list", func() {
			f.Resistance = 5

			child := MakeBuilder().WithParent(f).Build("Child")

			Expect(child.Resistance).To(Equal(DefaultResistance))
		})

		It("should log the initialization through hooks", func() {
			buf := new(bytes.Buffer)
			logger := sim.NewEntityLogger(log.New(buf, "", 0))

			MakeBuilder().WithHook(logger).Build("Logged")

			Expect(buf.String()).To(Equal("I: Initializing Logged\n"))
		})

		It("should panic on invalid names", func() {
			Expect(func() { MakeBuilder().Build("filter_0") }).To(Panic())
		})

		It("should keep ports when re-initialized", func() {
			f.IOS().Get(PortInput).Data = [][]complex128{{1}}

			f.Init()

			Expect(f.IOS().Names()).To(Equal([]string{PortInput, PortOutput}))
			Expect(f.IOS().Get(PortInput).Data).To(HaveLen(1))
		})
	})

	Context("software model", func() {
		It("should leave the parallel flag unset when run directly", func() {
			_, err := f.Run(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(f.Parallel()).To(BeFalse())
			Expect(f.Queue()).To(BeNil())
		})

		It("should not touch the io registry", func() {
			f.IOS().Get(PortInput).Data = [][]complex128{{1}, {2}}

			res, err := f.Run(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(f.IOS().Names()).To(Equal([]string{PortInput, PortOutput}))
			Expect(f.IOS().Get(PortOutput).IsEmpty()).To(BeTrue())
			Expect(res.Entity).To(Equal("Filter"))
			Expect(res.Port).To(Equal(PortOutput))
			Expect(res.Data.IsEmpty()).To(BeTrue())
		})

		It("should call the designer supplied main", func() {
			f.Model = SoftwareModel{
				Main: func(_ context.Context, f *Filter) error {
					in := f.IOS().Get(PortInput).RealColumn(0)

					doubled := make([]float64, len(in))
					for i, v := range in {
						doubled[i] = 2 * v
					}

					f.IOS().Get(PortOutput).Data = sim.NewIOFromReal(doubled).Data
					return nil
				},
			}
			f.IOS().Get(PortInput).Data = sim.NewIOFromReal([]float64{1, 2}).Data

			res, err := f.Run(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Data.RealColumn(0)).To(Equal([]float64{2, 4}))
		})

		It("should invoke hooks around the run", func() {
			var positions []string
			f.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
				positions = append(positions, ctx.Pos.Name)
			}))

			_, err := f.Run(context.Background())

			Expect(err).ToNot(HaveOccurred())
			Expect(positions).To(Equal([]string{"BeforeRun", "AfterRun"}))
		})
	})

	Context("parallel mode", func() {
		It("should retain the queue and push one result", func() {
			q := make(chan sim.Result, 1)

			err := f.RunParallel(context.Background(), q)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.Parallel()).To(BeTrue())
			Expect(f.Queue()).To(Equal((chan<- sim.Result)(q)))
			Expect(q).To(HaveLen(1))
			Expect((<-q).Entity).To(Equal("Filter"))
		})

		It("should give up pushing when the context is canceled", func() {
			q := make(chan sim.Result)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := f.RunParallel(ctx, q)

			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("errors", func() {
		It("should report an unregistered result port", func() {
			f.ResultPort = "missing"

			_, err := f.Run(context.Background())

			Expect(err).To(MatchError(ErrNoResultPort))
		})

		It("should report a missing model", func() {
			f.Model = nil

			_, err := f.Run(context.Background())

			Expect(err).To(MatchError(ErrNoModel))
		})
	})
})

var _ = Describe("ParseModel", func() {
	It("should accept the canonical names and aliases", func() {
		for name, want := range map[string]string{
			"software":   "software",
			"py":         "software",
			"behavioral": "behavioral",
			"spice":      "spice",
			"spectre":    "spice",
			"NGSPICE":    "spice",
		} {
			m, err := ParseModel(name, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Name()).To(Equal(want))
		}
	})

	It("should reject unknown names", func() {
		_, err := ParseModel("eldo", nil)

		Expect(err).To(MatchError(ErrUnknownModel))
	})
})
