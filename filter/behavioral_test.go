package filter

import (
	"context"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/filterkit/sim"
	"github.com/sarchlab/filterkit/spice"
)

var _ = Describe("BehavioralModel", func() {
	var f *Filter

	BeforeEach(func() {
		f = MakeBuilder().WithModel(BehavioralModel{}).Build("Filter")
	})

	It("should require input samples", func() {
		_, err := f.Run(context.Background())

		Expect(err).To(MatchError(ErrNoInput))
	})

	It("should settle a step to unity", func() {
		step := make([]float64, 20000)
		for i := range step {
			step[i] = 1
		}
		f.IOS().Get(PortInput).Data = sim.NewIOFromReal(step).Data

		res, err := f.Run(context.Background())

		Expect(err).ToNot(HaveOccurred())
		out := res.Data.RealColumn(0)
		Expect(out).To(HaveLen(len(step)))
		Expect(out[0]).To(BeNumerically("<", 0.01))
		Expect(out[len(out)-1]).To(BeNumerically("~", 1, 1e-6))
	})

	It("should reach 1-1/e after one time constant", func() {
		f.SampleRate = 1e13
		step := make([]float64, 10001)
		for i := range step {
			step[i] = 1
		}
		f.IOS().Get(PortInput).Data = sim.NewIOFromReal(step).Data

		_, err := f.Run(context.Background())

		Expect(err).ToNot(HaveOccurred())
		tau := int(f.Resistance * f.Capacitance * f.SampleRate)
		out := f.IOS().Get(PortOutput).RealColumn(0)
		Expect(out[tau]).To(BeNumerically("~", 1-math.Exp(-1), 1e-3))
	})

	It("should fill the waveform below the Nyquist frequency", func() {
		f.IOS().Get(PortInput).Data = sim.NewIOFromReal([]float64{1}).Data
		sweep := spice.SimCmd{
			Analysis: spice.AnalysisAC, Sweep: "dec", Points: 1,
			FStart: 1e3, FStop: 1e13,
		}
		f.Model = BehavioralModel{Sweep: &sweep}

		_, err := f.Run(context.Background())

		Expect(err).ToNot(HaveOccurred())
		waveform := f.IOS().Get(PortWaveform)
		Expect(waveform.NumRows()).To(Equal(9))
		Expect(cmplx.Abs(waveform.Data[0][2])).To(BeNumerically("~", 1, 1e-6))

		cutoff := 1 / (2 * math.Pi * f.Resistance * f.Capacitance)
		coeffs := RCCoefficients(f.Resistance, f.Capacitance, f.SampleRate)
		h := coeffs.Response(cutoff, f.SampleRate)
		Expect(cmplx.Abs(h)).To(BeNumerically("~", 1/math.Sqrt2, 1e-3))
	})

	It("should reject a non-positive sample rate", func() {
		f.SampleRate = 0
		f.IOS().Get(PortInput).Data = [][]complex128{{1}}

		_, err := f.Run(context.Background())

		Expect(err).To(MatchError(ContainSubstring("sample rate")))
	})
})
