package spice

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReadWaveform", func() {
	var f IOFile

	BeforeEach(func() {
		f = IOFile{
			Name:       "waveform",
			Dir:        Out,
			SourceType: "v",
			DataType:   "complex",
			IONames:    []string{"input", "output"},
		}
	})

	It("should import complex vectors with a real scale", func() {
		content := "frequency v(input) v(output)\n" +
			"1.0e3 1.0 0.0 0.99 -0.01\n" +
			"1.0e4 1.0 0.0 0.9 -0.1\n"

		io, err := ReadWaveform(strings.NewReader(content), f)

		Expect(err).ToNot(HaveOccurred())
		Expect(io.NumRows()).To(Equal(2))
		Expect(io.Data[0]).To(Equal([]complex128{1e3, 1, complex(0.99, -0.01)}))
		Expect(io.Data[1][0]).To(Equal(complex(1e4, 0)))
	})

	It("should import complex vectors with a complex scale", func() {
		content := "1.0e3 0.0 1.0 0.0 0.5 0.5\n"

		io, err := ReadWaveform(strings.NewReader(content), f)

		Expect(err).ToNot(HaveOccurred())
		Expect(io.Data[0]).To(Equal([]complex128{1e3, 1, complex(0.5, 0.5)}))
	})

	It("should import real vectors", func() {
		f.DataType = "real"
		content := "\n0 0.0 0.0\n1e-9 1.0 0.63\n"

		io, err := ReadWaveform(strings.NewReader(content), f)

		Expect(err).ToNot(HaveOccurred())
		Expect(io.RealColumn(2)).To(Equal([]float64{0, 0.63}))
	})

	It("should report an empty file", func() {
		_, err := ReadWaveform(strings.NewReader("frequency v(input)\n"), f)

		Expect(err).To(MatchError(ErrNoOutput))
	})

	It("should report a row with the wrong column count", func() {
		_, err := ReadWaveform(strings.NewReader("1 2 3\n"), f)

		Expect(err).To(MatchError(ErrMalformedOutput))
	})

	It("should report text after data", func() {
		content := "1 1 0 1 0\nerror: singular matrix\n"

		_, err := ReadWaveform(strings.NewReader(content), f)

		Expect(err).To(MatchError(ErrMalformedOutput))
	})
})
