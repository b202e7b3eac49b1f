package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/parallel"
	"github.com/sarchlab/filterkit/sim"
)

var _ parallel.ProgressTracker = &ProgressBar{}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
		f *filter.Filter
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		m.router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		f = filter.MakeBuilder().
			WithModel(filter.BehavioralModel{}).
			Build("Lowpass")
		m.RegisterEntity(f)
	})

	It("should list entities", func() {
		m.RegisterEntity(filter.MakeBuilder().Build("Highpass"))

		rec := get("/api/list_entities")

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Lowpass", "Highpass"}))
	})

	It("should return 404 for unknown entities", func() {
		rec := get("/api/entity/Nope")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/notjson")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should send port data as real and imaginary pairs", func() {
		f.IOS().Get(filter.PortInput).Data = sim.NewIOFromReal([]float64{1, 1}).Data
		_, err := f.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		rec := get("/api/io/Lowpass/" + filter.PortWaveform)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := ioRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Port).To(Equal(filter.PortWaveform))
		Expect(rsp.Rows).NotTo(BeEmpty())
		Expect(rsp.Rows[0]).To(HaveLen(3))
		Expect(rsp.Rows[0][1]).To(Equal([2]float64{1, 0}))
	})

	It("should serve port data while a pool runs the entities", func() {
		filters := make([]parallel.Task, 8)
		for i := range filters {
			g := filter.MakeBuilder().
				WithModel(filter.BehavioralModel{}).
				WithResistance(float64(i+1) * 1e3).
				Build(sim.BuildNameWithIndex("Batch", "Filter", i))
			g.IOS().Get(filter.PortInput).Data =
				sim.NewIOFromReal([]float64{1, 1, 1, 1}).Data
			m.RegisterEntity(g)
			filters[i] = g
		}

		bar := m.CreateProgressBar("Batch", uint64(len(filters)))
		done := make(chan error)
		go func() {
			_, err := parallel.NewPool().
				WithWorkers(4).
				WithProgressTracker(bar).
				Run(context.Background(), filters)
			done <- err
		}()

		var err error
	poll:
		for {
			for i := range filters {
				name := sim.BuildNameWithIndex("Batch", "Filter", i)
				rec := get("/api/io/" + name + "/" + filter.PortWaveform)
				Expect(rec.Code).To(
					BeElementOf(http.StatusOK, http.StatusNotFound))

				rec = get("/api/io/" + name + "/" + filter.PortOutput)
				Expect(rec.Code).To(Equal(http.StatusOK))
			}

			Expect(get("/api/progress").Code).To(Equal(http.StatusOK))

			select {
			case err = <-done:
				break poll
			default:
			}
		}

		Expect(err).NotTo(HaveOccurred())
		for i := range filters {
			name := sim.BuildNameWithIndex("Batch", "Filter", i)
			rec := get("/api/io/" + name + "/" + filter.PortOutput)

			rsp := ioRsp{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
			Expect(rsp.Rows).To(HaveLen(4))
		}
	})

	It("should return 404 for unknown ports", func() {
		rec := get("/api/io/Lowpass/nope")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should report progress bars", func() {
		bar := m.CreateProgressBar("Batch", 4)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		var bars []progressRsp
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Batch"))
		Expect(bars[0].Total).To(Equal(uint64(4)))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)

		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(BeEmpty())
	})

	It("should report process resources", func() {
		rsp := resourceRsp{}
		Expect(json.Unmarshal(get("/api/resource").Body.Bytes(), &rsp)).
			To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should fall back to a random port for reserved ports", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})
})
