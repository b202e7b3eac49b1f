package parallel_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/filterkit/filter"
	"github.com/sarchlab/filterkit/parallel"
	"github.com/sarchlab/filterkit/sim"
)

type failingTask struct {
	name string
	err  error
}

func (t failingTask) Name() string { return t.name }

func (t failingTask) RunParallel(context.Context, chan<- sim.Result) error {
	return t.err
}

type blockingTask struct {
	name    string
	running *int32
	peak    *int32
	release chan struct{}
}

func (t blockingTask) Name() string { return t.name }

func (t blockingTask) RunParallel(_ context.Context, q chan<- sim.Result) error {
	n := atomic.AddInt32(t.running, 1)
	for {
		old := atomic.LoadInt32(t.peak)
		if n <= old || atomic.CompareAndSwapInt32(t.peak, old, n) {
			break
		}
	}

	<-t.release
	atomic.AddInt32(t.running, -1)
	q <- sim.Result{Entity: t.name}

	return nil
}

type countingTracker struct {
	sync.Mutex
	inProgress, finished uint64
}

func (c *countingTracker) IncrementInProgress(amount uint64) {
	c.Lock()
	defer c.Unlock()
	c.inProgress += amount
}

func (c *countingTracker) MoveInProgressToFinished(amount uint64) {
	c.Lock()
	defer c.Unlock()
	c.inProgress -= amount
	c.finished += amount
}

var _ = Describe("Pool", func() {
	It("should collect one result per filter", func() {
		var tasks []parallel.Task
		for i := 0; i < 8; i++ {
			f := filter.MakeBuilder().
				Build(sim.BuildNameWithIndex("Sweep", "Filter", i))
			tasks = append(tasks, f)
		}

		results, err := parallel.NewPool().WithWorkers(3).
			Run(context.Background(), tasks)

		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(8))
		byEntity := parallel.ByEntity(results)
		Expect(byEntity).To(HaveKey("Sweep.Filter[0]"))
		Expect(byEntity).To(HaveKey("Sweep.Filter[7]"))

		for _, t := range tasks {
			Expect(t.(*filter.Filter).Parallel()).To(BeTrue())
		}
	})

	It("should not exceed the number of workers", func() {
		var running, peak int32
		release := make(chan struct{})

		var tasks []parallel.Task
		for i := 0; i < 6; i++ {
			tasks = append(tasks, blockingTask{
				name: "T", running: &running, peak: &peak, release: release,
			})
		}

		done := make(chan []sim.Result)
		go func() {
			defer GinkgoRecover()
			results, err := parallel.NewPool().WithWorkers(2).
				Run(context.Background(), tasks)
			Expect(err).ToNot(HaveOccurred())
			done <- results
		}()

		Eventually(func() int32 { return atomic.LoadInt32(&running) }).
			Should(Equal(int32(2)))
		close(release)

		Eventually(done).Should(Receive(HaveLen(6)))
		Expect(atomic.LoadInt32(&peak)).To(Equal(int32(2)))
	})

	It("should report the error of a failed task and keep the others", func() {
		boom := errors.New("boom")
		tasks := []parallel.Task{
			filter.MakeBuilder().Build("A"),
			failingTask{name: "B", err: boom},
			filter.MakeBuilder().Build("C"),
		}

		results, err := parallel.NewPool().Run(context.Background(), tasks)

		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(HavePrefix("B: "))
		Expect(results).To(HaveLen(2))
	})

	It("should report progress", func() {
		tracker := &countingTracker{}
		tasks := []parallel.Task{
			filter.MakeBuilder().Build("A"),
			filter.MakeBuilder().Build("B"),
		}

		_, err := parallel.NewPool().WithProgressTracker(tracker).
			Run(context.Background(), tasks)

		Expect(err).ToNot(HaveOccurred())
		Expect(tracker.finished).To(Equal(uint64(2)))
		Expect(tracker.inProgress).To(BeZero())
	})

	It("should not start tasks once the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := parallel.NewPool().WithWorkers(1).Run(ctx,
			[]parallel.Task{failingTask{name: "A"}})

		Expect(results).To(BeEmpty())
		Expect(err).To(HaveOccurred())
	})

	It("should reject a pool without workers", func() {
		Expect(func() { parallel.NewPool().WithWorkers(0) }).To(Panic())
	})
})
