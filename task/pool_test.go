package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolRunsAll(t *testing.T) {
	p := newWorkerPool(4)
	defer p.close()

	var n atomic.Int64
	jobs := make([]func(), 100)
	for i := range jobs {
		jobs[i] = func() { n.Add(int64(i)) }
	}
	p.run(jobs)
	assert.Equal(t, int64(4950), n.Load())
}

func TestWorkerPoolDefaultWorkers(t *testing.T) {
	p := newWorkerPool(0)
	defer p.close()
	assert.Positive(t, p.workers)
}

func TestWorkerPoolRunAfterClose(t *testing.T) {
	p := newWorkerPool(2)
	p.close()
	p.close()

	ran := 0
	p.run([]func(){func() { ran++ }, func() { ran++ }})
	assert.Equal(t, 2, ran)
}

func TestWorkerPoolEmpty(t *testing.T) {
	p := newWorkerPool(1)
	defer p.close()
	p.run(nil)
}

func TestWorkerPoolCloseDuringRun(t *testing.T) {
	for range 200 {
		p := newWorkerPool(4)

		var n atomic.Int64
		jobs := make([]func(), 64)
		for i := range jobs {
			jobs[i] = func() { n.Add(1) }
		}
		finished := make(chan struct{})
		go func() {
			p.run(jobs)
			close(finished)
		}()
		p.close()

		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("run did not return after close")
		}
		assert.Equal(t, int64(64), n.Load())
	}
}
