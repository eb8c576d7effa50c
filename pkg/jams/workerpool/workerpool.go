// Package workerpool runs closures on a fixed set of goroutines distinct
// from the request-handling path, so a blocking native inference call never
// starves I/O handlers sharing the same process.
package workerpool

import (
	"context"
	"sync"

	"github.com/jams-project/jams/pkg/jamserrors"
)

// Job is a unit of work submitted to the pool. It has no return contract
// beyond whatever one-shot channel the caller closes over.
type Job func()

// Pool is a process-wide set of N worker goroutines pulling Jobs off a
// shared, unbuffered channel. Submitting blocks until a worker (or
// cancellation) takes the job; it never spawns goroutines per call.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

// New starts n workers. n must be >= 1; callers are expected to have
// already validated this against configuration.
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{jobs: make(chan Job)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit hands job to the next free worker, or returns ctx.Err() if ctx is
// canceled first. The job itself, once accepted, always runs to completion;
// native calls cannot be interrupted mid-flight.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return jamserrors.Wrap(jamserrors.KindPredict, ctx.Err(), "worker pool submission canceled")
	}
}

// Close stops accepting new jobs and waits for every in-flight job to
// finish. Jobs already queued in the channel when Close is called are still
// delivered to a worker before that worker exits.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
