package generator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/queues/linkedlistqueue"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

// Job is a unit of work executed by a [Pool] worker.
type Job func()

// Pool runs a fixed set of jobs on a bounded number of workers.
//
// Jobs are submitted up front and kept in a FIFO queue guarded by the pool's
// own mutex. [Pool.Run] starts the workers, waits until every job has
// completed (or the context is cancelled), raises the termination signal and
// waits for all workers to exit. Jobs must not submit further jobs.
//
// A Pool runs once.
type Pool struct {
	workers int

	mu      sync.Mutex
	queue   *linkedlistqueue.Queue
	started bool

	total     int
	completed atomic.Int64
	done      chan struct{} // closed by the worker completing the last job
	quit      chan struct{} // closed by Run to stop the workers

	onJobComplete func(completed, total int)
}

// NewPool creates a pool with the given number of workers.
// A non-positive count selects DefaultWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		workers: workers,
		queue:   linkedlistqueue.New(),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// OnJobComplete registers a callback invoked after each job with the number
// of completed jobs so far. It is called from worker goroutines and must be
// safe for concurrent use. Must be called before Run.
func (p *Pool) OnJobComplete(fn func(completed, total int)) {
	p.onJobComplete = fn
}

// Submit enqueues a job. Jobs cannot be added once Run has started.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errs.New(errs.ErrCodeInvalidOperation, "submit after pool start")
	}
	p.queue.Enqueue(job)
	return nil
}

// Pending returns the number of jobs still waiting in the queue.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Size()
}

// Completed returns the number of jobs that have finished.
func (p *Pool) Completed() int {
	return int(p.completed.Load())
}

// Run executes every submitted job and returns once all workers have exited.
//
// With no jobs, Run returns immediately. If ctx is cancelled first, jobs that
// have not been dequeued are dropped, running jobs are allowed to finish and
// Run returns the context error.
func (p *Pool) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return errs.New(errs.ErrCodeInvalidOperation, "pool already started")
	}
	p.started = true
	p.total = p.queue.Size()
	p.mu.Unlock()

	if p.total == 0 {
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for range p.workers {
		go func() {
			defer wg.Done()
			p.work()
		}()
	}

	var err error
	select {
	case <-p.done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	close(p.quit)
	wg.Wait()
	return err
}

func (p *Pool) work() {
	for {
		select {
		case <-p.quit:
			return
		default:
		}

		job, ok := p.next()
		if !ok {
			// The queue cannot refill once running.
			<-p.quit
			return
		}
		job()

		n := int(p.completed.Add(1))
		if p.onJobComplete != nil {
			p.onJobComplete(n, p.total)
		}
		if n == p.total {
			close(p.done)
		}
	}
}

func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.queue.Dequeue()
	if !ok {
		return nil, false
	}
	return v.(Job), true
}
