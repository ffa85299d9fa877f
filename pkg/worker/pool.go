package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/pkg/logger"
)

var ErrPoolStopped = errors.New("worker pool stopped")

type Job func(ctx context.Context) error

type Pool struct {
	maxWorkers int
	jobs       chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	active  atomic.Int64
	stopped bool
	mu      sync.Mutex
}

// NewPool starts maxWorkers goroutines. Jobs receive a context that is
// cancelled when ctx is done or Stop is called.
func NewPool(ctx context.Context, maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		maxWorkers: maxWorkers,
		jobs:       make(chan Job, maxWorkers*2),
		ctx:        ctx,
		cancel:     cancel,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *Pool) run(id int, job Job) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker job panicked", "worker", id, "panic", r)
		}
	}()

	if err := job(p.ctx); err != nil {
		logger.Warn("Worker job failed", "worker", id, "error", err)
	}
}

// Submit queues job, blocking while the queue is full. It fails once the pool is stopped.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// Active is the number of jobs running right now.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Pending is the number of queued jobs not yet picked up.
func (p *Pool) Pending() int {
	return len(p.jobs)
}

func (p *Pool) Size() int {
	return p.maxWorkers
}

// Stop rejects new jobs, cancels running ones and waits for the workers to drain the queue.
func (p *Pool) Stop() {
	p.cancel()

	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
