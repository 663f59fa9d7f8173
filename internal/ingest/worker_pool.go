package ingest

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

type Result struct {
	Err error
}

// WorkerPool fans submitted tasks across a fixed worker set with an optional
// shared rate limit. Configure it fully before calling Run; Submit and Close
// may then be used from the producing goroutine.
type WorkerPool struct {
	workers int
	tasks   chan Task
	limiter *time.Ticker
	wg      sync.WaitGroup
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit caps task starts at rps per second across all workers. Zero or
// negative removes the cap. Must be called before Run.
func (p *WorkerPool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	if p.limiter != nil {
		p.limiter.Stop()
		p.limiter = nil
	}
	if rps <= 0 {
		return
	}
	p.limiter = time.NewTicker(time.Second / time.Duration(rps))
}

func (p *WorkerPool) Submit(t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Workers drain what was already submitted and
// the results channel closes after the last task finishes.
func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers and returns the results channel. Each submitted task
// yields exactly one Result unless ctx is cancelled first. The channel buffer
// is generous so callers may submit everything before draining.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	buf := p.workers * 1024
	if buf < 1 {
		buf = 1
	}
	out := make(chan Result, buf)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.work(ctx, out)
	}

	go func() {
		p.wg.Wait()
		if p.limiter != nil {
			p.limiter.Stop()
		}
		close(out)
	}()

	return out
}

func (p *WorkerPool) work(ctx context.Context, out chan<- Result) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			if t == nil {
				continue
			}
			if p.limiter != nil {
				select {
				case <-ctx.Done():
					return
				case <-p.limiter.C:
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- Result{Err: t(ctx)}:
			}
		}
	}
}
