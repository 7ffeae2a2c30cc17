package worker

import (
	"context"
	"sync"
)

type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of goroutines. Tasks see the
// context the pool was created with.
type Pool struct {
	ctx  context.Context
	wg   sync.WaitGroup
	jobs chan Task
}

func NewPool(ctx context.Context, n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{ctx: ctx, jobs: make(chan Task, n*4)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job(p.ctx)
			}
		}()
	}
	return p
}

// Submit blocks while the queue is full.
func (p *Pool) Submit(f Task) { p.jobs <- f }

// Stop waits for queued tasks to finish. Submit must not be called after it.
func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
