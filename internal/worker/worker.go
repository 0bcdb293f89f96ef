package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func(ctx context.Context)

// Pool defines a fixed-size worker pool.
type Pool interface {
	Submit(ctx context.Context, t Task) error
	Stop()
}

// Option configures a pool.
type Option func(*pool)

// WithQueueSize buffers up to n tasks before Submit blocks.
func WithQueueSize(n int) Option {
	return func(p *pool) {
		if n > 0 {
			p.queue = n
		}
	}
}

// WithTaskTimeout bounds the context handed to each task.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *pool) { p.timeout = d }
}

// WithPanicHandler is called with the recovered value when a task panics.
func WithPanicHandler(fn func(any)) Option {
	return func(p *pool) { p.onPanic = fn }
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int, opts ...Option) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Task, p.queue)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

type pool struct {
	jobs    chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool

	queue   int
	timeout time.Duration
	onPanic func(any)
}

func (p *pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			p.run(job)
		}
	}
}

func (p *pool) run(job Task) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	job(ctx)
}

// Submit queues t, blocking while the queue is full until ctx is done.
func (p *pool) Submit(ctx context.Context, t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new tasks, then waits for queued ones to finish.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
