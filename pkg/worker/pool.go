/*
Package worker provides a bounded worker pool for concurrent task processing
with rate limiting and context cancellation support.

Tasks are self-contained units of work; any result they produce is delivered
through their own side effects (the deletion executor records outcomes into
the summary aggregator), so the pool only tracks completion and failures.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 10, // 10 ops/sec
	})

	ctx := context.Background()
	pool.Start(ctx)

	pool.Submit(worker.Task{
		ID: 1,
		Execute: func(ctx context.Context) error {
			// Task implementation
			return nil
		},
	})

	err = pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID uniquely identifies the task
	ID int

	// Execute is the function that performs the actual work.
	// It receives a context for cancellation support. A non-nil error
	// counts the task as failed; it does not stop the pool.
	Execute func(context.Context) error
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of operations per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start initializes and starts the worker pool
	Start(context.Context) error

	// Submit adds a task to the pool for processing
	Submit(Task) error

	// Wait blocks until all submitted tasks are processed
	Wait() error

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Stop shuts down the pool without waiting for queued tasks
	Stop() error
}

// pool implements the Pool interface
type pool struct {
	config  Config
	tasks   chan Task
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	started bool
	closed  bool

	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan Task, config.Workers*2),
		limiter: limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start initializes and starts the worker pool
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

// Submit adds a task to the pool for processing. It blocks when the queue
// is full, which bounds the walker's production rate to the pool's capacity.
func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("pool is no longer accepting tasks")
	}
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- task:
		return nil
	}
}

// Wait closes the task queue and blocks until all queued tasks finished.
func (p *pool) Wait() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
	p.mu.Unlock()

	p.wg.Wait()

	if failed := p.failedTasks.Load(); failed > 0 {
		return fmt.Errorf("%d of %d tasks failed", failed, failed+p.completedTasks.Load())
	}
	return nil
}

// Stop cancels in-flight work and releases the workers. Queued tasks that
// have not started are dropped.
func (p *pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}

	p.cancel()
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}

	return nil
}

func (p *pool) GetStats() Stats {
	p.mu.Lock()
	started, closed := p.started, p.closed
	p.mu.Unlock()

	active := int(p.activeWorkers.Load())
	queued := len(p.tasks)

	status := StatusStopped
	if started {
		switch {
		case closed && active == 0 && queued == 0:
			status = StatusStopped
		case active > 0 || queued > 0:
			status = StatusProcessing
		default:
			status = StatusIdle
		}
	}

	return Stats{
		ActiveWorkers:  active,
		QueuedTasks:    queued,
		CompletedTasks: int(p.completedTasks.Load()),
		Status:         status,
	}
}

// worker processes tasks until the queue is closed or the context cancelled
func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				return
			}
		}

		p.activeWorkers.Add(1)
		err := task.Execute(p.ctx)
		p.activeWorkers.Add(-1)

		if err != nil {
			p.failedTasks.Add(1)
			continue
		}
		p.completedTasks.Add(1)
	}
}
