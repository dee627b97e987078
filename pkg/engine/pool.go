package engine

import (
	"context"
	"sync"
)

// Task represents a unit of work for the pool.
type Task func(ctx context.Context) error

// Pool is a fixed-size worker pool. Datasets are independent, so the engine
// just fans them out and waits.
type Pool struct {
	Workers int

	tasks chan Task
	wg    sync.WaitGroup
	jobs  sync.WaitGroup

	mu    sync.Mutex
	stats PoolStats
}

// PoolStats holds runtime statistics for the pool.
type PoolStats struct {
	TasksCompleted int64
	TasksFailed    int64
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		Workers: workers,
		tasks:   make(chan Task, 256),
	}
}

// Start spins up the workers. Tasks submitted before Start queue up in the
// channel buffer.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Submit adds a task to the queue. Blocks when all workers are busy, which
// naturally throttles submission.
func (p *Pool) Submit(t Task) {
	p.jobs.Add(1)
	p.tasks <- t
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.jobs.Wait()
}

// Stop closes the queue and waits for workers to exit. Call after Wait.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

// GetStats returns current pool stats.
func (p *Pool) GetStats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		err := task(ctx)

		p.mu.Lock()
		p.stats.TasksCompleted++
		if err != nil {
			p.stats.TasksFailed++
		}
		p.mu.Unlock()

		p.jobs.Done()
	}
}
