package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/metrics"
)

// Task is a unit of background work
type Task func(ctx context.Context)

// Dispatcher runs tasks without blocking the caller
type Dispatcher interface {
	// Submit enqueues task and reports whether it was accepted
	Submit(name string, task Task) bool
}

type job struct {
	name string
	task Task
}

// WorkerPool is a bounded queue drained by a fixed set of workers.
// Submissions are dropped, not blocked, when the queue is full.
type WorkerPool struct {
	queue  chan job
	log    *logger.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorkerPool starts workers goroutines draining a queue of the given size
func NewWorkerPool(size, workers int, log *logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		queue:  make(chan job, size),
		log:    log.With("component", "WorkerPool"),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *WorkerPool) Submit(name string, task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.TasksDropped.Inc()
		p.log.Warn("Task dropped, pool closed", "task", name)
		return false
	}

	select {
	case p.queue <- job{name: name, task: task}:
		metrics.QueueDepth.Set(float64(len(p.queue)))
		return true
	default:
		metrics.TasksDropped.Inc()
		p.log.Warn("Task dropped, queue full", "task", name, "capacity", cap(p.queue))
		return false
	}
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for j := range p.queue {
		metrics.QueueDepth.Set(float64(len(p.queue)))
		p.run(j)
	}
}

func (p *WorkerPool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Task panicked", "task", j.name, "panic", fmt.Sprint(r))
		}
	}()
	j.task(p.ctx)
	metrics.TasksExecuted.Inc()
}

// Close stops intake and waits for queued tasks to finish. If ctx expires
// first, running tasks see their context cancelled and the rest are abandoned.
func (p *WorkerPool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

// InlineDispatcher runs every task synchronously on the caller's goroutine.
// Tests use it to make ingestion deterministic.
type InlineDispatcher struct{}

func (InlineDispatcher) Submit(name string, task Task) bool {
	task(context.Background())
	metrics.TasksExecuted.Inc()
	return true
}
