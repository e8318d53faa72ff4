// Package parallel runs per-pixel passes over row bands on a fixed set of
// worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool runs pass work on a fixed number of goroutines fed from one
// shared queue. Workers pull the next band as soon as they finish one, so a
// slow band only delays its own worker.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	exited  sync.WaitGroup

	// mu orders submissions against Close: the queue is only closed once no
	// ExecuteAll call is sending to it.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts workers goroutines. GOMAXPROCS is used when workers
// is not positive.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*2),
	}
	p.exited.Add(workers)
	for range workers {
		go func() {
			defer p.exited.Done()
			for fn := range p.queue {
				fn()
			}
		}()
	}
	return p
}

// ExecuteAll runs every item and returns when all of them have finished.
// On a closed pool the items run on the calling goroutine, so a pass is
// never skipped.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}

	var pending sync.WaitGroup
	pending.Add(len(work))
	for _, fn := range work {
		p.queue <- func() {
			defer pending.Done()
			fn()
		}
	}
	p.mu.RUnlock()
	pending.Wait()
}

// Close lets queued work finish and stops the workers. Calling it again is
// a no-op.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.exited.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether Close has not been called yet.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}
