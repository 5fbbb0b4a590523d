// Package parallel provides the fork/join worker pool used for per-object
// clip-space projection.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type job struct {
	fn   func(int)
	i    int
	done *sync.WaitGroup
}

// Pool runs indexed tasks on a fixed set of goroutines.
//
// Thread safety: Run may be called from several goroutines, but callers of
// the same Run share no ordering guarantees between tasks.
type Pool struct {
	workers int
	jobs    chan job
	wg      sync.WaitGroup
	running atomic.Bool
	closeMu sync.RWMutex
}

// New creates a pool with the given number of workers. If workers is 0 or
// negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		jobs:    make(chan job, max(workers*4, 8)),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.fn(j.i)
		j.done.Done()
	}
}

// Run calls fn(i) for every i in [0, n) and returns when all calls have
// finished. With a single worker, a single task, or a closed pool the calls
// run on the calling goroutine.
func (p *Pool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if n == 1 || p.workers == 1 || !p.running.Load() {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var done sync.WaitGroup
	done.Add(n)
	for i := 0; i < n; i++ {
		p.jobs <- job{fn: fn, i: i, done: &done}
	}
	done.Wait()
}

// Close stops the workers after queued work completes. Close is safe to call
// multiple times.
func (p *Pool) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.jobs)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true until Close is called.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
