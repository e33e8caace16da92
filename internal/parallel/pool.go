// Package parallel provides the fixed-size worker pool used by the parallel
// reduction kernels.
//
// A Pool owns a set of long-lived goroutines that are started on the first
// parallel region and reused by every region after it, so pool start-up cost
// can be paid once (see Warmup) outside any timed section. Each region ends
// with a full barrier: Parallel and Reduce return only after every worker has
// finished its share.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ErrPoolClosed is the panic value raised when a region is started on a
// closed pool.
var ErrPoolClosed = errors.New("parallel: pool is closed")

// Pool is a fixed-size set of worker goroutines.
//
// Regions must not be nested: a region body that starts another region on
// the same pool deadlocks. Close must not race with running regions.
type Pool struct {
	workers int
	tasks   chan task

	start     sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
	done      sync.WaitGroup
}

// task is one worker's share of a region.
type task struct {
	fn  func(ith, nth int)
	ith int
	wg  *sync.WaitGroup
}

// slot holds one worker's partial sum, padded to its own cache line so
// neighbouring workers do not contend on the same line.
type slot struct {
	sum int64
	_   cpu.CacheLinePad
}

// NewPool creates a pool with the given worker count.
// A count below 1 selects runtime.GOMAXPROCS(0).
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan task, workers),
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) startWorkers() {
	for range p.workers {
		p.done.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.done.Done()
	for t := range p.tasks {
		t.fn(t.ith, p.workers)
		t.wg.Done()
	}
}

// Parallel runs fn once for each logical worker id in [0, Workers()) and
// waits for all of them. Ids are assigned deterministically; which goroutine
// executes which id is not.
func (p *Pool) Parallel(fn func(ith, nth int)) {
	if p.closed.Load() {
		panic(ErrPoolClosed)
	}
	p.start.Do(p.startWorkers)

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for ith := range p.workers {
		p.tasks <- task{fn: fn, ith: ith, wg: &wg}
	}
	wg.Wait()
}

// Reduce sums body over [0, n). The pool splits the range into chunks of its
// own choosing and hands them out dynamically; body receives half-open
// chunk bounds and returns the chunk's partial sum. Partial sums are merged
// after the region barrier.
func (p *Pool) Reduce(n int, body func(lo, hi int) int64) int64 {
	if n <= 0 {
		return 0
	}

	grain := p.grain(n)
	slots := make([]slot, p.workers)
	var cursor atomic.Int64

	p.Parallel(func(ith, _ int) {
		var local int64
		for {
			hi := int(cursor.Add(int64(grain)))
			lo := hi - grain
			if lo >= n {
				break
			}
			local += body(lo, min(hi, n))
		}
		slots[ith].sum = local
	})

	var total int64
	for i := range slots {
		total += slots[i].sum
	}
	return total
}

// grain picks the chunk size for Reduce.
func (p *Pool) grain(n int) int {
	g := n / (p.workers * chunksPerWorker)
	return max(g, minGrain)
}

// Warmup runs one small reduction so the worker goroutines exist and have
// been scheduled before anything is timed. It returns the sum of [0, warmupSize).
func (p *Pool) Warmup() int64 {
	return p.Reduce(warmupSize, func(lo, hi int) int64 {
		var s int64
		for i := lo; i < hi; i++ {
			s += int64(i)
		}
		return s
	})
}

// Close stops the workers. It is safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
		p.done.Wait()
	})
}
