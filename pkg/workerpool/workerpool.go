// Package workerpool provides the persistent pool of goroutines that the
// parallel blur variants run on. A Pool is constructed once by its owner,
// reused by every parallel call, and closed when the owner is done with it.
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(height, func(start, end int) {
//	    blurRows(start, end)
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines fed through a channel.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New spawns numWorkers workers. If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once queued work has drained. Safe to call twice.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start, End int
}

// Partition splits [0, n) into at most parts contiguous ranges whose sizes
// differ by at most one; the first n%parts ranges get the extra item.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, n))

	base, extra := n/parts, n%parts
	ranges := make([]Range, parts)
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}
	return ranges
}

// ParallelFor runs fn over [0, n), one Partition range per worker, and
// returns once every range has completed. A closed pool runs fn inline.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	ranges := Partition(n, p.numWorkers)
	if len(ranges) == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for _, r := range ranges {
		p.workC <- workItem{
			fn: func() {
				fn(r.Start, r.End)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
