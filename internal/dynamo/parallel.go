package dynamo

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when a caller passes zero.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ParallelFor executes fn over [0, n) split into contiguous chunks. Each
// chunk receives the index of the worker running it, so callers can keep
// per-thread scratch.
func ParallelFor(n, minChunk, numWorkers int, fn func(start, end, worker int)) {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n, 0)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e, idx int) {
			defer wg.Done()
			fn(s, e, idx)
		}(start, end, w)
	}

	wg.Wait()
}
