// Package parallel provides a small helper for splitting CPU-bound loops
// across cores. Grid search uses it to evaluate independent hyperparameter
// candidates concurrently; results are written to disjoint slice positions,
// so the outcome is identical to a sequential run.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides the index range [0, items) into contiguous chunks,
// one per available CPU core, and runs fn(start, end) for each chunk on
// its own goroutine. It blocks until all chunks complete.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so every item is covered
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or below
// the threshold, avoiding goroutine overhead on small workloads.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
