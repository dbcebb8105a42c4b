// Package parallel splits CPU-bound row loops across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls when and how a loop is split.
type Config struct {
	Workers int // Upper bound on goroutines; <= 1 runs inline.
	MinWork int // Loops whose total work is below this run inline.
}

// DefaultConfig uses one worker per CPU and a threshold that keeps small
// matrices on the calling goroutine.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		MinWork: 1 << 15,
	}
}

// Rows calls fn over contiguous, disjoint [start, end) ranges covering
// [0, n). rowCost is the work of a single row, used against MinWork.
// Rows returns once every range has been processed.
func Rows(n, rowCost int, fn func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := min(cfg.Workers, n)
	if workers <= 1 || n*rowCost < cfg.MinWork {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
