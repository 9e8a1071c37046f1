// Package parallel runs independent per-index work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers      int // Number of worker goroutines; <= 1 runs sequentially.
	MinChunkSize int // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig uses one worker per available CPU. Decoding a record is
// heavy enough that a chunk of one is worth a goroutine.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.GOMAXPROCS(0),
		MinChunkSize: 1,
	}
}

// WithWorkers returns DefaultConfig with the worker count set to n.
// n <= 0 keeps the default.
func WithWorkers(n int) Config {
	cfg := DefaultConfig()
	if n > 0 {
		cfg.Workers = n
	}
	return cfg
}

// For executes f(i) for i in [0, n) and returns the error of the lowest
// failing index, or nil. Every index runs even when some fail.
// Falls back to sequential execution for one worker or small n.
func For(n int, f func(i int) error, cfg Config) error {
	if n <= 0 {
		return nil
	}

	errs := make([]error, n)
	minChunk := max(cfg.MinChunkSize, 1)

	if cfg.Workers <= 1 || n < 2*minChunk {
		for i := 0; i < n; i++ {
			errs[i] = f(i)
		}
		return first(errs)
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.Workers-1)/cfg.Workers, minChunk)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				errs[i] = f(i)
			}
		}(start, end)
	}
	wg.Wait()
	return first(errs)
}

func first(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
