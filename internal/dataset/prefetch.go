package dataset

import (
	"context"
	"iter"
	"sync"
)

// Prefetch reads up to n elements ahead of the consumer on a separate
// goroutine. The goroutine exits when the pass ends, the consumer stops
// early or ctx is cancelled.
func Prefetch[T any](d Dataset[T], n int) Dataset[T] {
	if n < 1 {
		n = 1
	}

	type item struct {
		v   T
		err error
	}

	return New(func(parent context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			ctx, cancel := context.WithCancel(parent)
			ch := make(chan item, n)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(ch)
				for v, err := range d.All(ctx) {
					select {
					case ch <- item{v: v, err: err}:
					case <-ctx.Done():
						return
					}
					if err != nil {
						return
					}
				}
			}()
			defer func() {
				cancel()
				wg.Wait()
			}()

			for it := range ch {
				if !yield(it.v, it.err) || it.err != nil {
					return
				}
			}
			if err := parent.Err(); err != nil {
				var zero T
				yield(zero, err)
			}
		}
	})
}
