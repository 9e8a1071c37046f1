package dataset

import (
	"context"
	"iter"

	"github.com/born-ml/voxrec/internal/parallel"
)

// ParallelMap is Map with fn applied to up to workers elements at once.
// Input is consumed in windows of workers*4 elements and output order
// matches input order. An error ends the pass after the elements before
// it in the window are yielded.
func ParallelMap[T, U any](d Dataset[T], fn func(T) (U, error), workers int) Dataset[U] {
	cfg := parallel.WithWorkers(workers)
	window := cfg.Workers * 4

	return New(func(ctx context.Context) iter.Seq2[U, error] {
		return func(yield func(U, error) bool) {
			in := make([]T, 0, window)
			out := make([]U, window)
			errs := make([]error, window)

			// flush maps the pending window and reports whether to continue.
			flush := func() bool {
				n := len(in)
				failed := parallel.For(n, func(i int) error {
					out[i], errs[i] = fn(in[i])
					return errs[i]
				}, cfg) != nil
				for i := 0; i < n; i++ {
					if failed && errs[i] != nil {
						var zero U
						yield(zero, errs[i])
						return false
					}
					if !yield(out[i], nil) {
						return false
					}
				}
				in = in[:0]
				return true
			}

			for v, err := range d.All(ctx) {
				if err != nil {
					if flush() {
						var zero U
						yield(zero, err)
					}
					return
				}
				in = append(in, v)
				if len(in) == window && !flush() {
					return
				}
			}
			if len(in) > 0 {
				flush()
			}
		}
	})
}
