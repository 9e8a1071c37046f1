package dataset

import (
	"context"
	"iter"
	"math/rand/v2"
)

// Shuffle randomizes element order with a bounded buffer, like
// tf.data.Dataset.shuffle: the buffer is filled with the first buffer
// elements, then each output is a uniformly random buffer slot that is
// refilled from the input. Equal seeds give equal orders.
//
// A buffer of at least the dataset size gives a uniform permutation; a
// buffer of 1 keeps the input order.
func Shuffle[T any](d Dataset[T], buffer int, seed uint64) Dataset[T] {
	if buffer < 1 {
		buffer = 1
	}

	return New(func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // G404: shuffling, not security
			buf := make([]T, 0, buffer)

			for v, err := range d.All(ctx) {
				if err != nil {
					var zero T
					yield(zero, err)
					return
				}
				if len(buf) < buffer {
					buf = append(buf, v)
					continue
				}
				i := rng.IntN(len(buf))
				out := buf[i]
				buf[i] = v
				if !yield(out, nil) {
					return
				}
			}

			for len(buf) > 0 {
				i := rng.IntN(len(buf))
				out := buf[i]
				buf[i] = buf[len(buf)-1]
				buf = buf[:len(buf)-1]
				if !yield(out, nil) {
					return
				}
			}
		}
	})
}
