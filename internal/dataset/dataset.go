// Package dataset is a small pull-based input pipeline over record files:
// read records, parse them, shuffle, batch and prefetch.
//
// A Dataset is a recipe, not a stream. Every call to All starts a fresh pass,
// so a Dataset can be iterated once per epoch.
//
//	ds := dataset.Map(dataset.Records(paths, tfrecord.ReaderOptions{}), dataset.ParseFunc(spec))
//	ds = dataset.Shuffle(ds, 64, 42)
//	batches := dataset.Prefetch(dataset.Batch(ds, 8, false), 2)
//	for batch, err := range batches.All(ctx) {
//	    ...
//	}
//
// Errors end iteration: an element is yielded once with a non-nil error and
// nothing follows it.
package dataset

import (
	"context"
	"iter"
)

// Dataset produces a sequence of T.
type Dataset[T any] struct {
	seq func(ctx context.Context) iter.Seq2[T, error]
}

// New wraps a sequence constructor as a Dataset.
func New[T any](seq func(ctx context.Context) iter.Seq2[T, error]) Dataset[T] {
	return Dataset[T]{seq: seq}
}

// All starts a pass over the dataset.
func (d Dataset[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return d.seq(ctx)
}

// FromSlice yields the items of s in order.
func FromSlice[T any](s []T) Dataset[T] {
	return New(func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for _, v := range s {
				if err := ctx.Err(); err != nil {
					var zero T
					yield(zero, err)
					return
				}
				if !yield(v, nil) {
					return
				}
			}
		}
	})
}

// Collect drains a dataset into a slice, stopping at the first error.
func Collect[T any](ctx context.Context, d Dataset[T]) ([]T, error) {
	var out []T
	for v, err := range d.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Map applies fn to every element. An error from fn ends the pass.
func Map[T, U any](d Dataset[T], fn func(T) (U, error)) Dataset[U] {
	return New(func(ctx context.Context) iter.Seq2[U, error] {
		return func(yield func(U, error) bool) {
			for v, err := range d.All(ctx) {
				var u U
				if err == nil {
					u, err = fn(v)
				}
				if err != nil {
					yield(u, err)
					return
				}
				if !yield(u, nil) {
					return
				}
			}
		}
	})
}

// Take yields at most n elements.
func Take[T any](d Dataset[T], n int) Dataset[T] {
	return New(func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			if n <= 0 {
				return
			}
			taken := 0
			for v, err := range d.All(ctx) {
				if !yield(v, err) || err != nil {
					return
				}
				taken++
				if taken == n {
					return
				}
			}
		}
	})
}

// Repeat runs count passes over d. A negative count repeats until the
// context is cancelled or the consumer stops.
func Repeat[T any](d Dataset[T], count int) Dataset[T] {
	return New(func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for pass := 0; count < 0 || pass < count; pass++ {
				if err := ctx.Err(); err != nil {
					var zero T
					yield(zero, err)
					return
				}
				empty := true
				for v, err := range d.All(ctx) {
					empty = false
					if !yield(v, err) || err != nil {
						return
					}
				}
				if empty {
					return // an empty dataset would spin forever
				}
			}
		}
	})
}
