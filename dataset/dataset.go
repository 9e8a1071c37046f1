// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset builds input pipelines over TFRecord files.
//
// # Example Usage
//
//	ds := dataset.Map(dataset.Records(paths, tfrecord.ReaderOptions{}), dataset.ParseFunc(spec))
//	ds = dataset.Shuffle(ds, 64, 42)
//	batches := dataset.Prefetch(dataset.Batch(ds, 8, false), 2)
//
//	for batch, err := range batches.All(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    volume := batch["volume"] // (8,10,10,10,1)
//	}
package dataset

import (
	"context"

	"github.com/born-ml/voxrec/features"
	"github.com/born-ml/voxrec/internal/dataset"
	"github.com/born-ml/voxrec/tfrecord"
)

// Dataset produces a sequence of T. Each call to All starts a new pass.
type Dataset[T any] = dataset.Dataset[T]

// ErrBatchSize is returned by Batch for a non-positive batch size.
var ErrBatchSize = dataset.ErrBatchSize

// FromSlice yields the items of s in order.
func FromSlice[T any](s []T) Dataset[T] {
	return dataset.FromSlice(s)
}

// Records reads the raw records of each file in paths, in order.
func Records(paths []string, opts tfrecord.ReaderOptions) Dataset[[]byte] {
	return dataset.Records(paths, opts)
}

// ParseFunc returns a Map function decoding records against spec.
func ParseFunc(spec features.Spec) func([]byte) (features.Parsed, error) {
	return dataset.ParseFunc(spec)
}

// Map applies fn to every element.
func Map[T, U any](d Dataset[T], fn func(T) (U, error)) Dataset[U] {
	return dataset.Map(d, fn)
}

// ParallelMap is Map with fn applied to up to workers elements at once.
// Output order matches input order.
func ParallelMap[T, U any](d Dataset[T], fn func(T) (U, error), workers int) Dataset[U] {
	return dataset.ParallelMap(d, fn, workers)
}

// Take yields at most n elements.
func Take[T any](d Dataset[T], n int) Dataset[T] {
	return dataset.Take(d, n)
}

// Repeat runs count passes over d; a negative count repeats forever.
func Repeat[T any](d Dataset[T], count int) Dataset[T] {
	return dataset.Repeat(d, count)
}

// Shuffle randomizes order with a bounded buffer. Equal seeds give equal orders.
func Shuffle[T any](d Dataset[T], buffer int, seed uint64) Dataset[T] {
	return dataset.Shuffle(d, buffer, seed)
}

// Batch stacks consecutive examples along a new leading dimension.
func Batch(d Dataset[features.Parsed], size int, dropRemainder bool) Dataset[features.Parsed] {
	return dataset.Batch(d, size, dropRemainder)
}

// Prefetch runs d in a goroutine, keeping up to n elements ready.
func Prefetch[T any](d Dataset[T], n int) Dataset[T] {
	return dataset.Prefetch(d, n)
}

// Collect drains a dataset into a slice, stopping at the first error.
func Collect[T any](ctx context.Context, d Dataset[T]) ([]T, error) {
	return dataset.Collect(ctx, d)
}
