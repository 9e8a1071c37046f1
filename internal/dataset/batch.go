package dataset

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/born-ml/voxrec/internal/features"
	"github.com/born-ml/voxrec/internal/tensor"
)

// ErrBatchSize is returned by Batch for a non-positive batch size.
var ErrBatchSize = errors.New("batch size must be positive")

// Batch groups consecutive examples and stacks each feature into a tensor
// with a leading batch dimension. The last batch may be smaller unless
// dropRemainder is set. All examples in a batch must have the same keys and,
// per key, the same dtype and shape.
func Batch(d Dataset[features.Parsed], size int, dropRemainder bool) Dataset[features.Parsed] {
	return New(func(ctx context.Context) iter.Seq2[features.Parsed, error] {
		return func(yield func(features.Parsed, error) bool) {
			if size <= 0 {
				yield(nil, ErrBatchSize)
				return
			}

			pending := make([]features.Parsed, 0, size)
			for ex, err := range d.All(ctx) {
				if err != nil {
					yield(nil, err)
					return
				}
				pending = append(pending, ex)
				if len(pending) < size {
					continue
				}

				batch, err := stackBatch(pending)
				if !yield(batch, err) || err != nil {
					return
				}
				pending = pending[:0]
			}

			if len(pending) > 0 && !dropRemainder {
				batch, err := stackBatch(pending)
				yield(batch, err)
			}
		}
	})
}

func stackBatch(examples []features.Parsed) (features.Parsed, error) {
	out := make(features.Parsed, len(examples[0]))
	parts := make([]*tensor.RawTensor, len(examples))

	// A later element with extra keys is caught here; one with missing keys
	// is caught by the per-key loop below.
	first := examples[0]
	for _, ex := range examples[1:] {
		if len(ex) <= len(first) {
			continue
		}
		for key := range ex {
			if _, ok := first[key]; !ok {
				return nil, fmt.Errorf("batch element 0: %w", &features.FeatureError{Key: key, Err: features.ErrMissingFeature})
			}
		}
	}

	for key := range first {
		for i, ex := range examples {
			t, ok := ex[key]
			if !ok {
				return nil, fmt.Errorf("batch element %d: %w", i, &features.FeatureError{Key: key, Err: features.ErrMissingFeature})
			}
			parts[i] = t
		}
		stacked, err := tensor.Stack(parts)
		if err != nil {
			return nil, &features.FeatureError{Key: key, Err: err}
		}
		out[key] = stacked
	}
	return out, nil
}
