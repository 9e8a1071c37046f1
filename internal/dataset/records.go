package dataset

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/born-ml/voxrec/internal/features"
	"github.com/born-ml/voxrec/internal/tfrecord"
)

// Records reads the raw records of each file in paths, in order. When
// opts.Compression is None the compression of each file is inferred from its
// extension.
func Records(paths []string, opts tfrecord.ReaderOptions) Dataset[[]byte] {
	return New(func(ctx context.Context) iter.Seq2[[]byte, error] {
		return func(yield func([]byte, error) bool) {
			for _, path := range paths {
				if !readFile(ctx, path, opts, yield) {
					return
				}
			}
		}
	})
}

// readFile yields the records of one file and reports whether to continue.
func readFile(ctx context.Context, path string, opts tfrecord.ReaderOptions, yield func([]byte, error) bool) bool {
	if opts.Compression == tfrecord.None {
		opts.Compression = tfrecord.CompressionFromPath(path)
	}

	r, err := tfrecord.Open(path, opts)
	if err != nil {
		yield(nil, fmt.Errorf("%s: %w", path, err))
		return false
	}
	defer func() { _ = r.Close() }()

	for {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		record, err := r.Next()
		if err == io.EOF { //nolint:errorlint // Next returns io.EOF unwrapped
			return true
		}
		if err != nil {
			yield(nil, fmt.Errorf("%s: %w", path, err))
			return false
		}
		if !yield(record, nil) {
			return false
		}
	}
}

// ParseFunc returns a Map function decoding records against spec.
func ParseFunc(spec features.Spec) func([]byte) (features.Parsed, error) {
	return func(record []byte) (features.Parsed, error) {
		return features.ParseExample(record, spec)
	}
}
