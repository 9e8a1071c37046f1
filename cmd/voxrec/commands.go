package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/voxrec/internal/config"
	"github.com/born-ml/voxrec/internal/dataset"
	"github.com/born-ml/voxrec/internal/features"
	"github.com/born-ml/voxrec/internal/shard"
	"github.com/born-ml/voxrec/internal/tensor"
	"github.com/born-ml/voxrec/internal/tfrecord"
)

// previewValues is how many leading values inspect prints per feature.
const previewValues = 5

// sink is where write puts records: one file or a set of shards.
type sink interface {
	Write(key, record []byte) error
	Files() []string
	Close() ([]int, error)
}

type fileSink struct {
	w    *tfrecord.Writer
	path string
}

func (s *fileSink) Write(_, record []byte) error { return s.w.Write(record) }
func (s *fileSink) Files() []string              { return []string{s.path} }
func (s *fileSink) Close() ([]int, error) {
	n := s.w.Count()
	return []int{n}, s.w.Close()
}

func openSink(cfg *config.Config, opts tfrecord.Options) (sink, error) {
	if cfg.Shards > 1 {
		routing, err := cfg.ShardRouting()
		if err != nil {
			return nil, err
		}
		prefix, ext := cfg.ShardLayout()
		return shard.Create(prefix, cfg.Shards, ext, routing, opts)
	}

	w, err := tfrecord.Create(cfg.DataPath, opts)
	if err != nil {
		return nil, err
	}
	return &fileSink{w: w, path: cfg.DataPath}, nil
}

func cmdWrite(ctx context.Context, e *env, _ []string) error {
	spec, err := e.cfg.FeatureSpec()
	if err != nil {
		return err
	}
	opts, err := e.cfg.WriterOptions()
	if err != nil {
		return err
	}

	values := make([]*tensor.RawTensor, len(spec))
	for i, f := range spec {
		values[i], err = tensor.Full(f.Shape, f.DType, e.cfg.Fill)
		if err != nil {
			return fmt.Errorf("feature %q: %w", f.Key, err)
		}
	}
	record, err := spec.Serialize(values...)
	if err != nil {
		return err
	}

	out, err := openSink(e.cfg, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < e.cfg.NumExamples; i++ {
		if err := ctx.Err(); err != nil {
			_, _ = out.Close()
			return err
		}
		if err := out.Write([]byte(strconv.Itoa(i)), record); err != nil {
			_, _ = out.Close()
			return fmt.Errorf("example %d: %w", i, err)
		}
	}

	counts, err := out.Close()
	if err != nil {
		return err
	}

	for i, path := range out.Files() {
		_, _ = fmt.Fprintf(e.stdout, "%s\t%d\n", path, counts[i])
	}
	e.log.Info("wrote records",
		"examples", e.cfg.NumExamples,
		"files", len(counts),
		"record_bytes", len(record),
		"compression", opts.Compression,
		"elapsed", time.Since(start))
	return nil
}

func cmdCount(ctx context.Context, e *env, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = e.cfg.Paths()
	}
	base, err := e.cfg.ReaderOptions()
	if err != nil {
		return err
	}

	total := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		opts := base
		if opts.Compression == tfrecord.None {
			opts.Compression = tfrecord.CompressionFromPath(path)
		}
		n, err := tfrecord.Count(path, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		e.log.Debug("counted records", "path", path, "records", n)
		_, _ = fmt.Fprintf(e.stdout, "%s\t%d\n", path, n)
		total += n
	}
	if len(paths) > 1 {
		_, _ = fmt.Fprintf(e.stdout, "total\t%d\n", total)
	}
	return nil
}

func cmdInspect(ctx context.Context, e *env, args []string) error {
	spec, ds, err := parsedDataset(e.cfg, args)
	if err != nil {
		return err
	}

	limit := e.limit
	if limit <= 0 {
		limit = 1
	}
	examples, err := dataset.Collect(ctx, dataset.Take(ds, limit))
	if err != nil {
		return err
	}

	for i, ex := range examples {
		_, _ = fmt.Fprintf(e.stdout, "example %d\n", i)
		for _, f := range spec {
			t := ex[f.Key]
			_, _ = fmt.Fprintf(e.stdout, "  %-10s %-8s %-16s %s\n", f.Key, t.DType(), t.Shape(), preview(t))
		}
	}
	return nil
}

func cmdBatches(ctx context.Context, e *env, args []string) error {
	spec, ds, err := parsedDataset(e.cfg, args)
	if err != nil {
		return err
	}

	if e.cfg.ShuffleBuffer > 0 {
		ds = dataset.Shuffle(ds, e.cfg.ShuffleBuffer, e.cfg.Seed)
	}
	batches := dataset.Batch(ds, e.cfg.BatchSize, e.cfg.DropRemainder)
	if e.cfg.Prefetch > 0 {
		batches = dataset.Prefetch(batches, e.cfg.Prefetch)
	}
	if e.limit > 0 {
		batches = dataset.Take(batches, e.limit)
	}

	n, examples := 0, 0
	for batch, err := range batches.All(ctx) {
		if err != nil {
			return err
		}
		parts := make([]string, len(spec))
		for i, f := range spec {
			parts[i] = f.Key + "=" + batch[f.Key].Shape().String()
		}
		_, _ = fmt.Fprintf(e.stdout, "batch %d: %s\n", n, strings.Join(parts, " "))
		n++
		examples += batch[spec[0].Key].Shape()[0]
	}

	e.log.Info("read batches", "batches", n, "examples", examples, "batch_size", e.cfg.BatchSize)
	return nil
}

func parsedDataset(cfg *config.Config, args []string) (features.Spec, dataset.Dataset[features.Parsed], error) {
	spec, err := cfg.FeatureSpec()
	if err != nil {
		return nil, dataset.Dataset[features.Parsed]{}, err
	}
	opts, err := cfg.ReaderOptions()
	if err != nil {
		return nil, dataset.Dataset[features.Parsed]{}, err
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Paths()
	}
	records := dataset.Records(paths, opts)
	if cfg.ParseWorkers > 1 {
		return spec, dataset.ParallelMap(records, dataset.ParseFunc(spec), cfg.ParseWorkers), nil
	}
	return spec, dataset.Map(records, dataset.ParseFunc(spec)), nil
}

func preview(t *tensor.RawTensor) string {
	values := t.Float64s()
	more := ""
	if len(values) > previewValues {
		values = values[:previewValues]
		more = " ..."
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + more + "]"
}
