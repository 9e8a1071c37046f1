// Package shard spreads records over a fixed number of TFRecord files.
//
// Shard files follow the TensorFlow naming convention
// <prefix>-00000-of-00004<ext>, so a reader can glob them in order.
package shard

import (
	"errors"
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/born-ml/voxrec/internal/tfrecord"
)

// Routing selects the shard for each record.
type Routing int

const (
	// RoundRobin cycles through shards in write order.
	RoundRobin Routing = iota
	// ByKey hashes a caller-supplied key with murmur3, so records with the
	// same key always land in the same shard.
	ByKey
)

// String returns the config name of the routing.
func (r Routing) String() string {
	switch r {
	case RoundRobin:
		return "round_robin"
	case ByKey:
		return "by_key"
	default:
		return "unknown"
	}
}

// ParseRouting converts a config name to a Routing. Empty means RoundRobin.
func ParseRouting(s string) (Routing, error) {
	switch s {
	case "", "round_robin":
		return RoundRobin, nil
	case "by_key":
		return ByKey, nil
	default:
		return 0, fmt.Errorf("unknown shard routing %q", s)
	}
}

// ErrNoKey is returned when a ByKey writer receives a record without a key.
var ErrNoKey = errors.New("shard: ByKey routing needs a key")

// Name returns the file name of shard i of n.
func Name(prefix string, i, n int, ext string) string {
	return fmt.Sprintf("%s-%05d-of-%05d%s", prefix, i, n, ext)
}

// Files returns the names of all n shards in order.
func Files(prefix string, n int, ext string) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = Name(prefix, i, n, ext)
	}
	return names
}

// Index returns the shard a key routes to.
func Index(key []byte, n int) int {
	return int(murmur3.Sum32(key) % uint32(n)) //nolint:gosec // G115: n is a small positive shard count
}

// Writer writes records across n shard files.
type Writer struct {
	writers []*tfrecord.Writer
	files   []string
	routing Routing
	next    int
	closed  bool
}

// Create creates n shard files named by Files(prefix, n, ext).
func Create(prefix string, n int, ext string, routing Routing, opts tfrecord.Options) (*Writer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("shard count must be positive, got %d", n)
	}

	w := &Writer{files: Files(prefix, n, ext), routing: routing}
	for _, name := range w.files {
		tw, err := tfrecord.Create(name, opts)
		if err != nil {
			_, _ = w.Close() // Best effort close of the shards already created
			return nil, fmt.Errorf("failed to create shard %s: %w", name, err)
		}
		w.writers = append(w.writers, tw)
	}
	return w, nil
}

// Write routes record to a shard. key is required for ByKey routing and
// ignored for RoundRobin.
func (w *Writer) Write(key, record []byte) error {
	if w.closed {
		return tfrecord.ErrClosed
	}

	var i int
	switch w.routing {
	case ByKey:
		if key == nil {
			return ErrNoKey
		}
		i = Index(key, len(w.writers))
	default:
		i = w.next
		w.next = (w.next + 1) % len(w.writers)
	}

	if err := w.writers[i].Write(record); err != nil {
		return fmt.Errorf("shard %d: %w", i, err)
	}
	return nil
}

// Files returns the shard file names.
func (w *Writer) Files() []string {
	return w.files
}

// Close closes every shard and returns the number of records in each.
func (w *Writer) Close() ([]int, error) {
	counts := make([]int, len(w.writers))
	if w.closed {
		for i, tw := range w.writers {
			counts[i] = tw.Count()
		}
		return counts, nil
	}
	w.closed = true

	var errs []error
	for i, tw := range w.writers {
		counts[i] = tw.Count()
		if err := tw.Close(); err != nil {
			errs = append(errs, fmt.Errorf("shard %d: %w", i, err))
		}
	}
	return counts, errors.Join(errs...)
}
