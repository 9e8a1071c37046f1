// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tfrecord reads and writes TFRecord files.
//
// Files written here are readable by tf.data.TFRecordDataset, and files
// written by TensorFlow are readable here. Gzip and zlib streams use
// TensorFlow's compression names; S2 is a voxrec extension.
//
// # Example Usage
//
//	w, err := tfrecord.Create("train.tfrecord.gz", tfrecord.Options{Compression: tfrecord.Gzip})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = w.Write(record)
//	_ = w.Close()
//
//	n, err := tfrecord.Count("train.tfrecord.gz", tfrecord.ReaderOptions{Compression: tfrecord.Gzip})
package tfrecord

import (
	"io"

	"github.com/born-ml/voxrec/internal/tfrecord"
)

// Writer appends framed records to a stream.
type Writer = tfrecord.Writer

// Reader reads framed records and verifies their checksums.
type Reader = tfrecord.Reader

// Options configures a Writer.
type Options = tfrecord.Options

// ReaderOptions configures a Reader.
type ReaderOptions = tfrecord.ReaderOptions

// Compression selects the stream compression.
type Compression = tfrecord.Compression

// Compression types.
const (
	None Compression = tfrecord.None
	Gzip Compression = tfrecord.Gzip
	Zlib Compression = tfrecord.Zlib
	S2   Compression = tfrecord.S2
)

// RecordError locates a read failure.
type RecordError = tfrecord.RecordError

// Errors reported while reading and writing.
var (
	ErrCorruptLength  = tfrecord.ErrCorruptLength
	ErrCorruptData    = tfrecord.ErrCorruptData
	ErrTruncated      = tfrecord.ErrTruncated
	ErrRecordTooLarge = tfrecord.ErrRecordTooLarge
	ErrClosed         = tfrecord.ErrClosed
)

// NewWriter returns a Writer framing records onto w.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	return tfrecord.NewWriter(w, opts)
}

// Create creates or truncates the file at path and returns a Writer for it.
func Create(path string, opts Options) (*Writer, error) {
	return tfrecord.Create(path, opts)
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	return tfrecord.NewReader(r, opts)
}

// Open opens the file at path for reading.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	return tfrecord.Open(path, opts)
}

// Count returns the number of records in the file at path, verifying each.
func Count(path string, opts ReaderOptions) (int, error) {
	return tfrecord.Count(path, opts)
}

// ParseCompression converts a name such as "GZIP" to a Compression.
func ParseCompression(s string) (Compression, error) {
	return tfrecord.ParseCompression(s)
}

// CompressionFromPath infers the compression from a file extension.
func CompressionFromPath(path string) Compression {
	return tfrecord.CompressionFromPath(path)
}

// MaskedChecksum returns the masked CRC-32C stored in record frames.
func MaskedChecksum(data []byte) uint32 {
	return tfrecord.MaskedChecksum(data)
}
