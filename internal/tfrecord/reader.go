package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
)

// Reader reads records from a TFRecord stream. It is not safe for concurrent use.
type Reader struct {
	closers []io.Closer // decompressor, then file
	buf     *bufio.Reader
	opts    ReaderOptions
	header  [12]byte
	footer  [4]byte
	index   int
	offset  int64
	closed  bool
}

// NewReader returns a Reader over r. Close releases the decompressor but does
// not close r.
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src, closer, err := newDecompressor(r, opts.Compression)
	if err != nil {
		return nil, err
	}

	reader := &Reader{
		buf:  bufio.NewReaderSize(src, bufferSize(opts.BufferSize)),
		opts: opts,
	}
	if closer != nil {
		reader.closers = append(reader.closers, closer)
	}
	return reader, nil
}

// Open opens the file at path for reading. The Reader closes the file on Close.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := NewReader(file, opts)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	r.closers = append(r.closers, file)
	return r, nil
}

func newDecompressor(r io.Reader, c Compression) (io.Reader, io.Closer, error) {
	switch c {
	case None:
		return r, nil, nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, zr, nil
	case Zlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zlib stream: %w", err)
		}
		return zr, zr, nil
	case S2:
		return s2.NewReader(r), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompress, c)
	}
}

// Next returns the next record. It returns io.EOF, unwrapped, when the stream
// ends cleanly between records. Any other failure is a *RecordError.
//
// The returned slice is newly allocated and owned by the caller.
func (r *Reader) Next() ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}

	start := r.offset
	fail := func(err error) ([]byte, error) {
		return nil, &RecordError{Index: r.index, Offset: start, Err: err}
	}

	n, err := io.ReadFull(r.buf, r.header[:])
	r.offset += int64(n)
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fail(fmt.Errorf("%w: header has %d of 12 bytes", ErrTruncated, n))
	case err != nil:
		return fail(err)
	}

	length := binary.LittleEndian.Uint64(r.header[:8])
	if !r.opts.SkipChecksum {
		if MaskedChecksum(r.header[:8]) != binary.LittleEndian.Uint32(r.header[8:]) {
			return fail(ErrCorruptLength)
		}
	}
	if length > r.opts.maxRecordSize() {
		return fail(fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, length))
	}

	data := make([]byte, length)
	n, err = io.ReadFull(r.buf, data)
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fail(fmt.Errorf("%w: data has %d of %d bytes", ErrTruncated, n, length))
		}
		return fail(err)
	}

	n, err = io.ReadFull(r.buf, r.footer[:])
	r.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fail(fmt.Errorf("%w: missing data checksum", ErrTruncated))
		}
		return fail(err)
	}
	if !r.opts.SkipChecksum {
		if MaskedChecksum(data) != binary.LittleEndian.Uint32(r.footer[:]) {
			return fail(ErrCorruptData)
		}
	}

	r.index++
	return data, nil
}

// All returns an iterator over the remaining records. Iteration stops after
// the first error, which is yielded once with a nil record.
func (r *Reader) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			record, err := r.Next()
			if err == io.EOF { //nolint:errorlint // Next returns io.EOF unwrapped
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// Index returns the number of records read so far.
func (r *Reader) Index() int {
	return r.index
}

// Offset returns the byte offset of the next record in the decompressed stream.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Close releases the decompressor and closes the file if the Reader was
// opened with Open. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of records in the file at path, validating every
// record on the way unless opts.SkipChecksum is set.
func Count(path string, opts ReaderOptions) (int, error) {
	r, err := Open(path, opts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	for {
		_, err := r.Next()
		if err == io.EOF { //nolint:errorlint // Next returns io.EOF unwrapped
			return r.Index(), nil
		}
		if err != nil {
			return r.Index(), err
		}
	}
}
