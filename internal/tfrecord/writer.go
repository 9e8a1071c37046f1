package tfrecord

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
)

// compressor is the part of the gzip, zlib and s2 writers the Writer uses.
type compressor interface {
	io.WriteCloser
	Flush() error
}

// Writer appends records to a TFRecord stream. It is not safe for concurrent use.
type Writer struct {
	file   *os.File   // set when the Writer owns the file
	comp   compressor // nil without compression
	buf    *bufio.Writer
	header [12]byte
	footer [4]byte
	count  int
	closed bool
}

// NewWriter returns a Writer appending records to w. Close flushes buffered
// data and finishes the compressed stream but does not close w.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	comp, err := newCompressor(w, opts)
	if err != nil {
		return nil, err
	}

	dst := w
	if comp != nil {
		dst = comp
	}
	return &Writer{
		comp: comp,
		buf:  bufio.NewWriterSize(dst, bufferSize(opts.BufferSize)),
	}, nil
}

// Create creates or truncates the file at path and returns a Writer that
// closes it on Close.
func Create(path string, opts Options) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	//nolint:gosec // G304: File path comes from user input, which is expected for dataset writing
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	w, err := NewWriter(file, opts)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	w.file = file
	return w, nil
}

func newCompressor(w io.Writer, opts Options) (compressor, error) {
	level := opts.Level
	if level == LevelDefault {
		level = gzip.DefaultCompression
	}

	switch opts.Compression {
	case None:
		return nil, nil
	case Gzip:
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		return zw, nil
	case Zlib:
		zw, err := zlib.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("failed to create zlib writer: %w", err)
		}
		return zw, nil
	case S2:
		var s2opts []s2.WriterOption
		switch opts.Level {
		case 1:
			s2opts = append(s2opts, s2.WriterBetterCompression())
		case 2:
			s2opts = append(s2opts, s2.WriterBestCompression())
		}
		return s2.NewWriter(w, s2opts...), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompress, opts.Compression)
	}
}

// Write appends one record.
func (w *Writer) Write(record []byte) error {
	if w.closed {
		return ErrClosed
	}

	binary.LittleEndian.PutUint64(w.header[:8], uint64(len(record)))
	binary.LittleEndian.PutUint32(w.header[8:], MaskedChecksum(w.header[:8]))
	binary.LittleEndian.PutUint32(w.footer[:], MaskedChecksum(record))

	if _, err := w.buf.Write(w.header[:]); err != nil {
		return fmt.Errorf("failed to write record header: %w", err)
	}
	if _, err := w.buf.Write(record); err != nil {
		return fmt.Errorf("failed to write record data: %w", err)
	}
	if _, err := w.buf.Write(w.footer[:]); err != nil {
		return fmt.Errorf("failed to write record footer: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes buffered records through the compressor to the underlying writer.
// A flushed compressed stream is readable up to this point but not finished.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	if w.comp != nil {
		if err := w.comp.Flush(); err != nil {
			return fmt.Errorf("failed to flush compressor: %w", err)
		}
	}
	return nil
}

// Close flushes buffered records, finishes the compressed stream and closes
// the file if the Writer was created with Create. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.buf.Flush()
	if err != nil {
		err = fmt.Errorf("failed to flush: %w", err)
	}
	if w.comp != nil {
		if cerr := w.comp.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close compressor: %w", cerr)
		}
	}
	if w.file != nil {
		if cerr := w.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}
	return err
}
