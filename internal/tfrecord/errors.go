package tfrecord

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrCorruptLength   = errors.New("corrupted record: length checksum mismatch")
	ErrCorruptData     = errors.New("corrupted record: data checksum mismatch")
	ErrTruncated       = errors.New("truncated record")
	ErrRecordTooLarge  = errors.New("record exceeds maximum size")
	ErrClosed          = errors.New("tfrecord: use of closed file")
	ErrInvalidOptions  = errors.New("invalid options")
	ErrUnknownCompress = errors.New("unknown compression type")
)

// RecordError locates a read failure in the (decompressed) stream.
type RecordError struct {
	Index  int   // Zero-based record index
	Offset int64 // Byte offset of the record header
	Err    error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}
