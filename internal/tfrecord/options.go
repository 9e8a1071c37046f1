package tfrecord

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Compression selects the stream compression of a record file.
type Compression int

// Supported compression types.
const (
	None Compression = iota
	Gzip
	Zlib
	S2
)

// String returns the name of the compression type.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case S2:
		return "s2"
	default:
		return "unknown"
	}
}

// ParseCompression converts a name to a Compression. Matching is case
// insensitive and accepts TensorFlow's names ("", "GZIP", "ZLIB").
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zlib":
		return Zlib, nil
	case "s2":
		return S2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompress, s)
	}
}

// CompressionFromPath infers the compression from a file extension:
// .gz is gzip, .zz and .zlib are zlib, .s2 is S2, anything else is None.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zz", ".zlib":
		return Zlib
	case ".s2":
		return S2
	default:
		return None
	}
}

// Compression levels for Options.Level. Zero selects the codec default.
const (
	LevelDefault = 0
	LevelFastest = 1
	LevelBest    = 9
)

// Options configures a Writer.
type Options struct {
	Compression Compression
	// Level is the gzip/zlib level (1-9), or for S2: 1 better, 2 best.
	// Zero uses the codec default.
	Level int
	// BufferSize is the write buffer size in bytes. Zero means 64 KiB.
	BufferSize int
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch o.Compression {
	case None:
		if o.Level != LevelDefault {
			return fmt.Errorf("%w: level %d set without compression", ErrInvalidOptions, o.Level)
		}
	case Gzip, Zlib:
		if o.Level < LevelDefault || o.Level > LevelBest {
			return fmt.Errorf("%w: %s level %d out of range [1, 9]", ErrInvalidOptions, o.Compression, o.Level)
		}
	case S2:
		if o.Level < LevelDefault || o.Level > 2 {
			return fmt.Errorf("%w: s2 level %d out of range [1, 2]", ErrInvalidOptions, o.Level)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCompress, o.Compression)
	}
	if o.BufferSize < 0 {
		return fmt.Errorf("%w: negative buffer size", ErrInvalidOptions)
	}
	return nil
}

// DefaultMaxRecordSize bounds the allocation for a single record.
const DefaultMaxRecordSize = 256 << 20

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Compression   Compression
	SkipChecksum  bool // Skip CRC validation (faster but less safe)
	MaxRecordSize int  // Zero means DefaultMaxRecordSize
	BufferSize    int  // Zero means 64 KiB
}

// Validate checks the options for consistency.
func (o ReaderOptions) Validate() error {
	if o.Compression < None || o.Compression > S2 {
		return fmt.Errorf("%w: %d", ErrUnknownCompress, o.Compression)
	}
	if o.MaxRecordSize < 0 || o.BufferSize < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidOptions)
	}
	return nil
}

func (o ReaderOptions) maxRecordSize() uint64 {
	if o.MaxRecordSize == 0 {
		return DefaultMaxRecordSize
	}
	return uint64(o.MaxRecordSize)
}

const defaultBufferSize = 64 << 10

func bufferSize(n int) int {
	if n == 0 {
		return defaultBufferSize
	}
	return n
}
