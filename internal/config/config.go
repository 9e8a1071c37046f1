// Package config loads the YAML configuration shared by the voxrec tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/voxrec/internal/features"
	"github.com/born-ml/voxrec/internal/logging"
	"github.com/born-ml/voxrec/internal/shard"
	"github.com/born-ml/voxrec/internal/tensor"
	"github.com/born-ml/voxrec/internal/tfrecord"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds everything needed to write and read a record dataset.
type Config struct {
	DataPath    string  `yaml:"data_path"`
	Compression string  `yaml:"compression"`
	Level       int     `yaml:"level"`
	NumExamples int     `yaml:"num_examples"`
	Fill        float64 `yaml:"fill"`

	Shards  int    `yaml:"shards"`
	Routing string `yaml:"routing"`

	BatchSize     int    `yaml:"batch_size"`
	DropRemainder bool   `yaml:"drop_remainder"`
	ShuffleBuffer int    `yaml:"shuffle_buffer"`
	Seed          uint64 `yaml:"seed"`
	Prefetch      int    `yaml:"prefetch"`
	ParseWorkers  int    `yaml:"parse_workers"`
	SkipChecksum  bool   `yaml:"skip_checksum"`

	Features []Feature `yaml:"features"`
	Log      Log       `yaml:"log"`
}

// Feature declares one record field.
type Feature struct {
	Key      string `yaml:"key"`
	DType    string `yaml:"dtype"`
	Shape    Dims   `yaml:"shape"`
	Encoding string `yaml:"encoding,omitempty"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Dims is a shape in YAML, written either as a sequence ([10, 10, 10, 1])
// or as a string ("10,10,10,1" or "(2,)").
type Dims []int

// UnmarshalYAML accepts both the sequence and the string form.
func (d *Dims) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var dims []int
		if err := value.Decode(&dims); err != nil {
			return err
		}
		*d = dims
		return nil
	case yaml.ScalarNode:
		shape, err := tensor.ParseShape(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*d = Dims(shape)
		return nil
	default:
		return fmt.Errorf("line %d: shape must be a sequence or a string", value.Line)
	}
}

// Default returns the configuration of the volume tutorial: ten examples of
// a (10,10,10,1) volume, a (2,) label and a (1,) auxiliary input.
func Default() *Config {
	return &Config{
		DataPath:    "volumes.tfrecord",
		Compression: "none",
		NumExamples: 10,
		Fill:        1,
		Shards:      1,
		Routing:     "round_robin",
		BatchSize:   2,
		Seed:        42,
		Prefetch:    2,
		Features: []Feature{
			{Key: "volume", DType: "float32", Shape: Dims{10, 10, 10, 1}},
			{Key: "label", DType: "float32", Shape: Dims{2}},
			{Key: "aux", DType: "float32", Shape: Dims{1}},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and that every named option parses.
func (c *Config) Validate() error {
	switch {
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path is empty", ErrInvalid)
	case c.NumExamples < 0:
		return fmt.Errorf("%w: num_examples must be >= 0, got %d", ErrInvalid, c.NumExamples)
	case c.Shards < 1:
		return fmt.Errorf("%w: shards must be >= 1, got %d", ErrInvalid, c.Shards)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be >= 1, got %d", ErrInvalid, c.BatchSize)
	case c.ShuffleBuffer < 0:
		return fmt.Errorf("%w: shuffle_buffer must be >= 0, got %d", ErrInvalid, c.ShuffleBuffer)
	case c.Prefetch < 0:
		return fmt.Errorf("%w: prefetch must be >= 0, got %d", ErrInvalid, c.Prefetch)
	case c.ParseWorkers < 0:
		return fmt.Errorf("%w: parse_workers must be >= 0, got %d", ErrInvalid, c.ParseWorkers)
	}

	opts, err := c.WriterOptions()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.ShardRouting(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.FeatureSpec(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// FeatureSpec converts the features section to a features.Spec.
func (c *Config) FeatureSpec() (features.Spec, error) {
	spec := make(features.Spec, len(c.Features))
	for i, f := range c.Features {
		dtype, err := tensor.ParseDataType(f.DType)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Key, err)
		}
		enc, err := features.ParseEncoding(f.Encoding)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Key, err)
		}
		spec[i] = features.Field{
			Key:      f.Key,
			DType:    dtype,
			Shape:    tensor.Shape(f.Shape).Clone(),
			Encoding: enc,
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// WriterOptions returns the tfrecord options for writing. A compression of
// none is inferred from the data_path extension, the same way readers infer
// it, so data_path "train.tfrecord.gz" writes gzip.
func (c *Config) WriterOptions() (tfrecord.Options, error) {
	comp, err := tfrecord.ParseCompression(c.Compression)
	if err != nil {
		return tfrecord.Options{}, err
	}
	if comp == tfrecord.None {
		comp = tfrecord.CompressionFromPath(c.DataPath)
	}
	return tfrecord.Options{Compression: comp, Level: c.Level}, nil
}

// ReaderOptions returns the tfrecord options for reading. A compression of
// none leaves readers to infer it per file from the extension.
func (c *Config) ReaderOptions() (tfrecord.ReaderOptions, error) {
	comp, err := tfrecord.ParseCompression(c.Compression)
	if err != nil {
		return tfrecord.ReaderOptions{}, err
	}
	return tfrecord.ReaderOptions{Compression: comp, SkipChecksum: c.SkipChecksum}, nil
}

// ShardRouting returns the configured shard routing.
func (c *Config) ShardRouting() (shard.Routing, error) {
	return shard.ParseRouting(c.Routing)
}

// Paths returns the record files of the dataset: data_path itself, or the
// shard files of ShardLayout when shards > 1.
func (c *Config) Paths() []string {
	if c.Shards <= 1 {
		return []string{c.DataPath}
	}
	prefix, ext := c.ShardLayout()
	return shard.Files(prefix, c.Shards, ext)
}

// ShardLayout splits data_path into a shard prefix and extension. A
// compression extension stays at the end of every shard name, so
// "train.tfrecord.gz" shards as "train.tfrecord-00000-of-00004.gz".
func (c *Config) ShardLayout() (prefix, ext string) {
	if tfrecord.CompressionFromPath(c.DataPath) == tfrecord.None {
		return c.DataPath, ""
	}
	ext = filepath.Ext(c.DataPath)
	return strings.TrimSuffix(c.DataPath, ext), ext
}

// LogOptions returns the logger settings.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}
