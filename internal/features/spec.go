package features

import (
	"fmt"

	"github.com/born-ml/voxrec/internal/tensor"
	"github.com/born-ml/voxrec/internal/tfproto"
)

// Encoding selects how a field's tensor is stored in the Example.
type Encoding int

const (
	// EncodingTensor stores a serialized TensorProto in a bytes_list.
	EncodingTensor Encoding = iota
	// EncodingList stores the flattened values directly in a float_list
	// (Float32) or int64_list (Int64). The shape comes from the Spec.
	EncodingList
)

// String returns the config name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingTensor:
		return "tensor"
	case EncodingList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseEncoding converts "tensor" or "list" to an Encoding. Empty means tensor.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "tensor":
		return EncodingTensor, nil
	case "list":
		return EncodingList, nil
	default:
		return 0, fmt.Errorf("%w: unknown encoding %q", ErrInvalidSpec, s)
	}
}

// Field describes one feature of a record.
type Field struct {
	Key      string
	DType    tensor.DataType
	Shape    tensor.Shape
	Encoding Encoding
}

// Spec is the ordered set of fields every record carries.
type Spec []Field

// Parsed maps feature keys to decoded tensors.
type Parsed map[string]*tensor.RawTensor

// Validate checks that keys are non-empty and unique, shapes are valid and
// list encodings use a dtype a list feature can hold.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidSpec)
	}

	seen := make(map[string]bool, len(s))
	for i, f := range s {
		if f.Key == "" {
			return fmt.Errorf("%w: field %d has an empty key", ErrInvalidSpec, i)
		}
		if seen[f.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidSpec, f.Key)
		}
		seen[f.Key] = true

		if !f.DType.Valid() {
			return fmt.Errorf("%w: field %q: invalid dtype", ErrInvalidSpec, f.Key)
		}
		if err := f.Shape.Validate(); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidSpec, f.Key, err)
		}
		if f.Encoding == EncodingList && f.DType != tensor.Float32 && f.DType != tensor.Int64 {
			return fmt.Errorf("%w: field %q: list encoding needs float32 or int64, got %s",
				ErrInvalidSpec, f.Key, f.DType)
		}
	}
	return nil
}

// Keys returns the field keys in order.
func (s Spec) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Serialize encodes one record. values are positional, one per field, and
// must match the field's dtype and shape.
func (s Spec) Serialize(values ...*tensor.RawTensor) ([]byte, error) {
	if len(values) != len(s) {
		return nil, fmt.Errorf("%w: got %d values for %d fields", ErrInvalidSpec, len(values), len(s))
	}

	ex := &tfproto.Example{Features: make(map[string]Feature, len(s))}
	for i, f := range s {
		feature, err := f.encode(values[i])
		if err != nil {
			return nil, &FeatureError{Key: f.Key, Err: err}
		}
		ex.Features[f.Key] = feature
	}
	return tfproto.MarshalExample(ex), nil
}

// SerializeParsed encodes a Parsed map using the spec's fields.
func (s Spec) SerializeParsed(p Parsed) ([]byte, error) {
	values := make([]*tensor.RawTensor, len(s))
	for i, f := range s {
		t, ok := p[f.Key]
		if !ok {
			return nil, &FeatureError{Key: f.Key, Err: ErrMissingFeature}
		}
		values[i] = t
	}
	return s.Serialize(values...)
}

func (f Field) encode(t *tensor.RawTensor) (Feature, error) {
	if t == nil {
		return Feature{}, ErrMissingFeature
	}
	if t.DType() != f.DType {
		return Feature{}, fmt.Errorf("%w: got %s, want %s", ErrDTypeMismatch, t.DType(), f.DType)
	}
	if !t.Shape().Equal(f.Shape) {
		return Feature{}, fmt.Errorf("%w: got %s, want %s", ErrShapeMismatch, t.Shape(), f.Shape)
	}

	if f.Encoding == EncodingList {
		switch f.DType {
		case tensor.Float32:
			return FloatFeature(append([]float32(nil), t.AsFloat32()...)...), nil
		case tensor.Int64:
			return Int64Feature(append([]int64(nil), t.AsInt64()...)...), nil
		}
	}
	return TensorFeature(t)
}

// ParseExample decodes a record and checks every field of spec: the key must
// be present with the right feature kind, dtype and shape. Extra keys in the
// record are ignored.
func ParseExample(data []byte, spec Spec) (Parsed, error) {
	ex, err := tfproto.UnmarshalExample(data)
	if err != nil {
		return nil, err
	}

	out := make(Parsed, len(spec))
	for _, f := range spec {
		feature, ok := ex.Features[f.Key]
		if !ok {
			return nil, &FeatureError{Key: f.Key, Err: ErrMissingFeature}
		}
		t, err := f.decode(feature)
		if err != nil {
			return nil, &FeatureError{Key: f.Key, Err: err}
		}
		out[f.Key] = t
	}
	return out, nil
}

func (f Field) decode(feature Feature) (*tensor.RawTensor, error) {
	if f.Encoding == EncodingList {
		return f.decodeList(feature)
	}

	if feature.Kind != tfproto.KindBytes {
		return nil, fmt.Errorf("%w: got %s, want bytes_list", ErrFeatureKind, feature.Kind)
	}
	if len(feature.Bytes) != 1 {
		return nil, fmt.Errorf("%w: bytes_list holds %d values, want 1", ErrFeatureKind, len(feature.Bytes))
	}

	t, err := ParseTensor(feature.Bytes[0], f.DType)
	if err != nil {
		return nil, err
	}
	return SetShape(t, f.Shape)
}

func (f Field) decodeList(feature Feature) (*tensor.RawTensor, error) {
	switch f.DType {
	case tensor.Float32:
		if feature.Kind != tfproto.KindFloat {
			return nil, fmt.Errorf("%w: got %s, want float_list", ErrFeatureKind, feature.Kind)
		}
		return fromList(f.Shape, feature.Floats)
	case tensor.Int64:
		if feature.Kind != tfproto.KindInt64 {
			return nil, fmt.Errorf("%w: got %s, want int64_list", ErrFeatureKind, feature.Kind)
		}
		return fromList(f.Shape, feature.Int64s)
	default:
		return nil, fmt.Errorf("%w: list encoding of %s", ErrUnsupported, f.DType)
	}
}

func fromList[T tensor.DType](shape tensor.Shape, values []T) (*tensor.RawTensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %s", ErrShapeMismatch, len(values), shape)
	}
	return tensor.From(shape, values)
}
