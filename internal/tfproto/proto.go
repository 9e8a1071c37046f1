// Package tfproto encodes and decodes the TensorFlow protobuf messages stored
// in record files: tf.train.Example and TensorProto.
//
// Only the fields used for serialized tensors and feature maps are modeled.
// Unknown fields are skipped on decode, so records written by TensorFlow with
// extra fields still parse.
package tfproto

// DataType is the TensorFlow DataType enum value stored in TensorProto.dtype.
type DataType int32

// TensorFlow DataType values used by voxrec.
const (
	DTInvalid DataType = 0
	DTFloat   DataType = 1
	DTDouble  DataType = 2
	DTInt32   DataType = 3
	DTUint8   DataType = 4
	DTString  DataType = 7
	DTInt64   DataType = 9
	DTBool    DataType = 10
)

// String returns the TensorFlow name of the data type.
func (dt DataType) String() string {
	switch dt {
	case DTFloat:
		return "DT_FLOAT"
	case DTDouble:
		return "DT_DOUBLE"
	case DTInt32:
		return "DT_INT32"
	case DTUint8:
		return "DT_UINT8"
	case DTString:
		return "DT_STRING"
	case DTInt64:
		return "DT_INT64"
	case DTBool:
		return "DT_BOOL"
	default:
		return "DT_INVALID"
	}
}

// TensorShapeProto describes the shape of a tensor.
type TensorShapeProto struct {
	Dims        []Dim // Dimensions, outermost first
	UnknownRank bool  // Rank is unknown; Dims must be empty
}

// Dim is one dimension of a TensorShapeProto.
type Dim struct {
	Size int64  // -1 means unknown
	Name string // Optional
}

// TensorProto is a serialized tensor, the output of tf.io.serialize_tensor.
type TensorProto struct {
	DType         DataType
	Shape         *TensorShapeProto
	VersionNumber int32
	TensorContent []byte // Raw little-endian element bytes (most common)
	FloatVal      []float32
	DoubleVal     []float64
	IntVal        []int32 // DT_INT32 and DT_UINT8
	StringVal     [][]byte
	Int64Val      []int64
	BoolVal       []bool
}

// Dims returns the shape as int64 sizes, or nil for an unknown rank.
func (t *TensorProto) Dims() []int64 {
	if t.Shape == nil {
		return []int64{}
	}
	if t.Shape.UnknownRank {
		return nil
	}
	dims := make([]int64, len(t.Shape.Dims))
	for i, d := range t.Shape.Dims {
		dims[i] = d.Size
	}
	return dims
}

// FeatureKind identifies which list a Feature holds.
type FeatureKind int

// Feature kinds, matching the oneof in tf.train.Feature.
const (
	KindNone FeatureKind = iota
	KindBytes
	KindFloat
	KindInt64
)

// String returns the proto field name of the kind.
func (k FeatureKind) String() string {
	switch k {
	case KindBytes:
		return "bytes_list"
	case KindFloat:
		return "float_list"
	case KindInt64:
		return "int64_list"
	default:
		return "none"
	}
}

// Feature is a tf.train.Feature. Exactly one of the lists is meaningful,
// selected by Kind.
type Feature struct {
	Kind   FeatureKind
	Bytes  [][]byte
	Floats []float32
	Int64s []int64
}

// Example is a tf.train.Example: a map from feature name to Feature.
type Example struct {
	Features map[string]Feature
}
