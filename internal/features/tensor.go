package features

import (
	"fmt"

	"github.com/born-ml/voxrec/internal/tensor"
	"github.com/born-ml/voxrec/internal/tfproto"
)

// toProtoDType maps a tensor dtype to the TensorFlow enum.
func toProtoDType(dt tensor.DataType) (tfproto.DataType, error) {
	switch dt {
	case tensor.Float32:
		return tfproto.DTFloat, nil
	case tensor.Float64:
		return tfproto.DTDouble, nil
	case tensor.Int32:
		return tfproto.DTInt32, nil
	case tensor.Int64:
		return tfproto.DTInt64, nil
	case tensor.Uint8:
		return tfproto.DTUint8, nil
	case tensor.Bool:
		return tfproto.DTBool, nil
	default:
		return tfproto.DTInvalid, fmt.Errorf("%w: dtype %s", ErrUnsupported, dt)
	}
}

// fromProtoDType maps a TensorFlow enum to a tensor dtype.
func fromProtoDType(dt tfproto.DataType) (tensor.DataType, error) {
	switch dt {
	case tfproto.DTFloat:
		return tensor.Float32, nil
	case tfproto.DTDouble:
		return tensor.Float64, nil
	case tfproto.DTInt32:
		return tensor.Int32, nil
	case tfproto.DTInt64:
		return tensor.Int64, nil
	case tfproto.DTUint8:
		return tensor.Uint8, nil
	case tfproto.DTBool:
		return tensor.Bool, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, dt)
	}
}

// SerializeTensor encodes t as a TensorProto with tensor_content, the same
// bytes tf.io.serialize_tensor produces.
func SerializeTensor(t *tensor.RawTensor) ([]byte, error) {
	dt, err := toProtoDType(t.DType())
	if err != nil {
		return nil, err
	}

	shape := &tfproto.TensorShapeProto{Dims: make([]tfproto.Dim, len(t.Shape()))}
	for i, d := range t.Shape() {
		shape.Dims[i] = tfproto.Dim{Size: int64(d)}
	}

	return tfproto.MarshalTensor(&tfproto.TensorProto{
		DType:         dt,
		Shape:         shape,
		TensorContent: t.Data(),
	}), nil
}

// ParseTensor decodes a serialized TensorProto, the inverse of
// SerializeTensor. The stored dtype must equal dtype.
//
// Tensors written with typed value fields instead of tensor_content are
// accepted too. As in TensorFlow, fewer values than elements repeat the last
// value, and no values at all yield zeros.
func ParseTensor(data []byte, dtype tensor.DataType) (*tensor.RawTensor, error) {
	tp, err := tfproto.UnmarshalTensor(data)
	if err != nil {
		return nil, err
	}

	got, err := fromProtoDType(tp.DType)
	if err != nil {
		return nil, err
	}
	if got != dtype {
		return nil, fmt.Errorf("%w: stored %s, want %s", ErrDTypeMismatch, got, dtype)
	}

	dims := tp.Dims()
	if dims == nil {
		return nil, fmt.Errorf("%w: unknown rank", ErrUnsupported)
	}
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dimension %d has size %d", ErrUnsupported, i, d)
		}
		shape[i] = int(d)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	size := shape.NumElements() * dtype.Size()

	if len(tp.TensorContent) > 0 {
		if len(tp.TensorContent) != size {
			return nil, fmt.Errorf("%w: tensor_content has %d bytes, shape %s of %s needs %d",
				ErrShapeMismatch, len(tp.TensorContent), shape, dtype, size)
		}
		if dtype == tensor.Bool {
			for i, b := range tp.TensorContent {
				if b > 1 {
					return nil, fmt.Errorf("%w: bool element %d holds byte %d", ErrUnsupported, i, b)
				}
			}
		}
		return tensor.FromBytes(shape, dtype, tp.TensorContent)
	}

	// Typed values may expand to far more bytes than the record holds.
	if size > maxExpandedBytes {
		return nil, fmt.Errorf("%w: shape %s of %s expands to %d bytes, limit %d",
			ErrUnsupported, shape, dtype, size, maxExpandedBytes)
	}
	return fromTypedValues(tp, shape, dtype)
}

// maxExpandedBytes caps tensors built from typed value fields, matching the
// default record size limit of the reader.
const maxExpandedBytes = 256 << 20

//nolint:gosec // G115: uint8 tensors travel in int_val as int32
func fromTypedValues(tp *tfproto.TensorProto, shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	raw, err := tensor.NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case tensor.Float32:
		err = expand(raw.AsFloat32(), tp.FloatVal)
	case tensor.Float64:
		err = expand(raw.AsFloat64(), tp.DoubleVal)
	case tensor.Int32:
		err = expand(raw.AsInt32(), tp.IntVal)
	case tensor.Int64:
		err = expand(raw.AsInt64(), tp.Int64Val)
	case tensor.Uint8:
		vals := make([]uint8, len(tp.IntVal))
		for i, v := range tp.IntVal {
			vals[i] = uint8(v)
		}
		err = expand(raw.AsUint8(), vals)
	case tensor.Bool:
		err = expand(raw.AsBool(), tp.BoolVal)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// expand copies vals into dst, repeating the last value to fill dst.
func expand[T tensor.DType](dst, vals []T) error {
	if len(vals) > len(dst) {
		return fmt.Errorf("%w: %d values for %d elements", ErrShapeMismatch, len(vals), len(dst))
	}
	if len(vals) == 0 {
		return nil
	}
	n := copy(dst, vals)
	last := vals[len(vals)-1]
	for i := n; i < len(dst); i++ {
		dst[i] = last
	}
	return nil
}

// SetShape asserts that t has the given shape. A dimension of -1 in shape
// matches any size. The tensor is returned unchanged so calls can be chained.
func SetShape(t *tensor.RawTensor, shape tensor.Shape) (*tensor.RawTensor, error) {
	if !compatible(t.Shape(), shape) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrShapeMismatch, t.Shape(), shape)
	}
	return t, nil
}

func compatible(got, want tensor.Shape) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if want[i] != -1 && want[i] != got[i] {
			return false
		}
	}
	return true
}
