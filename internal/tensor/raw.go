package tensor

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"
)

// ErrShapeMismatch is returned when tensors that must agree in shape do not.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrDTypeMismatch is returned when tensors that must agree in data type do not.
var ErrDTypeMismatch = errors.New("dtype mismatch")

// ErrShapeTooLarge is returned for shapes whose byte size would overflow.
var ErrShapeTooLarge = errors.New("shape too large")

// RawTensor is a dense, row-major tensor backed by a little-endian byte buffer.
// The byte layout is exactly the tensor_content layout of a serialized tensor,
// so encoding and decoding never convert element by element.
type RawTensor struct {
	data  []byte
	shape Shape
	dtype DataType
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("invalid dtype: %d", dtype)
	}

	return &RawTensor{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromBytes creates a tensor from raw little-endian element bytes.
// The data is copied. Bool data must hold only 0 and 1 bytes.
func FromBytes(shape Shape, dtype DataType, data []byte) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("invalid dtype: %d", dtype)
	}
	if want := shape.NumElements() * dtype.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: data size %d does not match shape %s of %s (%d bytes)",
			ErrShapeMismatch, len(data), shape, dtype, want)
	}
	if dtype == Bool {
		for i, b := range data {
			if b > 1 {
				return nil, fmt.Errorf("invalid bool value %d at element %d", b, i)
			}
		}
	}

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	copy(raw.data, data)
	return raw, nil
}

// From creates a tensor from a typed slice. The values are copied.
//
// Example:
//
//	label, err := tensor.From(tensor.Shape{2}, []float32{1, 0})
func From[T DType](shape Shape, values []T) (*RawTensor, error) {
	raw, err := NewRaw(shape, inferDataType[T]())
	if err != nil {
		return nil, err
	}
	if len(values) != raw.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %s (%d elements)",
			len(values), shape, raw.NumElements())
	}
	copy(View[T](raw), values)
	return raw, nil
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) (*RawTensor, error) {
	return Full(shape, dtype, 1)
}

// Full creates a tensor filled with v converted to dtype.
// For Bool tensors any non-zero v is true.
func Full(shape Shape, dtype DataType, v float64) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case Float32:
		fill(raw.AsFloat32(), float32(v))
	case Float64:
		fill(raw.AsFloat64(), v)
	case Int32:
		fill(raw.AsInt32(), int32(v))
	case Int64:
		fill(raw.AsInt64(), int64(v))
	case Uint8:
		fill(raw.AsUint8(), uint8(v))
	case Bool:
		fill(raw.AsBool(), v != 0)
	}
	return raw, nil
}

func fill[T DType](data []T, v T) {
	for i := range data {
		data[i] = v
	}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// View interprets the tensor data as []T without copying.
// Panics if T does not match the tensor's dtype.
func View[T DType](r *RawTensor) []T {
	want := inferDataType[T]()
	if r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 { return View[float32](r) }

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 { return View[float64](r) }

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 { return View[int32](r) }

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 { return View[int64](r) }

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.data // Already []byte = []uint8
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool { return View[bool](r) }

// Float64s returns a copy of the elements converted to float64, whatever the dtype.
// Used for printing and for comparisons in tools.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	switch r.dtype {
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	case Int32:
		for i, v := range r.AsInt32() {
			out[i] = float64(v)
		}
	case Int64:
		for i, v := range r.AsInt64() {
			out[i] = float64(v)
		}
	case Uint8:
		for i, v := range r.AsUint8() {
			out[i] = float64(v)
		}
	case Bool:
		for i, v := range r.AsBool() {
			if v {
				out[i] = 1
			}
		}
	}
	return out
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:  bytes.Clone(r.data),
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// Reshape returns a tensor sharing r's data with a new shape.
// The element count must not change.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("%w: cannot reshape %s to %s", ErrShapeMismatch, r.shape, shape)
	}
	return &RawTensor{data: r.data, shape: shape.Clone(), dtype: r.dtype}, nil
}

// String returns a short description, e.g. "float32(10,10,10,1)".
func (r *RawTensor) String() string {
	return r.dtype.String() + r.shape.String()
}

// Equal reports whether a and b have the same dtype, the same shape and
// bit-identical data. NaN payloads compare equal when their bits match.
func Equal(a, b *RawTensor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.dtype == b.dtype && a.shape.Equal(b.shape) && bytes.Equal(a.data, b.data)
}

// Stack joins tensors of identical dtype and shape along a new leading dimension.
//
// Example:
//
//	// three (2,) labels -> one (3,2) batch
//	batch, err := tensor.Stack([]*tensor.RawTensor{a, b, c})
func Stack(ts []*RawTensor) (*RawTensor, error) {
	if len(ts) == 0 {
		return nil, errors.New("stack: no tensors")
	}

	first := ts[0]
	for i, t := range ts[1:] {
		if t.dtype != first.dtype {
			return nil, fmt.Errorf("stack: tensor %d: %w: %s vs %s", i+1, ErrDTypeMismatch, t.dtype, first.dtype)
		}
		if !t.shape.Equal(first.shape) {
			return nil, fmt.Errorf("stack: tensor %d: %w: %s vs %s", i+1, ErrShapeMismatch, t.shape, first.shape)
		}
	}

	shape := append(Shape{len(ts)}, first.shape...)
	data := make([]byte, 0, len(first.data)*len(ts))
	for _, t := range ts {
		data = append(data, t.data...)
	}
	return &RawTensor{data: data, shape: shape, dtype: first.dtype}, nil
}

// Unstack splits a tensor along its leading dimension. The results share
// r's data.
func (r *RawTensor) Unstack() ([]*RawTensor, error) {
	if len(r.shape) == 0 {
		return nil, errors.New("unstack: scalar tensor")
	}

	n := r.shape[0]
	inner := r.shape[1:].Clone()
	step := inner.NumElements() * r.dtype.Size()
	out := make([]*RawTensor, n)
	for i := range out {
		out[i] = &RawTensor{
			data:  r.data[i*step : (i+1)*step : (i+1)*step],
			shape: inner.Clone(),
			dtype: r.dtype,
		}
	}
	return out, nil
}
