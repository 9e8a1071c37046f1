// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for voxrec tensors.
//
// Example:
//
//	t, err := tensor.From(tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
//	data := t.AsFloat32()
package tensor

import (
	"github.com/born-ml/voxrec/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{10, 10, 10, 1} is a single-channel 10×10×10 volume.
type Shape = tensor.Shape

// Errors returned by tensor operations.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
	ErrShapeTooLarge = tensor.ErrShapeTooLarge
)

// ParseDataType converts a name such as "float32" to a DataType.
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// ParseShape parses "10,10,10,1" or "(2,)" into a Shape.
func ParseShape(s string) (Shape, error) {
	return tensor.ParseShape(s)
}

// Creation functions

// From creates a tensor from a typed slice. The values are copied.
//
// Example:
//
//	label, err := tensor.From(tensor.Shape{2}, []float32{1, 0})
func From[T DType](shape Shape, values []T) (*RawTensor, error) {
	return tensor.From(shape, values)
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	volume, err := tensor.Ones(tensor.Shape{10, 10, 10, 1}, tensor.Float32)
func Ones(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Ones(shape, dtype)
}

// Full creates a tensor filled with v converted to dtype.
func Full(shape Shape, dtype DataType, v float64) (*RawTensor, error) {
	return tensor.Full(shape, dtype, v)
}

// Manipulation functions

// Stack joins tensors of identical dtype and shape along a new leading dimension.
//
// Example:
//
//	batch, err := tensor.Stack([]*tensor.RawTensor{a, b}) // (2,)+(2,) -> (2,2)
func Stack(ts []*RawTensor) (*RawTensor, error) {
	return tensor.Stack(ts)
}

// Equal reports whether a and b have the same dtype, shape and bytes.
func Equal(a, b *RawTensor) bool {
	return tensor.Equal(a, b)
}

// View interprets the tensor data as []T without copying.
// Panics if T does not match the tensor's dtype.
func View[T DType](r *RawTensor) []T {
	return tensor.View[T](r)
}
