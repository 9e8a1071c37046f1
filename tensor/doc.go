// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensors carried by voxrec records.
//
// # Overview
//
// A RawTensor is a shape, a data type and a little-endian, row-major byte
// buffer. The buffer layout is the tensor_content layout of a serialized
// TensorProto, so records encode and decode without per-element conversion.
//
// # Basic Usage
//
//	import "github.com/born-ml/voxrec/tensor"
//
//	func main() {
//	    volume, _ := tensor.Ones(tensor.Shape{10, 10, 10, 1}, tensor.Float32)
//	    label, _ := tensor.From(tensor.Shape{2}, []float32{1, 0})
//
//	    values := volume.AsFloat32() // zero-copy view
//	    batch, _ := tensor.Stack([]*tensor.RawTensor{label, label}) // (2,2)
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers, useful for images)
//   - bool (boolean masks)
//
// # Shapes
//
// Shapes are row-major. The empty shape is a scalar. Shape.String uses the
// tuple notation (10,10,10,1) and (2,), which ParseShape reads back.
package tensor
