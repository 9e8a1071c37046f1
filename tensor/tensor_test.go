// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/born-ml/voxrec/tensor"
)

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	// Test Shape() method.
	if shape := raw.Shape(); !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", shape)
	}

	// Test DType() method.
	if dtype := raw.DType(); dtype != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", dtype)
	}

	// Test NumElements() method.
	if n := raw.NumElements(); n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}

	// Test ByteSize() method.
	if size := raw.ByteSize(); size != 24 {
		t.Errorf("ByteSize() = %d, want 24", size)
	}

	// Test AsFloat32() view writes through.
	raw.AsFloat32()[4] = 2.5
	if got := tensor.View[float32](raw)[4]; got != 2.5 {
		t.Errorf("View()[4] = %v, want 2.5", got)
	}

	// Test Clone() is independent.
	clone := raw.Clone()
	clone.AsFloat32()[4] = 0
	if raw.AsFloat32()[4] != 2.5 {
		t.Error("Clone() shares data with the original")
	}
}

func TestStackAndEqual(t *testing.T) {
	a, _ := tensor.From(tensor.Shape{2}, []float32{1, 0})
	b, _ := tensor.From(tensor.Shape{2}, []float32{0, 1})

	batch, err := tensor.Stack([]*tensor.RawTensor{a, b})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	if !batch.Shape().Equal(tensor.Shape{2, 2}) {
		t.Errorf("Stack shape = %v, want (2,2)", batch.Shape())
	}

	want, _ := tensor.From(tensor.Shape{2, 2}, []float32{1, 0, 0, 1})
	if !tensor.Equal(batch, want) {
		t.Errorf("Stack = %v, want %v", batch.AsFloat32(), want.AsFloat32())
	}

	c, _ := tensor.Ones(tensor.Shape{3}, tensor.Float32)
	if _, err := tensor.Stack([]*tensor.RawTensor{a, c}); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("Stack of mismatched shapes: err = %v, want ErrShapeMismatch", err)
	}
}

func TestParse(t *testing.T) {
	shape, err := tensor.ParseShape("(10,10,10,1)")
	if err != nil || !shape.Equal(tensor.Shape{10, 10, 10, 1}) {
		t.Errorf("ParseShape = %v, %v", shape, err)
	}

	dtype, err := tensor.ParseDataType("int64")
	if err != nil || dtype != tensor.Int64 {
		t.Errorf("ParseDataType = %v, %v", dtype, err)
	}
}

func ExampleOnes() {
	volume, _ := tensor.Ones(tensor.Shape{10, 10, 10, 1}, tensor.Float32)
	fmt.Println(volume)
	fmt.Println(volume.NumElements(), volume.AsFloat32()[999])
	// Output:
	// float32(10,10,10,1)
	// 1000 1
}

func ExampleFrom() {
	label, _ := tensor.From(tensor.Shape{2}, []int64{0, 1})
	fmt.Println(label.Shape(), label.AsInt64())
	// Output: (2,) [0 1]
}
