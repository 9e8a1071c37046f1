package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawZeroed(t *testing.T) {
	raw, err := NewRaw(Shape{10, 10, 10, 1}, Float32)
	require.NoError(t, err)

	assert.Equal(t, 1000, raw.NumElements())
	assert.Equal(t, 4000, raw.ByteSize())
	for _, v := range raw.AsFloat32() {
		assert.Zero(t, v)
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, Float32)
	assert.Error(t, err)

	_, err = NewRaw(Shape{2}, DataType(42))
	assert.Error(t, err)
}

func TestRawTensorAsInt64(t *testing.T) {
	raw, err := NewRaw(Shape{3, 2}, Int64)
	require.NoError(t, err)
	data := raw.AsInt64()
	require.Len(t, data, 6)

	// Modify and verify zero-copy
	data[0] = 42
	assert.Equal(t, int64(42), raw.AsInt64()[0], "AsInt64 should return zero-copy slice")
}

func TestRawTensorAsBool(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Bool)
	require.NoError(t, err)

	raw.AsBool()[0] = true
	assert.True(t, raw.AsBool()[0])
	assert.Equal(t, byte(1), raw.Data()[0])
}

func TestViewWrongDTypePanics(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32)
	require.NoError(t, err)

	assert.Panics(t, func() { raw.AsFloat64() })
	assert.Panics(t, func() { raw.AsUint8() })
}

func TestFromCopiesValues(t *testing.T) {
	values := []float32{1, 0}
	raw, err := From(Shape{2}, values)
	require.NoError(t, err)

	values[0] = 9
	assert.Equal(t, []float32{1, 0}, raw.AsFloat32())
	assert.Equal(t, Float32, raw.DType())
}

func TestFromLengthMismatch(t *testing.T) {
	_, err := From(Shape{3}, []int32{1, 2})
	assert.Error(t, err)
}

func TestFromBytes(t *testing.T) {
	raw, err := FromBytes(Shape{2}, Int32, []byte{1, 0, 0, 0, 2, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, raw.AsInt32())

	_, err = FromBytes(Shape{2}, Int32, []byte{1, 0, 0, 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFromBytesHugeShape(t *testing.T) {
	// Both shapes overflow the byte size; neither may allocate.
	for _, shape := range []Shape{{1 << 32, 1 << 32}, {1 << 61}} {
		_, err := FromBytes(shape, Float32, []byte{0, 0, 128, 63})
		assert.ErrorIs(t, err, ErrShapeTooLarge, "shape %v", []int(shape))
	}

	_, err := NewRaw(Shape{1 << 61}, Float32)
	assert.ErrorIs(t, err, ErrShapeTooLarge)
}

func TestFromBytesBool(t *testing.T) {
	raw, err := FromBytes(Shape{3}, Bool, []byte{1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, raw.AsBool())

	_, err = FromBytes(Shape{3}, Bool, []byte{1, 2, 0})
	assert.Error(t, err)
}

func TestFull(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  []float64
	}{
		{Float32, []float64{2.5, 2.5}},
		{Float64, []float64{2.5, 2.5}},
		{Int32, []float64{2, 2}},
		{Int64, []float64{2, 2}},
		{Uint8, []float64{2, 2}},
		{Bool, []float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.dtype.String(), func(t *testing.T) {
			raw, err := Full(Shape{2}, tt.dtype, 2.5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw.Float64s())
		})
	}
}

func TestEqual(t *testing.T) {
	a, err := Ones(Shape{2, 3}, Float32)
	require.NoError(t, err)

	assert.True(t, Equal(a, a.Clone()))

	b := a.Clone()
	b.AsFloat32()[5] = 2
	assert.False(t, Equal(a, b))

	c, err := a.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.False(t, Equal(a, c), "shape must match")

	d, err := Ones(Shape{2, 3}, Float64)
	require.NoError(t, err)
	assert.False(t, Equal(a, d), "dtype must match")

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestReshape(t *testing.T) {
	raw, err := Ones(Shape{10, 10, 10, 1}, Float32)
	require.NoError(t, err)

	flat, err := raw.Reshape(Shape{1000})
	require.NoError(t, err)
	assert.Equal(t, Shape{1000}, flat.Shape())

	_, err = raw.Reshape(Shape{999})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestStackAndUnstack(t *testing.T) {
	a, _ := From(Shape{2}, []float32{1, 2})
	b, _ := From(Shape{2}, []float32{3, 4})
	c, _ := From(Shape{2}, []float32{5, 6})

	batch, err := Stack([]*RawTensor{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, batch.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, batch.AsFloat32())

	parts, err := batch.Unstack()
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.True(t, Equal(b, parts[1]))
}

func TestStackErrors(t *testing.T) {
	_, err := Stack(nil)
	assert.Error(t, err)

	a, _ := From(Shape{2}, []float32{1, 2})
	b, _ := From(Shape{3}, []float32{1, 2, 3})
	_, err = Stack([]*RawTensor{a, b})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	c, _ := From(Shape{2}, []int64{1, 2})
	_, err = Stack([]*RawTensor{a, c})
	assert.ErrorIs(t, err, ErrDTypeMismatch)
}

func TestRawTensorString(t *testing.T) {
	raw, _ := Ones(Shape{10, 10, 10, 1}, Float32)
	assert.Equal(t, "float32(10,10,10,1)", raw.String())
}
