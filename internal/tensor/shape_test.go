package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 2, Shape{2}.NumElements())
	assert.Equal(t, 1000, Shape{10, 10, 10, 1}.NumElements())
}

func TestShapeValidateOverflow(t *testing.T) {
	assert.NoError(t, Shape{1 << 20, 1 << 20}.Validate())
	assert.ErrorIs(t, Shape{1 << 32, 1 << 32}.Validate(), ErrShapeTooLarge)
	assert.ErrorIs(t, Shape{1 << 61}.Validate(), ErrShapeTooLarge)
	assert.ErrorIs(t, Shape{2, 1 << 30, 1 << 30, 1 << 30}.Validate(), ErrShapeTooLarge)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(2,)", Shape{2}.String())
	assert.Equal(t, "(10,10,10,1)", Shape{10, 10, 10, 1}.String())
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want Shape
	}{
		{"10,10,10,1", Shape{10, 10, 10, 1}},
		{"(10, 10, 10, 1)", Shape{10, 10, 10, 1}},
		{"(2,)", Shape{2}},
		{"1", Shape{1}},
		{"()", Shape{}},
		{"", Shape{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShape(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShapeRejects(t *testing.T) {
	for _, in := range []string{"a,b", "2,0", "-1", "2,,3"} {
		_, err := ParseShape(in)
		assert.Error(t, err, in)
	}
}

func TestParseShapeRoundTrip(t *testing.T) {
	for _, s := range []Shape{{2}, {10, 10, 10, 1}, {1}} {
		got, err := ParseShape(s.String())
		require.NoError(t, err)
		assert.True(t, s.Equal(got))
	}
}

func TestParseDataType(t *testing.T) {
	for _, dt := range []DataType{Float32, Float64, Int32, Int64, Uint8, Bool} {
		got, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}

	_, err := ParseDataType("complex64")
	assert.Error(t, err)
}
