package tfproto

import (
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the encoded messages.
const (
	fieldTensorDType      = 1
	fieldTensorShape      = 2
	fieldTensorVersion    = 3
	fieldTensorContent    = 4
	fieldTensorFloatVal   = 5
	fieldTensorDoubleVal  = 6
	fieldTensorIntVal     = 7
	fieldTensorStringVal  = 8
	fieldTensorInt64Val   = 10
	fieldTensorBoolVal    = 11
	fieldShapeDim         = 2
	fieldShapeUnknownRank = 3
	fieldDimSize          = 1
	fieldDimName          = 2
	fieldExampleFeatures  = 1
	fieldFeaturesFeature  = 1
	fieldMapKey           = 1
	fieldMapValue         = 2
	fieldFeatureBytesList = 1
	fieldFeatureFloatList = 2
	fieldFeatureInt64List = 3
	fieldListValue        = 1
)

// MarshalTensor encodes a TensorProto. The tensor_shape field is always
// written, so scalars carry an empty shape like TensorFlow produces.
func MarshalTensor(t *TensorProto) []byte {
	var b []byte
	if t.DType != DTInvalid {
		b = protowire.AppendTag(b, fieldTensorDType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.DType)) //nolint:gosec // G115: enum values are small and non-negative
	}

	b = protowire.AppendTag(b, fieldTensorShape, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalShape(t.Shape))

	if t.VersionNumber != 0 {
		b = protowire.AppendTag(b, fieldTensorVersion, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(t.VersionNumber))) //nolint:gosec // G115: proto int32 encoding
	}
	if len(t.TensorContent) > 0 {
		b = protowire.AppendTag(b, fieldTensorContent, protowire.BytesType)
		b = protowire.AppendBytes(b, t.TensorContent)
	}
	if len(t.FloatVal) > 0 {
		b = appendPacked(b, fieldTensorFloatVal, t.FloatVal, func(b []byte, v float32) []byte {
			return protowire.AppendFixed32(b, math.Float32bits(v))
		})
	}
	if len(t.DoubleVal) > 0 {
		b = appendPacked(b, fieldTensorDoubleVal, t.DoubleVal, func(b []byte, v float64) []byte {
			return protowire.AppendFixed64(b, math.Float64bits(v))
		})
	}
	if len(t.IntVal) > 0 {
		b = appendPacked(b, fieldTensorIntVal, t.IntVal, func(b []byte, v int32) []byte {
			return protowire.AppendVarint(b, uint64(int64(v))) //nolint:gosec // G115: proto int32 encoding
		})
	}
	for _, s := range t.StringVal {
		b = protowire.AppendTag(b, fieldTensorStringVal, protowire.BytesType)
		b = protowire.AppendBytes(b, s)
	}
	if len(t.Int64Val) > 0 {
		b = appendPacked(b, fieldTensorInt64Val, t.Int64Val, func(b []byte, v int64) []byte {
			return protowire.AppendVarint(b, uint64(v)) //nolint:gosec // G115: proto int64 encoding
		})
	}
	if len(t.BoolVal) > 0 {
		b = appendPacked(b, fieldTensorBoolVal, t.BoolVal, func(b []byte, v bool) []byte {
			return protowire.AppendVarint(b, protowire.EncodeBool(v))
		})
	}
	return b
}

func marshalShape(s *TensorShapeProto) []byte {
	var b []byte
	if s == nil {
		return b
	}
	for _, d := range s.Dims {
		var db []byte
		if d.Size != 0 {
			db = protowire.AppendTag(db, fieldDimSize, protowire.VarintType)
			db = protowire.AppendVarint(db, uint64(d.Size)) //nolint:gosec // G115: proto int64 encoding
		}
		if d.Name != "" {
			db = protowire.AppendTag(db, fieldDimName, protowire.BytesType)
			db = protowire.AppendString(db, d.Name)
		}
		b = protowire.AppendTag(b, fieldShapeDim, protowire.BytesType)
		b = protowire.AppendBytes(b, db)
	}
	if s.UnknownRank {
		b = protowire.AppendTag(b, fieldShapeUnknownRank, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

// MarshalExample encodes an Example. Feature map entries are written in key
// order so equal examples always encode to equal bytes.
func MarshalExample(ex *Example) []byte {
	keys := make([]string, 0, len(ex.Features))
	for k := range ex.Features {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var features []byte
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldMapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, fieldMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, marshalFeature(ex.Features[k]))

		features = protowire.AppendTag(features, fieldFeaturesFeature, protowire.BytesType)
		features = protowire.AppendBytes(features, entry)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldExampleFeatures, protowire.BytesType)
	return protowire.AppendBytes(b, features)
}

func marshalFeature(f Feature) []byte {
	var list []byte
	var field protowire.Number

	switch f.Kind {
	case KindBytes:
		field = fieldFeatureBytesList
		for _, v := range f.Bytes {
			list = protowire.AppendTag(list, fieldListValue, protowire.BytesType)
			list = protowire.AppendBytes(list, v)
		}
	case KindFloat:
		field = fieldFeatureFloatList
		if len(f.Floats) > 0 {
			list = appendPacked(list, fieldListValue, f.Floats, func(b []byte, v float32) []byte {
				return protowire.AppendFixed32(b, math.Float32bits(v))
			})
		}
	case KindInt64:
		field = fieldFeatureInt64List
		if len(f.Int64s) > 0 {
			list = appendPacked(list, fieldListValue, f.Int64s, func(b []byte, v int64) []byte {
				return protowire.AppendVarint(b, uint64(v)) //nolint:gosec // G115: proto int64 encoding
			})
		}
	default:
		return nil
	}

	var b []byte
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, list)
}

// appendPacked writes values as one length-delimited packed field.
func appendPacked[T any](b []byte, field protowire.Number, values []T, appendOne func([]byte, T) []byte) []byte {
	var packed []byte
	for _, v := range values {
		packed = appendOne(packed, v)
	}
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}
