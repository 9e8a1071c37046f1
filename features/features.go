// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package features encodes tensors as tf.train.Example records and decodes
// them back against a declared feature spec.
//
// Each tensor is serialized as a TensorProto (the tf.io.serialize_tensor
// form) and stored as a one-element bytes_list, or for float32 and int64
// fields optionally as a flat float_list or int64_list.
//
// # Example Usage
//
//	spec := features.Spec{
//	    {Key: "volume", DType: tensor.Float32, Shape: tensor.Shape{10, 10, 10, 1}},
//	    {Key: "label", DType: tensor.Float32, Shape: tensor.Shape{2}},
//	}
//	record, err := spec.Serialize(volume, label)
//	...
//	parsed, err := features.ParseExample(record, spec)
//	volume = parsed["volume"]
package features

import (
	"github.com/born-ml/voxrec/internal/features"
	"github.com/born-ml/voxrec/tensor"
)

// Feature is one value of a tf.train.Example.
type Feature = features.Feature

// Field describes one feature of a record.
type Field = features.Field

// Spec is the ordered set of fields every record carries.
type Spec = features.Spec

// Parsed maps feature keys to decoded tensors.
type Parsed = features.Parsed

// Encoding selects how a field's tensor is stored.
type Encoding = features.Encoding

// Encodings.
const (
	EncodingTensor Encoding = features.EncodingTensor
	EncodingList   Encoding = features.EncodingList
)

// FeatureError names the feature a decode or encode failure belongs to.
type FeatureError = features.FeatureError

// Errors returned while encoding and decoding.
var (
	ErrMissingFeature = features.ErrMissingFeature
	ErrFeatureKind    = features.ErrFeatureKind
	ErrDTypeMismatch  = features.ErrDTypeMismatch
	ErrShapeMismatch  = features.ErrShapeMismatch
	ErrUnsupported    = features.ErrUnsupported
	ErrInvalidSpec    = features.ErrInvalidSpec
)

// BytesFeature wraps byte strings as a bytes_list feature.
func BytesFeature(values ...[]byte) Feature {
	return features.BytesFeature(values...)
}

// Int64Feature wraps integers as an int64_list feature.
func Int64Feature(values ...int64) Feature {
	return features.Int64Feature(values...)
}

// FloatFeature wraps floats as a float_list feature.
func FloatFeature(values ...float32) Feature {
	return features.FloatFeature(values...)
}

// TensorFeature serializes t and wraps it as a bytes_list feature.
func TensorFeature(t *tensor.RawTensor) (Feature, error) {
	return features.TensorFeature(t)
}

// SerializeTensor encodes t as a TensorProto.
func SerializeTensor(t *tensor.RawTensor) ([]byte, error) {
	return features.SerializeTensor(t)
}

// ParseTensor decodes a TensorProto of the given dtype.
func ParseTensor(data []byte, dtype tensor.DataType) (*tensor.RawTensor, error) {
	return features.ParseTensor(data, dtype)
}

// SetShape checks t against shape, where -1 matches any size, and returns t
// unchanged.
func SetShape(t *tensor.RawTensor, shape tensor.Shape) (*tensor.RawTensor, error) {
	return features.SetShape(t, shape)
}

// SerializeExample encodes every tensor of values as a tensor feature.
func SerializeExample(values map[string]*tensor.RawTensor) ([]byte, error) {
	return features.SerializeExample(values)
}

// ParseExample decodes a record and checks every field of spec.
func ParseExample(data []byte, spec Spec) (Parsed, error) {
	return features.ParseExample(data, spec)
}
