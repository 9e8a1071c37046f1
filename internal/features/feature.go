package features

import (
	"github.com/born-ml/voxrec/internal/tensor"
	"github.com/born-ml/voxrec/internal/tfproto"
)

// Feature is a single tf.train.Feature value.
type Feature = tfproto.Feature

// BytesFeature wraps byte strings in a bytes_list feature.
func BytesFeature(values ...[]byte) Feature {
	return Feature{Kind: tfproto.KindBytes, Bytes: values}
}

// Int64Feature wraps integers in an int64_list feature.
func Int64Feature(values ...int64) Feature {
	return Feature{Kind: tfproto.KindInt64, Int64s: values}
}

// FloatFeature wraps floats in a float_list feature.
func FloatFeature(values ...float32) Feature {
	return Feature{Kind: tfproto.KindFloat, Floats: values}
}

// TensorFeature serializes t and wraps it in a single-element bytes_list.
func TensorFeature(t *tensor.RawTensor) (Feature, error) {
	data, err := SerializeTensor(t)
	if err != nil {
		return Feature{}, err
	}
	return BytesFeature(data), nil
}

// SerializeExample encodes a map of tensors as an Example, one TensorFeature
// per key.
func SerializeExample(values map[string]*tensor.RawTensor) ([]byte, error) {
	ex := &tfproto.Example{Features: make(map[string]Feature, len(values))}
	for key, t := range values {
		f, err := TensorFeature(t)
		if err != nil {
			return nil, &FeatureError{Key: key, Err: err}
		}
		ex.Features[key] = f
	}
	return tfproto.MarshalExample(ex), nil
}
