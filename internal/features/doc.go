// Package features builds and parses tf.train.Example records whose feature
// values are serialized tensors.
//
// Every tensor is encoded the way tf.io.serialize_tensor encodes it (a
// TensorProto with tensor_content) and stored as a single-element bytes_list.
// A Spec lists the expected keys, dtypes and shapes; ParseExample decodes a
// record against it and rejects anything that does not match.
//
//	spec := features.Spec{
//	    {Key: "volume", DType: tensor.Float32, Shape: tensor.Shape{10, 10, 10, 1}},
//	    {Key: "label", DType: tensor.Float32, Shape: tensor.Shape{2}},
//	    {Key: "aux", DType: tensor.Float32, Shape: tensor.Shape{1}},
//	}
//
//	record, err := spec.Serialize(volume, label, aux)
//	...
//	parsed, err := features.ParseExample(record, spec)
//	volume = parsed["volume"]
package features
