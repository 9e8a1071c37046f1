// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/born-ml/voxrec/dataset"
	"github.com/born-ml/voxrec/features"
	"github.com/born-ml/voxrec/tensor"
	"github.com/born-ml/voxrec/tfrecord"
)

func ExampleBatch() {
	dir, _ := os.MkdirTemp("", "voxrec-example")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "labels.tfrecord")

	spec := features.Spec{{Key: "label", DType: tensor.Float32, Shape: tensor.Shape{2}}}
	w, _ := tfrecord.Create(path, tfrecord.Options{})
	for i := 0; i < 5; i++ {
		label, _ := tensor.From(tensor.Shape{2}, []float32{float32(i), 1})
		record, _ := spec.Serialize(label)
		_ = w.Write(record)
	}
	_ = w.Close()

	ds := dataset.Map(dataset.Records([]string{path}, tfrecord.ReaderOptions{}), dataset.ParseFunc(spec))
	batches, _ := dataset.Collect(context.Background(), dataset.Batch(ds, 2, false))
	for _, b := range batches {
		fmt.Println(b["label"].Shape(), b["label"].AsFloat32())
	}
	// Output:
	// (2,2) [0 1 1 1]
	// (2,2) [2 1 3 1]
	// (1,2) [4 1]
}

func ExampleShuffle() {
	ds := dataset.Shuffle(dataset.FromSlice([]int{0, 1, 2, 3, 4, 5, 6, 7}), 1, 9)
	items, _ := dataset.Collect(context.Background(), dataset.Take(dataset.Repeat(ds, 2), 10))
	fmt.Println(items)
	// Output: [0 1 2 3 4 5 6 7 0 1]
}
