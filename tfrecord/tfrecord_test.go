// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tfrecord_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/born-ml/voxrec/tfrecord"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := tfrecord.NewWriter(&buf, tfrecord.Options{Compression: tfrecord.Zlib})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	for _, rec := range []string{"a", "", "ccc"} {
		if err := w.Write([]byte(rec)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := tfrecord.NewReader(&buf, tfrecord.ReaderOptions{Compression: tfrecord.Zlib})
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	var got []string
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, string(rec))
	}
	if fmt.Sprint(got) != "[a  ccc]" {
		t.Errorf("records = %q", got)
	}
}

func TestCorruptData(t *testing.T) {
	var buf bytes.Buffer
	w, _ := tfrecord.NewWriter(&buf, tfrecord.Options{})
	_ = w.Write([]byte("hello"))
	_ = w.Close()

	data := buf.Bytes()
	data[12] ^= 0xff // first data byte

	r, _ := tfrecord.NewReader(bytes.NewReader(data), tfrecord.ReaderOptions{})
	_, err := r.Next()

	var recErr *tfrecord.RecordError
	if !errors.As(err, &recErr) || !errors.Is(err, tfrecord.ErrCorruptData) {
		t.Fatalf("err = %v, want RecordError wrapping ErrCorruptData", err)
	}
	if recErr.Index != 0 || recErr.Offset != 0 {
		t.Errorf("RecordError at %d/%d, want 0/0", recErr.Index, recErr.Offset)
	}
}

func ExampleNewWriter() {
	var buf bytes.Buffer
	w, _ := tfrecord.NewWriter(&buf, tfrecord.Options{})
	_ = w.Write([]byte("hello"))
	_ = w.Close()

	fmt.Printf("% x\n", buf.Bytes())
	// Output: 05 00 00 00 00 00 00 00 ea b2 04 3e 68 65 6c 6c 6f bb 1f 1c 19
}

func ExampleMaskedChecksum() {
	fmt.Printf("%#08x\n", tfrecord.MaskedChecksum([]byte("123456789")))
	// Output: 0xc78ab0e5
}
