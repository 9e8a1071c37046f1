// Package tfrecord reads and writes TFRecord files.
//
// A TFRecord file is a flat sequence of records, each framed as:
//
//	Record Structure:
//	  [8 bytes: Length (uint64 LE)]
//	  [4 bytes: Masked CRC-32C of the length bytes (uint32 LE)]
//	  [Length bytes: Data]
//	  [4 bytes: Masked CRC-32C of the data (uint32 LE)]
//
// The whole stream may be compressed with gzip or zlib, which TensorFlow
// reads natively, or with S2 for faster local pipelines.
//
// Example usage:
//
//	// Write records
//	w, err := tfrecord.Create("train.tfrecord", tfrecord.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range records {
//	    if err := w.Write(rec); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Read them back
//	r, err := tfrecord.Open("train.tfrecord", tfrecord.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	for rec, err := range r.All() {
//	    ...
//	}
package tfrecord
