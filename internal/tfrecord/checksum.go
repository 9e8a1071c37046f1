package tfrecord

import (
	"hash/crc32"
)

// maskDelta is added to rotated CRCs so that checksums of data that itself
// contains checksums stay well distributed.
const maskDelta = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ComputeChecksum computes the CRC-32C (Castagnoli) checksum of data.
func ComputeChecksum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Mask applies the TFRecord CRC mask.
func Mask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// Unmask reverses Mask.
func Unmask(masked uint32) uint32 {
	rot := masked - maskDelta
	return (rot >> 17) | (rot << 15)
}

// MaskedChecksum computes the masked CRC-32C stored in record frames.
func MaskedChecksum(data []byte) uint32 {
	return Mask(ComputeChecksum(data))
}
