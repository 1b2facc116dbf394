// Package hash provides CRC32-Castagnoli checksums used for vector-space
// fingerprinting (the invalidation key of prebuilt neighbor indexes).
package hash

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"math"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
// Computing this once avoids repeated MakeTable calls.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
// Uses hardware acceleration when available (SSE4.2, ARM CRC).
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Digest incrementally folds strings, integers and float32 slices into a
// CRC32C checksum. Inputs are length-prefixed so that concatenation
// ambiguities cannot produce colliding digests for different key sequences.
type Digest struct {
	h   hash.Hash32
	buf [8]byte
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{h: NewCRC32C()}
}

// WriteString folds a length-prefixed string into the digest.
func (d *Digest) WriteString(s string) {
	d.WriteUint64(uint64(len(s)))
	_, _ = d.h.Write([]byte(s))
}

// WriteUint64 folds a fixed-width integer into the digest.
func (d *Digest) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	_, _ = d.h.Write(d.buf[:])
}

// WriteFloat32s folds the IEEE-754 bit patterns of vec into the digest.
func (d *Digest) WriteFloat32s(vec []float32) {
	d.WriteUint64(uint64(len(vec)))
	for _, x := range vec {
		binary.LittleEndian.PutUint32(d.buf[:4], math.Float32bits(x))
		_, _ = d.h.Write(d.buf[:4])
	}
}

// Sum32 returns the current checksum.
func (d *Digest) Sum32() uint32 {
	return d.h.Sum32()
}
