package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Known CRC32C test vector (RFC 3720 B.4).
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestDigest(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := NewDigest()
		a.WriteString("cat")
		a.WriteFloat32s([]float32{1, 0})

		b := NewDigest()
		b.WriteString("cat")
		b.WriteFloat32s([]float32{1, 0})

		assert.Equal(t, a.Sum32(), b.Sum32())
	})

	t.Run("LengthPrefixing", func(t *testing.T) {
		// "ab"+"c" must not collide with "a"+"bc".
		a := NewDigest()
		a.WriteString("ab")
		a.WriteString("c")

		b := NewDigest()
		b.WriteString("a")
		b.WriteString("bc")

		assert.NotEqual(t, a.Sum32(), b.Sum32())
	})

	t.Run("VectorSensitivity", func(t *testing.T) {
		a := NewDigest()
		a.WriteFloat32s([]float32{1, 2, 3})

		b := NewDigest()
		b.WriteFloat32s([]float32{1, 2, 3.0000005})

		assert.NotEqual(t, a.Sum32(), b.Sum32())
	})
}
