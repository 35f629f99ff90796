package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum_CheckValue(t *testing.T) {
	// Published check value for CRC-16/CCITT-FALSE.
	assert.Equal(t, uint16(0x29B1), Checksum([]byte("123456789")))
	assert.Equal(t, "29B1", SumString("123456789"))
}

func TestChecksum_Empty(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), Checksum(nil))
	assert.Equal(t, "FFFF", Sum([]byte{}))
}

func TestSum_ZeroPadded(t *testing.T) {
	for _, in := range []string{"A", "MM", "000201", "6304", "ESIM Myanmar"} {
		got := SumString(in)
		assert.Len(t, got, 4, in)
		assert.Regexp(t, "^[0-9A-F]{4}$", got, in)
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte("00020101021153031045802MM6304")
	assert.Equal(t, Checksum(data), Checksum(data))
}

func TestChecksum_SingleBitFlip(t *testing.T) {
	data := []byte("00020101021153031045802MM6304")
	original := Checksum(data)

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(data))
			copy(flipped, data)
			flipped[i] ^= 1 << bit
			assert.NotEqual(t, original, Checksum(flipped), "byte %d bit %d", i, bit)
		}
	}
}
