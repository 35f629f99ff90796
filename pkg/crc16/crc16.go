package crc16

import "fmt"

const (
	initial    uint16 = 0xFFFF
	polynomial uint16 = 0x1021
)

// Checksum computes CRC-16/CCITT-FALSE over data: no reflection, no final XOR.
func Checksum(data []byte) uint16 {
	crc := initial

	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

// Sum returns the checksum rendered as exactly four uppercase hex digits.
func Sum(data []byte) string {
	return fmt.Sprintf("%04X", Checksum(data))
}

// SumString is Sum over the bytes of s.
func SumString(s string) string {
	return Sum([]byte(s))
}
