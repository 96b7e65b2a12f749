// Package bits holds the byte/word and flagged arithmetic helpers shared by the
// decoder and the execution engine. Everything here is pure.
package bits

// Word composes a 16-bit value from its high and low bytes.
func Word(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }

// Low returns the low byte of v.
func Low(v uint16) byte { return byte(v) }

// High returns the high byte of v.
func High(v uint16) byte { return byte(v >> 8) }

func LowNibble(v byte) byte  { return v & 0x0F }
func HighNibble(v byte) byte { return v >> 4 }

// Get reports whether bit i of v is set. i is taken modulo 8.
func Get(v byte, i uint8) bool { return v&(1<<(i&7)) != 0 }

// Set returns v with bit i forced to on.
func Set(v byte, i uint8, on bool) byte {
	mask := byte(1) << (i & 7)
	if on {
		return v | mask
	}
	return v &^ mask
}

// Add8 adds two bytes. half is the carry out of bit 3, carry the carry out of bit 7.
func Add8(a, b byte) (res byte, half, carry bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	half = (a&0x0F)+(b&0x0F) > 0x0F
	carry = r > 0xFF
	return
}

// Sub8 computes a-b. half is the borrow into bit 4, carry the borrow out of bit 7.
func Sub8(a, b byte) (res byte, half, carry bool) {
	res = a - b
	half = b&0x0F > a&0x0F
	carry = b > a
	return
}

// Add16 adds two words. half is the carry out of bit 11, carry the carry out of bit 15.
func Add16(a, b uint16) (res uint16, half, carry bool) {
	r := uint32(a) + uint32(b)
	res = uint16(r)
	half = (a&0x0FFF)+(b&0x0FFF) > 0x0FFF
	carry = r > 0xFFFF
	return
}
