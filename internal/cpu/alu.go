package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// add sets A = A + v (+ carry when withCarry and C is set).
// The incoming carry is folded into the operand first; the 0x0F and 0xFF
// operand edges would lose it, so those force H and C respectively.
func (c *CPU) add(v byte, withCarry bool) {
	forceH, forceC := false, false
	if withCarry && c.F.C {
		forceH = v&0x0F == 0x0F
		forceC = v == 0xFF
		v++
	}
	r, h, cy := bits.Add8(c.A, v)
	c.A = r
	c.F = Flags{Z: r == 0, H: h || forceH, C: cy || forceC}
}

// sub computes A - v (- carry) and stores it unless compare is set.
func (c *CPU) sub(v byte, withCarry, compare bool) {
	forceH, forceC := false, false
	if withCarry && c.F.C {
		forceH = v&0x0F == 0x0F
		forceC = v == 0xFF
		v++
	}
	r, h, cy := bits.Sub8(c.A, v)
	if !compare {
		c.A = r
	}
	c.F = Flags{Z: r == 0, N: true, H: h || forceH, C: cy || forceC}
}

func (c *CPU) and(v byte) {
	c.A &= v
	c.F = Flags{Z: c.A == 0, H: true}
}

func (c *CPU) or(v byte) {
	c.A |= v
	c.F = Flags{Z: c.A == 0}
}

func (c *CPU) xor(v byte) {
	c.A ^= v
	c.F = Flags{Z: c.A == 0}
}

// inc and dec leave C alone.
func (c *CPU) inc(v byte) byte {
	r, h, _ := bits.Add8(v, 1)
	c.F.Z, c.F.N, c.F.H = r == 0, false, h
	return r
}

func (c *CPU) dec(v byte) byte {
	r, h, _ := bits.Sub8(v, 1)
	c.F.Z, c.F.N, c.F.H = r == 0, true, h
	return r
}

func (c *CPU) daa() {
	a := c.A
	var adj byte
	carry := false
	if c.F.H || (!c.F.N && a&0x0F > 0x09) {
		adj |= 0x06
	}
	if c.F.C || (!c.F.N && a > 0x99) {
		adj |= 0x60
		carry = true
	}
	if c.F.N {
		a -= adj
	} else {
		a += adj
	}
	c.A = a
	c.F.Z, c.F.H, c.F.C = a == 0, false, carry
}

// addHL keeps Z.
func (c *CPU) addHL(v uint16) {
	r, h, cy := bits.Add16(c.HL(), v)
	c.SetHL(r)
	c.F.N, c.F.H, c.F.C = false, h, cy
}

// spOffset returns SP+d and sets flags from the unsigned add of SP's low byte and d.
func (c *CPU) spOffset(d int8) uint16 {
	_, h, cy := bits.Add8(bits.Low(c.SP), byte(d))
	c.F = Flags{H: h, C: cy}
	return c.SP + uint16(int16(d))
}

// CB-prefixed rotates and shifts. All set Z from the result and clear N and H.

func (c *CPU) shiftFlags(r byte, carry bool) byte {
	c.F = Flags{Z: r == 0, C: carry}
	return r
}

func (c *CPU) rlc(v byte) byte { return c.shiftFlags(v<<1|v>>7, v&0x80 != 0) }
func (c *CPU) rrc(v byte) byte { return c.shiftFlags(v>>1|v<<7, v&0x01 != 0) }
func (c *CPU) rl(v byte) byte  { return c.shiftFlags(v<<1|b2u(c.F.C), v&0x80 != 0) }
func (c *CPU) rr(v byte) byte  { return c.shiftFlags(v>>1|b2u(c.F.C)<<7, v&0x01 != 0) }
func (c *CPU) sla(v byte) byte { return c.shiftFlags(v<<1, v&0x80 != 0) }
func (c *CPU) sra(v byte) byte { return c.shiftFlags(v>>1|v&0x80, v&0x01 != 0) }
func (c *CPU) srl(v byte) byte { return c.shiftFlags(v>>1, v&0x01 != 0) }
func (c *CPU) swap(v byte) byte {
	return c.shiftFlags(v<<4|v>>4, false)
}

// bit tests bit n of v: Z is set when the bit is clear. C is kept.
func (c *CPU) bit(n uint8, v byte) {
	c.F.Z, c.F.N, c.F.H = !bits.Get(v, n), false, true
}

// rotateA runs one of the CB rotates on A and then clears Z, as the
// unprefixed accumulator forms do.
func (c *CPU) rotateA(f func(byte) byte) {
	c.A = f(c.A)
	c.F.Z = false
}
