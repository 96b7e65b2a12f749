package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instr"
)

// Execute applies one decoded instruction. PC must already point past it,
// which is what Fetch leaves behind. On success the fixed tick cost is added
// to Cycles and returned.
func (c *CPU) Execute(in instr.Instruction) (int, error) {
	if !operandsInRange(in) {
		return 0, fmt.Errorf("%w: operand out of range in %+v", ErrUnsupported, in)
	}
	if err := c.execute(in); err != nil {
		return 0, err
	}
	t := in.Ticks()
	c.Cycles += uint64(t)
	return t, nil
}

func operandsInRange(in instr.Instruction) bool {
	return in.R <= instr.L && in.R2 <= instr.L && in.Pair <= instr.AF &&
		in.Cond <= instr.CY && in.Bit < 8 && in.Vec.Valid()
}

func (c *CPU) cond(cc instr.Cond) bool {
	switch cc {
	case instr.NZ:
		return !c.F.Z
	case instr.Z:
		return c.F.Z
	case instr.NC:
		return !c.F.C
	}
	return c.F.C
}

// operand8 returns the source of an 8-bit ALU op in its R, N or (HL) form.
func (c *CPU) operand8(in instr.Instruction) (byte, error) {
	switch in.Op {
	case instr.AddR, instr.AdcR, instr.SubR, instr.SbcR,
		instr.AndR, instr.OrR, instr.XorR, instr.CpR:
		return c.Get(in.R), nil
	case instr.AddN, instr.AdcN, instr.SubN, instr.SbcN,
		instr.AndN, instr.OrN, instr.XorN, instr.CpN:
		return in.N, nil
	}
	return c.read8(c.HL())
}

// modify applies f to register in.R, or to the byte at (HL) when mem is set.
// For (HL) the write is probed first so flags are never changed by an
// operation whose store would fail.
func (c *CPU) modify(in instr.Instruction, mem bool, f func(byte) byte) error {
	if !mem {
		c.Set(in.R, f(c.Get(in.R)))
		return nil
	}
	addr := c.HL()
	if chk, ok := c.bus.(Checker); ok {
		if err := chk.Check(addr, true); err != nil {
			return err
		}
	}
	v, err := c.read8(addr)
	if err != nil {
		return err
	}
	return c.write8(addr, f(v))
}

func (c *CPU) jump(to uint16, take bool) {
	if take {
		c.PC = to
	}
}

func (c *CPU) call(to uint16, take bool) error {
	if !take {
		return nil
	}
	if err := c.push16(c.PC); err != nil {
		return err
	}
	c.PC = to
	return nil
}

func (c *CPU) ret(take bool) error {
	if !take {
		return nil
	}
	pc, err := c.pop16()
	if err != nil {
		return err
	}
	c.PC = pc
	return nil
}

func (c *CPU) execute(in instr.Instruction) error {
	switch in.Op {
	case instr.Nop:
	case instr.Halt:
		c.Halted = true
	case instr.Stop:
		c.Stopped = true
	case instr.Di:
		c.IME = false
	case instr.Ei:
		c.IME = true

	// 8-bit loads
	case instr.LdRR:
		c.Set(in.R, c.Get(in.R2))
	case instr.LdRN:
		c.Set(in.R, in.N)
	case instr.LdRMem:
		v, err := c.read8(c.HL())
		if err != nil {
			return err
		}
		c.Set(in.R, v)
	case instr.LdMemR:
		return c.write8(c.HL(), c.Get(in.R))
	case instr.LdMemN:
		return c.write8(c.HL(), in.N)
	case instr.LdAIndC:
		return c.loadA(0xFF00 + uint16(c.C))
	case instr.LdAIndBC:
		return c.loadA(c.BC())
	case instr.LdAIndDE:
		return c.loadA(c.DE())
	case instr.LdAIndNN:
		return c.loadA(in.NN)
	case instr.LdhAN:
		return c.loadA(0xFF00 + uint16(in.N))
	case instr.LdIndCA:
		return c.write8(0xFF00+uint16(c.C), c.A)
	case instr.LdIndBCA:
		return c.write8(c.BC(), c.A)
	case instr.LdIndDEA:
		return c.write8(c.DE(), c.A)
	case instr.LdIndNNA:
		return c.write8(in.NN, c.A)
	case instr.LdhNA:
		return c.write8(0xFF00+uint16(in.N), c.A)
	case instr.LddAMem, instr.LdiAMem:
		hl := c.HL()
		if err := c.loadA(hl); err != nil {
			return err
		}
		c.SetHL(stepHL(hl, in.Op == instr.LdiAMem))
	case instr.LddMemA, instr.LdiMemA:
		hl := c.HL()
		if err := c.write8(hl, c.A); err != nil {
			return err
		}
		c.SetHL(stepHL(hl, in.Op == instr.LdiMemA))

	// 16-bit loads and stack
	case instr.LdPairNN:
		c.SetPair(in.Pair, in.NN)
	case instr.LdSPHL:
		c.SP = c.HL()
	case instr.LdHLSPD:
		c.SetHL(c.spOffset(in.D))
	case instr.LdNNSP:
		return c.write16(in.NN, c.SP)
	case instr.Push:
		return c.push16(c.Pair(in.Pair))
	case instr.Pop:
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.SetPair(in.Pair, v)

	// 8-bit arithmetic and logic
	case instr.AddR, instr.AddN, instr.AddMem,
		instr.AdcR, instr.AdcN, instr.AdcMem,
		instr.SubR, instr.SubN, instr.SubMem,
		instr.SbcR, instr.SbcN, instr.SbcMem,
		instr.AndR, instr.AndN, instr.AndMem,
		instr.OrR, instr.OrN, instr.OrMem,
		instr.XorR, instr.XorN, instr.XorMem,
		instr.CpR, instr.CpN, instr.CpMem:
		v, err := c.operand8(in)
		if err != nil {
			return err
		}
		c.alu(in.Op, v)
	case instr.IncR:
		return c.modify(in, false, c.inc)
	case instr.IncMem:
		return c.modify(in, true, c.inc)
	case instr.DecR:
		return c.modify(in, false, c.dec)
	case instr.DecMem:
		return c.modify(in, true, c.dec)

	// 16-bit arithmetic
	case instr.AddHLPair:
		c.addHL(c.Pair(in.Pair))
	case instr.AddSPD:
		c.SP = c.spOffset(in.D)
	case instr.IncPair:
		c.SetPair(in.Pair, c.Pair(in.Pair)+1)
	case instr.DecPair:
		c.SetPair(in.Pair, c.Pair(in.Pair)-1)

	// misc
	case instr.Daa:
		c.daa()
	case instr.Cpl:
		c.A = ^c.A
		c.F.N, c.F.H = true, true
	case instr.Ccf:
		c.F.N, c.F.H, c.F.C = false, false, !c.F.C
	case instr.Scf:
		c.F.N, c.F.H, c.F.C = false, false, true

	case instr.Rlca:
		c.rotateA(c.rlc)
	case instr.Rla:
		c.rotateA(c.rl)
	case instr.Rrca:
		c.rotateA(c.rrc)
	case instr.Rra:
		c.rotateA(c.rr)

	// CB-prefixed
	case instr.RlcR, instr.RlcMem:
		return c.modify(in, in.Op == instr.RlcMem, c.rlc)
	case instr.RrcR, instr.RrcMem:
		return c.modify(in, in.Op == instr.RrcMem, c.rrc)
	case instr.RlR, instr.RlMem:
		return c.modify(in, in.Op == instr.RlMem, c.rl)
	case instr.RrR, instr.RrMem:
		return c.modify(in, in.Op == instr.RrMem, c.rr)
	case instr.SlaR, instr.SlaMem:
		return c.modify(in, in.Op == instr.SlaMem, c.sla)
	case instr.SraR, instr.SraMem:
		return c.modify(in, in.Op == instr.SraMem, c.sra)
	case instr.SwapR, instr.SwapMem:
		return c.modify(in, in.Op == instr.SwapMem, c.swap)
	case instr.SrlR, instr.SrlMem:
		return c.modify(in, in.Op == instr.SrlMem, c.srl)
	case instr.BitR:
		c.bit(in.Bit, c.Get(in.R))
	case instr.BitMem:
		v, err := c.read8(c.HL())
		if err != nil {
			return err
		}
		c.bit(in.Bit, v)
	case instr.SetR, instr.SetMem:
		return c.modify(in, in.Op == instr.SetMem, func(v byte) byte { return bits.Set(v, in.Bit, true) })
	case instr.ResR, instr.ResMem:
		return c.modify(in, in.Op == instr.ResMem, func(v byte) byte { return bits.Set(v, in.Bit, false) })

	// control flow
	case instr.JpNN:
		c.jump(in.NN, true)
	case instr.JpCondNN:
		c.jump(in.NN, c.cond(in.Cond))
	case instr.JpHL:
		c.jump(c.HL(), true)
	case instr.JrD:
		c.jump(c.PC+uint16(int16(in.D)), true)
	case instr.JrCondD:
		c.jump(c.PC+uint16(int16(in.D)), c.cond(in.Cond))
	case instr.CallNN:
		return c.call(in.NN, true)
	case instr.CallCondNN:
		return c.call(in.NN, c.cond(in.Cond))
	case instr.Rst:
		return c.call(uint16(in.Vec), true)
	case instr.Ret:
		return c.ret(true)
	case instr.RetCond:
		return c.ret(c.cond(in.Cond))
	case instr.Reti:
		if err := c.ret(true); err != nil {
			return err
		}
		c.IME = true

	default:
		return fmt.Errorf("%w: %v", ErrUnsupported, in.Op)
	}
	return nil
}

func (c *CPU) loadA(addr uint16) error {
	v, err := c.read8(addr)
	if err != nil {
		return err
	}
	c.A = v
	return nil
}

func stepHL(hl uint16, up bool) uint16 {
	if up {
		return hl + 1
	}
	return hl - 1
}

func (c *CPU) alu(op instr.Op, v byte) {
	switch op {
	case instr.AddR, instr.AddN, instr.AddMem:
		c.add(v, false)
	case instr.AdcR, instr.AdcN, instr.AdcMem:
		c.add(v, true)
	case instr.SubR, instr.SubN, instr.SubMem:
		c.sub(v, false, false)
	case instr.SbcR, instr.SbcN, instr.SbcMem:
		c.sub(v, true, false)
	case instr.AndR, instr.AndN, instr.AndMem:
		c.and(v)
	case instr.OrR, instr.OrN, instr.OrMem:
		c.or(v)
	case instr.XorR, instr.XorN, instr.XorMem:
		c.xor(v)
	default:
		c.sub(v, false, true)
	}
}
