package cpu

import "testing"

func TestCPU_SaveLoadState(t *testing.T) {
	c := New(&flatBus{})
	c.Registers = Registers{A: 0x12, F: Flags{Z: true, C: true}, B: 1, C: 2, D: 3, E: 4, H: 5, L: 6, SP: 0xC100, PC: 0x0150}
	c.IME, c.Halted, c.Cycles = true, true, 1234
	data := c.SaveState()

	n := New(&flatBus{})
	if err := n.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if n.Registers != c.Registers || !n.IME || !n.Halted || n.Stopped || n.Cycles != 1234 {
		t.Fatalf("restored %v IME=%v Halted=%v Cycles=%d", n.Registers, n.IME, n.Halted, n.Cycles)
	}
	if err := n.LoadState([]byte{1, 2, 3}); err == nil {
		t.Fatalf("LoadState accepted garbage")
	}
}
