package emu

import (
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instr"
)

// peekSource reads instruction bytes from memory without touching the CPU.
type peekSource struct {
	m    *Machine
	addr uint16
	done bool
}

func (s *peekSource) Next() (byte, error) {
	if s.done {
		return 0, io.EOF
	}
	b, err := s.m.bus.Read(s.addr)
	if err != nil {
		return 0, err
	}
	if s.addr == 0xFFFF {
		s.done = true
	}
	s.addr++
	return b, nil
}

// Disassemble decodes the instruction at addr.
func (m *Machine) Disassemble(addr uint16) (instr.Instruction, error) {
	return instr.Decode(&peekSource{m: m, addr: addr})
}

// Line is one row of a listing.
type Line struct {
	Addr  uint16
	Bytes []byte
	Text  string
}

func (l Line) String() string {
	hex := ""
	for _, b := range l.Bytes {
		hex += fmt.Sprintf("%02X ", b)
	}
	return fmt.Sprintf("%04X  %-9s %s", l.Addr, hex, l.Text)
}

// Listing disassembles up to n instructions from addr. Bytes that do not
// decode are shown as data and skipped one at a time.
func (m *Machine) Listing(addr uint16, n int) []Line {
	out := make([]Line, 0, n)
	for len(out) < n {
		in, err := m.Disassemble(addr)
		l := Line{Addr: addr}
		size := 1
		if err != nil {
			b, rerr := m.bus.Read(addr)
			if rerr != nil {
				l.Text = "??"
			} else {
				l.Bytes = []byte{b}
				l.Text = fmt.Sprintf("DB $%02X", b)
			}
		} else {
			size = in.Len()
			for i := 0; i < size; i++ {
				b, _ := m.bus.Read(addr + uint16(i))
				l.Bytes = append(l.Bytes, b)
			}
			l.Text = in.String()
		}
		out = append(out, l)
		if int(addr)+size > 0xFFFF {
			break
		}
		addr += uint16(size)
	}
	return out
}
