package bus

import "io"

const (
	regSB = 0xFF01 // serial transfer data
	regSC = 0xFF02 // serial transfer control
)

// serialTap forwards bytes written through the serial port to w. Test ROMs
// print their results this way: store the byte in SB, then write 0x81 to SC.
// Register reads keep returning 0, which such ROMs see as "transfer done".
type serialTap struct {
	w  io.Writer
	sb byte
}

func (s *serialTap) observe(addr uint16, v byte) {
	switch addr {
	case regSB:
		s.sb = v
	case regSC:
		if v&0x81 == 0x81 {
			_, _ = s.w.Write([]byte{s.sb})
		}
	}
}

// SetSerialWriter connects w to receive bytes sent over the serial port.
func (b *Bus) SetSerialWriter(w io.Writer) {
	if w == nil {
		return
	}
	tap := &serialTap{w: w}
	b.ObserveIO(tap.observe)
}
