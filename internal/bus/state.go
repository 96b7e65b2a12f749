package bus

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// busState holds the writable regions. ROM is not saved; it comes from the cartridge.
type busState struct {
	Chr   []byte
	BGMap []byte
	WRAM0 []byte
	WRAM1 []byte
	OAM   []byte
	HRAM  []byte
	IE    byte
}

// SaveState serializes all RAM regions and the interrupt-enable register.
func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	s := busState{
		Chr:   b.chr[:],
		BGMap: b.bgMap[:],
		WRAM0: b.wram0[:],
		WRAM1: b.wram1[:],
		OAM:   b.oam[:],
		HRAM:  b.hram[:],
		IE:    b.ie,
	}
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (b *Bus) LoadState(data []byte) error {
	var s busState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("bus state: %w", err)
	}
	if len(s.Chr) != len(b.chr) || len(s.BGMap) != len(b.bgMap) ||
		len(s.WRAM0) != len(b.wram0) || len(s.WRAM1) != len(b.wram1) ||
		len(s.OAM) != len(b.oam) || len(s.HRAM) != len(b.hram) {
		return fmt.Errorf("bus state: region size mismatch")
	}
	copy(b.chr[:], s.Chr)
	copy(b.bgMap[:], s.BGMap)
	copy(b.wram0[:], s.WRAM0)
	copy(b.wram1[:], s.WRAM1)
	copy(b.oam[:], s.OAM)
	copy(b.hram[:], s.HRAM)
	b.ie = s.IE
	return nil
}
