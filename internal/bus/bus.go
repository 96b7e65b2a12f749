package bus

import (
	"errors"
	"fmt"
)

var (
	ErrROMWrite = errors.New("write to cartridge rom")
	ErrCartRAM  = errors.New("cartridge ram not supported")
	ErrUnusable = errors.New("access to unusable region")
)

// AccessError reports an illegal memory access. It unwraps to one of the
// Err* sentinels above.
type AccessError struct {
	Addr   uint16
	Write  bool
	Region Region
	Err    error
}

func (e *AccessError) Error() string {
	kind := "read"
	if e.Write {
		kind = "write"
	}
	return fmt.Sprintf("illegal %s at %04X (%s): %v", kind, e.Addr, e.Region, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IOObserver sees every write to the hardware register block. Register reads
// still return 0; observers only watch.
type IOObserver func(addr uint16, value byte)

// Bus routes CPU addresses to the fixed memory regions.
type Bus struct {
	rom0  [0x4000]byte
	rom1  [0x4000]byte
	chr   [0x1800]byte
	bgMap [0x0800]byte
	wram0 [0x1000]byte
	wram1 [0x1000]byte
	oam   [0x00A0]byte
	hram  [0x007F]byte
	ie    byte

	ioObservers []IOObserver
}

// New returns a bus in the power-on state: all RAM zero, interrupt-enable 0x0F.
func New() *Bus {
	return &Bus{ie: 0x0F}
}

// LoadROM copies the two fixed cartridge banks into place.
func (b *Bus) LoadROM(bank0, bank1 *[0x4000]byte) {
	b.rom0 = *bank0
	b.rom1 = *bank1
}

// ObserveIO registers fn to be called on every write into FF00-FF7F.
func (b *Bus) ObserveIO(fn IOObserver) {
	b.ioObservers = append(b.ioObservers, fn)
}

// backing returns the storage of a RAM or ROM region, nil for the others.
func (b *Bus) backing(r Region) []byte {
	switch r {
	case ROM0:
		return b.rom0[:]
	case ROM1:
		return b.rom1[:]
	case CharRAM:
		return b.chr[:]
	case BGMap:
		return b.bgMap[:]
	case WRAM0:
		return b.wram0[:]
	case WRAM1:
		return b.wram1[:]
	case OAM:
		return b.oam[:]
	case HRAM:
		return b.hram[:]
	}
	return nil
}

// View returns a copy of a region's contents, for renderers and debuggers.
// Regions without storage return nil.
func (b *Bus) View(r Region) []byte {
	if r == IE {
		return []byte{b.ie}
	}
	src := b.backing(r)
	if src == nil {
		return nil
	}
	return append([]byte(nil), src...)
}

// Check reports the error an access would produce without performing it.
func (b *Bus) Check(addr uint16, write bool) error {
	r, _ := Lookup(addr)
	switch r {
	case Echo:
		return b.Check(addr-0x2000, write)
	case ROM0, ROM1:
		if write {
			return &AccessError{Addr: addr, Write: true, Region: r, Err: ErrROMWrite}
		}
	case CartRAM:
		return &AccessError{Addr: addr, Write: write, Region: r, Err: ErrCartRAM}
	case Unusable:
		return &AccessError{Addr: addr, Write: write, Region: r, Err: ErrUnusable}
	}
	return nil
}

func (b *Bus) Read(addr uint16) (byte, error) {
	r, off := Lookup(addr)
	switch r {
	case Echo:
		return b.Read(addr - 0x2000)
	case CartRAM, Unusable:
		return 0, b.Check(addr, false)
	case IO:
		return 0, nil
	case IE:
		return b.ie, nil
	}
	return b.backing(r)[off], nil
}

func (b *Bus) Write(addr uint16, value byte) error {
	r, off := Lookup(addr)
	switch r {
	case Echo:
		return b.Write(addr-0x2000, value)
	case ROM0, ROM1, CartRAM, Unusable:
		return b.Check(addr, true)
	case IO:
		for _, fn := range b.ioObservers {
			fn(addr, value)
		}
		return nil
	case IE:
		b.ie = value
		return nil
	}
	b.backing(r)[off] = value
	return nil
}
