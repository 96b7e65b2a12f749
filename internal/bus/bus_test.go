package bus

import (
	"bytes"
	"errors"
	"testing"
)

func romBanks() (*[0x4000]byte, *[0x4000]byte) {
	var b0, b1 [0x4000]byte
	b0[0x0100] = 0x42
	b1[0x0000] = 0x99
	return &b0, &b1
}

func TestBus_ROMAndRAM(t *testing.T) {
	b := New()
	b.LoadROM(romBanks())

	if got, err := b.Read(0x0100); err != nil || got != 0x42 {
		t.Fatalf("ROM0 read got %02x err=%v, want 42", got, err)
	}
	if got, _ := b.Read(0x4000); got != 0x99 {
		t.Fatalf("ROM1 read got %02x, want 99", got)
	}

	if err := b.Write(0xC000, 0x99); err != nil {
		t.Fatalf("WRAM write: %v", err)
	}
	if got, _ := b.Read(0xC000); got != 0x99 {
		t.Fatalf("WRAM read got %02x, want 99", got)
	}
	if err := b.Write(0xD123, 0x77); err != nil {
		t.Fatalf("WRAM1 write: %v", err)
	}
	if got, _ := b.Read(0xD123); got != 0x77 {
		t.Fatalf("WRAM1 read got %02x, want 77", got)
	}

	if err := b.Write(0xFF80, 0xAB); err != nil {
		t.Fatalf("HRAM write: %v", err)
	}
	if got, _ := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}
	if err := b.Write(0xFFFE, 0xCD); err != nil {
		t.Fatalf("HRAM top write: %v", err)
	}
	if got, _ := b.Read(0xFFFE); got != 0xCD {
		t.Fatalf("HRAM top read got %02x, want CD", got)
	}
}

func TestBus_VRAM_OAM_IE(t *testing.T) {
	b := New()

	if got, _ := b.Read(0xFFFF); got != 0x0F {
		t.Fatalf("IE power-on got %02x, want 0F", got)
	}
	for _, tc := range []struct {
		addr uint16
		v    byte
	}{{0x8000, 0x11}, {0x97FF, 0x12}, {0x9800, 0x13}, {0x9FFF, 0x14}, {0xFE00, 0x22}, {0xFE9F, 0x23}, {0xFFFF, 0x1B}} {
		if err := b.Write(tc.addr, tc.v); err != nil {
			t.Fatalf("write %04x: %v", tc.addr, err)
		}
		if got, _ := b.Read(tc.addr); got != tc.v {
			t.Fatalf("read %04x got %02x, want %02x", tc.addr, got, tc.v)
		}
	}
	if v := b.View(CharRAM); v[0] != 0x11 || len(v) != 0x1800 {
		t.Fatalf("View(CharRAM) got len=%d first=%02x", len(v), v[0])
	}
	if v := b.View(BGMap); v[0] != 0x13 || len(v) != 0x800 {
		t.Fatalf("View(BGMap) got len=%d first=%02x", len(v), v[0])
	}
}

func TestBus_EchoMirrorsWRAM(t *testing.T) {
	b := New()
	for addr := 0xE000; addr <= 0xFDFF; addr += 0x0101 {
		a := uint16(addr)
		if err := b.Write(a, byte(addr)); err != nil {
			t.Fatalf("echo write %04x: %v", a, err)
		}
		if got, _ := b.Read(a - 0x2000); got != byte(addr) {
			t.Fatalf("echo write %04x not visible at %04x: got %02x", a, a-0x2000, got)
		}
		if err := b.Write(a-0x2000, ^byte(addr)); err != nil {
			t.Fatalf("wram write %04x: %v", a-0x2000, err)
		}
		if got, _ := b.Read(a); got != ^byte(addr) {
			t.Fatalf("wram write %04x not visible at %04x: got %02x", a-0x2000, a, got)
		}
	}
	// every echo address reads the same as its mirror
	for addr := 0xE000; addr <= 0xFDFF; addr++ {
		x, _ := b.Read(uint16(addr))
		y, _ := b.Read(uint16(addr - 0x2000))
		if x != y {
			t.Fatalf("read(%04x)=%02x read(%04x)=%02x", addr, x, addr-0x2000, y)
		}
	}
}

func TestBus_ROMWriteRejected(t *testing.T) {
	b := New()
	b.LoadROM(romBanks())
	before := b.View(ROM0)

	err := b.Write(0x0000, 0x12)
	if !errors.Is(err, ErrROMWrite) {
		t.Fatalf("ROM write got err=%v want ErrROMWrite", err)
	}
	var ae *AccessError
	if !errors.As(err, &ae) || ae.Addr != 0x0000 || !ae.Write || ae.Region != ROM0 {
		t.Fatalf("AccessError got %+v", ae)
	}
	if !bytes.Equal(before, b.View(ROM0)) {
		t.Fatalf("ROM0 contents changed after rejected write")
	}
	if err := b.Write(0x7FFF, 0x12); !errors.Is(err, ErrROMWrite) {
		t.Fatalf("ROM1 write got err=%v want ErrROMWrite", err)
	}
}

func TestBus_IllegalRegions(t *testing.T) {
	b := New()
	cases := []struct {
		addr uint16
		want error
	}{
		{0xA000, ErrCartRAM},
		{0xBFFF, ErrCartRAM},
		{0xFEA0, ErrUnusable},
		{0xFEFF, ErrUnusable},
	}
	for _, tc := range cases {
		if _, err := b.Read(tc.addr); !errors.Is(err, tc.want) {
			t.Fatalf("read %04x err=%v want %v", tc.addr, err, tc.want)
		}
		if err := b.Write(tc.addr, 1); !errors.Is(err, tc.want) {
			t.Fatalf("write %04x err=%v want %v", tc.addr, err, tc.want)
		}
		if err := b.Check(tc.addr, false); !errors.Is(err, tc.want) {
			t.Fatalf("check %04x err=%v want %v", tc.addr, err, tc.want)
		}
	}
}

func TestBus_IORegistersReadZero(t *testing.T) {
	b := New()
	var seen []uint16
	b.ObserveIO(func(addr uint16, v byte) { seen = append(seen, addr) })
	for _, addr := range []uint16{0xFF00, 0xFF0F, 0xFF40, 0xFF7F} {
		if err := b.Write(addr, 0xFF); err != nil {
			t.Fatalf("io write %04x: %v", addr, err)
		}
		if got, err := b.Read(addr); err != nil || got != 0 {
			t.Fatalf("io read %04x got %02x err=%v want 0", addr, got, err)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("observer saw %d writes want 4", len(seen))
	}
}

func TestBus_Serial(t *testing.T) {
	b := New()
	var out bytes.Buffer
	b.SetSerialWriter(&out)
	for _, ch := range []byte("ok") {
		_ = b.Write(0xFF01, ch)
		_ = b.Write(0xFF02, 0x81)
	}
	_ = b.Write(0xFF01, 'x')
	_ = b.Write(0xFF02, 0x01) // internal clock bit without start: no transfer
	if out.String() != "ok" {
		t.Fatalf("serial out got %q want %q", out.String(), "ok")
	}
}

func TestLookupIsTotal(t *testing.T) {
	for addr := 0; addr <= 0xFFFF; addr++ {
		r, off := Lookup(uint16(addr))
		if int(off) >= r.Size() {
			t.Fatalf("%04x -> %v offset %x beyond size %x", addr, r, off, r.Size())
		}
		if int(r.Start())+int(off) != addr {
			t.Fatalf("%04x -> %v+%x does not map back", addr, r, off)
		}
	}
}

func TestBus_SaveLoadState(t *testing.T) {
	b := New()
	_ = b.Write(0xC010, 0x5A)
	_ = b.Write(0x8001, 0x6B)
	_ = b.Write(0xFFFF, 0x03)
	data := b.SaveState()

	n := New()
	if err := n.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	for _, addr := range []uint16{0xC010, 0x8001, 0xFFFF} {
		want, _ := b.Read(addr)
		if got, _ := n.Read(addr); got != want {
			t.Fatalf("restored %04x got %02x want %02x", addr, got, want)
		}
	}
	if err := n.LoadState([]byte("garbage")); err == nil {
		t.Fatalf("LoadState accepted garbage")
	}
}
