package cart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ROMOnly(t *testing.T) {
	rom := buildROM("TETRIS", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0000] = 0xAA
	rom[0x3FFF] = 0xBB
	rom[0x4000] = 0xCC
	rom[0x7FFF] = 0xDD

	img, err := Load(rom)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bank0[0] != 0xAA || img.Bank0[0x3FFF] != 0xBB {
		t.Fatalf("bank 0 got %02x..%02x", img.Bank0[0], img.Bank0[0x3FFF])
	}
	if img.Bank1[0] != 0xCC || img.Bank1[0x3FFF] != 0xDD {
		t.Fatalf("bank 1 got %02x..%02x", img.Bank1[0], img.Bank1[0x3FFF])
	}
	if img.Header.Title != "TETRIS" {
		t.Fatalf("title got %q", img.Header.Title)
	}
}

func TestLoad_RAMTypesAccepted(t *testing.T) {
	for _, typ := range []byte{0x08, 0x09} {
		if _, err := Load(buildROM("X", typ, 0x00, 0x02, 32*1024)); err != nil {
			t.Fatalf("type %02x: %v", typ, err)
		}
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		rom  []byte
		want error
	}{
		{"empty", nil, ErrTooSmall},
		{"under one bank", make([]byte, 0x3FFF), ErrTooSmall},
		{"MBC1", buildROM("X", 0x01, 0x00, 0x00, 32*1024), ErrUnsupportedType},
		{"MBC3", buildROM("X", 0x13, 0x00, 0x00, 32*1024), ErrUnsupportedType},
		{"64KiB code", buildROM("X", 0x00, 0x01, 0x00, 64*1024), ErrUnsupportedSize},
		{"truncated", buildROM("X", 0x00, 0x00, 0x00, 16*1024), ErrSizeMismatch},
		{"oversized", buildROM("X", 0x00, 0x00, 0x00, 48*1024), ErrSizeMismatch},
	}
	for _, tc := range cases {
		_, err := Load(tc.rom)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v want %v", tc.name, err, tc.want)
		}
		var le *LoadError
		if !errors.As(err, &le) || le.Reason == "" {
			t.Fatalf("%s: want *LoadError with a reason, got %T", tc.name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(path, buildROM("FILE", 0x00, 0x00, 0x00, 32*1024), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if img.Header.Title != "FILE" {
		t.Fatalf("title got %q", img.Header.Title)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.gb")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err=%v", err)
	}
}
