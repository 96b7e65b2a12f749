// Package cart validates cartridge images and splits them into the two fixed
// 16KB ROM banks the memory map exposes. Only cartridges without a bank
// controller are accepted.
package cart

import (
	"errors"
	"fmt"
	"os"
)

const (
	BankSize = 0x4000
	ROMSize  = 2 * BankSize
)

var (
	ErrTooSmall        = errors.New("image smaller than one ROM bank")
	ErrUnsupportedType = errors.New("cartridge type needs a bank controller")
	ErrUnsupportedSize = errors.New("ROM size code is not 32KB")
	ErrSizeMismatch    = errors.New("image size does not match header")
)

// LoadError reports why an image was rejected.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string { return "cartridge: " + e.Reason }
func (e *LoadError) Unwrap() error { return e.Err }

func reject(err error, format string, args ...any) *LoadError {
	return &LoadError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// Image is a validated cartridge ready to be mapped.
type Image struct {
	Header *Header
	Bank0  [BankSize]byte
	Bank1  [BankSize]byte
}

// supportedTypes are the header type codes without a bank controller.
var supportedTypes = map[byte]bool{
	0x00: true, // ROM ONLY
	0x08: true, // ROM+RAM
	0x09: true, // ROM+RAM+BATTERY
}

// Load validates rom and splits it into banks. The checksums are not verified;
// see HeaderChecksumOK.
func Load(rom []byte) (*Image, error) {
	if len(rom) < BankSize {
		return nil, reject(ErrTooSmall, "image is %d bytes, need at least %d", len(rom), BankSize)
	}
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, reject(ErrTooSmall, "%v", err)
	}
	if !supportedTypes[h.CartType] {
		return nil, reject(ErrUnsupportedType, "type %02X (%s) is not supported", h.CartType, h.CartTypeStr)
	}
	if h.ROMSizeCode != 0x00 {
		return nil, reject(ErrUnsupportedSize, "ROM size code %02X is not supported", h.ROMSizeCode)
	}
	if len(rom) != ROMSize {
		return nil, reject(ErrSizeMismatch, "image is %d bytes, header says %d", len(rom), ROMSize)
	}
	img := &Image{Header: h}
	copy(img.Bank0[:], rom[:BankSize])
	copy(img.Bank1[:], rom[BankSize:])
	return img, nil
}

// LoadFile reads and validates a ROM file.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom: %w", err)
	}
	return Load(data)
}
