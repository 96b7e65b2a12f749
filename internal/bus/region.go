package bus

import "fmt"

// Region names one fixed partition of the 16-bit address space.
type Region uint8

const (
	ROM0     Region = iota // 0000-3FFF
	ROM1                   // 4000-7FFF, fixed bank 1
	CharRAM                // 8000-97FF tile data
	BGMap                  // 9800-9FFF background maps
	CartRAM                // A000-BFFF, not supported
	WRAM0                  // C000-CFFF
	WRAM1                  // D000-DFFF
	Echo                   // E000-FDFF mirrors C000-DDFF
	OAM                    // FE00-FE9F
	Unusable               // FEA0-FEFF
	IO                     // FF00-FF7F
	HRAM                   // FF80-FFFE
	IE                     // FFFF
	numRegions
)

type regionInfo struct {
	name       string
	start, end uint16 // inclusive
}

var regions = [numRegions]regionInfo{
	ROM0:     {"rom0", 0x0000, 0x3FFF},
	ROM1:     {"rom1", 0x4000, 0x7FFF},
	CharRAM:  {"char ram", 0x8000, 0x97FF},
	BGMap:    {"bg map", 0x9800, 0x9FFF},
	CartRAM:  {"cartridge ram", 0xA000, 0xBFFF},
	WRAM0:    {"wram0", 0xC000, 0xCFFF},
	WRAM1:    {"wram1", 0xD000, 0xDFFF},
	Echo:     {"echo ram", 0xE000, 0xFDFF},
	OAM:      {"oam", 0xFE00, 0xFE9F},
	Unusable: {"unusable", 0xFEA0, 0xFEFF},
	IO:       {"io", 0xFF00, 0xFF7F},
	HRAM:     {"hram", 0xFF80, 0xFFFE},
	IE:       {"ie", 0xFFFF, 0xFFFF},
}

func (r Region) String() string {
	if r < numRegions {
		return regions[r].name
	}
	return fmt.Sprintf("Region(%d)", uint8(r))
}

// Start returns the first address of r.
func (r Region) Start() uint16 { return regions[r].start }

// Size returns the number of addresses r covers.
func (r Region) Size() int { return int(regions[r].end) - int(regions[r].start) + 1 }

// Lookup maps every address to exactly one region and the offset within it.
func Lookup(addr uint16) (Region, uint16) {
	var r Region
	switch {
	case addr <= 0x3FFF:
		r = ROM0
	case addr <= 0x7FFF:
		r = ROM1
	case addr <= 0x97FF:
		r = CharRAM
	case addr <= 0x9FFF:
		r = BGMap
	case addr <= 0xBFFF:
		r = CartRAM
	case addr <= 0xCFFF:
		r = WRAM0
	case addr <= 0xDFFF:
		r = WRAM1
	case addr <= 0xFDFF:
		r = Echo
	case addr <= 0xFE9F:
		r = OAM
	case addr <= 0xFEFF:
		r = Unusable
	case addr <= 0xFF7F:
		r = IO
	case addr <= 0xFFFE:
		r = HRAM
	default:
		r = IE
	}
	return r, addr - regions[r].start
}
