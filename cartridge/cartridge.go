package cartridge

import (
	"fmt"
	"io"
	"os"

	"github.com/bdwalton/gonestep/mappers"
)

// Mirroring identifies how the PPU's two physical nametable pages are
// presented across the logical 0x2000-0x2FFF window.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	OneScreenLo
	OneScreenHi
)

// ErrBadMagic is returned when a candidate ROM doesn't start with the
// iNES magic bytes.
type ErrBadMagic struct {
	Got [4]byte
}

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("cartridge: bad magic %q, want \"NES\\x1a\"", e.Got)
}

// ErrShortRead is returned when the ROM is truncated relative to what
// its header promises.
type ErrShortRead struct {
	Section  string
	Want     int
	Got      int
}

func (e *ErrShortRead) Error() string {
	return fmt.Sprintf("cartridge: short %s (got %d bytes, want %d)", e.Section, e.Got, e.Want)
}

// Cartridge owns a loaded ROM's PRG/CHR arrays, its mirroring mode, and
// the mapper that translates logical addresses into indices in those
// arrays.
type Cartridge struct {
	PRG []uint8
	CHR []uint8

	Mirroring Mirroring
	chrIsRAM  bool

	mapper mappers.Mapper
}

// Load reads an iNES file from path and constructs a Cartridge.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: couldn't open %q: %w", path, err)
	}
	defer f.Close()

	return New(f)
}

// New parses an iNES stream and constructs a Cartridge.
func New(r io.Reader) (*Cartridge, error) {
	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("cartridge: couldn't read header: %w", err)
	}

	h, err := parseHeader(hb)
	if err != nil {
		return nil, err
	}

	if h.hasTrainer() {
		trainer := make([]byte, trainerSize)
		if n, err := io.ReadFull(r, trainer); err != nil {
			return nil, &ErrShortRead{Section: "trainer", Want: trainerSize, Got: n}
		}
	}

	prgWant := prgBlockSize * int(h.prgSize)
	prg := make([]byte, prgWant)
	if n, err := io.ReadFull(r, prg); err != nil {
		return nil, &ErrShortRead{Section: "PRG", Want: prgWant, Got: n}
	}

	chrIsRAM := h.chrSize == 0
	chrWant := chrBlockSize * int(h.chrSize)
	if chrIsRAM {
		chrWant = chrBlockSize
	}
	chr := make([]byte, chrWant)
	if !chrIsRAM {
		if n, err := io.ReadFull(r, chr); err != nil {
			return nil, &ErrShortRead{Section: "CHR", Want: chrWant, Got: n}
		}
	}

	m, err := mappers.Get(h.mapperID(), h.prgSize, h.chrSize)
	if err != nil {
		return nil, err
	}

	mirror := h.mirroring()
	if h.hasFourScreen() {
		// Four-screen VRAM requires on-cartridge RAM this core
		// does not model; fall back to horizontal rather than fail
		// the load. The fallback is not reported anywhere.
		mirror = Horizontal
	}

	return &Cartridge{
		PRG:       prg,
		CHR:       chr,
		Mirroring: mirror,
		chrIsRAM:  chrIsRAM,
		mapper:    m,
	}, nil
}

// CPURead returns the PRG byte at addr, if the mapper claims it.
func (c *Cartridge) CPURead(addr uint16) (uint8, bool) {
	idx, ok := c.mapper.CPURead(addr)
	if !ok {
		return 0, false
	}
	if idx < 0 || idx >= len(c.PRG) {
		return 0, false
	}
	return c.PRG[idx], true
}

// CPUWrite writes val into PRG, if the mapper claims the address. See
// mappers.nrom.CPUWrite for the reference policy on PRG writes.
func (c *Cartridge) CPUWrite(addr uint16, val uint8) bool {
	idx, ok := c.mapper.CPUWrite(addr)
	if !ok || idx < 0 || idx >= len(c.PRG) {
		return false
	}
	c.PRG[idx] = val
	return true
}

// PPURead returns the CHR byte at addr, if the mapper claims it.
func (c *Cartridge) PPURead(addr uint16) (uint8, bool) {
	idx, ok := c.mapper.PPURead(addr)
	if !ok {
		return 0, false
	}
	if idx < 0 || idx >= len(c.CHR) {
		return 0, false
	}
	return c.CHR[idx], true
}

// PPUWrite writes val into CHR, if the mapper claims the address
// (only true when the cartridge is CHR-RAM backed).
func (c *Cartridge) PPUWrite(addr uint16, val uint8) bool {
	idx, ok := c.mapper.PPUWrite(addr)
	if !ok || idx < 0 || idx >= len(c.CHR) {
		return false
	}
	c.CHR[idx] = val
	return true
}

// HasChrRAM reports whether this cartridge's CHR region is writable
// RAM rather than fixed ROM.
func (c *Cartridge) HasChrRAM() bool {
	return c.chrIsRAM
}
