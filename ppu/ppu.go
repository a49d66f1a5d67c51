// Package ppu implements a per-dot model of the NES picture processing
// unit's background pipeline: scroll registers, nametable/pattern/
// palette address decoding, and VBlank/NMI timing. Sprite evaluation
// and rendering are out of scope; OAMADDR/OAMDATA are accepted but
// inert beyond storing bytes.
package ppu

// Register offsets within the CPU-facing 8-byte window, mirrored every
// 8 bytes across 0x2000-0x3FFF.
const (
	RegCTRL = iota
	RegMASK
	RegSTATUS
	RegOAMADDR
	RegOAMDATA
	RegSCROLL
	RegADDR
	RegDATA
)

// PPUCTRL bits.
const (
	ctrlNametableX uint8 = 1 << 0
	ctrlNametableY uint8 = 1 << 1
	ctrlIncMode    uint8 = 1 << 2
	ctrlPatternBG  uint8 = 1 << 4
	ctrlEnableNMI  uint8 = 1 << 7
)

// PPUMASK bits.
const (
	maskRenderBG  uint8 = 1 << 3
	maskRenderSPR uint8 = 1 << 4
)

// PPUSTATUS bits.
const (
	statusVBlank uint8 = 1 << 7
)

// Mirroring identifies how the two physical nametable pages are mapped
// across the logical 0x2000-0x2FFF window. Its values line up with
// cartridge.Mirroring's so the bus can convert between them with a
// single cast rather than this package importing cartridge.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	OneScreenLo
	OneScreenHi
)

// CartBus is the address space the PPU shares with the cartridge: CHR
// reads/writes below 0x2000. ok is false when the cartridge doesn't
// claim the address, in which case the PPU falls back to its own
// internal pattern RAM.
type CartBus interface {
	PPURead(addr uint16) (val uint8, ok bool)
	PPUWrite(addr uint16, val uint8) bool
}

// PPU is a per-dot NES picture processing unit: background pipeline,
// scroll registers, and the CPU-facing register window.
type PPU struct {
	cart   CartBus
	mirror Mirroring

	nametables [2][1024]uint8
	patternRAM [2][4096]uint8 // CHR-RAM fallback when no cartridge claims the address
	palette    [32]uint8

	ctrl, mask, status uint8
	oamAddr            uint8
	oam                [256]uint8

	v, t       loopy
	fineX      uint8
	addrLatch  bool // false = next write is the first of a pair
	readBuffer uint8

	nextTileID     uint8
	nextTileAttrib uint8
	nextTileLSB    uint8
	nextTileMSB    uint8

	shiftPatternLo uint16
	shiftPatternHi uint16
	shiftAttribLo  uint16
	shiftAttribHi  uint16

	cycle, scanline int16

	FrameComplete bool
	NMI           bool

	Framebuffer [240][256]uint8
}

// New constructs a PPU parked at the start of the pre-render line. Call
// Attach before Tick to get meaningful output.
func New() *PPU {
	return &PPU{scanline: -1}
}

// Attach wires the PPU to a cartridge's CHR address space and the
// mirroring mode it reports.
func (p *PPU) Attach(cart CartBus, mirror Mirroring) {
	p.cart = cart
	p.mirror = mirror
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskRenderBG|maskRenderSPR) != 0
}

// nametableAddr resolves a 0x2000-0x2FFF logical address down to a
// (page, offset) pair according to the cartridge's mirroring mode.
func (p *PPU) nametableAddr(addr uint16) (page int, offset uint16) {
	addr &= 0x0FFF
	offset = addr & 0x03FF
	switch p.mirror {
	case Vertical:
		page = int((addr >> 10) & 1)
	case Horizontal:
		page = int((addr >> 11) & 1)
	case OneScreenHi:
		page = 1
	default: // Horizontal handled above; OneScreenLo and unknown default to page 0
		page = 0
	}
	return page, offset
}

// paletteAddr aliases the four background-transparent-color mirrors
// (0x10/0x14/0x18/0x1C) onto their backdrop entries (0x00/0x04/0x08/0x0C).
func paletteAddr(addr uint16) uint16 {
	addr &= 0x1F
	if addr&0x13 == 0x10 {
		addr &^= 0x10
	}
	return addr
}

// read performs the PPU's own bus read, used both for background
// fetches and for servicing PPUDATA.
func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil {
			if v, ok := p.cart.PPURead(addr); ok {
				return v
			}
		}
		return p.patternRAM[(addr>>12)&1][addr&0x0FFF]
	case addr < 0x3F00:
		page, off := p.nametableAddr(addr)
		return p.nametables[page][off]
	default:
		return p.palette[paletteAddr(addr)]
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.cart != nil && p.cart.PPUWrite(addr, val) {
			return
		}
		p.patternRAM[(addr>>12)&1][addr&0x0FFF] = val
	case addr < 0x3F00:
		page, off := p.nametableAddr(addr)
		p.nametables[page][off] = val
	default:
		p.palette[paletteAddr(addr)] = val
	}
}

// ReadReg services a CPU read of one of the 8 mirrored registers.
func (p *PPU) ReadReg(reg uint8) uint8 {
	switch reg % 8 {
	case RegSTATUS:
		v := p.status
		p.status &^= statusVBlank
		p.addrLatch = false
		return v
	case RegOAMDATA:
		return p.oam[p.oamAddr]
	case RegDATA:
		v := p.readBuffer
		p.readBuffer = p.read(p.v.data)
		if p.v.data >= 0x3F00 {
			v = p.readBuffer
		}
		p.incrementV()
		return v
	default:
		return 0
	}
}

// WriteReg services a CPU write of one of the 8 mirrored registers.
func (p *PPU) WriteReg(reg uint8, val uint8) {
	switch reg % 8 {
	case RegCTRL:
		p.ctrl = val
		nx, ny := uint16(0), uint16(0)
		if val&ctrlNametableX != 0 {
			nx = 1
		}
		if val&ctrlNametableY != 0 {
			ny = 1
		}
		p.t.setNametableX(nx)
		p.t.setNametableY(ny)
	case RegMASK:
		p.mask = val
	case RegOAMADDR:
		p.oamAddr = val
	case RegOAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case RegSCROLL:
		if !p.addrLatch {
			p.fineX = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
			p.addrLatch = true
		} else {
			p.t.setFineY(uint16(val) & 0x07)
			p.t.setCoarseY(uint16(val) >> 3)
			p.addrLatch = false
		}
	case RegADDR:
		if !p.addrLatch {
			p.t.data = (p.t.data & 0x00FF) | ((uint16(val) & 0x3F) << 8)
			p.addrLatch = true
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
			p.addrLatch = false
		}
	case RegDATA:
		p.write(p.v.data, val)
		p.incrementV()
	}
}

func (p *PPU) incrementV() {
	if p.ctrl&ctrlIncMode != 0 {
		p.v.data += 32
	} else {
		p.v.data += 1
	}
}

// Tick advances the PPU by exactly one dot.
func (p *PPU) Tick() {
	if p.scanline >= -1 && p.scanline < 240 {
		p.tickBackground()
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlEnableNMI != 0 {
			p.NMI = true
		}
	}

	if p.scanline >= 0 && p.scanline < 240 && p.cycle >= 1 && p.cycle <= 256 {
		p.renderPixel()
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.FrameComplete = true
		}
	}
}

func (p *PPU) tickBackground() {
	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= statusVBlank
	}

	inFetchWindow := (p.cycle >= 2 && p.cycle <= 257) || (p.cycle >= 321 && p.cycle <= 337)
	if inFetchWindow {
		if p.renderingEnabled() {
			p.shiftBackground()
		}

		switch (p.cycle - 1) % 8 {
		case 0:
			p.loadShifters()
			p.nextTileID = p.read(0x2000 | (p.v.data & 0x0FFF))
		case 2:
			addr := 0x23C0 | (p.v.nametableY() << 11) | (p.v.nametableX() << 10) |
				((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
			attrib := p.read(addr)
			if p.v.coarseY()&2 != 0 {
				attrib >>= 4
			}
			if p.v.coarseX()&2 != 0 {
				attrib >>= 2
			}
			p.nextTileAttrib = attrib & 0x03
		case 4:
			p.nextTileLSB = p.read(p.bgPatternBase() + uint16(p.nextTileID)<<4 + p.v.fineY())
		case 6:
			p.nextTileMSB = p.read(p.bgPatternBase() + uint16(p.nextTileID)<<4 + p.v.fineY() + 8)
		case 7:
			if p.renderingEnabled() {
				p.incrementCoarseX()
			}
		}
	}

	if p.cycle == 256 && p.renderingEnabled() {
		p.incrementY()
	}
	if p.cycle == 257 && p.renderingEnabled() {
		p.reloadHorizontal()
	}
	if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 && p.renderingEnabled() {
		p.reloadVertical()
	}
}

func (p *PPU) bgPatternBase() uint16 {
	if p.ctrl&ctrlPatternBG != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) incrementCoarseX() {
	if p.v.coarseX() == 31 {
		p.v.setCoarseX(0)
		p.v.toggleNametableX()
	} else {
		p.v.incrementCoarseX()
	}
}

func (p *PPU) incrementY() {
	if p.v.fineY() < 7 {
		p.v.incrementFineY()
		return
	}
	p.v.setFineY(0)
	switch p.v.coarseY() {
	case 29:
		p.v.setCoarseY(0)
		p.v.toggleNametableY()
	case 31:
		p.v.setCoarseY(0)
	default:
		p.v.incrementCoarseY()
	}
}

func (p *PPU) reloadHorizontal() {
	p.v.setCoarseX(p.t.coarseX())
	if p.v.nametableX() != p.t.nametableX() {
		p.v.toggleNametableX()
	}
}

func (p *PPU) reloadVertical() {
	p.v.setFineY(p.t.fineY())
	p.v.setCoarseY(p.t.coarseY())
	if p.v.nametableY() != p.t.nametableY() {
		p.v.toggleNametableY()
	}
}

func (p *PPU) loadShifters() {
	p.shiftPatternLo = (p.shiftPatternLo & 0xFF00) | uint16(p.nextTileLSB)
	p.shiftPatternHi = (p.shiftPatternHi & 0xFF00) | uint16(p.nextTileMSB)

	attribLo, attribHi := uint16(0), uint16(0)
	if p.nextTileAttrib&0x01 != 0 {
		attribLo = 0x00FF
	}
	if p.nextTileAttrib&0x02 != 0 {
		attribHi = 0x00FF
	}
	p.shiftAttribLo = (p.shiftAttribLo & 0xFF00) | attribLo
	p.shiftAttribHi = (p.shiftAttribHi & 0xFF00) | attribHi
}

func (p *PPU) renderPixel() {
	bit := uint16(0x8000) >> p.fineX

	pLo, pHi := uint8(0), uint8(0)
	if p.shiftPatternLo&bit != 0 {
		pLo = 1
	}
	if p.shiftPatternHi&bit != 0 {
		pHi = 1
	}
	pixel := (pHi << 1) | pLo

	aLo, aHi := uint8(0), uint8(0)
	if p.shiftAttribLo&bit != 0 {
		aLo = 1
	}
	if p.shiftAttribHi&bit != 0 {
		aHi = 1
	}
	palette := (aHi << 1) | aLo

	idx := p.read(0x3F00+uint16(palette)<<2+uint16(pixel)) & 0x3F

	x := p.cycle - 1
	if x >= 0 && x < 256 {
		p.Framebuffer[p.scanline][x] = idx
	}
}

// shiftBackground advances the pattern/attribute shift registers by one
// bit. It runs on every fetch-window dot, not just the 256 visible
// pixels, so the two tiles prefetched at the tail of one scanline
// (cycles 321-337) are already shifted into position by the time the
// next scanline's visible region starts composing pixels.
func (p *PPU) shiftBackground() {
	p.shiftPatternLo <<= 1
	p.shiftPatternHi <<= 1
	p.shiftAttribLo <<= 1
	p.shiftAttribHi <<= 1
}
