package mappers

func init() {
	RegisterMapper(0, newNROM)
}

// nrom implements mapper 0, the direct PRG/CHR translation used by
// the majority of early NES cartridges.
type nrom struct {
	prgBanks, chrBanks uint8
}

func newNROM(prgBanks, chrBanks uint8) Mapper {
	return &nrom{prgBanks: prgBanks, chrBanks: chrBanks}
}

func (m *nrom) ID() uint16     { return 0 }
func (m *nrom) Name() string   { return "NROM" }
func (m *nrom) PrgBanks() uint8 { return m.prgBanks }
func (m *nrom) ChrBanks() uint8 { return m.chrBanks }

// prgMask is 0x3FFF for a single 16KB PRG bank (mirrored across both
// halves of 0x8000-0xFFFF) or 0x7FFF for two or more banks.
func (m *nrom) prgMask() uint16 {
	if m.prgBanks > 1 {
		return 0x7FFF
	}
	return 0x3FFF
}

func (m *nrom) CPURead(addr uint16) (int, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	return int(addr & m.prgMask()), true
}

// CPUWrite returns the same index as CPURead. NROM PRG is physically
// ROM, but the reference policy here is to let the write land in the
// backing array anyway (see cartridge.go), since test programs may
// rely on mutability when the cartridge is in fact CHR-RAM-backed
// homebrew.
func (m *nrom) CPUWrite(addr uint16) (int, bool) {
	return m.CPURead(addr)
}

func (m *nrom) PPURead(addr uint16) (int, bool) {
	if addr > 0x1FFF {
		return 0, false
	}
	return int(addr), true
}

// PPUWrite only resolves when the cartridge has CHR-RAM (chrBanks ==
// 0); with CHR-ROM, writes are not the mapper's to honor and the PPU
// falls back to its own internal pattern pages.
func (m *nrom) PPUWrite(addr uint16) (int, bool) {
	if m.chrBanks != 0 {
		return 0, false
	}
	return m.PPURead(addr)
}
