package mappers

import "testing"

func TestNROMCPURead(t *testing.T) {
	cases := []struct {
		prgBanks uint8
		addr     uint16
		wantIdx  int
		wantOK   bool
	}{
		{1, 0x7FFF, 0, false},
		{1, 0x8000, 0x0000, true},
		{1, 0xC000, 0x0000, true}, // mirrored into the single 16KB bank
		{1, 0xFFFF, 0x3FFF, true},
		{2, 0x8000, 0x0000, true},
		{2, 0xC000, 0x4000, true},
		{2, 0xFFFF, 0x7FFF, true},
	}

	for i, tc := range cases {
		m := newNROM(tc.prgBanks, 1)
		idx, ok := m.CPURead(tc.addr)
		if ok != tc.wantOK || (ok && idx != tc.wantIdx) {
			t.Errorf("%d: CPURead(%04x) with %d banks = (%d, %v), want (%d, %v)", i, tc.addr, tc.prgBanks, idx, ok, tc.wantIdx, tc.wantOK)
		}
	}
}

func TestNROMPPU(t *testing.T) {
	romBacked := newNROM(1, 1)
	if _, ok := romBacked.PPUWrite(0x0010); ok {
		t.Errorf("PPUWrite should not resolve against CHR-ROM")
	}
	if idx, ok := romBacked.PPURead(0x0010); !ok || idx != 0x0010 {
		t.Errorf("PPURead(0x0010) = (%d, %v), want (16, true)", idx, ok)
	}

	ramBacked := newNROM(1, 0)
	if idx, ok := ramBacked.PPUWrite(0x1FFF); !ok || idx != 0x1FFF {
		t.Errorf("PPUWrite(0x1FFF) with CHR-RAM = (%d, %v), want (0x1FFF, true)", idx, ok)
	}
	if _, ok := ramBacked.PPUWrite(0x2000); ok {
		t.Errorf("PPUWrite(0x2000) should be out of pattern table range")
	}
}

func TestUnsupportedMapper(t *testing.T) {
	if _, err := Get(4, 1, 1); err == nil {
		t.Errorf("Get(4, ...) should fail: mapper 4 is not implemented")
	}
}
