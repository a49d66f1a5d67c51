// Package bus wires the CPU, PPU, work RAM, and cartridge together
// into a runnable NES system clock.
package bus

import (
	"context"
	"fmt"

	"github.com/bdwalton/gonestep/cartridge"
	"github.com/bdwalton/gonestep/mos6502"
	"github.com/bdwalton/gonestep/ppu"
)

const (
	wramSize   = 0x0800 // 2KiB built-in work RAM
	wramMask   = 0x07FF
	ppuRegMask = 0x2007 // PPU registers mirrored every 8 bytes through 0x3FFF
	oamDMA     = 0x4014
)

// Bus is the NES system bus/clock: it owns work RAM, ticks the CPU and
// PPU at their 1:3 ratio, routes CPU reads/writes to the right device,
// and delivers the PPU's NMI edge to the CPU.
type Bus struct {
	cpu *mos6502.CPU
	ppu *ppu.PPU
	cart *cartridge.Cartridge
	ram  [wramSize]uint8
	ticks uint64

	// Diagnostics counts CPU accesses in the cartridge window
	// (0x4020-0xFFFF) that the attached cartridge does not resolve:
	// addresses its mapper does not claim as well as out-of-range
	// mapper indices. They are counted rather than panicked on, per
	// the core's no-panics-after-construction policy.
	Diagnostics uint64
}

// New constructs a Bus with no cartridge attached. Attach a cartridge
// before Run/Tick to get meaningful behavior.
func New() *Bus {
	b := &Bus{ppu: ppu.New()}
	b.cpu = mos6502.New(b)
	return b
}

// Attach loads a cartridge onto the bus and wires it into the PPU's
// CHR address space, then resets the CPU so it begins its power-on
// sequence against the new cartridge's reset vector.
func (b *Bus) Attach(cart *cartridge.Cartridge) {
	b.cart = cart
	b.ppu.Attach(cart, ppu.Mirroring(cart.Mirroring))
	b.cpu.Reset()
}

// Reset re-enters the CPU's reset sequence without reloading the
// cartridge.
func (b *Bus) Reset() {
	b.cpu.Reset()
}

// CPU exposes the wired CPU for inspection/debugging front ends.
func (b *Bus) CPU() *mos6502.CPU { return b.cpu }

// PPU exposes the wired PPU for inspection/debugging front ends.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Read implements mos6502.Bus: the CPU's view of the 16-bit address
// space. https://www.nesdev.org/wiki/CPU_memory_map
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		return b.ram[addr&wramMask]
	case addr <= 0x3FFF:
		return b.ppu.ReadReg(uint8(addr & ppuRegMask))
	case addr < 0x4020:
		return 0 // APU/controller registers: not implemented
	default:
		if b.cart == nil {
			return 0
		}
		if v, ok := b.cart.CPURead(addr); ok {
			return v
		}
		b.Diagnostics++
		return 0
	}
}

// Write implements mos6502.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		b.ram[addr&wramMask] = val
	case addr <= 0x3FFF:
		b.ppu.WriteReg(uint8(addr&ppuRegMask), val)
	case addr == oamDMA:
		base := uint16(val) << 8
		for a := base; a < base+256; a++ {
			b.ppu.WriteReg(ppu.RegOAMDATA, b.Read(a))
		}
	case addr < 0x4020:
		// remaining APU/controller registers: not implemented
	default:
		if b.cart != nil && !b.cart.CPUWrite(addr, val) {
			b.Diagnostics++
		}
	}
}

// Tick advances the system by one PPU dot, ticking the CPU every third
// dot (the NES's 3:1 PPU:CPU clock ratio) and delivering the PPU's NMI
// edge to the CPU at the boundary.
func (b *Bus) Tick() {
	b.ppu.Tick()
	if b.ppu.NMI {
		b.ppu.NMI = false
		b.cpu.RaiseNMI()
	}
	if b.ticks%3 == 0 {
		b.cpu.Tick()
	}
	b.ticks++
}

// Run drives Tick in a loop until ctx is canceled.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.Tick()
		}
	}
}

// Step ticks the bus until the CPU has retired exactly one
// instruction, for single-step debugging front ends.
func (b *Bus) Step() {
	b.Tick()
	for b.cpu.AtInstructionBoundary() {
		b.Tick()
	}
	for !b.cpu.AtInstructionBoundary() {
		b.Tick()
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("ticks=%d cpu={%s} diagnostics=%d", b.ticks, b.cpu, b.Diagnostics)
}
