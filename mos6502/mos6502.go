// Package mos6502 implements a cycle-stepped interpreter for the MOS
// Technology 6502 as wired into the NES (no decimal mode).
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
	"strings"
)

// 6502 interrupt vectors.
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vecNMI   = 0xFFFA
	vecReset = 0xFFFC
	vecIRQ   = 0xFFFE
	vecBRK   = vecIRQ
)

// Processor status flags.
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry      uint8 = 1 << 0 // C
	FlagZero       uint8 = 1 << 1 // Z
	FlagInterrupt  uint8 = 1 << 2 // I
	FlagDecimal    uint8 = 1 << 3 // D
	FlagBreak      uint8 = 1 << 4 // B
	flagUnused     uint8 = 1 << 5 // always 1 on the stack
	FlagOverflow   uint8 = 1 << 6 // V
	FlagNegative   uint8 = 1 << 7 // N
)

const stackPage = 0x0100

// ReadWrite identifies the direction of a bus transaction.
type ReadWrite uint8

const (
	Read ReadWrite = iota
	Write
)

// Pins is the CPU's bus transaction record: set before a tick resolves
// and, for reads, holding the fetched byte afterward.
type Pins struct {
	Address uint16
	Data    uint8
	RW      ReadWrite
}

// Bus is the memory interface the CPU ticks against. The system bus
// implements this, routing through work RAM, PPU registers and the
// cartridge.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// state is the CPU's top-level execution state.
type state uint8

const (
	stateReset state = iota
	stateFetch
	stateExecute
	stateInterrupt
	stateHalted
)

// CPU is a cycle-by-cycle 6502 interpreter. One Tick() call advances
// the CPU by exactly one clock and performs at most one bus
// transaction.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	P       uint8
	PC      uint16

	Pins Pins

	bus   Bus
	state state
	step  uint8 // micro-op index within the current state

	op       opcode
	opByte   uint8
	effAddr  uint16
	lo, hi   uint8
	rmwOld   uint8
	crossed  bool
	isBRK    bool
	intVec   uint16

	pendingNMI bool
	pendingIRQ bool

	// InvalidOpcodes counts encounters with an opcode byte not in
	// the official 6502 set. StrictMode, if set, halts the CPU on
	// the first such encounter instead of treating it as a NOP.
	InvalidOpcodes uint64
	StrictMode     bool
}

// New constructs a CPU wired to bus, ready to begin its power-on reset
// sequence on the next Tick.
func New(bus Bus) *CPU {
	return &CPU{
		bus:   bus,
		state: stateReset,
		SP:    0xFF,
	}
}

// Reset re-enters the 7-cycle reset sequence on the next ticks. PRG
// and CHR contents are untouched; only CPU-internal state resets.
func (c *CPU) Reset() {
	c.state = stateReset
	c.step = 0
}

// RaiseNMI latches a non-maskable interrupt request. NMI is always
// taken at the next instruction boundary regardless of the I flag.
func (c *CPU) RaiseNMI() {
	c.pendingNMI = true
}

// RaiseIRQ latches a maskable interrupt request. It is only taken at
// the next instruction boundary if the I flag is clear.
func (c *CPU) RaiseIRQ() {
	c.pendingIRQ = true
}

// Halted reports whether the CPU has entered its terminal Halted
// state (StrictMode invalid-opcode trap).
func (c *CPU) Halted() bool {
	return c.state == stateHalted
}

// AtInstructionBoundary reports whether the CPU is about to fetch a
// new opcode - useful for driving the CPU one instruction at a time
// from outside the per-tick bus loop.
func (c *CPU) AtInstructionBoundary() bool {
	return c.state == stateFetch && c.step == 0
}

func (c *CPU) read(addr uint16) uint8 {
	c.Pins.Address = addr
	c.Pins.RW = Read
	c.Pins.Data = c.bus.Read(addr)
	return c.Pins.Data
}

func (c *CPU) write(addr uint16, val uint8) {
	c.Pins.Address = addr
	c.Pins.Data = val
	c.Pins.RW = Write
	c.bus.Write(addr, val)
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool {
	return c.P&mask != 0
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

func (c *CPU) stackAddr() uint16 {
	return stackPage | uint16(c.SP)
}

func (c *CPU) push(v uint8) {
	c.write(c.stackAddr(), v)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.read(c.stackAddr())
}

func (c *CPU) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%s", c.A, c.X, c.Y, c.SP, c.PC, c.statusString())
}

func (c *CPU) statusString() string {
	var sb strings.Builder
	for _, f := range []struct {
		mask uint8
		ch   byte
	}{
		{FlagNegative, 'N'}, {FlagOverflow, 'V'}, {flagUnused, '-'}, {FlagBreak, 'B'},
		{FlagDecimal, 'D'}, {FlagInterrupt, 'I'}, {FlagZero, 'Z'}, {FlagCarry, 'C'},
	} {
		if c.P&f.mask != 0 {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Tick advances the CPU by exactly one clock cycle.
func (c *CPU) Tick() {
	switch c.state {
	case stateReset:
		c.tickReset()
	case stateFetch:
		c.tickFetch()
	case stateExecute:
		c.tickExecute()
	case stateInterrupt:
		c.tickInterrupt()
	case stateHalted:
		// terminal; no activity.
	}
}

func (c *CPU) tickReset() {
	switch c.step {
	case 0:
		c.lo = c.read(vecReset)
	case 1:
		c.hi = c.read(vecReset + 1)
	case 2:
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
	case 3, 4, 5:
		// Real hardware spends these decrementing the stack
		// pointer while reading (and discarding) the current
		// stack slot - the classic 3 dummy reads.
		c.read(c.stackAddr())
		c.SP--
	case 6:
		// Spec-mandated post-reset register values: SP=0xFF, P=0,
		// A=X=Y=0. The three dummy stack reads above still walk
		// SP down through 0xFF/0xFE/0xFD on the bus for trace
		// purposes; SP is reasserted to 0xFF here regardless.
		c.SP = 0xFF
		c.P = 0
		c.A, c.X, c.Y = 0, 0, 0
		c.finishInstruction()
		return
	}
	c.step++
}

func (c *CPU) tickFetch() {
	// The opcode read and its decode happen within this single
	// tick, so an instruction's total cycle count is this tick plus
	// the ticks its execute steps take.
	b := c.read(c.PC)
	c.PC++

	op, ok := opcodes[b]
	if !ok {
		c.InvalidOpcodes++
		if c.StrictMode {
			c.state = stateHalted
			return
		}
		op = opcode{mnemonic: "NOP", mode: modeImplied, cycles: 2, kind: kindImplied, fn: opNOP}
	}

	c.op = op
	c.opByte = b
	c.step = 0
	c.state = stateExecute
}

func (c *CPU) tickExecute() {
	done := c.runAddressingStep()
	if done {
		c.finishInstruction()
		return
	}
	c.step++
}

// finishInstruction returns the CPU to Fetch, checking for a pending
// interrupt at this instruction boundary.
func (c *CPU) finishInstruction() {
	c.state = stateFetch
	c.step = 0

	if c.pendingNMI {
		c.pendingNMI = false
		c.enterInterrupt(vecNMI, false)
		return
	}
	if c.pendingIRQ && !c.flag(FlagInterrupt) {
		c.pendingIRQ = false
		c.enterInterrupt(vecIRQ, false)
		return
	}
}

func (c *CPU) enterInterrupt(vec uint16, brk bool) {
	c.state = stateInterrupt
	c.step = 0
	c.intVec = vec
	c.isBRK = brk
}

func (c *CPU) tickInterrupt() {
	switch c.step {
	case 0, 1:
		// internal cycles; on real hardware these coincide with
		// fetching (and discarding) the byte after the
		// triggering instruction.
	case 2:
		c.push(uint8(c.PC >> 8))
	case 3:
		c.push(uint8(c.PC & 0xFF))
	case 4:
		b := c.P | flagUnused
		if c.isBRK {
			b |= FlagBreak
		}
		c.push(b)
		c.setFlag(FlagInterrupt, true)
	case 5:
		c.lo = c.read(c.intVec)
	case 6:
		c.hi = c.read(c.intVec + 1)
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		c.finishInstruction()
		return
	}
	c.step++
}
