package mos6502

// addrMode names one of the 6502's addressing modes. The mode plus
// the opKind together select which tick<Mode>() stepper in
// addressing.go drives a given instruction.
type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// opKind is the shape of work an opcode performs once its operand
// address (if any) is resolved.
type opKind uint8

const (
	kindRead    opKind = iota // consumes a fetched byte, no bus write
	kindWrite                 // writes a register's value to memory
	kindRMW                   // read-modify-write: read, dummy write, final write
	kindImplied               // operates on registers only, no operand
	kindPush
	kindPull
	kindBranch
	kindJumpAbs
	kindJumpInd
	kindJSR
	kindRTS
	kindRTI
	kindBRK
)

// opcode is a single entry in the dispatch table: one per official
// 6502 encoding (a (mnemonic, addressing mode) pair).
type opcode struct {
	mnemonic string
	mode     addrMode
	cycles   uint8 // official base cycle count; informational, the steppers derive timing from mode and kind
	kind     opKind
	fn       opFunc
	cond     func(c *CPU) bool // only set for kindBranch
}

var opcodes = map[uint8]opcode{
	0x00: {"BRK", modeImplied, 7, kindBRK, nil, nil},
	0x01: {"ORA", modeIndirectX, 6, kindRead, opORA, nil},
	0x05: {"ORA", modeZeroPage, 3, kindRead, opORA, nil},
	0x06: {"ASL", modeZeroPage, 5, kindRMW, opASL, nil},
	0x08: {"PHP", modeImplied, 3, kindPush, opPHP, nil},
	0x09: {"ORA", modeImmediate, 2, kindRead, opORA, nil},
	0x0A: {"ASL", modeAccumulator, 2, kindRMW, opASL, nil},
	0x0D: {"ORA", modeAbsolute, 4, kindRead, opORA, nil},
	0x0E: {"ASL", modeAbsolute, 6, kindRMW, opASL, nil},
	0x10: {"BPL", modeRelative, 2, kindBranch, nil, condBPL},
	0x11: {"ORA", modeIndirectY, 5, kindRead, opORA, nil},
	0x15: {"ORA", modeZeroPageX, 4, kindRead, opORA, nil},
	0x16: {"ASL", modeZeroPageX, 6, kindRMW, opASL, nil},
	0x18: {"CLC", modeImplied, 2, kindImplied, opCLC, nil},
	0x19: {"ORA", modeAbsoluteY, 4, kindRead, opORA, nil},
	0x1D: {"ORA", modeAbsoluteX, 4, kindRead, opORA, nil},
	0x1E: {"ASL", modeAbsoluteX, 7, kindRMW, opASL, nil},

	0x20: {"JSR", modeAbsolute, 6, kindJSR, nil, nil},
	0x21: {"AND", modeIndirectX, 6, kindRead, opAND, nil},
	0x24: {"BIT", modeZeroPage, 3, kindRead, opBIT, nil},
	0x25: {"AND", modeZeroPage, 3, kindRead, opAND, nil},
	0x26: {"ROL", modeZeroPage, 5, kindRMW, opROL, nil},
	0x28: {"PLP", modeImplied, 4, kindPull, opPLP, nil},
	0x29: {"AND", modeImmediate, 2, kindRead, opAND, nil},
	0x2A: {"ROL", modeAccumulator, 2, kindRMW, opROL, nil},
	0x2C: {"BIT", modeAbsolute, 4, kindRead, opBIT, nil},
	0x2D: {"AND", modeAbsolute, 4, kindRead, opAND, nil},
	0x2E: {"ROL", modeAbsolute, 6, kindRMW, opROL, nil},
	0x30: {"BMI", modeRelative, 2, kindBranch, nil, condBMI},
	0x31: {"AND", modeIndirectY, 5, kindRead, opAND, nil},
	0x35: {"AND", modeZeroPageX, 4, kindRead, opAND, nil},
	0x36: {"ROL", modeZeroPageX, 6, kindRMW, opROL, nil},
	0x38: {"SEC", modeImplied, 2, kindImplied, opSEC, nil},
	0x39: {"AND", modeAbsoluteY, 4, kindRead, opAND, nil},
	0x3D: {"AND", modeAbsoluteX, 4, kindRead, opAND, nil},
	0x3E: {"ROL", modeAbsoluteX, 7, kindRMW, opROL, nil},

	0x40: {"RTI", modeImplied, 6, kindRTI, nil, nil},
	0x41: {"EOR", modeIndirectX, 6, kindRead, opEOR, nil},
	0x45: {"EOR", modeZeroPage, 3, kindRead, opEOR, nil},
	0x46: {"LSR", modeZeroPage, 5, kindRMW, opLSR, nil},
	0x48: {"PHA", modeImplied, 3, kindPush, opPHA, nil},
	0x49: {"EOR", modeImmediate, 2, kindRead, opEOR, nil},
	0x4A: {"LSR", modeAccumulator, 2, kindRMW, opLSR, nil},
	0x4C: {"JMP", modeAbsolute, 3, kindJumpAbs, nil, nil},
	0x4D: {"EOR", modeAbsolute, 4, kindRead, opEOR, nil},
	0x4E: {"LSR", modeAbsolute, 6, kindRMW, opLSR, nil},
	0x50: {"BVC", modeRelative, 2, kindBranch, nil, condBVC},
	0x51: {"EOR", modeIndirectY, 5, kindRead, opEOR, nil},
	0x55: {"EOR", modeZeroPageX, 4, kindRead, opEOR, nil},
	0x56: {"LSR", modeZeroPageX, 6, kindRMW, opLSR, nil},
	0x58: {"CLI", modeImplied, 2, kindImplied, opCLI, nil},
	0x59: {"EOR", modeAbsoluteY, 4, kindRead, opEOR, nil},
	0x5D: {"EOR", modeAbsoluteX, 4, kindRead, opEOR, nil},
	0x5E: {"LSR", modeAbsoluteX, 7, kindRMW, opLSR, nil},

	0x60: {"RTS", modeImplied, 6, kindRTS, nil, nil},
	0x61: {"ADC", modeIndirectX, 6, kindRead, opADC, nil},
	0x65: {"ADC", modeZeroPage, 3, kindRead, opADC, nil},
	0x66: {"ROR", modeZeroPage, 5, kindRMW, opROR, nil},
	0x68: {"PLA", modeImplied, 4, kindPull, opPLA, nil},
	0x69: {"ADC", modeImmediate, 2, kindRead, opADC, nil},
	0x6A: {"ROR", modeAccumulator, 2, kindRMW, opROR, nil},
	0x6C: {"JMP", modeIndirect, 5, kindJumpInd, nil, nil},
	0x6D: {"ADC", modeAbsolute, 4, kindRead, opADC, nil},
	0x6E: {"ROR", modeAbsolute, 6, kindRMW, opROR, nil},
	0x70: {"BVS", modeRelative, 2, kindBranch, nil, condBVS},
	0x71: {"ADC", modeIndirectY, 5, kindRead, opADC, nil},
	0x75: {"ADC", modeZeroPageX, 4, kindRead, opADC, nil},
	0x76: {"ROR", modeZeroPageX, 6, kindRMW, opROR, nil},
	0x78: {"SEI", modeImplied, 2, kindImplied, opSEI, nil},
	0x79: {"ADC", modeAbsoluteY, 4, kindRead, opADC, nil},
	0x7D: {"ADC", modeAbsoluteX, 4, kindRead, opADC, nil},
	0x7E: {"ROR", modeAbsoluteX, 7, kindRMW, opROR, nil},

	0x81: {"STA", modeIndirectX, 6, kindWrite, opSTA, nil},
	0x84: {"STY", modeZeroPage, 3, kindWrite, opSTY, nil},
	0x85: {"STA", modeZeroPage, 3, kindWrite, opSTA, nil},
	0x86: {"STX", modeZeroPage, 3, kindWrite, opSTX, nil},
	0x88: {"DEY", modeImplied, 2, kindImplied, opDEY, nil},
	0x8A: {"TXA", modeImplied, 2, kindImplied, opTXA, nil},
	0x8C: {"STY", modeAbsolute, 4, kindWrite, opSTY, nil},
	0x8D: {"STA", modeAbsolute, 4, kindWrite, opSTA, nil},
	0x8E: {"STX", modeAbsolute, 4, kindWrite, opSTX, nil},
	0x90: {"BCC", modeRelative, 2, kindBranch, nil, condBCC},
	0x91: {"STA", modeIndirectY, 6, kindWrite, opSTA, nil},
	0x94: {"STY", modeZeroPageX, 4, kindWrite, opSTY, nil},
	0x95: {"STA", modeZeroPageX, 4, kindWrite, opSTA, nil},
	0x96: {"STX", modeZeroPageY, 4, kindWrite, opSTX, nil},
	0x98: {"TYA", modeImplied, 2, kindImplied, opTYA, nil},
	0x99: {"STA", modeAbsoluteY, 5, kindWrite, opSTA, nil},
	0x9A: {"TXS", modeImplied, 2, kindImplied, opTXS, nil},
	0x9D: {"STA", modeAbsoluteX, 5, kindWrite, opSTA, nil},

	0xA0: {"LDY", modeImmediate, 2, kindRead, opLDY, nil},
	0xA1: {"LDA", modeIndirectX, 6, kindRead, opLDA, nil},
	0xA2: {"LDX", modeImmediate, 2, kindRead, opLDX, nil},
	0xA4: {"LDY", modeZeroPage, 3, kindRead, opLDY, nil},
	0xA5: {"LDA", modeZeroPage, 3, kindRead, opLDA, nil},
	0xA6: {"LDX", modeZeroPage, 3, kindRead, opLDX, nil},
	0xA8: {"TAY", modeImplied, 2, kindImplied, opTAY, nil},
	0xA9: {"LDA", modeImmediate, 2, kindRead, opLDA, nil},
	0xAA: {"TAX", modeImplied, 2, kindImplied, opTAX, nil},
	0xAC: {"LDY", modeAbsolute, 4, kindRead, opLDY, nil},
	0xAD: {"LDA", modeAbsolute, 4, kindRead, opLDA, nil},
	0xAE: {"LDX", modeAbsolute, 4, kindRead, opLDX, nil},
	0xB0: {"BCS", modeRelative, 2, kindBranch, nil, condBCS},
	0xB1: {"LDA", modeIndirectY, 5, kindRead, opLDA, nil},
	0xB4: {"LDY", modeZeroPageX, 4, kindRead, opLDY, nil},
	0xB5: {"LDA", modeZeroPageX, 4, kindRead, opLDA, nil},
	0xB6: {"LDX", modeZeroPageY, 4, kindRead, opLDX, nil},
	0xB8: {"CLV", modeImplied, 2, kindImplied, opCLV, nil},
	0xB9: {"LDA", modeAbsoluteY, 4, kindRead, opLDA, nil},
	0xBA: {"TSX", modeImplied, 2, kindImplied, opTSX, nil},
	0xBC: {"LDY", modeAbsoluteX, 4, kindRead, opLDY, nil},
	0xBD: {"LDA", modeAbsoluteX, 4, kindRead, opLDA, nil},
	0xBE: {"LDX", modeAbsoluteY, 4, kindRead, opLDX, nil},

	0xC0: {"CPY", modeImmediate, 2, kindRead, opCPY, nil},
	0xC1: {"CMP", modeIndirectX, 6, kindRead, opCMP, nil},
	0xC4: {"CPY", modeZeroPage, 3, kindRead, opCPY, nil},
	0xC5: {"CMP", modeZeroPage, 3, kindRead, opCMP, nil},
	0xC6: {"DEC", modeZeroPage, 5, kindRMW, opDEC, nil},
	0xC8: {"INY", modeImplied, 2, kindImplied, opINY, nil},
	0xC9: {"CMP", modeImmediate, 2, kindRead, opCMP, nil},
	0xCA: {"DEX", modeImplied, 2, kindImplied, opDEX, nil},
	0xCC: {"CPY", modeAbsolute, 4, kindRead, opCPY, nil},
	0xCD: {"CMP", modeAbsolute, 4, kindRead, opCMP, nil},
	0xCE: {"DEC", modeAbsolute, 6, kindRMW, opDEC, nil},
	0xD0: {"BNE", modeRelative, 2, kindBranch, nil, condBNE},
	0xD1: {"CMP", modeIndirectY, 5, kindRead, opCMP, nil},
	0xD5: {"CMP", modeZeroPageX, 4, kindRead, opCMP, nil},
	0xD6: {"DEC", modeZeroPageX, 6, kindRMW, opDEC, nil},
	0xD8: {"CLD", modeImplied, 2, kindImplied, opCLD, nil},
	0xD9: {"CMP", modeAbsoluteY, 4, kindRead, opCMP, nil},
	0xDD: {"CMP", modeAbsoluteX, 4, kindRead, opCMP, nil},
	0xDE: {"DEC", modeAbsoluteX, 7, kindRMW, opDEC, nil},

	0xE0: {"CPX", modeImmediate, 2, kindRead, opCPX, nil},
	0xE1: {"SBC", modeIndirectX, 6, kindRead, opSBC, nil},
	0xE4: {"CPX", modeZeroPage, 3, kindRead, opCPX, nil},
	0xE5: {"SBC", modeZeroPage, 3, kindRead, opSBC, nil},
	0xE6: {"INC", modeZeroPage, 5, kindRMW, opINC, nil},
	0xE8: {"INX", modeImplied, 2, kindImplied, opINX, nil},
	0xE9: {"SBC", modeImmediate, 2, kindRead, opSBC, nil},
	0xEA: {"NOP", modeImplied, 2, kindImplied, opNOP, nil},
	0xEC: {"CPX", modeAbsolute, 4, kindRead, opCPX, nil},
	0xED: {"SBC", modeAbsolute, 4, kindRead, opSBC, nil},
	0xEE: {"INC", modeAbsolute, 6, kindRMW, opINC, nil},
	0xF0: {"BEQ", modeRelative, 2, kindBranch, nil, condBEQ},
	0xF1: {"SBC", modeIndirectY, 5, kindRead, opSBC, nil},
	0xF5: {"SBC", modeZeroPageX, 4, kindRead, opSBC, nil},
	0xF6: {"INC", modeZeroPageX, 6, kindRMW, opINC, nil},
	0xF8: {"SED", modeImplied, 2, kindImplied, opSED, nil},
	0xF9: {"SBC", modeAbsoluteY, 4, kindRead, opSBC, nil},
	0xFD: {"SBC", modeAbsoluteX, 4, kindRead, opSBC, nil},
	0xFE: {"INC", modeAbsoluteX, 7, kindRMW, opINC, nil},
}
