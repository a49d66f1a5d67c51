package mos6502

// runAddressingStep advances the current opcode's execution by one
// tick. It returns true when the instruction has fully retired (the
// caller then transitions back to Fetch). Dispatch is keyed first on
// opKind for the control-flow instructions (JMP/JSR/RTS/RTI/BRK,
// branches, push/pull), which don't share the generic
// read/write/read-modify-write addressing shape; everything else
// dispatches on addressing mode.
func (c *CPU) runAddressingStep() bool {
	switch c.op.kind {
	case kindJumpAbs:
		return c.tickJumpAbs()
	case kindJumpInd:
		return c.tickJumpInd()
	case kindJSR:
		return c.tickJSR()
	case kindRTS:
		return c.tickRTS()
	case kindRTI:
		return c.tickRTI()
	case kindBRK:
		return c.tickBRK()
	case kindImplied:
		return c.tickImplied()
	case kindPush:
		return c.tickPush()
	case kindPull:
		return c.tickPull()
	case kindBranch:
		return c.tickRelative()
	}

	switch c.op.mode {
	case modeAccumulator:
		return c.tickAccumulator()
	case modeImmediate:
		return c.tickImmediate()
	case modeZeroPage:
		return c.tickZeroPage()
	case modeZeroPageX:
		return c.tickZeroPageIndexed(c.X)
	case modeZeroPageY:
		return c.tickZeroPageIndexed(c.Y)
	case modeAbsolute:
		return c.tickAbsolute()
	case modeAbsoluteX:
		return c.tickAbsoluteIndexed(c.X)
	case modeAbsoluteY:
		return c.tickAbsoluteIndexed(c.Y)
	case modeIndirectX:
		return c.tickIndirectX()
	case modeIndirectY:
		return c.tickIndirectY()
	}
	return true
}

func (c *CPU) tickImplied() bool {
	c.op.fn(c, 0)
	return true
}

func (c *CPU) tickAccumulator() bool {
	c.A = c.op.fn(c, c.A)
	return true
}

func (c *CPU) tickImmediate() bool {
	v := c.read(c.PC)
	c.PC++
	c.op.fn(c, v)
	return true
}

// finishAt dispatches the generic read/write/RMW tail once effAddr is
// fully resolved, returning true only once the instruction retires.
func (c *CPU) finishAt(step uint8) bool {
	switch c.op.kind {
	case kindRead:
		v := c.read(c.effAddr)
		c.op.fn(c, v)
		return true
	case kindWrite:
		v := c.op.fn(c, 0)
		c.write(c.effAddr, v)
		return true
	case kindRMW:
		switch step {
		case 0:
			c.rmwOld = c.read(c.effAddr)
			return false
		case 1:
			c.write(c.effAddr, c.rmwOld)
			return false
		default:
			nv := c.op.fn(c, c.rmwOld)
			c.write(c.effAddr, nv)
			return true
		}
	}
	return true
}

func (c *CPU) tickZeroPage() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		c.effAddr = uint16(c.lo)
		return false
	default:
		return c.finishAt(c.step - 1)
	}
}

func (c *CPU) tickZeroPageIndexed(idx uint8) bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.read(uint16(c.lo)) // dummy read before the index is added
		c.lo += idx
		c.effAddr = uint16(c.lo)
		return false
	default:
		return c.finishAt(c.step - 2)
	}
}

func (c *CPU) tickAbsolute() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.hi = c.read(c.PC)
		c.PC++
		c.effAddr = uint16(c.hi)<<8 | uint16(c.lo)
		return false
	default:
		return c.finishAt(c.step - 2)
	}
}

// tickAbsoluteIndexed implements Absolute,X/Y. Reads early-out once
// the uncrossed case is confirmed; writes and read-modify-write
// always pay the extra cycle, per spec §4.3's reads-only carve-out.
func (c *CPU) tickAbsoluteIndexed(idx uint8) bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.hi = c.read(c.PC)
		c.PC++
		sum := uint16(c.lo) + uint16(idx)
		c.crossed = sum > 0xFF
		c.lo = uint8(sum)
		c.effAddr = uint16(c.hi)<<8 | uint16(c.lo)
		return false
	case 2:
		if c.op.kind == kindRead {
			v := c.read(c.effAddr)
			if !c.crossed {
				c.op.fn(c, v)
				return true
			}
			return false
		}
		// Write/RMW: dummy read at the maybe-wrong address, always
		// discarded, then fix the high byte if the index carried;
		// the cycle is spent either way.
		c.read(c.effAddr)
		if c.crossed {
			c.effAddr += 0x100
		}
		return false
	case 3:
		if c.op.kind == kindRead {
			c.effAddr += 0x100
			v := c.read(c.effAddr)
			c.op.fn(c, v)
			return true
		}
		return c.finishAt(0)
	default:
		return c.finishAt(c.step - 3)
	}
}

func (c *CPU) tickIndirectX() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.read(uint16(c.lo)) // dummy read at the unindexed pointer
		c.lo += c.X
		return false
	case 2:
		c.hi = c.read(uint16(c.lo))
		return false
	case 3:
		hi := c.read(uint16(c.lo + 1))
		c.effAddr = uint16(hi)<<8 | uint16(c.hi)
		return false
	default:
		return c.finishAt(c.step - 4)
	}
}

func (c *CPU) tickIndirectY() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.hi = c.read(uint16(c.lo))
		return false
	case 2:
		hi2 := c.read(uint16(c.lo + 1))
		sum := uint16(c.hi) + uint16(c.Y)
		c.crossed = sum > 0xFF
		c.effAddr = uint16(hi2)<<8 | uint16(uint8(sum))
		return false
	case 3:
		if c.op.kind == kindRead {
			v := c.read(c.effAddr)
			if !c.crossed {
				c.op.fn(c, v)
				return true
			}
			return false
		}
		c.read(c.effAddr)
		if c.crossed {
			c.effAddr += 0x100
		}
		return false
	case 4:
		if c.op.kind == kindRead {
			c.effAddr += 0x100
			v := c.read(c.effAddr)
			c.op.fn(c, v)
			return true
		}
		return c.finishAt(0)
	default:
		return c.finishAt(c.step - 4)
	}
}

func (c *CPU) tickRelative() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		if !c.op.cond(c) {
			return true
		}
		return false
	case 1:
		oldHigh := c.PC & 0xFF00
		target := c.PC + uint16(int16(int8(c.lo)))
		if target&0xFF00 != oldHigh {
			c.effAddr = target
			c.PC = oldHigh | (target & 0xFF)
			return false
		}
		c.PC = target
		return true
	default:
		c.PC = c.effAddr
		return true
	}
}

func (c *CPU) tickJumpAbs() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	default:
		c.hi = c.read(c.PC)
		c.PC++
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		return true
	}
}

// tickJumpInd reproduces the page-wrap bug mandated by the spec: if
// the pointer's low byte is 0xFF, the high byte is fetched from
// offset 0x00 of the same page rather than the next page.
func (c *CPU) tickJumpInd() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.hi = c.read(c.PC)
		c.PC++
		c.effAddr = uint16(c.hi)<<8 | uint16(c.lo)
		return false
	case 2:
		c.lo = c.read(c.effAddr)
		return false
	default:
		hiAddr := c.effAddr + 1
		if c.effAddr&0x00FF == 0x00FF {
			hiAddr = c.effAddr &^ 0x00FF
		}
		c.hi = c.read(hiAddr)
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		return true
	}
}

// tickJSR pushes the address of JSR's third (high) byte, not the
// address of the following instruction; RTS adds 1 back on return.
func (c *CPU) tickJSR() bool {
	switch c.step {
	case 0:
		c.lo = c.read(c.PC)
		c.PC++
		return false
	case 1:
		return false // internal cycle
	case 2:
		c.push(uint8(c.PC >> 8))
		return false
	case 3:
		c.push(uint8(c.PC & 0xFF))
		return false
	default:
		c.hi = c.read(c.PC)
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		return true
	}
}

func (c *CPU) tickRTS() bool {
	switch c.step {
	case 0, 1:
		return false // internal cycles
	case 2:
		c.lo = c.pull()
		return false
	case 3:
		c.hi = c.pull()
		return false
	default:
		c.PC = (uint16(c.hi)<<8 | uint16(c.lo)) + 1
		return true
	}
}

func (c *CPU) tickRTI() bool {
	switch c.step {
	case 0, 1:
		return false
	case 2:
		c.P = (c.pull() &^ FlagBreak) | flagUnused
		return false
	case 3:
		c.lo = c.pull()
		return false
	default:
		c.hi = c.pull()
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		return true
	}
}

// tickBRK is the synchronous software-interrupt form: the byte after
// the opcode is fetched and discarded (the conventional BRK "signature
// byte"), then PC/P are pushed as in a hardware interrupt, with the
// break flag set in the pushed copy.
func (c *CPU) tickBRK() bool {
	switch c.step {
	case 0:
		c.read(c.PC)
		c.PC++
		return false
	case 1:
		c.push(uint8(c.PC >> 8))
		return false
	case 2:
		c.push(uint8(c.PC & 0xFF))
		return false
	case 3:
		c.push(c.P | flagUnused | FlagBreak)
		c.setFlag(FlagInterrupt, true)
		return false
	case 4:
		c.lo = c.read(vecBRK)
		return false
	default:
		c.hi = c.read(vecBRK + 1)
		c.PC = uint16(c.hi)<<8 | uint16(c.lo)
		return true
	}
}

func (c *CPU) tickPush() bool {
	switch c.step {
	case 0:
		return false // internal cycle
	default:
		v := c.op.fn(c, 0)
		c.push(v)
		return true
	}
}

func (c *CPU) tickPull() bool {
	switch c.step {
	case 0, 1:
		return false // internal cycles
	default:
		v := c.pull()
		c.op.fn(c, v)
		return true
	}
}
