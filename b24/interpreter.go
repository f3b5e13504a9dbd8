package b24

import "fmt"

// parseStatementBody implements spec §4.2: the byte-stream interpreter.
// It walks the statement payload with a position cursor, classifying each
// lead byte into C0/GL/C1/GR/DEL/ignored and dispatching accordingly,
// driving writing-format state and emitting characters as it goes. Parse
// errors are logged and skipped rather than aborting the whole payload
// (spec §7 items 2 and 4).
func (d *Decoder) parseStatementBody(data []byte, output OutputFunc, superimposed bool) error {
	d.superimposed = superimposed

	idx := 0
	for idx < len(data) {
		b := data[idx]
		var consumed int
		var err error

		switch {
		case b <= 0x20:
			consumed, err = d.handleC0(data[idx:], output)
		case b <= 0x7E:
			consumed, err = d.handleGLGR(data[idx:], false, output)
		case b == 0x7F:
			consumed = 1 // DEL, ignored
		case b <= 0xA0:
			consumed, err = d.handleC1(data[idx:], output)
		case b <= 0xFE:
			consumed, err = d.handleGLGR(data[idx:], true, output)
		default:
			consumed = 1 // 0xFF, ignored
		}

		if err != nil {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: %v at byte offset %d", err, idx))
		}
		if consumed <= 0 {
			consumed = 1
		}
		idx += consumed
	}

	if d.state.singleShift >= 0 {
		d.logger.Log(LogLevelVerbose, "b24: single shift at end of statement body has no character to act on")
	}
	if d.hasCaptionContent() {
		d.finalizeCaption(output)
	}
	return nil
}

// runBytes replays a byte sequence (a macro body) through the same
// dispatch loop as parseStatementBody, without the empty-packet finalize
// at the end - a macro is a fragment, not a complete statement.
func (d *Decoder) runBytes(data []byte, output OutputFunc) {
	idx := 0
	for idx < len(data) {
		b := data[idx]
		var consumed int
		var err error
		switch {
		case b <= 0x20:
			consumed, err = d.handleC0(data[idx:], output)
		case b <= 0x7E:
			consumed, err = d.handleGLGR(data[idx:], false, output)
		case b == 0x7F:
			consumed = 1
		case b <= 0xA0:
			consumed, err = d.handleC1(data[idx:], output)
		case b <= 0xFE:
			consumed, err = d.handleGLGR(data[idx:], true, output)
		default:
			consumed = 1
		}
		if err != nil {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: macro replay: %v", err))
		}
		if consumed <= 0 {
			consumed = 1
		}
		idx += consumed
	}
}

func (d *Decoder) handleC0(data []byte, output OutputFunc) (int, error) {
	b := data[0]
	switch b {
	case 0x00: // NUL
		return 1, nil
	case 0x07: // BEL
		d.state.hasBuiltinSound = true
		return 1, nil
	case 0x08: // APB backspace
		d.moveRelativeActivePos(-1, 0)
		return 1, nil
	case 0x09: // APF forward
		d.moveRelativeActivePos(1, 0)
		return 1, nil
	case 0x0A: // APD down
		d.moveRelativeActivePos(0, 1)
		return 1, nil
	case 0x0B: // APU up
		d.moveRelativeActivePos(0, -1)
		return 1, nil
	case 0x0C: // CS clear screen
		d.handleClearScreen(output)
		return 1, nil
	case 0x0D: // APR carriage return + line feed
		d.moveActivePosToNewline()
		return 1, nil
	case 0x0E: // LS1
		d.state.gl = 1
		return 1, nil
	case 0x0F: // LS0
		d.state.gl = 0
		return 1, nil
	case 0x16: // PAPF, +1 param byte
		if len(data) < 2 {
			return 1, fmt.Errorf("PAPF missing parameter byte: %w", ErrMalformedPacket)
		}
		n := int(data[1] & 0x3F)
		d.moveRelativeActivePos(n, 0)
		return 2, nil
	case 0x18: // CAN: cancel current line's background
		d.state.backColor = paletteColor(d.state.palette, 0)
		return 1, nil
	case 0x19: // SS2, shift GX[2] for one char
		d.state.singleShift = 2
		return 1, nil
	case 0x1B: // ESC
		n, err := d.handleESC(data[1:])
		return 1 + n, err
	case 0x1C: // APS, +2 params: row then column, in character cells
		if len(data) < 3 {
			return 1, fmt.Errorf("APS missing parameter bytes: %w", ErrMalformedPacket)
		}
		row := int(data[1]) - 0x40
		col := int(data[2]) - 0x40
		d.setAbsoluteActivePos(col, row)
		return 3, nil
	case 0x1D: // SS3, shift GX[3] for one char
		d.state.singleShift = 3
		return 1, nil
	case 0x1E: // RS: record separator, resets state
		d.resetInternalState()
		return 1, nil
	case 0x1F: // US: unit separator, shouldn't appear mid-statement
		return 1, nil
	default:
		return 1, nil
	}
}

// handleESC implements spec §4.2 "ESC (0x1B)". Returns the number of
// bytes consumed AFTER the ESC byte itself.
func (d *Decoder) handleESC(data []byte) (int, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("ESC with no following byte: %w", ErrMalformedPacket)
	}
	b0 := data[0]

	switch b0 {
	case 0x6E: // LS2
		d.state.gl = 2
		return 1, nil
	case 0x6F: // LS3
		d.state.gl = 3
		return 1, nil
	case 0x7C: // LS1R
		d.state.gr = 1
		return 1, nil
	case 0x7D: // LS2R
		d.state.gr = 2
		return 1, nil
	case 0x7E: // LS3R
		d.state.gr = 3
		return 1, nil
	case 0x24: // 2-byte designation: 0x24 Fn | 0x24 0x28-2B [0x20] Fn
		n, err := d.handleESC24(data[1:])
		return 1 + n, err
	case 0x28, 0x29, 0x2A, 0x2B: // 1-byte designation to GX[0..3]
		slot := int(b0 - 0x28)
		if len(data) < 2 {
			return 1, fmt.Errorf("ESC 1-byte designation missing final byte: %w", ErrMalformedPacket)
		}
		fn := data[1]
		if entry, ok := designateByFinalByte1Byte(fn); ok {
			d.state.gx[slot] = entry
		} else {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown 1-byte designation final 0x%02X", fn))
		}
		return 2, nil
	default:
		// Unknown ESC sequence: consume just the one byte we looked at,
		// per spec §4.2 "Unknown finals → consume & ignore".
		return 1, nil
	}
}

// handleESC24 covers the 0x24-prefixed forms: plain 2-byte designation to
// G0, 2-byte designation to G1..G3, and DRCS designation.
func (d *Decoder) handleESC24(data []byte) (int, error) {
	if len(data) < 1 {
		return 1, fmt.Errorf("ESC 0x24 missing following byte: %w", ErrMalformedPacket)
	}
	b0 := data[0]

	switch b0 {
	case 0x28, 0x29, 0x2A, 0x2B:
		slot := int(b0 - 0x28)
		if len(data) < 2 {
			return 1, fmt.Errorf("ESC 0x24 2-byte designation missing final byte: %w", ErrMalformedPacket)
		}
		fn := data[1]
		if fn == 0x20 {
			// DRCS designation: ESC 0x24 0x28..2B 0x20 Fn
			if len(data) < 3 {
				return 2, fmt.Errorf("ESC 0x24 DRCS designation missing final byte: %w", ErrMalformedPacket)
			}
			drcsFn := data[2]
			if entry, ok := designateDRCS(drcsFn); ok {
				d.state.gx[slot] = entry
			} else {
				d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown DRCS designation final 0x%02X", drcsFn))
			}
			return 3, nil
		}
		if entry, ok := designateByFinalByte2Byte(fn); ok {
			d.state.gx[slot] = entry
		} else {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown 2-byte designation final 0x%02X", fn))
		}
		return 2, nil
	default:
		// ESC 0x24 Fn: 2-byte codeset designated directly to G0.
		if entry, ok := designateByFinalByte2Byte(b0); ok {
			d.state.gx[0] = entry
		} else {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown 2-byte G0 designation final 0x%02X", b0))
		}
		return 1, nil
	}
}

// handleGLGR implements spec §4.2 "GL/GR invocation".
func (d *Decoder) handleGLGR(data []byte, isGR bool, output OutputFunc) (int, error) {
	slot := d.state.gl
	switch {
	case d.state.singleShift >= 0:
		slot = d.state.singleShift
	case isGR:
		slot = d.state.gr
	}
	entry := d.state.gx[slot]
	bytesPerChar := entry.BytesPerChar
	if bytesPerChar < 1 {
		bytesPerChar = 1
	}

	if len(data) < bytesPerChar {
		d.state.consumeSingleShift()
		return len(data), fmt.Errorf("GL/GR invocation truncated: %w", ErrMalformedPacket)
	}

	b0 := data[0] & 0x7F
	var b1 byte
	if bytesPerChar == 2 {
		b1 = data[1] & 0x7F
	}

	d.invokeCodeset(entry, slot, b0, b1, bytesPerChar == 2, output)
	d.state.consumeSingleShift()
	return bytesPerChar, nil
}

func (d *Decoder) invokeCodeset(entry CodesetEntry, slot int, b0, b1 byte, twoByte bool, output OutputFunc) {
	switch entry.ID {
	case CodesetAlphanumeric:
		r, ok := lookupAlphanumeric(b0)
		d.emitLookup(slot, r, ok)
	case CodesetHiragana:
		r, ok := lookupHiragana(b0)
		d.emitLookup(slot, r, ok)
	case CodesetKatakana:
		r, ok := lookupKatakana(b0)
		d.emitLookup(slot, r, ok)
	case CodesetJISX0201Katakana:
		r, ok := lookupJISX0201Katakana(b0)
		d.emitLookup(slot, r, ok)
	case CodesetKanji:
		r, ok := lookupKanji(b0, b1)
		d.emitLookup(slot, r, ok)
	case CodesetAdditionalSymbols:
		r, ok := lookupAdditionalSymbol(b0, b1)
		d.emitLookup(slot, r, ok)
	case CodesetMacro:
		if body, ok := lookupMacro(b0); ok {
			d.runBytes(body, output)
		} else {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown macro code 0x%02X", b0))
		}
	case CodesetDRCS:
		code := uint16(b0)
		if twoByte {
			code = uint16(b0)<<8 | uint16(b1)
		}
		d.invokeDRCS(slot, entry.DRCSSlot, code)
	default:
		d.emitLookup(slot, 0xFFFD, true)
	}
}

func (d *Decoder) emitLookup(slot int, r rune, ok bool) {
	if !ok {
		d.logger.Log(LogLevelVerbose, "b24: codeset invocation out of range, emitting replacement glyph")
		r = 0xFFFD
	}
	d.pushCharacter(slot, []rune{r})
}

func (d *Decoder) invokeDRCS(slot, drcsSlot int, code uint16) {
	if _, ok := d.drcs.get(drcsSlot, code); !ok {
		d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: no DRCS glyph for slot %d code 0x%04X", drcsSlot, code))
		d.pushCharacter(slot, []rune{0xFFFD})
		return
	}
	d.pushDRCSCharacter(slot, code)
}
