package b24

import "fmt"

// handleC1 implements spec §4.2's C1 control set (0x80-0x9F): character
// color/size, styling toggles, macro/repeat control, CSI, and TIME.
func (d *Decoder) handleC1(data []byte, output OutputFunc) (int, error) {
	b := data[0]
	switch {
	case b >= 0x80 && b <= 0x87: // BKF..WHF: text color from the current palette
		d.state.textColor = paletteColor(d.state.palette, uint8(b-0x80))
		return 1, nil
	}

	switch b {
	case 0x88: // SSZ
		d.state.size = CharSizeSmall
		return 1, nil
	case 0x89: // MSZ
		d.state.size = CharSizeMedium
		return 1, nil
	case 0x8A: // NSZ
		d.state.size = CharSizeNormal
		return 1, nil
	case 0x8B: // SZX, +1 param
		if len(data) < 2 {
			return 1, fmt.Errorf("SZX missing parameter: %w", ErrMalformedPacket)
		}
		d.applySZX(data[1])
		return 2, nil
	case 0x90: // COL, +1 or +2 params
		return d.handleCOL(data)
	case 0x91: // FLC, +1 param
		if len(data) < 2 {
			return 1, fmt.Errorf("FLC missing parameter: %w", ErrMalformedPacket)
		}
		d.state.flashing = data[1] != 0x4F
		return 2, nil
	case 0x92: // CDC, +1 param, concealment not modeled
		if len(data) < 2 {
			return 1, fmt.Errorf("CDC missing parameter: %w", ErrMalformedPacket)
		}
		return 2, nil
	case 0x93: // POL, +1 param, normal/invert
		if len(data) < 2 {
			return 1, fmt.Errorf("POL missing parameter: %w", ErrMalformedPacket)
		}
		if data[1] == 0x41 {
			d.state.textColor, d.state.backColor = d.state.backColor, d.state.textColor
		}
		return 2, nil
	case 0x94: // WMM, +1 param, writing mode not modeled beyond acceptance
		if len(data) < 2 {
			return 1, fmt.Errorf("WMM missing parameter: %w", ErrMalformedPacket)
		}
		return 2, nil
	case 0x95: // MACRO definition block; inline macro redefinition unsupported
		if len(data) < 2 {
			return 1, fmt.Errorf("MACRO missing parameter: %w", ErrMalformedPacket)
		}
		d.logger.Log(LogLevelVerbose, "b24: inline MACRO definition accepted, not applied")
		return 2, nil
	case 0x97: // HLC, +1 param, maps directly onto EnclosureStyle
		if len(data) < 2 {
			return 1, fmt.Errorf("HLC missing parameter: %w", ErrMalformedPacket)
		}
		d.state.enclosure = EnclosureStyle(data[1] & 0x0F)
		return 2, nil
	case 0x98: // RPC, +1 param
		if len(data) < 2 {
			return 1, fmt.Errorf("RPC missing parameter: %w", ErrMalformedPacket)
		}
		n := int(data[1] & 0x3F)
		if n == 0 {
			d.state.repeatUntilEOL = true
		} else {
			d.state.repeatCount = n
		}
		return 2, nil
	case 0x99: // SPL: stop lining
		d.state.hasUnderline = false
		d.state.hasStroke = false
		return 1, nil
	case 0x9A: // STL: start lining
		d.state.hasUnderline = true
		return 1, nil
	case 0x9B: // CSI
		n, err := d.handleCSI(data[1:])
		return 1 + n, err
	case 0x9D: // TIME
		return d.handleTIME(data)
	default:
		return 1, nil
	}
}

func (d *Decoder) applySZX(param byte) {
	switch param {
	case 0x60:
		d.state.size = CharSizeSmall
		d.state.charHorizontalScale = 1.0
		d.state.charVerticalScale = 1.0
	case 0x41: // double height
		d.state.size = CharSizeNormal
		d.state.charHorizontalScale = 1.0
		d.state.charVerticalScale = 2.0
	case 0x44: // double width
		d.state.size = CharSizeNormal
		d.state.charHorizontalScale = 2.0
		d.state.charVerticalScale = 1.0
	case 0x45: // double height and width
		d.state.size = CharSizeNormal
		d.state.charHorizontalScale = 2.0
		d.state.charVerticalScale = 2.0
	default:
		d.state.size = CharSizeNormal
		d.state.charHorizontalScale = 1.0
		d.state.charVerticalScale = 1.0
	}
}

// handleCOL implements the COL (0x90) control code: P1 == 0x20 selects a
// palette (+1 more byte); P1 in 0x40..0x47 picks a background color from
// the active palette; P1 in 0x48..0x4F picks a foreground color.
func (d *Decoder) handleCOL(data []byte) (int, error) {
	if len(data) < 2 {
		return 1, fmt.Errorf("COL missing parameter: %w", ErrMalformedPacket)
	}
	p1 := data[1]
	switch {
	case p1 == 0x20:
		if len(data) < 3 {
			return 2, fmt.Errorf("COL palette select missing parameter: %w", ErrMalformedPacket)
		}
		d.state.palette = data[2] & 0x0F
		return 3, nil
	case p1 >= 0x40 && p1 <= 0x47:
		d.state.backColor = paletteColor(d.state.palette, p1-0x40)
	case p1 >= 0x48 && p1 <= 0x4F:
		d.state.textColor = paletteColor(d.state.palette, p1-0x48)
	default:
		d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown COL parameter 0x%02X", p1))
	}
	return 2, nil
}

// handleTIME implements the TIME (0x9D) control code. P1 == 0x20 and
// P1 == 0x28 both set the caption duration from the low 6 bits of P2, in
// units of 100ms. P1 == 0x29 is accepted as a documented no-op.
func (d *Decoder) handleTIME(data []byte) (int, error) {
	if len(data) < 2 {
		return 1, fmt.Errorf("TIME missing parameter: %w", ErrMalformedPacket)
	}
	p1 := data[1]
	switch p1 {
	case 0x20, 0x28:
		if len(data) < 3 {
			return 2, fmt.Errorf("TIME missing duration byte: %w", ErrMalformedPacket)
		}
		d.duration = int64(data[2]&0x3F) * 100
		return 3, nil
	case 0x29:
		d.logger.Log(LogLevelVerbose, "b24: TIME control 0x29 accepted as no-op")
		return 2, nil
	default:
		d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown TIME subfunction 0x%02X", p1))
		return 2, nil
	}
}

// handleCSI implements spec §4.2's CSI (0x9B) sequences: decimal,
// semicolon-separated parameters terminated by a space and a one-byte
// function selector. Final bytes are the ARIB code points:
//
//	0x53 SWF  set writing format (plane geometry)      P1=swf
//	0x56 SDF  set display format (area size, dots)      P1=width P2=height
//	0x5F SDP  set display position (area origin, dots)  P1=x P2=y
//	0x57 SSM  set character size (dots)                 P1=width P2=height
//	0x58 SHS  set horizontal spacing (dots)              P1
//	0x59 SVS  set vertical spacing (dots)                P1
//	0x5D PLD  partial line down (ruby toggle)
//	0x5E PLU  partial line up (ruby toggle)
//	0x61 GSM  set glyph scale, percent                   P1=horiz P2=vert
//	0x6B RCS  raster colour select (background)          P1=color index
//	0x6E SCS  reserved, accepted and ignored
func (d *Decoder) handleCSI(data []byte) (int, error) {
	idx := 0
	var params []int
	cur := -1

	for idx < len(data) {
		b := data[idx]
		switch {
		case b >= 0x30 && b <= 0x39:
			if cur < 0 {
				cur = 0
			}
			cur = cur*10 + int(b-0x30)
			idx++
		case b == 0x3B:
			if cur < 0 {
				cur = 0
			}
			params = append(params, cur)
			cur = -1
			idx++
		case b == 0x20:
			idx++
			if idx >= len(data) {
				return idx, fmt.Errorf("CSI sequence missing final byte: %w", ErrMalformedPacket)
			}
			fn := data[idx]
			idx++
			if cur >= 0 {
				params = append(params, cur)
			}
			d.applyCSI(fn, params)
			return idx, nil
		default:
			return idx, fmt.Errorf("unexpected byte 0x%02X in CSI sequence: %w", b, ErrMalformedPacket)
		}
	}
	return idx, fmt.Errorf("CSI sequence truncated: %w", ErrMalformedPacket)
}

func (d *Decoder) applyCSI(fn byte, params []int) {
	p1, p2 := 0, 0
	if len(params) > 0 {
		p1 = params[0]
	}
	if len(params) > 1 {
		p2 = params[1]
	}

	switch fn {
	case 0x53: // SWF
		d.state.reset(uint8(p1))
	case 0x56: // SDF
		d.state.areaWidth = p1
		d.state.areaHeight = p2
	case 0x5F: // SDP
		d.state.areaStartX = p1
		d.state.areaStartY = p2
		d.state.activePosInited = false
	case 0x57: // SSM
		d.state.charWidth = p1
		d.state.charHeight = p2
	case 0x58: // SHS
		d.state.charHorizontalSpacing = p1
	case 0x59: // SVS
		d.state.charVerticalSpacing = p1
	case 0x5D, 0x5E: // PLD, PLU
		d.state.rubyMode = !d.state.rubyMode
	case 0x61: // GSM
		if p1 > 0 {
			d.state.charHorizontalScale = float64(p1) / 100.0
		}
		if p2 > 0 {
			d.state.charVerticalScale = float64(p2) / 100.0
		}
	case 0x6B: // RCS
		d.state.backColor = paletteColor(d.state.palette, uint8(p1))
	case 0x6E: // SCS, reserved, no-op
	default:
		d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown CSI final byte 0x%02X skipped", fn))
	}
}
