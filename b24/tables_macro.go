package b24

// macroTable holds the small number of default macros ARIB TR-B14 defines
// for GX[3]'s default "Macro" designation. Each entry is a fragment of
// caption-statement bytes that invoking the macro code through the Macro
// codeset replays through the interpreter as though it had appeared
// inline, letting broadcasters
// reset to a well-known writing format with a single byte instead of a
// full CSI sequence. Only the handful of macros actually observed in the
// wild (profile-default writing format resets) are populated; an
// unrecognized macro code is logged at verbose and skipped (spec §7.2).
var macroTable = map[byte][]byte{
	// Macro A: reset to the Profile A default writing format (SWF 7,
	// 960x540 plane/area, default char size/spacing) then clear styles.
	0x60: {
		0x9B, '7', 0x20, 'S', // CSI SWF 7
	},
	// Macro B: select palette 0 and reset the text color to white.
	0x61: {
		0x90, 0x20, 0x00, // COL: select palette 0
		0x90, 0x4F, // COL: fg = white (index 7)
	},
}

func lookupMacro(code byte) ([]byte, bool) {
	body, ok := macroTable[code]
	return body, ok
}
