package b24

// basicColors are the eight base colors. BKF..WHF (C1 0x80..0x87) select
// entries 0..7 of the currently selected palette, which in palette 0 are
// exactly these colors.
var basicColors = [8]RGBAColor{
	RGBA(0x00, 0x00, 0x00, 0xFF), // BKF black
	RGBA(0xFF, 0x00, 0x00, 0xFF), // RDF red
	RGBA(0x00, 0xFF, 0x00, 0xFF), // GRF green
	RGBA(0xFF, 0xFF, 0x00, 0xFF), // YLF yellow
	RGBA(0x00, 0x00, 0xFF, 0xFF), // BLF blue
	RGBA(0xFF, 0x00, 0xFF, 0xFF), // MGF magenta
	RGBA(0x00, 0xFF, 0xFF, 0xFF), // CNF cyan
	RGBA(0xFF, 0xFF, 0xFF, 0xFF), // WHF white
}

func half(c RGBAColor) RGBAColor {
	return RGBA(c.R()/2, c.G()/2, c.B()/2, c.A())
}

// palette0 is the default 16-entry CLUT: the 8 basic colors followed by
// their half-brightness variants, addressed by COL's 4-bit color index.
var palette0 = func() [16]RGBAColor {
	var p [16]RGBAColor
	for i, c := range basicColors {
		p[i] = c
		p[i+8] = half(c)
	}
	return p
}()

// palette1 is an alternate broadcaster-selectable palette (a common
// pastel variant), selected via COL 0x20 <index>.
var palette1 = func() [16]RGBAColor {
	p := palette0
	p[0] = RGBA(0x20, 0x20, 0x20, 0xFF)
	p[7] = RGBA(0xF0, 0xF0, 0xE0, 0xFF)
	return p
}()

var palettes = map[uint8][16]RGBAColor{
	0: palette0,
	1: palette1,
}

// paletteColor resolves a (palette, 4-bit color index) pair to a color,
// falling back to palette 0 for an unrecognized palette selection.
func paletteColor(palette uint8, index uint8) RGBAColor {
	p, ok := palettes[palette]
	if !ok {
		p = palette0
	}
	return p[index&0x0F]
}
