package b24

// lookupAlphanumeric maps one GL/GR Alphanumeric byte (JIS X 0201 Roman,
// masked into 0x21..0x7E) to Unicode. It is ASCII except for two
// positions the Roman variant repurposes.
func lookupAlphanumeric(code byte) (rune, bool) {
	if code < 0x21 || code > 0x7E {
		return 0, false
	}
	switch code {
	case 0x5C:
		return '¥', true // YEN SIGN
	case 0x7E:
		return '‾', true // OVERLINE
	default:
		return rune(code), true
	}
}
