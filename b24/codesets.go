package b24

// CodesetId identifies which static (or DRCS) table a GX slot designates.
type CodesetId int

const (
	CodesetKanji CodesetId = iota
	CodesetAlphanumeric
	CodesetHiragana
	CodesetKatakana
	CodesetJISX0201Katakana
	CodesetAdditionalSymbols
	CodesetMacro
	CodesetDRCS
	CodesetUnknown
)

// CodesetEntry describes what a GX[0..3] slot currently designates: which
// table to consult, how many bytes make up one character code, and (for
// DRCS) which of the 16 DRCS slots it addresses.
type CodesetEntry struct {
	ID           CodesetId
	BytesPerChar int
	DRCSSlot     int // valid when ID == CodesetDRCS, 0..15
}

// Default designations for GX[0..3], per decoder_impl.hpp: G0=Kanji,
// G1=Alphanumeric, G2=Hiragana, G3=Macro.
var (
	kanjiEntry            = CodesetEntry{ID: CodesetKanji, BytesPerChar: 2}
	alphanumericEntry     = CodesetEntry{ID: CodesetAlphanumeric, BytesPerChar: 1}
	hiraganaEntry         = CodesetEntry{ID: CodesetHiragana, BytesPerChar: 1}
	katakanaEntry         = CodesetEntry{ID: CodesetKatakana, BytesPerChar: 1}
	jisx0201KatakanaEntry = CodesetEntry{ID: CodesetJISX0201Katakana, BytesPerChar: 1}
	additionalSymbolEntry = CodesetEntry{ID: CodesetAdditionalSymbols, BytesPerChar: 2}
	macroEntry            = CodesetEntry{ID: CodesetMacro, BytesPerChar: 1}
)

func drcsEntry(slot int, bytesPerChar int) CodesetEntry {
	return CodesetEntry{ID: CodesetDRCS, BytesPerChar: bytesPerChar, DRCSSlot: slot}
}

// designateByFinalByte1Byte maps an ESC 1-byte-designation final byte
// (0x28/0x29/0x2A/0x2B Fn) to a CodesetEntry, for 1-byte character sets.
func designateByFinalByte1Byte(fn byte) (CodesetEntry, bool) {
	switch fn {
	case 0x4A: // Alphanumeric (ASCII w/ yen/overline swap)
		return alphanumericEntry, true
	case 0x30: // Hiragana
		return hiraganaEntry, true
	case 0x31: // Katakana
		return katakanaEntry, true
	case 0x20: // JIS X 0201 Katakana (half-width)
		return jisx0201KatakanaEntry, true
	case 0x36: // Additional symbols (single-byte proportional... treated as 1-byte here for the mosaic-like sets)
		return CodesetEntry{ID: CodesetAdditionalSymbols, BytesPerChar: 1}, true
	default:
		return CodesetEntry{}, false
	}
}

// designateByFinalByte2Byte maps an ESC 2-byte-designation final byte
// (0x24 Fn, or 0x24 0x28/29/2A/2B Fn) to a CodesetEntry.
func designateByFinalByte2Byte(fn byte) (CodesetEntry, bool) {
	switch fn {
	case 0x42: // Kanji (JIS X 0208)
		return kanjiEntry, true
	case 0x39: // "Additional symbols" 2-byte set
		return additionalSymbolEntry, true
	default:
		return CodesetEntry{}, false
	}
}

// designateDRCS maps an ESC DRCS designation final byte Fn to a DRCS
// CodesetEntry: Fn=0x40 is the 2-byte DRCS-0 set, Fn=0x41..0x4F are the
// 1-byte DRCS-1..DRCS-15 sets.
func designateDRCS(fn byte) (CodesetEntry, bool) {
	switch {
	case fn == 0x40:
		return drcsEntry(0, 2), true
	case fn >= 0x41 && fn <= 0x4F:
		return drcsEntry(int(fn-0x41+1), 1), true
	default:
		return CodesetEntry{}, false
	}
}
