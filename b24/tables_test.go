package b24

import "testing"

func TestLookupKanji(t *testing.T) {
	if r, ok := lookupKanji(0x21, 0x21); !ok || r != 0x3000 {
		t.Errorf("lookupKanji(0x21,0x21) = %U, want IDEOGRAPHIC SPACE", r)
	}
	if r, ok := lookupKanji(0x35, 0x4A); !ok || r != 0x6674 {
		t.Errorf("lookupKanji(0x35,0x4A) = %U, want 晴", r)
	}
	// Row 3 is fullwidth ASCII, offset +0xFEE0.
	if r, ok := lookupKanji(0x23, 0x41); !ok || r != rune(0x41)+0xFEE0 {
		t.Errorf("lookupKanji(0x23,0x41) = %U, want fullwidth A", r)
	}
	if _, ok := lookupKanji(0x7F, 0x7F); ok {
		t.Error("expected an unassigned cell to report not found")
	}
}

func TestLookupKanji_DuplicatesKanaRows(t *testing.T) {
	// Row 4/5 duplicate the G2/G3 hiragana/katakana tables through the
	// 2-byte Kanji set.
	want, _ := hiraganaTable[0x21]
	if r, ok := lookupKanji(0x24, 0x21); !ok || r != want {
		t.Errorf("lookupKanji(0x24,0x21) = %U, want hiragana duplicate %U", r, want)
	}
}

func TestLookupAdditionalSymbol(t *testing.T) {
	if r, ok := lookupAdditionalSymbol(0x7A, 0x21); !ok || r != '♪' {
		t.Errorf("lookupAdditionalSymbol(0x7A,0x21) = %q, want eighth note", r)
	}
	if _, ok := lookupAdditionalSymbol(0x00, 0x00); ok {
		t.Error("expected an unassigned symbol cell to report not found")
	}
}

func TestLookupMacro(t *testing.T) {
	body, ok := lookupMacro(0x60)
	if !ok || len(body) == 0 {
		t.Fatal("expected macro 0x60 to be defined")
	}
	if body[0] != 0x9B {
		t.Errorf("macro 0x60 body[0] = 0x%02X, want CSI lead 0x9B", body[0])
	}
	if _, ok := lookupMacro(0xFF); ok {
		t.Error("expected an unassigned macro code to report not found")
	}
}

func TestPaletteColor(t *testing.T) {
	if got := paletteColor(0, 1); got != RGBA(0xFF, 0x00, 0x00, 0xFF) {
		t.Errorf("paletteColor(0,1) = %v, want red", got)
	}
	if got := paletteColor(0, 8); got != half(RGBA(0x00, 0x00, 0x00, 0xFF)) {
		t.Errorf("paletteColor(0,8) = %v, want half-bright black", got)
	}
	// Palette 1 only overrides indices 0 and 7.
	if got := paletteColor(1, 1); got != RGBA(0xFF, 0x00, 0x00, 0xFF) {
		t.Errorf("paletteColor(1,1) = %v, want plain red (unmodified by palette 1)", got)
	}
	if got := paletteColor(1, 0); got != RGBA(0x20, 0x20, 0x20, 0xFF) {
		t.Errorf("paletteColor(1,0) = %v, want palette 1's dark gray override", got)
	}
	// Unknown palette falls back to palette 0.
	if got := paletteColor(9, 1); got != RGBA(0xFF, 0x00, 0x00, 0xFF) {
		t.Errorf("paletteColor(9,1) = %v, want palette 0 fallback", got)
	}
	// Index is masked to 4 bits.
	if got := paletteColor(0, 0x11); got != paletteColor(0, 1) {
		t.Error("expected color index to be masked to its low 4 bits")
	}
}
