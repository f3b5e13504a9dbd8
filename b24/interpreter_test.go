package b24_test

import (
	"testing"

	"github.com/ariblive/captionb24/b24"
	"github.com/stretchr/testify/assert"
)

// csiSequence builds a CSI control sequence: lead 0x9B, decimal params
// separated by ';', a space, then the final byte.
func csiSequence(fn byte, params ...int) []byte {
	buf := []byte{0x9B}
	for i, p := range params {
		if i > 0 {
			buf = append(buf, ';')
		}
		buf = append(buf, []byte(itoa(p))...)
	}
	buf = append(buf, 0x20, fn)
	return buf
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// TestCSI_SWF9_SetsPlaneGeometry exercises spec §8 seed scenario 3.
func TestCSI_SWF9_SetsPlaneGeometry(t *testing.T) {
	d := newReadyDecoder(nil)

	body := append(csiSequence(0x53, 9), 0xC1) // CSI SWF 9, then 'A' via GR
	units := buildDataUnit(0x20, body)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	_, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, 1280, got[0].PlaneWidth)
		assert.Equal(t, 720, got[0].PlaneHeight)
	}
}

// TestCSI_NoParams_UsesDefaults covers the boundary case "CSI sequence
// with no parameters and only a final byte -> command executed with
// defaults".
func TestCSI_NoParams_UsesDefaults(t *testing.T) {
	d := newReadyDecoder(nil)

	body := append([]byte{0x9B, 0x20, 'S'}, 0xC1) // CSI SWF with no params
	units := buildDataUnit(0x20, body)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	_, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		// SWF with P1 defaulting to 0 is not a known geometry, so reset
		// falls back to the default SWF (7) per writingFormat.reset.
		assert.Equal(t, 960, got[0].PlaneWidth)
		assert.Equal(t, 540, got[0].PlaneHeight)
	}
}

// TestCOL_PaletteSelectThenBackgroundColor exercises spec §8 seed
// scenario 4.
func TestCOL_PaletteSelectThenBackgroundColor(t *testing.T) {
	d := newReadyDecoder(nil)

	body := []byte{0x90, 0x20, 0x01, 0x90, 0x41, 0xC1} // COL select palette 1, COL bg=index1, 'A'
	units := buildDataUnit(0x20, body)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	_, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	if assert.Len(t, got, 1) && assert.Len(t, got[0].Regions, 1) && assert.Len(t, got[0].Regions[0].Chars, 1) {
		// palette 1 only overrides indices 0 and 7 from the basic colors,
		// so index 1 is still plain red.
		assert.Equal(t, b24.RGBA(0xFF, 0x00, 0x00, 0xFF), got[0].Regions[0].Chars[0].BackColor)
	}
}

// TestRPC_ZeroRepeatsToEndOfLine covers the boundary case "RPC 0 followed
// by a character positioned via APS at column 10 (char-width offset, per
// spec §8 seed scenario 5's addressing) in a 1600dp-wide area -> emits
// enough copies at the normal section pitch to reach the right edge".
func TestRPC_ZeroRepeatsToEndOfLine(t *testing.T) {
	d := newReadyDecoder(nil)

	body := csiSequence(0x56, 1600, 1080) // SDF: area 1600x1080dp
	body = append(body, 0x1C, byte(0x40+0), byte(0x40+10))
	body = append(body, 0x98, 0x00) // RPC 0
	body = append(body, 0xC1)       // 'A'
	units := buildDataUnit(0x20, body)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	_, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	if assert.Len(t, got, 1) && assert.Len(t, got[0].Regions, 1) {
		// activePosX = col*charWidth = 10*36 = 360; remaining width =
		// 1600-360 = 1240; at section pitch 40dp that's 31 copies.
		assert.Len(t, got[0].Regions[0].Chars, 31)
	}
}

// TestDRCSAndAPS exercises spec §8 seed scenario 5: a registered DRCS
// glyph invoked after an absolute position move.
func TestDRCSAndAPS(t *testing.T) {
	d := newReadyDecoder(nil)

	drcsUnit := buildDataUnit(0x30, []byte{
		0x01,       // numberOfCode
		0x01, 0x41, // characterCode: slot 1, low byte 0x41
		0x01,             // numberOfFont
		0x00, 0x02, 1, 1, // fontId/mode, depth=2, width=1, height=1
		0x01, // one payload byte: bpp(depth=2)->2 bits/px, 1x1 => 1 byte
	})
	// CSI SWF 10 first: its 1920x1080 area keeps row 0x10 (612 dots down)
	// inside the display area, which the default 960x540 area would wrap.
	designate := []byte{0x1B, 0x24, 0x29, 0x20, 0x41} // ESC 0x24 0x29 0x20 0x41: DRCS-1 to G1
	body := append(csiSequence(0x53, 10), designate...)
	body = append(body, 0x0E) // LS1
	body = append(body, 0x1C, byte(0x40+0x10), byte(0x40+0x08))
	body = append(body, 0x41) // invoke DRCS code 0x41 via G1 (1-byte)

	units := append(drcsUnit, buildDataUnit(0x20, body)...)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	_, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	if assert.Len(t, got, 1) && assert.Len(t, got[0].Regions, 1) && assert.Len(t, got[0].Regions[0].Chars, 1) {
		region := got[0].Regions[0]
		// row=0x10, col=0x08, char 36x36: origin (col*36, row*36+36).
		assert.Equal(t, 8*36, region.OriginX)
		assert.Equal(t, 16*36+36, region.OriginY)
		ch := region.Chars[0]
		assert.Equal(t, b24.CharKindDRCS, ch.Content.Kind)
		assert.EqualValues(t, 0x41, ch.Content.DRCSId)
	}
}

// TestClearScreenMidStream exercises spec §8 seed scenario 6.
func TestClearScreenMidStream(t *testing.T) {
	d := newReadyDecoder(nil)

	// "A" and its clear arrive in the same PES packet, stamped pts=1000;
	// "B" arrives in a later packet stamped pts=2000.
	unitsAThenClear := buildDataUnit(0x20, []byte{0xC1, 0x0C}) // "A" then CS
	pktA := buildPacket(0x80, 1, buildStatementData(unitsAThenClear))

	var got []b24.Caption
	_, err := d.Decode(pktA, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)

	unitsB := buildDataUnit(0x20, []byte{0xC2}) // "B"
	pktB := buildPacket(0x80, 1, buildStatementData(unitsB))
	_, err = d.Decode(pktB, 2000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)

	if assert.Len(t, got, 3) {
		assert.Equal(t, b24.CaptionText, got[0].Type)
		assert.EqualValues(t, 1000, got[0].PTS)

		assert.Equal(t, b24.ClearScreen, got[1].Type)
		assert.EqualValues(t, 1000, got[1].PTS)

		assert.Equal(t, b24.CaptionText, got[2].Type)
		assert.EqualValues(t, 2000, got[2].PTS)
	}
}

// TestSingleShiftAtEndOfPayload covers the boundary case "Single-shift at
// end of payload (SS2 with no following byte) -> logged, packet ends
// gracefully".
func TestSingleShiftAtEndOfPayload(t *testing.T) {
	logger := &recordingLogger{}
	d := newReadyDecoder(logger)

	body := []byte{0xC1, 0x19} // 'A' then trailing SS2 with nothing after
	units := buildDataUnit(0x20, body)
	pkt := buildPacket(0x80, 1, buildStatementData(units))

	var got []b24.Caption
	status, err := d.Decode(pkt, 1000, func(c b24.Caption) { got = append(got, c) })
	assert.NoError(t, err)
	assert.Equal(t, b24.StatusGotCaption, status)
	if assert.Len(t, got, 1) && assert.Len(t, got[0].Regions, 1) {
		assert.Len(t, got[0].Regions[0].Chars, 1)
	}
}
