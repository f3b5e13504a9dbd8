package b24

// writingFormat is the mutable state control codes act on: plane/area
// geometry, cursor, character metrics, code-extension pointers, and
// color/style, per spec §3 "Writing-format state".
type writingFormat struct {
	swf uint8

	planeWidth, planeHeight   int
	areaWidth, areaHeight     int
	areaStartX, areaStartY    int

	activePosInited bool
	activePosX      int
	activePosY      int

	charWidth, charHeight               int
	charHorizontalSpacing, charVerticalSpacing int
	charHorizontalScale, charVerticalScale     float64
	size                                       CharSize

	gl, gr int // indices 0..3 into gx
	gx     [4]CodesetEntry

	// singleShift, when >= 0, names the GX slot a single SS2/SS3 shift
	// invokes for exactly the next character, after which GL is restored.
	singleShift int

	hasUnderline bool
	hasBold      bool
	hasItalic    bool
	hasStroke    bool
	strokeColor  RGBAColor
	enclosure    EnclosureStyle
	flashing     bool

	hasBuiltinSound bool
	builtinSoundId  uint8

	palette   uint8
	textColor RGBAColor
	backColor RGBAColor

	// rubyMode is toggled by each PLD or PLU (spec §4.2 PLD/PLU).
	rubyMode bool

	// repeatCount, when > 0, is the number of times the next character
	// should be replicated (RPC, spec §4.2), 0 meaning "not repeating".
	// repeatUntilEOL is set when RPC's parameter was 0 (repeat to end of
	// line rather than a fixed count).
	repeatCount    int
	repeatUntilEOL bool
}

func (w *writingFormat) reset(swf uint8) {
	geo, ok := defaultPlaneGeometry[swf]
	if !ok {
		swf = defaultSWF
		geo = defaultPlaneGeometry[defaultSWF]
	}
	*w = writingFormat{
		swf:                   swf,
		planeWidth:            geo[0],
		planeHeight:           geo[1],
		areaWidth:             geo[0],
		areaHeight:            geo[1],
		areaStartX:            0,
		areaStartY:            0,
		charWidth:             defaultCharWidth,
		charHeight:            defaultCharHeight,
		charHorizontalSpacing: defaultCharHorizontalSpace,
		charVerticalSpacing:   defaultCharVerticalSpace,
		charHorizontalScale:   1.0,
		charVerticalScale:     1.0,
		size:                  CharSizeNormal,
		gl:                    0,
		gr:                    1,
		gx: [4]CodesetEntry{
			kanjiEntry,
			alphanumericEntry,
			hiraganaEntry,
			macroEntry,
		},
		singleShift: -1,
		palette:     0,
		textColor:   basicColors[7], // white
		backColor:   basicColors[0], // black
	}
}

// activeCodeset returns the CodesetEntry the next GL or GR invocation
// should resolve against, honoring a pending single shift.
func (w *writingFormat) activeCodeset(isGR bool) CodesetEntry {
	if w.singleShift >= 0 {
		return w.gx[w.singleShift]
	}
	if isGR {
		return w.gx[w.gr]
	}
	return w.gx[w.gl]
}

// consumeSingleShift clears a pending single shift after it has been used
// for exactly one character invocation.
func (w *writingFormat) consumeSingleShift() {
	w.singleShift = -1
}

// sectionWidth is the pixel width of one character cell at the current
// size/scale, matching decoder_impl.hpp's section_width().
func (w *writingFormat) sectionWidth() int {
	return int(float64(w.charWidth)*w.sizeScaleX()*w.charHorizontalScale) + w.charHorizontalSpacing
}

// sectionHeight is the pixel height of one character cell at the current
// size/scale, matching decoder_impl.hpp's section_height().
func (w *writingFormat) sectionHeight() int {
	return int(float64(w.charHeight)*w.sizeScaleY()*w.charVerticalScale) + w.charVerticalSpacing
}

func (w *writingFormat) sizeScaleX() float64 {
	switch w.size {
	case CharSizeSmall:
		return 0.5
	default:
		return 1.0
	}
}

func (w *writingFormat) sizeScaleY() float64 {
	switch w.size {
	case CharSizeSmall, CharSizeMedium:
		return 0.5
	default:
		return 1.0
	}
}

// charDots returns the actual glyph box in dots at the current size/scale.
func (w *writingFormat) charDots() (width, height int) {
	width = int(float64(w.charWidth) * w.sizeScaleX() * w.charHorizontalScale)
	height = int(float64(w.charHeight) * w.sizeScaleY() * w.charVerticalScale)
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return width, height
}

func (w *writingFormat) isRubyMode() bool { return w.rubyMode }

// clampActivePos wraps the active position back into the display area per
// spec §4.2: motion off the right edge advances to the next row at the
// left margin; motion off the bottom re-wraps to the top (no scrollback
// buffer is modeled, matching the "reset per profile" note in spec §4.2).
func (w *writingFormat) clampActivePos() {
	sw, sh := w.sectionWidth(), w.sectionHeight()
	if sw <= 0 {
		sw = 1
	}
	if sh <= 0 {
		sh = 1
	}
	if w.activePosX >= w.areaStartX+w.areaWidth {
		w.activePosX = w.areaStartX
		w.activePosY += sh
	}
	if w.activePosX < w.areaStartX {
		w.activePosX = w.areaStartX
	}
	if w.activePosY >= w.areaStartY+w.areaHeight {
		w.activePosY = w.areaStartY
	}
	if w.activePosY < w.areaStartY {
		w.activePosY = w.areaStartY
	}
}
