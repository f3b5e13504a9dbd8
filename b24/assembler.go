package b24

// ensureCaption lazily starts the in-progress Caption that subsequent
// characters accumulate into, per spec §4.4.
func (d *Decoder) ensureCaption() {
	if d.inProgress == nil {
		d.inProgress = &Caption{
			PTS:           d.pts,
			Type:          CaptionText,
			Superimposed:  d.superimposed,
			PlaneWidth:    d.state.planeWidth,
			PlaneHeight:   d.state.planeHeight,
			LanguageIndex: int(d.languageId),
			ISO639Code:    d.QueryISO639LanguageCode(d.languageId),
			Languages:     d.languageInfos,
		}
	}
}

// hasCaptionContent reports whether there is an in-progress caption with
// at least one accumulated character, across both already-closed regions
// and the region still being built.
func (d *Decoder) hasCaptionContent() bool {
	if d.inProgress == nil {
		return false
	}
	if len(d.inProgress.Regions) > 0 {
		return true
	}
	return d.currentRegion != nil && len(d.currentRegion.Chars) > 0
}

func (d *Decoder) flushCurrentRegion() {
	if d.currentRegion != nil && len(d.currentRegion.Chars) > 0 {
		d.inProgress.Regions = append(d.inProgress.Regions, *d.currentRegion)
	}
	d.currentRegion = nil
}

// finalizeCaption closes out the in-progress caption, folding in its
// accumulated duration, and hands it to output. It is the single exit
// point for a completed CaptionText caption (end of statement, Flush).
func (d *Decoder) finalizeCaption(output OutputFunc) {
	if d.inProgress == nil {
		return
	}
	d.flushCurrentRegion()
	c := *d.inProgress
	c.Duration = d.duration
	output(c)
	d.inProgress = nil
	d.duration = 0
}

// handleClearScreen implements the CS (0x0C) control code: whatever text
// had accumulated so far is finalized as a normal caption, and a second,
// region-less Caption of type ClearScreen is emitted immediately after it
// (both stamped with the current pts), matching the documented ordering
// of "finalize current caption, then emit a clear" (spec §4.4, §8 seed
// scenario 6).
func (d *Decoder) handleClearScreen(output OutputFunc) {
	if d.hasCaptionContent() {
		d.finalizeCaption(output)
	} else {
		d.inProgress = nil
		d.currentRegion = nil
	}
	output(Caption{
		PTS:          d.pts,
		Type:         ClearScreen,
		Superimposed: d.superimposed,
		PlaneWidth:   d.state.planeWidth,
		PlaneHeight:  d.state.planeHeight,
	})
}

// repeatCountForNextChar consumes any pending RPC state (spec §4.2 RPC,
// 0x98) and returns how many times the next character should be emitted.
func (d *Decoder) repeatCountForNextChar() int {
	if d.state.repeatUntilEOL {
		d.state.repeatUntilEOL = false
		sw := d.state.sectionWidth()
		if sw <= 0 {
			sw = 1
		}
		remaining := (d.state.areaStartX + d.state.areaWidth - d.state.activePosX) / sw
		if remaining < 1 {
			remaining = 1
		}
		return remaining
	}
	if d.state.repeatCount > 0 {
		n := d.state.repeatCount
		d.state.repeatCount = 0
		return n
	}
	return 1
}

func (d *Decoder) pushCharacter(slot int, codepoints []rune) {
	d.pushContent(slot, TextContent(codepoints...))
}

func (d *Decoder) pushDRCSCharacter(slot int, code uint16) {
	d.pushContent(slot, DRCSContent(code))
}

func (d *Decoder) pushContent(slot int, content CharContent) {
	count := d.repeatCountForNextChar()
	for i := 0; i < count; i++ {
		d.emitOneChar(slot, content)
	}
}

func (d *Decoder) emitOneChar(slot int, content CharContent) {
	if !d.state.activePosInited {
		d.state.activePosX = d.state.areaStartX
		d.state.activePosY = d.state.areaStartY
		d.state.activePosInited = true
	}

	width, height := d.state.charDots()
	cc := CaptionChar{
		Content:  content,
		Codeset:  slot,
		X:        d.state.activePosX,
		Y:        d.state.activePosY,
		Width:    width,
		Height:   height,
		AdvanceX: d.state.sectionWidth(),
		AdvanceY: d.state.sectionHeight(),
		Size:     d.state.size,
	}
	d.applyCaptionCharCommonProperties(&cc)
	d.pushCaptionChar(cc)

	d.state.activePosX += cc.AdvanceX
	d.state.clampActivePos()
}

// applyCaptionCharCommonProperties copies the writing-format style state
// onto a character, and consumes the one-shot BEL flag (spec §4.2 "BEL
// sets built-in-sound flag", applied to the next emitted character only).
func (d *Decoder) applyCaptionCharCommonProperties(cc *CaptionChar) {
	cc.Bold = d.state.hasBold
	cc.Italic = d.state.hasItalic
	cc.Underline = d.state.hasUnderline
	cc.Stroke = d.state.hasStroke
	cc.StrokeColor = d.state.strokeColor
	cc.Enclosure = d.state.enclosure
	cc.Flashing = d.state.flashing
	cc.TextColor = d.state.textColor
	cc.BackColor = d.state.backColor

	cc.HasBuiltinSound = d.state.hasBuiltinSound
	cc.BuiltinSoundId = d.state.builtinSoundId
	d.state.hasBuiltinSound = false
}

func (d *Decoder) pushCaptionChar(cc CaptionChar) {
	d.ensureCaption()
	if d.needNewCaptionRegion(cc) {
		d.flushCurrentRegion()
		d.currentRegion = &Region{
			OriginX:           cc.X,
			OriginY:           cc.Y,
			CharWidth:         d.state.charWidth,
			CharHeight:        d.state.charHeight,
			HorizontalSpacing: d.state.charHorizontalSpacing,
			VerticalSpacing:   d.state.charVerticalSpacing,
			IsRubyRegion:      d.state.isRubyMode(),
		}
	}

	d.currentRegion.Chars = append(d.currentRegion.Chars, cc)

	if right := cc.X + cc.Width - d.currentRegion.OriginX; right > d.currentRegion.Width {
		d.currentRegion.Width = right
	}
	if bottom := cc.Y + cc.Height - d.currentRegion.OriginY; bottom > d.currentRegion.Height {
		d.currentRegion.Height = bottom
	}
	if cc.HasBuiltinSound {
		d.inProgress.HasBuiltinSound = true
	}
	if cc.Content.Kind == CharKindDRCS {
		d.inProgress.HasBitmap = true
	}
}

// needNewCaptionRegion decides whether cc continues the region currently
// being built or starts a fresh one: a region is a maximal run of
// characters sharing char metrics and ruby-ness, laid out contiguously by
// the normal cursor advance (spec §3 "Region").
func (d *Decoder) needNewCaptionRegion(cc CaptionChar) bool {
	r := d.currentRegion
	if r == nil {
		return true
	}
	if len(r.Chars) == 0 {
		return true
	}
	if r.CharWidth != d.state.charWidth || r.CharHeight != d.state.charHeight {
		return true
	}
	if r.HorizontalSpacing != d.state.charHorizontalSpacing || r.VerticalSpacing != d.state.charVerticalSpacing {
		return true
	}
	if r.IsRubyRegion != d.state.isRubyMode() {
		return true
	}

	last := r.Chars[len(r.Chars)-1]
	expectedX, expectedY := last.X+last.AdvanceX, last.Y
	if cc.Y != last.Y {
		expectedY = last.Y + last.AdvanceY
		expectedX = cc.X
	}
	return cc.X != expectedX || cc.Y != expectedY
}

// moveRelativeActivePos implements APB/APF/APD/APU/PAPF: move the active
// position by whole character cells along either axis.
func (d *Decoder) moveRelativeActivePos(cols, rows int) {
	if !d.state.activePosInited {
		d.state.activePosX = d.state.areaStartX
		d.state.activePosY = d.state.areaStartY
		d.state.activePosInited = true
	}
	d.state.activePosX += cols * d.state.sectionWidth()
	d.state.activePosY += rows * d.state.sectionHeight()
	d.state.clampActivePos()
}

// moveActivePosToNewline implements APR: return to the left margin one
// row down.
func (d *Decoder) moveActivePosToNewline() {
	if !d.state.activePosInited {
		d.state.activePosX = d.state.areaStartX
		d.state.activePosY = d.state.areaStartY
		d.state.activePosInited = true
		return
	}
	d.state.activePosX = d.state.areaStartX
	d.state.activePosY += d.state.sectionHeight()
	d.state.clampActivePos()
}

// setAbsoluteActivePos implements APS: col/row are character-cell offsets
// from the area origin, addressed by the raw character box (spec §8 seed
// scenario 5: origin lands at (col*char_w, row*char_h + char_h)), not the
// section pitch.
func (d *Decoder) setAbsoluteActivePos(col, row int) {
	w, h := d.state.charDots()
	d.state.activePosX = d.state.areaStartX + col*w
	d.state.activePosY = d.state.areaStartY + row*h + h
	d.state.activePosInited = true
	d.state.clampActivePos()
}

// setAbsoluteActiveCoordinateDot sets the active position directly in
// dots from the area origin. Nothing in the interpreter calls it.
func (d *Decoder) setAbsoluteActiveCoordinateDot(x, y int) {
	d.state.activePosX = d.state.areaStartX + x
	d.state.activePosY = d.state.areaStartY + y
	d.state.activePosInited = true
	d.state.clampActivePos()
}
