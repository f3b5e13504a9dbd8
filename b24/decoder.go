package b24

import "fmt"

// OutputFunc receives one finalized Caption. It is invoked synchronously,
// zero or more times, from within a single Decode call, always on the
// calling goroutine (spec §5). Implementations must not retain slices
// owned by the Caption (Regions, Chars, Codepoints) past the call, since
// the Decoder may reuse backing arrays across invocations.
type OutputFunc func(Caption)

// Decoder is a single-threaded, non-suspending ARIB STD-B24 caption
// decoder. It owns all of its mutable state (writing format, DRCS store,
// code-extension designations, in-progress caption) exclusively; separate
// Decoder instances are fully independent and may run on separate
// goroutines without coordination (spec §5).
type Decoder struct {
	logger Logger

	typ        Type
	profile    Profile
	languageId LanguageId

	languageInfos   []LanguageInfo
	prevDataGroupID int

	initialized bool

	state writingFormat
	drcs  *drcsStore

	pts      int64
	duration int64

	inProgress    *Caption
	currentRegion *Region
	superimposed  bool
}

// New creates a Decoder. Pass a nil Logger to use NopLogger.
func New(logger Logger) *Decoder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Decoder{logger: logger, prevDataGroupID: -1}
}

// Initialize (re)configures the Decoder for a type/profile/language and
// resets all mutable state. It is the only operation whose failure is
// terminal: the Decoder remains unusable until a subsequent Initialize
// succeeds (spec §7).
func (d *Decoder) Initialize(typ Type, profile Profile, languageId LanguageId) error {
	if profile != ProfileDefault && profile != ProfileA && profile != ProfileC {
		return fmt.Errorf("b24: Initialize: %w: %d", ErrUnsupportedProfile, profile)
	}
	d.typ = typ
	d.profile = profile
	d.languageId = languageId
	d.resetInternalState()
	d.initialized = true
	return nil
}

// SetType changes which caption carriage subsequent Decode calls treat
// the stream as, without otherwise resetting state.
func (d *Decoder) SetType(typ Type) { d.typ = typ }

// SetProfile changes the active profile, which does reset writing-format
// state (a profile swap changes default geometry/char metrics), mirroring
// decoder_impl.hpp's SetProfile.
func (d *Decoder) SetProfile(profile Profile) {
	d.profile = profile
	d.resetInternalState()
}

// SetLanguageId changes which management-data language the Decoder
// reports via QueryISO639LanguageCode / Caption.LanguageIndex, without a
// full reset.
func (d *Decoder) SetLanguageId(languageId LanguageId) { d.languageId = languageId }

func (d *Decoder) resetInternalState() {
	d.state.reset(defaultSWF)
	d.drcs = newDRCSStore()
	d.pts = PTSNoPTS
	d.duration = 0
	d.inProgress = nil
	d.currentRegion = nil
	d.prevDataGroupID = -1
}

// QueryISO639LanguageCode returns the packed 3-letter ISO-639-2 code for
// the given language index, or 0 if unknown (spec §6, §9).
func (d *Decoder) QueryISO639LanguageCode(languageId LanguageId) uint32 {
	if languageId == LanguageIdFirst {
		if len(d.languageInfos) == 0 {
			return 0
		}
		return d.languageInfos[0].ISO639Code
	}
	for _, li := range d.languageInfos {
		if li.LanguageId == languageId {
			return li.ISO639Code
		}
	}
	return 0
}

// Flush drains any pending in-progress caption with its accumulated
// pts/duration and resets all mutable state, reporting whether a caption
// was emitted. Calling Flush twice in a row returns false the second time
// (spec §8 idempotence).
func (d *Decoder) Flush(output OutputFunc) bool {
	emitted := d.hasCaptionContent()
	if emitted {
		d.finalizeCaption(output)
	}
	d.resetInternalState()
	return emitted
}

// Decode parses one PES payload, drives the framer and interpreter, and
// emits zero or more Captions via output. It never blocks and never
// panics; malformed input yields StatusError with the packet discarded,
// leaving the Decoder usable for the next call (spec §5, §7).
func (d *Decoder) Decode(pesData []byte, pts int64, output OutputFunc) (DecodeStatus, error) {
	if !d.initialized {
		return StatusError, ErrNotInitialized
	}
	if len(pesData) == 0 {
		return StatusNoCaption, nil
	}
	if len(pesData) < 3 {
		d.logger.Log(LogLevelError, "b24: packet shorter than minimum 3 bytes")
		return StatusError, fmt.Errorf("b24: Decode: %w", ErrMalformedPacket)
	}

	d.pts = pts

	emittedCount := 0
	wrappedOutput := func(c Caption) {
		emittedCount++
		output(c)
	}

	if err := d.parseOuterContainer(pesData, wrappedOutput); err != nil {
		d.logger.Log(LogLevelError, fmt.Sprintf("b24: Decode failed: %v", err))
		return StatusError, err
	}

	switch {
	case emittedCount == 0:
		return StatusNoCaption, nil
	case emittedCount == 1:
		return StatusGotCaption, nil
	default:
		return StatusGotCaptionList, nil
	}
}
