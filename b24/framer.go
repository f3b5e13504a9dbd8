package b24

import (
	"encoding/binary"
	"fmt"
)

// parseOuterContainer implements spec §4.1: validates the PES payload's
// data_identifier, skips the private-data header, parses the data-group
// header, and dispatches to management or statement parsing based on
// data_group_id. Byte ordering is big-endian throughout (spec §6).
func (d *Decoder) parseOuterContainer(data []byte, output OutputFunc) error {
	dataIdentifier := data[0]
	if dataIdentifier != 0x80 && dataIdentifier != 0x81 {
		return fmt.Errorf("b24: unrecognized data_identifier 0x%02X: %w", dataIdentifier, ErrMalformedPacket)
	}
	superimposed := dataIdentifier == 0x81

	// Second byte: private_data_header flag. The low nibble gives the
	// length, in bytes, of an optional PES_data_packet_header to skip.
	idx := 2 + int(data[1]&0x0F)
	if idx >= len(data) {
		return fmt.Errorf("b24: private data header overruns packet: %w", ErrTruncatedDataGroup)
	}

	group := data[idx:]
	if len(group) < 5 {
		return fmt.Errorf("b24: data group header truncated: %w", ErrTruncatedDataGroup)
	}

	groupIDByte := group[0]
	groupID := int((groupIDByte & 0xFC) >> 2) // 6-bit data_group_id, bits 2..7
	size := int(binary.BigEndian.Uint16(group[3:5]))
	payloadStart := 5
	if payloadStart+size > len(group) {
		return fmt.Errorf("b24: data group size %d exceeds remaining bytes: %w", size, ErrDataUnitOverflow)
	}
	payload := group[payloadStart : payloadStart+size]
	// Two CRC16 bytes may trail the payload; ARIB streams are assumed
	// pre-validated, so they are budgeted for but never checked.

	isManagement := groupID == 0 || groupID == 0x20
	if isManagement {
		// Management data is rebroadcast periodically unchanged; skip
		// reprocessing back-to-back repeats of the same management group.
		// Statement data always carries new displayable text even when it
		// reuses the same group id, so this dedup never applies to it.
		if d.prevDataGroupID == groupID {
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: dropping duplicate management data group id %d", groupID))
			return nil
		}
		d.prevDataGroupID = groupID
		return d.parseCaptionManagementData(payload, output, superimposed)
	}
	return d.parseCaptionStatementData(payload, output, superimposed)
}

// parseCaptionManagementData implements spec §4.1 "Management data".
func (d *Decoder) parseCaptionManagementData(data []byte, output OutputFunc, superimposed bool) error {
	if len(data) < 1 {
		return fmt.Errorf("b24: management data empty: %w", ErrTruncatedDataGroup)
	}
	idx := 0
	tmd := (data[idx] >> 6) & 0x03
	idx++
	if tmd == 0x02 { // OTM (offset time), 5-byte BCD field
		idx += 5
	}
	if idx >= len(data) {
		return fmt.Errorf("b24: management data missing language count: %w", ErrTruncatedDataGroup)
	}
	numLanguages := int(data[idx])
	idx++

	languages := make([]LanguageInfo, 0, numLanguages)
	for i := 0; i < numLanguages; i++ {
		if idx+1 > len(data) {
			return fmt.Errorf("b24: management data truncated in language %d: %w", i, ErrTruncatedDataGroup)
		}
		b := data[idx]
		idx++
		langID := LanguageId((b >> 5) & 0x07)
		dmf := (b >> 1) & 0x0F

		if dmf == 0x0C || dmf == 0x0D || dmf == 0x0E {
			idx++ // DC (display control) byte, not modeled further
		}

		if idx+3 > len(data) {
			return fmt.Errorf("b24: management data truncated reading ISO-639 code: %w", ErrTruncatedDataGroup)
		}
		iso := uint32(data[idx])<<16 | uint32(data[idx+1])<<8 | uint32(data[idx+2])
		idx += 3

		if idx+1 > len(data) {
			return fmt.Errorf("b24: management data truncated reading format/TCS: %w", ErrTruncatedDataGroup)
		}
		b2 := data[idx]
		idx++
		format := (b2 >> 4) & 0x0F
		tcs := (b2 >> 2) & 0x03

		languages = append(languages, LanguageInfo{
			LanguageId: langID,
			DMF:        dmf,
			Format:     format,
			TCS:        tcs,
			ISO639Code: iso,
		})
	}

	d.languageInfos = languages
	output(Caption{
		PTS:          d.pts,
		Type:         CaptionManagement,
		Superimposed: superimposed,
		PlaneWidth:   d.state.planeWidth,
		PlaneHeight:  d.state.planeHeight,
		Languages:    languages,
	})
	return nil
}

// parseCaptionStatementData implements spec §4.1 "Statement data".
func (d *Decoder) parseCaptionStatementData(data []byte, output OutputFunc, superimposed bool) error {
	if len(data) < 1 {
		return fmt.Errorf("b24: statement data empty: %w", ErrTruncatedDataGroup)
	}
	idx := 0
	tmd := data[idx]
	idx++
	if tmd == 0x01 || tmd == 0x02 {
		idx += 3 // STM
	}
	if idx+3 > len(data) {
		return fmt.Errorf("b24: statement data missing data-unit-loop-length: %w", ErrTruncatedDataGroup)
	}
	loopLen := int(data[idx])<<16 | int(data[idx+1])<<8 | int(data[idx+2])
	idx += 3
	if idx+loopLen > len(data) {
		return fmt.Errorf("b24: data-unit-loop-length %d exceeds remaining bytes: %w", loopLen, ErrDataUnitOverflow)
	}
	return d.parseDataUnits(data[idx:idx+loopLen], output, superimposed)
}

// parseDataUnits implements spec §4.1 "Data units".
func (d *Decoder) parseDataUnits(data []byte, output OutputFunc, superimposed bool) error {
	idx := 0
	for idx < len(data) {
		if data[idx] != 0x1F {
			return fmt.Errorf("b24: expected unit separator at offset %d: %w", idx, ErrMalformedPacket)
		}
		if idx+5 > len(data) {
			return fmt.Errorf("b24: data unit header truncated: %w", ErrTruncatedDataUnit)
		}
		param := data[idx+1]
		size := int(data[idx+2])<<16 | int(data[idx+3])<<8 | int(data[idx+4])
		payloadStart := idx + 5
		if payloadStart+size > len(data) {
			return fmt.Errorf("b24: data unit size %d exceeds remaining bytes: %w", size, ErrDataUnitOverflow)
		}
		payload := data[payloadStart : payloadStart+size]

		switch param {
		case 0x20: // statement body
			if err := d.parseStatementBody(payload, output, superimposed); err != nil {
				return err
			}
		case 0x30, 0x31, 0x32, 0x33, 0x34: // DRCS variants
			d.parseDRCS(payload)
		case 0x35: // color map
			d.logger.Log(LogLevelVerbose, "b24: color-map data unit accepted, not applied")
		case 0x3F: // geometric
			d.logger.Log(LogLevelVerbose, "b24: geometric data unit accepted, not applied")
		default:
			d.logger.Log(LogLevelVerbose, fmt.Sprintf("b24: unknown data unit parameter 0x%02X skipped", param))
		}

		idx = payloadStart + size
	}
	return nil
}
