package b24_test

import "github.com/ariblive/captionb24/b24"

// recordingLogger captures logged messages for assertions instead of
// discarding them like b24.NopLogger.
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Log(level b24.LogLevel, message string) {
	l.messages = append(l.messages, message)
}

func size3(n int) []byte { return []byte{byte(n >> 16), byte(n >> 8), byte(n)} }
func size2(n int) []byte { return []byte{byte(n >> 8), byte(n)} }

// buildDataUnit wraps a data-unit payload with its 0x1F separator, param
// byte and 3-byte size, per spec §4.1.
func buildDataUnit(param byte, payload []byte) []byte {
	buf := []byte{0x1F, param}
	buf = append(buf, size3(len(payload))...)
	return append(buf, payload...)
}

// buildStatementData wraps a data-unit-loop with the tmd byte (0, no STM)
// and 3-byte loop length, per spec §4.1 "Statement data".
func buildStatementData(units []byte) []byte {
	buf := []byte{0x00}
	buf = append(buf, size3(len(units))...)
	return append(buf, units...)
}

// buildManagementData wraps a language table with tmd=0 (no OTM) and the
// language count, per spec §4.1 "Management data".
func buildManagementData(languages [][]byte) []byte {
	buf := []byte{0x00, byte(len(languages))}
	for _, l := range languages {
		buf = append(buf, l...)
	}
	return buf
}

// buildLanguageEntry packs one management-data language table row: langID
// in the high 3 bits, dmf in the next 4, then a 3-byte ISO-639 code and a
// format/TCS byte.
func buildLanguageEntry(langID byte, dmf byte, iso [3]byte, format, tcs byte) []byte {
	b0 := (langID&0x07)<<5 | (dmf&0x0F)<<1 | 0x01
	b2 := (format&0x0F)<<4 | (tcs&0x03)<<2
	return []byte{b0, iso[0], iso[1], iso[2], b2}
}

// buildDataGroup wraps a data-group payload with its 6-bit data_group_id,
// two spare bytes, and 2-byte size, per spec §4.1.
func buildDataGroup(groupID int, payload []byte) []byte {
	groupIDByte := byte(groupID<<2) & 0xFC
	buf := []byte{groupIDByte, 0x00, 0x00}
	buf = append(buf, size2(len(payload))...)
	buf = append(buf, payload...)
	return append(buf, 0x00, 0x00) // two CRC bytes, unread
}

// buildPacket wraps a data group with the outer data_identifier and an
// empty private-data header, per spec §4.1.
func buildPacket(dataIdentifier byte, groupID int, payload []byte) []byte {
	buf := []byte{dataIdentifier, 0x00}
	return append(buf, buildDataGroup(groupID, payload)...)
}

// newReadyDecoder returns an Initialize'd Decoder using the given logger
// (nil for NopLogger).
func newReadyDecoder(logger b24.Logger) *b24.Decoder {
	d := b24.New(logger)
	_ = d.Initialize(b24.TypeCaption, b24.ProfileDefault, b24.LanguageIdDefault)
	return d
}
