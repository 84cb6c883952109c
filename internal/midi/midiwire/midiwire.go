// Package midiwire packs and unpacks MIDI short messages for backends that
// exchange them as 32-bit words.
package midiwire

// ShortLen returns the length of the short message introduced by status,
// or 0 for 0xF0/0xF7 and data bytes, which cannot start a short message.
func ShortLen(status byte) int {
	switch {
	case status < 0x80:
		return 0
	case status < 0xC0:
		return 3 // note off/on, poly pressure, control change
	case status < 0xE0:
		return 2 // program change, channel pressure
	case status < 0xF0:
		return 3 // pitch bend
	}
	switch status {
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	case 0xF0, 0xF7:
		return 0
	default:
		return 1
	}
}

// PackShort packs msg little-endian into one word. ok is false when msg is not a
// complete short message and has to go out as a long (SysEx) buffer.
func PackShort(msg []byte) (word uint32, ok bool) {
	if len(msg) == 0 || len(msg) > 3 || ShortLen(msg[0]) != len(msg) {
		return 0, false
	}
	for i, b := range msg {
		word |= uint32(b) << (8 * i)
	}
	return word, true
}

// UnpackShort is the inverse of PackShort. It returns nil when the low byte is not a status byte.
func UnpackShort(word uint32) []byte {
	status := byte(word)
	n := ShortLen(status)
	if n == 0 {
		return nil
	}
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(word >> (8 * i))
	}
	return msg
}
