// Package codec converts between user supplied tokens, raw MIDI bytes and SysEx frames.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// Mode selects how byte tokens are written.
type Mode int

const (
	// Decimal accepts integer literals: plain decimal or 0x/0o/0b prefixed.
	Decimal Mode = iota
	// Hex accepts base-16 digits, with or without a 0x prefix.
	Hex
)

// ModeFor returns Hex when hex is set and Decimal otherwise.
func ModeFor(hex bool) Mode {
	if hex {
		return Hex
	}
	return Decimal
}

// ParseTokens turns tokens into one message. Every token must denote a value in [0, 255].
func ParseTokens(tokens []string, mode Mode) ([]byte, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no data", contracts.ErrInvalidByteToken)
	}
	msg := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		b, err := parseToken(tok, mode)
		if err != nil {
			return nil, err
		}
		msg = append(msg, b)
	}
	return msg, nil
}

func parseToken(tok string, mode Mode) (byte, error) {
	s := strings.TrimSpace(tok)
	sign := ""
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign, s = s[:1], s[1:]
	}

	var (
		v   int64
		err error
	)
	switch mode {
	case Hex:
		if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
			s = s[2:]
		}
		if s == "" || strings.ContainsAny(s, "+-_") {
			return 0, fmt.Errorf("%w: %q", contracts.ErrInvalidByteToken, tok)
		}
		v, err = strconv.ParseInt(sign+s, 16, 64)
	case Decimal:
		if s == "" || strings.ContainsAny(s, "+-") || hasLegacyOctalPrefix(s) {
			return 0, fmt.Errorf("%w: %q", contracts.ErrInvalidByteToken, tok)
		}
		v, err = strconv.ParseInt(sign+s, 0, 64)
	default:
		return 0, fmt.Errorf("%w: unknown mode %d", contracts.ErrInvalidByteToken, mode)
	}

	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", contracts.ErrByteOutOfRange, tok)
		}
		return 0, fmt.Errorf("%w: %q", contracts.ErrInvalidByteToken, tok)
	}
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%w: %q", contracts.ErrByteOutOfRange, tok)
	}
	return byte(v), nil
}

// hasLegacyOctalPrefix reports literals such as "010": a leading zero followed by
// digits is ambiguous and rejected, while "0", "00" and "0x.." stay valid.
func hasLegacyOctalPrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return false
	}
	return strings.Trim(s, "0_") != ""
}

// FormatTokens renders msg as tokens that ParseTokens reads back in the same mode.
func FormatTokens(msg []byte, mode Mode) []string {
	out := make([]string, len(msg))
	for i, b := range msg {
		if mode == Hex {
			out[i] = fmt.Sprintf("%02X", b)
		} else {
			out[i] = strconv.Itoa(int(b))
		}
	}
	return out
}

// FormatDecimal renders msg as a decimal list, e.g. "[144, 60, 127]".
func FormatDecimal(msg []byte) string {
	return "[" + strings.Join(FormatTokens(msg, Decimal), ", ") + "]"
}

// FormatHex renders msg as a list of hex bytes, e.g. "[0x90, 0x3C, 0x7F]".
func FormatHex(msg []byte) string {
	parts := make([]string, len(msg))
	for i, b := range msg {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Format renders msg in the printed representation for mode.
func Format(msg []byte, mode Mode) string {
	if mode == Hex {
		return FormatHex(msg)
	}
	return FormatDecimal(msg)
}
