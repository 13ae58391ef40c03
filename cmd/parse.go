/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHexInput converts hex strings to bytes. Supports:
// - Space-separated: "de ad be ef" or "0xde 0xad"
// - Continuous: "deadbeef"
func parseHexInput(hexStr string) ([]byte, error) {
	var cleanHex strings.Builder
	for _, field := range strings.FieldsFunc(hexStr, func(r rune) bool { return r == ' ' || r == ',' }) {
		field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
		// A lone digit in a list of bytes is a byte of its own.
		if len(field) == 1 {
			field = "0" + field
		}
		cleanHex.WriteString(field)
	}
	hex := cleanHex.String()
	if len(hex) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	// Check if it's valid hex characters
	for _, char := range hex {
		if !((char >= '0' && char <= '9') || (char >= 'A' && char <= 'F') || (char >= 'a' && char <= 'f')) {
			return nil, fmt.Errorf("invalid hex character '%c'", char)
		}
	}

	// Must be even number of hex digits to form complete bytes
	if len(hex)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(hex))
	}

	bytes := make([]byte, 0, len(hex)/2)
	for i := 0; i < len(hex); i += 2 {
		b, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s': %v", hex[i:i+2], err)
		}
		bytes = append(bytes, byte(b))
	}
	return bytes, nil
}

// parseNumber parses decimal, 0x hex, 0o octal or 0b binary numbers that fit
// in bits.
func parseNumber(s string, bits int, what string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: want a %d bit number", what, s, bits)
	}
	return v, nil
}

// parseAddress parses a 7 or 10 bit slave address.
func parseAddress(s string) (uint16, error) {
	v, err := parseNumber(s, 16, "address")
	if err != nil {
		return 0, err
	}
	if v > 0x3ff {
		return 0, fmt.Errorf("invalid address %q: above 0x3ff", s)
	}
	return uint16(v), nil
}

func parseByte(s string) (byte, error) {
	v, err := parseNumber(s, 8, "byte")
	return byte(v), err
}

func parseWord(s string) (uint16, error) {
	v, err := parseNumber(s, 16, "word")
	return uint16(v), err
}

// parseFrequency parses a clock rate such as 500000, 500k, 8M or 1.5MHz.
func parseFrequency(s string) (uint32, error) {
	str := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "hz")
	mult := 1.0
	switch {
	case strings.HasSuffix(str, "k"):
		mult, str = 1e3, strings.TrimSuffix(str, "k")
	case strings.HasSuffix(str, "m"):
		mult, str = 1e6, strings.TrimSuffix(str, "m")
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil || f <= 0 || f*mult > float64(^uint32(0)) {
		return 0, fmt.Errorf("invalid frequency %q (examples: 500000, 500k, 8M)", s)
	}
	return uint32(f*mult + 0.5), nil
}

func parseSignalState(state string) (bool, error) {
	switch strings.ToLower(state) {
	case "high", "on", "true", "1":
		return true, nil
	case "low", "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state: %s (valid: high, low, on, off, true, false, 1, 0)", state)
	}
}

func formatSignalState(state bool) string {
	if state {
		return "on"
	}
	return "off"
}
