package score

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// Scores are entered as free keystrokes but must always read as a 0-10 value
// with two decimals once committed. Normalization shapes the display string
// on every keystroke without ever blocking typing; validation stays advisory
// until blur or commit.

const maxDisplay = "10.00"

// NormalizeKeystroke converts the raw input after a keystroke into the next
// display string. The current display value is part of the input contract but
// the next value is fully determined by the raw input. Never fails; invalid
// intermediate states are left for IsValid to flag.
func NormalizeKeystroke(current, raw string) string {
	if raw == "" {
		return ""
	}

	s := stripInput(raw)
	if s == "" {
		return ""
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		return clampDisplay(s[:i], s[i+1:])
	}

	// No decimal point typed yet. Two or more digits get one auto-inserted
	// after the first, except a literal leading "10" which stays the integer
	// ten pending a trailing fraction.
	if len(s) >= 2 {
		if s[:2] == "10" {
			if len(s) == 2 {
				return "10"
			}
			return clampDisplay("10", s[2:])
		}
		return clampDisplay(s[:1], s[1:])
	}
	return s
}

// PadCommit pads a syntactically valid prefix to exactly two fraction digits
// on blur or commit: "7" and "7." become "7.00", "7.5" becomes "7.50".
func PadCommit(s string) string {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return ""
	}
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return s + ".00"
	}
	switch len(s) - i - 1 {
	case 0:
		return s + "00"
	case 1:
		return s + "0"
	default:
		return s
	}
}

// IsValid reports whether the display value may be committed: empty clears
// the score, anything else must parse to a number within [0, 10]. An invalid
// value marks the field for a visual warning but is never reverted.
func IsValid(s string) bool {
	if s == "" {
		return true
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return false
	}
	return v >= 0 && v <= 10
}

// ToNumeric parses a display value, stripping a trailing bare dot first.
// Empty or unparsable input yields null.
func ToNumeric(s string) null.Float64 {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return null.Float64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float64{}
	}
	return null.Float64From(v)
}

// stripInput drops everything but digits and the first decimal point.
func stripInput(raw string) string {
	var b strings.Builder
	var dotSeen bool
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '.' && !dotSeen:
			dotSeen = true
			b.WriteByte('.')
		}
	}
	return b.String()
}

// clampDisplay truncates the integer part to two digits and the fraction to
// two digits, then clamps anything above ten to "10.00".
func clampDisplay(intPart, frac string) string {
	if len(intPart) > 2 {
		intPart = intPart[:2]
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	s := intPart + "." + frac
	if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64); err == nil && v > 10 {
		return maxDisplay
	}
	return s
}
