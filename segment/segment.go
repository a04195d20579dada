// Package segment provides the 7-segment pattern format used by the TM1638.
//
// Segments a-g map to bits 0-6 of a byte and the decimal point to bit 7.
package segment

import "fmt"

// Pattern is the segment byte written to one digit position.
type Pattern byte

// Segment bits, in the order the TM1638 expects them.
const (
	A  Pattern = 1 << 0
	B  Pattern = 1 << 1
	C  Pattern = 1 << 2
	D  Pattern = 1 << 3
	E  Pattern = 1 << 4
	F  Pattern = 1 << 5
	G  Pattern = 1 << 6
	DP Pattern = 1 << 7 // Decimal point overlay

	// Blank turns every segment of a position off.
	Blank Pattern = 0
)

// Digits maps a decimal digit value (0-9) to its segment pattern.
var Digits = [10]Pattern{
	A | B | C | D | E | F,     // 0x3F
	B | C,                     // 0x06
	A | B | G | E | D,         // 0x5B
	A | B | G | C | D,         // 0x4F
	F | G | B | C,             // 0x66
	A | F | G | C | D,         // 0x6D
	A | F | E | D | C | G,     // 0x7D
	A | B | C,                 // 0x07
	A | B | C | D | E | F | G, // 0x7F
	A | B | C | D | F | G,     // 0x6F
}

// Digit returns the pattern for the digit value d.
// ok is false when d is not in 0-9.
func Digit(d int) (p Pattern, ok bool) {
	if d < 0 || d >= len(Digits) {
		return Blank, false
	}
	return Digits[d], true
}

// ForChar returns the pattern for an ASCII digit '0'-'9'.
func ForChar(c byte) (p Pattern, ok bool) {
	if c < '0' || c > '9' {
		return Blank, false
	}
	return Digits[c-'0'], true
}

// WithDP returns p with the decimal point lit.
func (p Pattern) WithDP() Pattern {
	return p | DP
}

// HasDP reports whether the decimal point of p is lit.
func (p Pattern) HasDP() bool {
	return p&DP != 0
}

// String returns the lit segments, e.g. "abcdef" for 0 or "bc." for 1 with
// its decimal point.
func (p Pattern) String() string {
	if p == Blank {
		return "blank"
	}
	s := ""
	for i, name := range "abcdefg" {
		if p&(1<<uint(i)) != 0 {
			s += string(name)
		}
	}
	if p.HasDP() {
		s += "."
	}
	return fmt.Sprintf("%s(0x%02X)", s, byte(p))
}
