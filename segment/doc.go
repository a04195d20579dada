// Package segment provides the 7-segment pattern format used by the TM1638
// display controller.
//
// Each digit position of the display holds one byte. Bits 0-6 light the
// segments a-g, bit 7 lights the decimal point:
//
//	   a
//	  ---
//	f| g |b
//	  ---
//	e|   |c
//	  ---  .dp
//	   d
//
// Example usage:
//
//	// Pattern for the digit 7
//	p, ok := segment.Digit(7)
//
//	// Same pattern with the decimal point lit
//	p = p.WithDP()
//
//	// Build a custom glyph (a minus sign)
//	minus := segment.G
package segment
