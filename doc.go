// Package tm1638 controls a TM1638 LED driver and key scanner.
//
// The TM1638 from Titan Micro Electronics drives 10 segment lines across 8
// grid lines and scans an 8×3 key matrix. It talks over three lines (clock,
// data and strobe) using its own protocol: bytes travel least significant bit
// first, strobe low frames one command, and the data line turns around to
// become an input while key data is read back. The driver bit-bangs the
// protocol over periph.io GPIO pins.
//
// # Board Layout
//
// The popular "LED&KEY" board carries 8 digits, 8 discrete LEDs and 8 keys.
// Its 16 byte display memory is interleaved:
//
//	Address  0x00 0x01 0x02 0x03 ... 0x0E 0x0F
//	Drives   DIG1 LED1 DIG2 LED2 ... DIG8 LED8
//
// Even addresses hold the segment pattern of a digit, bit 0 of odd
// addresses drives the LED next to it.
//
// Keys come back as 4 bytes: bit 0 of byte i is key S(i+1) and bit 4 of
// byte i is key S(i+5).
//
// # Hardware Connection
//
//	Board Pin → System Pin
//	VCC       → 3.3V or 5V
//	GND       → GND
//	STB       → GPIO (any available pin)
//	CLK       → GPIO (any available pin)
//	DIO       → GPIO (any available pin, must support input)
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/devices/v3/tm1638"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		dev, _ := tm1638.New(
//			gpioreg.ByName("GPIO17"), // CLK
//			gpioreg.ByName("GPIO27"), // DIO
//			gpioreg.ByName("GPIO22"), // STB
//		)
//		defer dev.Halt()
//
//		dev.SetBrightness(4)
//		dev.ShowDigits("12.34 567")
//		dev.SetLEDs(0x0F)
//
//		keys, _ := dev.ReadKeys()
//		dev.SetLEDs(keys)
//	}
//
// # Showing Digits
//
// ShowDigits takes the text exactly as it should appear. Digits and spaces
// each take one position, a '.' adds the decimal point to the previous
// position and anything else is skipped:
//
//	dev.ShowDigits("3.1415")   // 3.1415 on positions 0-4
//	dev.ShowDigits("12:34")    // 1234, the colon is skipped
//	dev.ShowDigits("  42")     // two blanks then 42
//
// Raw patterns, for glyphs other than digits, are written with
// WriteSegments and the segment package.
//
// # Discrete LEDs
//
// SetLEDs writes all 8 LEDs from a mask. Each LED is also available as a
// gpio.PinOut in Dev.LEDs, so it can be handed to code expecting a pin:
//
//	dev.LEDs[3].Out(gpio.High)
//
// # Timing
//
// Every clock half period and strobe edge is held for 5µs using a busy
// wait. A ShowDigits call for 8 digits takes roughly 2ms.
//
// # Datasheet
//
// https://www.titanmec.com/product/display-drivers/led-panel-display-driver-chip/p/tm1638.html
package tm1638
