// Package tm1638 controls a TM1638 LED driver and key scanner over its
// 3-wire (CLK, DIO, STB) serial interface.
//
// The TM1638 protocol is neither I²C nor SPI, so the lines are bit-banged
// through periph.io GPIO pins. See the package documentation for wiring.
package tm1638

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/tm1638/segment"
	"periph.io/x/host/v3/cpu"
)

const (
	// NumDigits is the number of 7-segment positions on the common
	// 8 digit, 8 LED, 8 key boards.
	NumDigits = 8
	// NumLEDs is the number of discrete LEDs, one per digit position.
	NumLEDs = 8
	// NumKeys is the number of keys reported by ReadKeys.
	NumKeys = 8
	// MaxBrightness is the highest level accepted by SetBrightness.
	MaxBrightness = 8

	memSize = 16 // Display RAM, addresses 0x00-0x0F
)

// Command bytes.
const (
	cmdDataWrite  byte = 0x40 // Data write, auto-increment address
	cmdReadKeys   byte = 0x42 // Read key scan data
	cmdAddress    byte = 0xC0 // Set address, OR with 0x00-0x0F
	cmdDisplayOff byte = 0x80
	cmdDisplayOn  byte = 0x88 // OR with brightness 0-7
)

var errHalted = errors.New("tm1638: halted")

// Dev is a handle to a TM1638.
//
// Dev is not safe for concurrent use. Only one Dev may drive a given set of
// lines at a time.
type Dev struct {
	// LEDs are the discrete LEDs exposed as output pins. LEDs[i] is the LED
	// next to digit position i.
	LEDs []gpio.PinOut

	clk gpio.PinOut
	dio gpio.PinIO
	stb gpio.PinOut

	spin func(time.Duration) // Busy-waits between edges

	halted bool
}

// New binds a TM1638 to its clock, data and strobe lines, initializes the
// lines and clears the display memory.
//
// The display is left off. Call SetBrightness to turn it on.
func New(clk gpio.PinOut, dio gpio.PinIO, stb gpio.PinOut) (*Dev, error) {
	if clk == nil || dio == nil || stb == nil {
		return nil, errors.New("tm1638: clk, dio and stb lines are required")
	}
	d := &Dev{
		clk:  clk,
		dio:  dio,
		stb:  stb,
		spin: cpu.Nanospin,
	}
	d.LEDs = makeLEDs(d)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init drives all three lines as outputs with CLK and STB idle high, then
// clears the display memory.
//
// It can be called again at any time, including after Halt, to bring the
// lines and the chip back to a known state.
func (d *Dev) Init() error {
	if err := d.clk.Out(gpio.High); err != nil {
		return fmt.Errorf("tm1638: failed to pull CLK high: %w", err)
	}
	if err := d.dio.Out(gpio.Low); err != nil {
		return fmt.Errorf("tm1638: failed to set DIO as output: %w", err)
	}
	if err := d.stb.Out(gpio.High); err != nil {
		return fmt.Errorf("tm1638: failed to pull STB high: %w", err)
	}
	d.halted = false
	return d.clear()
}

// Clear turns off every digit segment, decimal point and LED.
func (d *Dev) Clear() error {
	if d.halted {
		return errHalted
	}
	return d.clear()
}

func (d *Dev) clear() error {
	if err := d.transact(cmdDataWrite); err != nil {
		return err
	}
	var w [1 + memSize]byte
	w[0] = cmdAddress
	return d.transact(w[:]...)
}

// SetBrightness sets the display brightness.
//
// 0 turns the display off, 1-8 turns it on with increasing brightness.
// Values outside that range are clamped.
func (d *Dev) SetBrightness(level int) error {
	if d.halted {
		return errHalted
	}
	return d.transact(brightnessCommand(level))
}

func brightnessCommand(level int) byte {
	if level <= 0 {
		return cmdDisplayOff
	}
	if level > MaxBrightness {
		level = MaxBrightness
	}
	return cmdDisplayOn | byte(level-1)
}

// SetLEDs sets all discrete LEDs at once. Bit i of mask lights LEDs[i].
//
// Each LED is written with its own transaction, position 0 first.
func (d *Dev) SetLEDs(mask byte) error {
	if d.halted {
		return errHalted
	}
	if err := d.transact(cmdDataWrite); err != nil {
		return err
	}
	for i := 0; i < NumLEDs; i++ {
		if err := d.transact(ledAddress(i), mask>>uint(i)&1); err != nil {
			return err
		}
	}
	return nil
}

// SetLED lights or clears a single discrete LED without touching the others.
func (d *Dev) SetLED(i int, on bool) error {
	if d.halted {
		return errHalted
	}
	if i < 0 || i >= NumLEDs {
		return fmt.Errorf("tm1638: LED %d out of range", i)
	}
	if err := d.transact(cmdDataWrite); err != nil {
		return err
	}
	var v byte
	if on {
		v = 1
	}
	return d.transact(ledAddress(i), v)
}

// ShowDigits writes text to the digit positions, left to right.
//
// Digits '0'-'9' are drawn and a space blanks its position; both advance to
// the next position. A '.' lights the decimal point of the position written
// last and does not advance; a leading '.' is ignored. Every other
// character is skipped. Writing stops after NumDigits positions.
//
// Positions past the end of text are left untouched.
func (d *Dev) ShowDigits(text string) error {
	if d.halted {
		return errHalted
	}
	if err := d.transact(cmdDataWrite); err != nil {
		return err
	}
	var last [2]byte
	pos := 0
	for i := 0; i < len(text) && pos < NumDigits; i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			seg, _ := segment.ForChar(c)
			last = [2]byte{digitAddress(pos), byte(seg)}
		case c == ' ':
			last = [2]byte{digitAddress(pos), byte(segment.Blank)}
		case c == '.' && pos != 0:
			last[1] |= byte(segment.DP)
			if err := d.transact(last[:]...); err != nil {
				return err
			}
			continue
		default:
			continue
		}
		if err := d.transact(last[:]...); err != nil {
			return err
		}
		pos++
	}
	return nil
}

// WriteSegments writes raw segment patterns to the digit positions,
// starting at position 0. Patterns past NumDigits are ignored.
func (d *Dev) WriteSegments(segs []segment.Pattern) error {
	if d.halted {
		return errHalted
	}
	if err := d.transact(cmdDataWrite); err != nil {
		return err
	}
	for pos, seg := range segs {
		if pos >= NumDigits {
			break
		}
		if err := d.transact(digitAddress(pos), byte(seg)); err != nil {
			return err
		}
	}
	return nil
}

// ReadKeys returns the key state as one byte.
//
// The four scan bytes are combined as raw[i]<<i, see KeyScan.Combined. Use
// ReadKeyScan and KeyScan.Buttons for a per-button mapping.
func (d *Dev) ReadKeys() (byte, error) {
	scan, err := d.ReadKeyScan()
	if err != nil {
		return 0, err
	}
	return scan.Combined(), nil
}

// ReadKeyScan reads the four raw key scan bytes.
func (d *Dev) ReadKeyScan() (KeyScan, error) {
	var scan KeyScan
	if d.halted {
		return scan, errHalted
	}
	if err := d.transact(cmdAddress); err != nil {
		return scan, err
	}
	err := d.frame(func() error {
		if err := d.writeByte(cmdReadKeys); err != nil {
			return err
		}
		return d.withInput(func() error {
			for i := range scan {
				b, err := d.readByte()
				if err != nil {
					return err
				}
				scan[i] = b
			}
			return nil
		})
	})
	if err != nil {
		return KeyScan{}, err
	}
	return scan, nil
}

// Halt turns the display off. Other operations fail until Init is called.
func (d *Dev) Halt() error {
	d.halted = true
	return d.transact(cmdDisplayOff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("tm1638.Dev{clk=%s, dio=%s, stb=%s}", d.clk, d.dio, d.stb)
}

// digitAddress is the even display address holding the segments of
// position pos.
func digitAddress(pos int) byte {
	return cmdAddress + byte(2*pos)
}

// ledAddress is the odd display address whose bit 0 drives LED i.
func ledAddress(i int) byte {
	return cmdAddress + 1 + byte(2*i)
}

// KeyScan is the raw reply to a key scan read.
//
// The common board wires key Sn (n=1-4) to bit 0 of byte n-1 and key Sn
// (n=5-8) to bit 4 of byte n-5.
type KeyScan [4]byte

// Combined ORs the scan bytes together as raw[i]<<i.
//
// This is the value ReadKeys returns. It is not a per-button remap. Bit 0
// of byte i lands on bit i and bit 4 on bit i+4, so it matches Buttons as
// long as the chip reports nothing else; any other bit set in byte i is
// shifted onto a neighbouring key.
func (k KeyScan) Combined() byte {
	var mask byte
	for i, b := range k {
		mask |= b << uint(i)
	}
	return mask
}

// Buttons returns a mask where bit n is set when key S(n+1) is pressed.
func (k KeyScan) Buttons() byte {
	var mask byte
	for i, b := range k {
		if b&0x01 != 0 {
			mask |= 1 << uint(i)
		}
		if b&0x10 != 0 {
			mask |= 1 << uint(i+4)
		}
	}
	return mask
}

// Pressed reports whether key n (1-8) is down.
func (k KeyScan) Pressed(n int) bool {
	if n < 1 || n > NumKeys {
		return false
	}
	return k.Buttons()&(1<<uint(n-1)) != 0
}
