package tm1638

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// bitDelay is held after every clock edge and strobe transition. The chip
// samples DIO on the rising edge of CLK and needs it stable around it.
const bitDelay = 5 * time.Microsecond

// writeByte clocks b out on DIO, least significant bit first.
// CLK is left high and DIO at the value of bit 7.
func (d *Dev) writeByte(b byte) error {
	for i := 0; i < 8; i++ {
		if err := d.clk.Out(gpio.Low); err != nil {
			return fmt.Errorf("tm1638: failed to pull CLK low: %w", err)
		}
		if err := d.dio.Out(gpio.Level(b&1 != 0)); err != nil {
			return fmt.Errorf("tm1638: failed to drive DIO: %w", err)
		}
		d.spin(bitDelay)
		if err := d.clk.Out(gpio.High); err != nil {
			return fmt.Errorf("tm1638: failed to pull CLK high: %w", err)
		}
		d.spin(bitDelay)
		b >>= 1
	}
	return nil
}

// readByte clocks a byte in from DIO, least significant bit first.
// DIO must already be an input, see withInput.
func (d *Dev) readByte() (byte, error) {
	var b byte
	for i := uint(0); i < 8; i++ {
		if err := d.clk.Out(gpio.Low); err != nil {
			return 0, fmt.Errorf("tm1638: failed to pull CLK low: %w", err)
		}
		if d.dio.Read() == gpio.High {
			b |= 1 << i
		}
		d.spin(bitDelay)
		if err := d.clk.Out(gpio.High); err != nil {
			return 0, fmt.Errorf("tm1638: failed to pull CLK high: %w", err)
		}
		d.spin(bitDelay)
	}
	return b, nil
}

// transact sends bytes as one strobe framed transaction.
func (d *Dev) transact(bytes ...byte) error {
	return d.frame(func() error {
		for _, b := range bytes {
			if err := d.writeByte(b); err != nil {
				return err
			}
			d.spin(bitDelay)
		}
		return nil
	})
}

// frame pulls STB low around fn. STB is released even when fn fails so the
// chip never stays selected.
func (d *Dev) frame(fn func() error) (err error) {
	if err := d.stb.Out(gpio.Low); err != nil {
		return fmt.Errorf("tm1638: failed to pull STB low: %w", err)
	}
	d.spin(bitDelay)
	defer func() {
		if serr := d.stb.Out(gpio.High); serr != nil && err == nil {
			err = fmt.Errorf("tm1638: failed to pull STB high: %w", serr)
		}
		d.spin(bitDelay)
	}()
	return fn()
}

// withInput turns DIO into an input for the duration of fn and hands it
// back as a low output on every return path.
func (d *Dev) withInput(fn func() error) (err error) {
	if err := d.dio.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("tm1638: failed to set DIO as input: %w", err)
	}
	defer func() {
		if oerr := d.dio.Out(gpio.Low); oerr != nil && err == nil {
			err = fmt.Errorf("tm1638: failed to restore DIO as output: %w", oerr)
		}
	}()
	return fn()
}
