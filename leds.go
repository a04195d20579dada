package tm1638

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ledPin is one discrete LED of the board exposed as an output pin.
type ledPin struct {
	name   string
	number int
	dev    *Dev
}

func makeLEDs(d *Dev) []gpio.PinOut {
	pins := make([]gpio.PinOut, NumLEDs)
	for ix := range pins {
		pins[ix] = &ledPin{name: fmt.Sprintf("TM1638_LED%d", ix), number: ix, dev: d}
	}
	return pins
}

func (p *ledPin) Name() string {
	return p.name
}

func (p *ledPin) Number() int {
	return p.number
}

func (p *ledPin) String() string {
	return p.name
}

func (p *ledPin) Function() string {
	return "Out"
}

// Halt turns the LED off.
func (p *ledPin) Halt() error {
	return p.Out(gpio.Low)
}

// Out lights the LED on gpio.High.
func (p *ledPin) Out(l gpio.Level) error {
	return p.dev.SetLED(p.number, bool(l))
}

func (p *ledPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tm1638: PWM not supported on LED pins")
}

var _ gpio.PinOut = &ledPin{}
