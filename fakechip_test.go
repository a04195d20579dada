package tm1638

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// line is a gpiotest.Pin that reports direction changes and edges to the
// fake chip.
type line struct {
	gpiotest.Pin

	input   bool
	onOut   func(gpio.Level)
	onRead  func()
	onDir   func(input bool)
	failOut func(gpio.Level) error
}

func (l *line) Out(lv gpio.Level) error {
	if l.failOut != nil {
		if err := l.failOut(lv); err != nil {
			return err
		}
	}
	if err := l.Pin.Out(lv); err != nil {
		return err
	}
	if l.input && l.onDir != nil {
		l.onDir(false)
	}
	l.input = false
	if l.onOut != nil {
		l.onOut(lv)
	}
	return nil
}

func (l *line) In(pull gpio.Pull, edge gpio.Edge) error {
	if err := l.Pin.In(pull, edge); err != nil {
		return err
	}
	if !l.input && l.onDir != nil {
		l.onDir(true)
	}
	l.input = true
	return nil
}

func (l *line) Read() gpio.Level {
	if l.onRead != nil {
		l.onRead()
	}
	return l.Pin.Read()
}

func (l *line) level() gpio.Level {
	l.Lock()
	defer l.Unlock()
	return l.L
}

// drive sets the level seen on an input line, as the chip would.
func (l *line) drive(lv gpio.Level) {
	l.Lock()
	defer l.Unlock()
	l.L = lv
}

// fakeChip decodes the CLK/DIO/STB edges produced by a Dev into strobe
// framed byte sequences, and answers key scan reads with keys.
type fakeChip struct {
	clk, dio, stb *line

	// frames holds every byte sequence sent between STB low and STB high.
	frames [][]byte
	// keys is the reply to the read key command.
	keys KeyScan

	inFrame bool
	cur     byte
	nbit    uint
	reading bool
	rbit    int

	// events logs STB edges and DIO direction changes in order.
	events []string

	readsAsOutput int
	delays        []time.Duration
}

func newFakeChip() *fakeChip {
	c := &fakeChip{
		clk: &line{Pin: gpiotest.Pin{N: "CLK", Num: 17}},
		dio: &line{Pin: gpiotest.Pin{N: "DIO", Num: 27}},
		stb: &line{Pin: gpiotest.Pin{N: "STB", Num: 22}},
	}
	c.clk.onOut = c.onClock
	c.stb.onOut = c.onStrobe
	c.dio.onDir = func(input bool) {
		if input {
			c.events = append(c.events, "dioIn")
		} else {
			c.events = append(c.events, "dioOut")
		}
	}
	c.dio.onRead = func() {
		if !c.dio.input {
			c.readsAsOutput++
		}
	}
	return c
}

// newDev returns a Dev wired to the fake lines, without running Init.
func (c *fakeChip) newDev() *Dev {
	d := &Dev{
		clk:  c.clk,
		dio:  c.dio,
		stb:  c.stb,
		spin: func(t time.Duration) { c.delays = append(c.delays, t) },
	}
	d.LEDs = makeLEDs(d)
	return d
}

// reset forgets everything recorded so far.
func (c *fakeChip) reset() {
	c.frames = nil
	c.delays = nil
	c.events = nil
	c.readsAsOutput = 0
}

func (c *fakeChip) onStrobe(lv gpio.Level) {
	if lv == gpio.Low {
		c.events = append(c.events, "stbLow")
		c.inFrame = true
		c.frames = append(c.frames, []byte{})
		c.cur, c.nbit = 0, 0
		c.reading, c.rbit = false, 0
		return
	}
	c.events = append(c.events, "stbHigh")
	c.inFrame = false
	c.reading = false
}

func (c *fakeChip) onClock(lv gpio.Level) {
	if !c.inFrame {
		return
	}
	if lv == gpio.Low {
		// The chip shifts out the next key bit on the falling edge.
		if c.reading && c.dio.input && c.rbit < 8*len(c.keys) {
			bit := c.keys[c.rbit/8] >> uint(c.rbit%8) & 1
			c.dio.drive(bit != 0)
			c.rbit++
		}
		return
	}
	if c.dio.input {
		return
	}
	if c.dio.level() == gpio.High {
		c.cur |= 1 << c.nbit
	}
	c.nbit++
	if c.nbit == 8 {
		f := len(c.frames) - 1
		c.frames[f] = append(c.frames[f], c.cur)
		if len(c.frames[f]) == 1 && c.cur == cmdReadKeys {
			c.reading = true
		}
		c.cur, c.nbit = 0, 0
	}
}

func newTestDev(t *testing.T) (*Dev, *fakeChip) {
	t.Helper()
	c := newFakeChip()
	return c.newDev(), c
}
