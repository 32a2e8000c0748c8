package ledstrip

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/screen1d"

	"github.com/BeatGlow/ledstrip/pixel"
)

// ConsoleClock is the base clock of the console channel, as found on the RMT peripheral of the ESP32.
const ConsoleClock = 80 * physic.MegaHertz

// ConsoleChannel decodes the signals it is given and shows the colors in the terminal.
type ConsoleChannel struct {
	// Timing used to tell ones from zeros when decoding, WS2812 if zero.
	Timing Timing

	dev  *screen1d.Dev
	img  *pixel.RGBImage
	n    int
	freq physic.Frequency
}

// NewConsoleChannel returns a channel that shows n LEDs.
func NewConsoleChannel(n int) *ConsoleChannel {
	return &ConsoleChannel{n: n}
}

func (c *ConsoleChannel) String() string {
	return fmt.Sprintf("console %d", c.n)
}

func (c *ConsoleChannel) Configure(_ gpio.PinOut, divider uint8) error {
	if c.dev != nil {
		return fmt.Errorf("%w: already configured", ErrChannelInUse)
	}
	if divider == 0 {
		return ErrDivider
	}
	if c.n <= 0 {
		return fmt.Errorf("%w: %d pixels", ErrLength, c.n)
	}
	c.dev = screen1d.New(&screen1d.Opts{X: c.n})
	c.img = pixel.NewStripImage(c.n)
	c.freq = ConsoleClock / physic.Frequency(divider)
	return nil
}

func (c *ConsoleChannel) CounterClock() (physic.Frequency, error) {
	if c.dev == nil {
		return 0, ErrNotReady
	}
	return c.freq, nil
}

func (c *ConsoleChannel) StartBlocking(s *Signal) error {
	if c.dev == nil {
		return ErrNotReady
	}

	timing := c.Timing
	if timing == (Timing{}) {
		timing = WS2812
	}
	sym, err := timing.Symbols(c.freq)
	if err != nil {
		return err
	}
	pixels, err := Decode(s, sym)
	if err != nil {
		return err
	}

	c.img.Clear()
	c.img.SetRow(0, pixels)
	return c.dev.Draw(c.img.Bounds(), c.img, image.Point{})
}

func (c *ConsoleChannel) Close() error {
	if c.dev == nil {
		return nil
	}
	err := c.dev.Halt()
	c.dev = nil
	return err
}
