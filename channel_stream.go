package ledstrip

import (
	"fmt"
	"log"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"
)

// StreamConfig describes a bit streaming channel.
type StreamConfig struct {
	// Channel number, to tell apart channels that stream on different pins.
	Channel int

	// Base is the bit rate at divider 1.
	Base physic.Frequency
}

// DefaultStreamConfig are the default configuration values.
var DefaultStreamConfig = StreamConfig{
	Base: 10 * physic.MegaHertz,
}

// StreamChannel emits signals by streaming bits out of a GPIO pin that supports it, such as the DMA backed
// pins of the bcm283x.
type StreamChannel struct {
	config StreamConfig
	pin    gpio.PinOut
	out    gpiostream.PinOut
	freq   physic.Frequency
	buf    []byte
}

// NewStreamChannel returns an unbound streaming channel.
func NewStreamChannel(config *StreamConfig) (*StreamChannel, error) {
	if config == nil {
		config = new(StreamConfig)
		*config = DefaultStreamConfig
	}
	c := &StreamChannel{config: *config}
	if c.config.Base == 0 {
		c.config.Base = DefaultStreamConfig.Base
	}
	if c.config.Base < 0 {
		return nil, fmt.Errorf("%w: base %s", ErrClock, c.config.Base)
	}
	return c, nil
}

func (c *StreamChannel) String() string {
	return "gpiostream " + strconv.Itoa(c.config.Channel)
}

func (c *StreamChannel) Configure(pin gpio.PinOut, divider uint8) error {
	if c.out != nil {
		return fmt.Errorf("%w: already configured", ErrChannelInUse)
	}
	if divider == 0 {
		return ErrDivider
	}
	out, ok := pin.(gpiostream.PinOut)
	if !ok {
		return fmt.Errorf("%w: %s can not stream", ErrInvalidPin, pin.Name())
	}
	if err := pin.Out(gpio.Low); err != nil {
		return err
	}

	c.pin = pin
	c.out = out
	c.freq = c.config.Base / physic.Frequency(divider)
	if debug {
		log.Printf("ledstrip: %s streaming on %s at %s", c, pin.Name(), c.freq)
	}
	return nil
}

func (c *StreamChannel) CounterClock() (physic.Frequency, error) {
	if c.out == nil {
		return 0, ErrNotReady
	}
	return c.freq, nil
}

func (c *StreamChannel) StartBlocking(s *Signal) error {
	if c.out == nil {
		return ErrNotReady
	}
	c.buf = raster(c.buf, s, resetBits(c.freq))
	return c.out.StreamOut(&gpiostream.BitStream{
		Freq: c.freq,
		Bits: c.buf,
		LSBF: false,
	})
}

// Close leaves the pin low.
func (c *StreamChannel) Close() error {
	if c.pin == nil {
		return nil
	}
	err := c.pin.Out(gpio.Low)
	c.pin, c.out = nil, nil
	return err
}
