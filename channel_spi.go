package ledstrip

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	ledconn "github.com/BeatGlow/ledstrip/conn"
)

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the name of the port in the periph SPI registry, leave empty for the first available port.
	Port string

	// Bus and Device select the /dev/spidevB.D node used when Port is empty and no periph driver is
	// registered.
	Bus    int
	Device int

	// Base is the bus clock at divider 1.
	Base physic.Frequency

	// Mode of the bus. MOSI has to idle low, which all four clock modes do.
	Mode spi.Mode
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Base: 6400 * physic.KiloHertz,
	Mode: spi.Mode0,
}

// frequencyReporter is implemented by connections that know the clock the controller actually selected.
type frequencyReporter interface {
	Frequency() physic.Frequency
}

// SPIChannel emits signals on the MOSI line of a SPI bus, one bit per counter tick.
type SPIChannel struct {
	port   spi.Port
	name   string
	config SPIConfig
	conn   spi.Conn
	freq   physic.Frequency
	buf    []byte
}

// NewSPIChannel returns a channel for port. The port is closed with the channel if it is a [spi.PortCloser].
func NewSPIChannel(port spi.Port, config *SPIConfig) (*SPIChannel, error) {
	if port == nil {
		return nil, ErrInvalidChannel
	}
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	c := &SPIChannel{
		port:   port,
		name:   "spi " + port.String(),
		config: *config,
	}
	if c.config.Base == 0 {
		c.config.Base = DefaultSPIConfig.Base
	}
	if c.config.Base < 0 {
		return nil, fmt.Errorf("%w: base %s", ErrClock, c.config.Base)
	}
	return c, nil
}

// OpenSPIChannel opens a SPI port and returns a channel for it.
func OpenSPIChannel(config *SPIConfig) (*SPIChannel, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	var (
		port spi.PortCloser
		err  error
	)
	if port, err = spireg.Open(config.Port); err != nil {
		if config.Port != "" {
			return nil, err
		}
		if debug {
			log.Printf("ledstrip: no SPI driver registered (%v), trying spidev %d.%d", err, config.Bus, config.Device)
		}
		if port, err = ledconn.OpenSPI(config.Bus, config.Device); err != nil {
			return nil, err
		}
	}

	c, err := NewSPIChannel(port, config)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return c, nil
}

func (c *SPIChannel) String() string {
	return c.name
}

func (c *SPIChannel) Configure(pin gpio.PinOut, divider uint8) error {
	if c.conn != nil {
		return fmt.Errorf("%w: already configured", ErrChannelInUse)
	}
	if divider == 0 {
		return ErrDivider
	}
	if pins, ok := c.port.(spi.Pins); ok {
		if mosi := pins.MOSI(); mosi != nil && mosi != gpio.INVALID && realPin(mosi).Name() != realPin(pin).Name() {
			return fmt.Errorf("%w: %s is not MOSI (%s) of %s", ErrInvalidPin, pin.Name(), mosi.Name(), c.port)
		}
	}

	f := c.config.Base / physic.Frequency(divider)
	sc, err := c.port.Connect(f, c.config.Mode, 8)
	if err != nil {
		return err
	}

	c.conn = sc
	c.freq = f
	if r, ok := sc.(frequencyReporter); ok && r.Frequency() > 0 {
		c.freq = r.Frequency()
	}
	if debug {
		log.Printf("ledstrip: %s requested %s, running at %s", c, f, c.freq)
	}
	return nil
}

func (c *SPIChannel) CounterClock() (physic.Frequency, error) {
	if c.conn == nil {
		return 0, ErrNotReady
	}
	return c.freq, nil
}

func (c *SPIChannel) StartBlocking(s *Signal) error {
	if c.conn == nil {
		return ErrNotReady
	}

	c.buf = raster(c.buf, s, resetBits(c.freq))

	// The whole frame has to go out in one transfer, a pause on MOSI latches the LEDs.
	if l, ok := c.conn.(conn.Limits); ok && l.MaxTxSize() > 0 && len(c.buf) > l.MaxTxSize() {
		return fmt.Errorf("%w: %d bytes, %s takes at most %d per transfer; raise the spidev.bufsiz module parameter",
			ErrFrameSize, len(c.buf), c.port, l.MaxTxSize())
	}
	if debug {
		log.Printf("ledstrip: write %d bytes of data", len(c.buf))
	}
	return c.conn.Tx(c.buf, nil)
}

func (c *SPIChannel) Close() error {
	c.conn = nil
	if closer, ok := c.port.(spi.PortCloser); ok {
		return closer.Close()
	}
	return nil
}
