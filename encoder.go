package ledstrip

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/BeatGlow/ledstrip/pixel"
)

// Config is the encoder configuration.
type Config struct {
	// Pixels is the number of LEDs on the strip. It is fixed for the lifetime of the encoder.
	Pixels int

	// Divider for the channel's tick counter.
	Divider uint8

	// Timing of the data symbols, zero for WS2812.
	Timing Timing
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Pixels:  5,
	Divider: 2,
	Timing:  WS2812,
}

// Encoder converts pixels to pulse signals and transmits them over a channel.
//
// The encoder owns its pin and channel until it is closed. It is not safe for concurrent use.
type Encoder struct {
	pin    gpio.PinOut
	ch     Channel
	name   string
	owner  string
	pixels int
	timing Timing
	closed bool
}

// New binds a channel to pin and returns an encoder for a strip of config.Pixels LEDs.
func New(pin gpio.PinOut, ch Channel, config *Config) (*Encoder, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}

	if pin == nil || pin == gpio.INVALID {
		return nil, &Error{Op: "new", Err: ErrInvalidPin}
	}
	if ch == nil {
		return nil, &Error{Op: "new", Err: ErrInvalidChannel}
	}
	if config.Pixels <= 0 {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: %d pixels", ErrLength, config.Pixels)}
	}
	if config.Divider == 0 {
		return nil, &Error{Op: "new", Err: ErrDivider}
	}

	timing := config.Timing
	if timing == (Timing{}) {
		timing = WS2812
	}
	if err := timing.Validate(); err != nil {
		return nil, &Error{Op: "new", Err: err}
	}

	name := ch.String()
	owner := realPin(pin).Name()
	if err := claim(owner, name); err != nil {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: %s on %s", err, name, owner)}
	}
	if err := ch.Configure(pin, config.Divider); err != nil {
		release(owner, name)
		return nil, &Error{Op: "new", Err: fmt.Errorf("%s: %w", name, err)}
	}

	return &Encoder{
		pin:    pin,
		ch:     ch,
		name:   name,
		owner:  owner,
		pixels: config.Pixels,
		timing: timing,
	}, nil
}

// Open is like New, but looks up the pin by name in the GPIO registry.
func Open(name string, ch Channel, config *Config) (*Encoder, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: %q", ErrInvalidPin, name)}
	}
	return New(pin, ch, config)
}

func (e *Encoder) String() string {
	return fmt.Sprintf("ws2812 %d pixels on %s via %s", e.pixels, e.pin.Name(), e.name)
}

// Len is the number of pixels every transmission must contain.
func (e *Encoder) Len() int {
	return e.pixels
}

// Timing is the symbol timing in use.
func (e *Encoder) Timing() Timing {
	return e.timing
}

// Encode builds the signal for pixels at the channel's current counter clock without transmitting it.
func (e *Encoder) Encode(pixels []pixel.RGB) (*Signal, error) {
	s, err := e.encode(pixels)
	return s, wrapError("encode", err)
}

func (e *Encoder) encode(pixels []pixel.RGB) (*Signal, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if len(pixels) != e.pixels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLength, len(pixels), e.pixels)
	}

	f, err := e.ch.CounterClock()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	sym, err := e.timing.Symbols(f)
	if err != nil {
		return nil, err
	}

	return sym.Encode(pixels)
}

// Transmit sends pixels to the strip and blocks until the last pulse has been emitted.
//
// Exactly Len pixels must be passed; they are read during the call and not retained. Any error before the
// transmission starts means nothing was sent.
func (e *Encoder) Transmit(pixels []pixel.RGB) error {
	s, err := e.encode(pixels)
	if err != nil {
		return wrapError("transmit", err)
	}
	if err = e.ch.StartBlocking(s); err != nil {
		return &Error{Op: "transmit", Err: fmt.Errorf("%s: %w", e.name, err)}
	}
	return nil
}

// Close releases the channel, the pin and the channel claims. Closing twice is a no-op.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	err := e.ch.Close()
	release(e.owner, e.name)
	return wrapError("close", err)
}
