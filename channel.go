package ledstrip

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Channel is a pulse generating peripheral that can be bound to one output pin.
type Channel interface {
	// String identifies the channel. Two channels with the same name are the same hardware.
	String() string

	// Configure binds the channel to pin and sets the clock divider of its tick counter.
	Configure(pin gpio.PinOut, divider uint8) error

	// CounterClock is the frequency the tick counter actually runs at after Configure.
	CounterClock() (physic.Frequency, error)

	// StartBlocking emits the signal and returns once the last pulse has been sent.
	StartBlocking(*Signal) error

	// Close releases the peripheral.
	Close() error
}

// claims tracks the pins and channels owned by open encoders.
var claims = struct {
	sync.Mutex
	pins     map[string]bool
	channels map[string]bool
}{
	pins:     make(map[string]bool),
	channels: make(map[string]bool),
}

// realPin follows aliases down to the pin that owns the hardware.
func realPin(p gpio.PinOut) gpio.PinOut {
	for {
		r, ok := p.(gpio.RealPin)
		if !ok {
			return p
		}
		p = r.Real()
	}
}

// claim takes exclusive ownership of a pin and a channel by name, or of neither. Pins are claimed by the name
// of their real pin, so an alias and its target can not be owned twice.
func claim(pin, ch string) error {
	claims.Lock()
	defer claims.Unlock()

	if claims.pins[pin] {
		return ErrPinInUse
	}
	if claims.channels[ch] {
		return ErrChannelInUse
	}
	claims.pins[pin] = true
	claims.channels[ch] = true
	return nil
}

func release(pin, ch string) {
	claims.Lock()
	defer claims.Unlock()

	delete(claims.pins, pin)
	delete(claims.channels, ch)
}
