// Package ledstriptest is meant to be used to test code that drives LED strips without hardware.
package ledstriptest

import (
	"errors"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ledstrip"
	"github.com/BeatGlow/ledstrip/pixel"
)

// BaseClock is the counter clock at divider 1 unless Clock is set.
const BaseClock = 80 * physic.MegaHertz

// Channel is a simulated pulse channel that records every signal it is asked to emit.
//
// The exported fields are read at the time of each call; set them before handing the channel to an encoder
// or while no call is in progress.
type Channel struct {
	// N identifies the channel.
	N string

	// Clock overrides the counter clock.
	Clock physic.Frequency

	// Errors returned by the corresponding methods.
	ConfigureErr error
	ClockErr     error
	StartErr     error
	CloseErr     error

	// Started, if not nil, receives a value when a transmission begins.
	Started chan struct{}

	// Hold, if not nil, keeps every transmission open until a value is received from it or it is closed.
	Hold chan struct{}

	mu      sync.Mutex
	pin     gpio.PinOut
	divider uint8
	signals []*ledstrip.Signal
	closed  bool
}

func (c *Channel) String() string {
	return c.N
}

func (c *Channel) Configure(pin gpio.PinOut, divider uint8) error {
	if c.ConfigureErr != nil {
		return c.ConfigureErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pin = pin
	c.divider = divider
	return nil
}

func (c *Channel) CounterClock() (physic.Frequency, error) {
	if c.ClockErr != nil {
		return 0, c.ClockErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pin == nil {
		return 0, ledstrip.ErrNotReady
	}
	if c.Clock != 0 {
		return c.Clock, nil
	}
	return BaseClock / physic.Frequency(c.divider), nil
}

func (c *Channel) StartBlocking(s *ledstrip.Signal) error {
	if c.StartErr != nil {
		return c.StartErr
	}
	c.mu.Lock()
	if c.pin == nil || c.closed {
		c.mu.Unlock()
		return ledstrip.ErrNotReady
	}
	c.mu.Unlock()

	if c.Started != nil {
		c.Started <- struct{}{}
	}
	if c.Hold != nil {
		<-c.Hold
	}

	c.mu.Lock()
	c.signals = append(c.signals, s)
	c.mu.Unlock()
	return nil
}

func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.CloseErr
}

// Pin is the pin the channel was configured with.
func (c *Channel) Pin() gpio.PinOut {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pin
}

// Divider is the divider the channel was configured with.
func (c *Channel) Divider() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.divider
}

// Closed reports if Close was called.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Signals returns the signals emitted so far, oldest first.
func (c *Channel) Signals() []*ledstrip.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*ledstrip.Signal(nil), c.signals...)
}

// ErrNoSignal is returned by Last if nothing was emitted.
var ErrNoSignal = errors.New("ledstriptest: no signal emitted")

// Last decodes the most recent signal using WS2812 timing at the channel's clock.
func (c *Channel) Last() ([]pixel.RGB, error) {
	signals := c.Signals()
	if len(signals) == 0 {
		return nil, ErrNoSignal
	}
	f, err := c.CounterClock()
	if err != nil {
		return nil, err
	}
	sym, err := ledstrip.WS2812.Symbols(f)
	if err != nil {
		return nil, err
	}
	return ledstrip.Decode(signals[len(signals)-1], sym)
}
