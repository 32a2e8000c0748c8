package ledstrip

import (
	"fmt"
	"math/bits"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// MaxTicks is the longest pulse a channel has to support, the range of a 15-bit duration field.
const MaxTicks = 1<<15 - 1

// ResetTime is how long the line has to stay low after a frame for the LEDs to latch the new colors.
const ResetTime = 300 * time.Microsecond

// Timing holds the high and low phase durations of the two data symbols.
type Timing struct {
	// T0H is the high phase of a "0" bit.
	T0H time.Duration

	// T0L is the low phase of a "0" bit.
	T0L time.Duration

	// T1H is the high phase of a "1" bit.
	T1H time.Duration

	// T1L is the low phase of a "1" bit.
	T1L time.Duration
}

// WS2812 are the nominal timings of the WS2812 family, within tolerance of all chips we know of.
var WS2812 = Timing{
	T0H: 350 * time.Nanosecond,
	T0L: 800 * time.Nanosecond,
	T1H: 700 * time.Nanosecond,
	T1L: 600 * time.Nanosecond,
}

func (t Timing) String() string {
	return fmt.Sprintf("T0H=%s T0L=%s T1H=%s T1L=%s", t.T0H, t.T0L, t.T1H, t.T1L)
}

// Validate checks that all phases are positive and that a "1" stays high longer than a "0".
func (t Timing) Validate() error {
	if t.T0H <= 0 || t.T0L <= 0 || t.T1H <= 0 || t.T1L <= 0 {
		return fmt.Errorf("%w: %s", ErrTiming, t)
	}
	if t.T1H <= t.T0H {
		return fmt.Errorf("%w: T1H %s must exceed T0H %s", ErrTiming, t.T1H, t.T0H)
	}
	return nil
}

// Symbols converts the timing to pulse pairs for a channel running at f.
func (t Timing) Symbols(f physic.Frequency) (Symbols, error) {
	var (
		s   = Symbols{Clock: f}
		err error
	)
	if s.One, err = NewPulsePair(f, t.T1H, t.T1L); err != nil {
		return Symbols{}, fmt.Errorf("one: %w", err)
	}
	if s.Zero, err = NewPulsePair(f, t.T0H, t.T0L); err != nil {
		return Symbols{}, fmt.Errorf("zero: %w", err)
	}
	return s, nil
}

// Ticks converts a duration to the nearest number of ticks of a counter running at f.
func Ticks(f physic.Frequency, d time.Duration) (uint16, error) {
	if f <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrClock, f)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrTickUnderflow, d)
	}
	n, ok := cycles(f, d)
	if !ok || n > MaxTicks {
		return 0, fmt.Errorf("%w: %s at %s", ErrTickOverflow, d, f)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s at %s", ErrTickUnderflow, d, f)
	}
	return uint16(n), nil
}

// nanoMicro is the scale between nanoseconds times microhertz and cycles.
const nanoMicro = uint64(time.Second/time.Nanosecond) * uint64(physic.Hertz/physic.MicroHertz)

// cycles returns round(d*f) for positive d and f. ok is false if the result does not fit in 64 bits.
func cycles(f physic.Frequency, d time.Duration) (n uint64, ok bool) {
	hi, lo := bits.Mul64(uint64(d), uint64(f))
	var carry uint64
	lo, carry = bits.Add64(lo, nanoMicro/2, 0)
	hi += carry
	if hi >= nanoMicro {
		return 0, false
	}
	n, _ = bits.Div64(hi, lo, nanoMicro)
	return n, true
}

// duration is the inverse of cycles, rounded to the nearest nanosecond.
func duration(f physic.Frequency, n uint64) time.Duration {
	if f <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(n, nanoMicro)
	var carry uint64
	lo, carry = bits.Add64(lo, uint64(f)/2, 0)
	hi += carry
	if hi >= uint64(f) {
		return time.Duration(1<<63 - 1)
	}
	d, _ := bits.Div64(hi, lo, uint64(f))
	if d > 1<<63-1 {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(d)
}

// Pulse is a single output level held for a number of counter ticks.
type Pulse struct {
	Level gpio.Level
	Ticks uint16
}

func (p Pulse) String() string {
	return fmt.Sprintf("%s×%d", p.Level, p.Ticks)
}

// Duration of the pulse on a counter running at f.
func (p Pulse) Duration(f physic.Frequency) time.Duration {
	return duration(f, uint64(p.Ticks))
}

// PulsePair is one encoded data bit: a high pulse followed by a low pulse.
type PulsePair struct {
	High Pulse
	Low  Pulse
}

// NewPulsePair converts a high and a low phase duration to a pulse pair for a counter running at f.
func NewPulsePair(f physic.Frequency, high, low time.Duration) (PulsePair, error) {
	h, err := Ticks(f, high)
	if err != nil {
		return PulsePair{}, err
	}
	l, err := Ticks(f, low)
	if err != nil {
		return PulsePair{}, err
	}
	return PulsePair{
		High: Pulse{Level: gpio.High, Ticks: h},
		Low:  Pulse{Level: gpio.Low, Ticks: l},
	}, nil
}

// Ticks is the length of the whole pair.
func (p PulsePair) Ticks() int {
	return int(p.High.Ticks) + int(p.Low.Ticks)
}

func (p PulsePair) String() string {
	return p.High.String() + " " + p.Low.String()
}

// Symbols are the two pulse pairs that encode a "1" and a "0" bit at a given counter clock.
type Symbols struct {
	One   PulsePair
	Zero  PulsePair
	Clock physic.Frequency
}

// Pair returns the pulse pair for a data bit.
func (s Symbols) Pair(bit bool) PulsePair {
	if bit {
		return s.One
	}
	return s.Zero
}

// Bit classifies a pulse pair by the length of its high phase: whichever symbol it is closest to wins, ties
// go to zero.
func (s Symbols) Bit(p PulsePair) bool {
	return absDiff(p.High.Ticks, s.One.High.Ticks) < absDiff(p.High.Ticks, s.Zero.High.Ticks)
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
