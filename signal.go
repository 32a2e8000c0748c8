package ledstrip

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ledstrip/pixel"
)

// Signal is a fixed length sequence of pulse pairs, one per data bit.
type Signal struct {
	pairs []PulsePair
}

// NewSignal returns a signal of n zero length pairs.
func NewSignal(n int) *Signal {
	return &Signal{pairs: make([]PulsePair, n)}
}

// Len is the number of pairs.
func (s *Signal) Len() int {
	return len(s.pairs)
}

// Set stores the pair at index i.
func (s *Signal) Set(i int, p PulsePair) error {
	if i < 0 || i >= len(s.pairs) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, len(s.pairs))
	}
	s.pairs[i] = p
	return nil
}

// At returns the pair at index i. It panics if i is out of range.
func (s *Signal) At(i int) PulsePair {
	return s.pairs[i]
}

// Pairs returns the pairs in transmission order. The slice is shared with the signal.
func (s *Signal) Pairs() []PulsePair {
	return s.pairs
}

// Ticks is the total length of the signal in counter ticks.
func (s *Signal) Ticks() (n int) {
	for _, p := range s.pairs {
		n += p.Ticks()
	}
	return
}

// Duration is the time it takes to emit the signal on a counter running at f, excluding the reset time.
func (s *Signal) Duration(f physic.Frequency) time.Duration {
	return duration(f, uint64(s.Ticks()))
}

// Encode builds the signal for pixels.
//
// Every pixel contributes 24 pairs: the green, red and blue bytes in that order, each most significant bit
// first. Bit b of byte c of pixel p ends up at index p*24 + c*8 + b.
func (s Symbols) Encode(pixels []pixel.RGB) (*Signal, error) {
	sig := NewSignal(len(pixels) * BitsPerPixel)
	for p, c := range pixels {
		for i, v := range c.Wire() {
			for b := 0; b < 8; b++ {
				if err := sig.Set(p*BitsPerPixel+i*8+b, s.Pair(v&(0x80>>b) != 0)); err != nil {
					return nil, err
				}
			}
		}
	}
	return sig, nil
}

// Decode recovers the pixels from a signal produced with the same symbols.
func Decode(s *Signal, sym Symbols) ([]pixel.RGB, error) {
	if s.Len()%BitsPerPixel != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of pixels", ErrLength, s.Len())
	}
	out := make([]pixel.RGB, s.Len()/BitsPerPixel)
	for p := range out {
		var grb [3]byte
		for i := range grb {
			for b := 0; b < 8; b++ {
				if sym.Bit(s.pairs[p*BitsPerPixel+i*8+b]) {
					grb[i] |= 0x80 >> b
				}
			}
		}
		out[p] = pixel.FromWire(grb)
	}
	return out, nil
}
