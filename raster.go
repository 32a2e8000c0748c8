package ledstrip

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// raster packs a signal into a bit stream of one bit per counter tick, most significant bit first, followed
// by tail low bits. The returned slice reuses dst if it is large enough.
func raster(dst []byte, s *Signal, tail int) []byte {
	size := (s.Ticks() + tail + 7) / 8
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
		clear(dst)
	}

	var pos int
	for _, p := range s.pairs {
		pos = rasterPulse(dst, pos, p.High)
		pos = rasterPulse(dst, pos, p.Low)
	}
	return dst
}

func rasterPulse(dst []byte, pos int, p Pulse) int {
	end := pos + int(p.Ticks)
	if p.Level == gpio.High {
		for i := pos; i < end; i++ {
			dst[i>>3] |= 0x80 >> (i & 7)
		}
	}
	return end
}

// resetBits is the number of low ticks that cover ResetTime at f.
func resetBits(f physic.Frequency) int {
	n, ok := cycles(f, ResetTime)
	if !ok {
		return 0
	}
	return int(n) + 1
}
