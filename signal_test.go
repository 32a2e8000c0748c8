package ledstrip

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ledstrip/pixel"
)

func testSymbols(t *testing.T) Symbols {
	t.Helper()
	sym, err := WS2812.Symbols(40 * physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	return sym
}

// bitsOf returns the encoded bits of a signal as a string of 0 and 1.
func bitsOf(sym Symbols, s *Signal) string {
	b := make([]byte, s.Len())
	for i, p := range s.Pairs() {
		switch p {
		case sym.One:
			b[i] = '1'
		case sym.Zero:
			b[i] = '0'
		default:
			b[i] = '?'
		}
	}
	return string(b)
}

func TestSignalSet(t *testing.T) {
	s := NewSignal(2)
	p := PulsePair{High: Pulse{gpio.High, 1}, Low: Pulse{gpio.Low, 2}}
	for _, i := range []int{0, 1} {
		if err := s.Set(i, p); err != nil {
			t.Errorf("set %d: %v", i, err)
		}
	}
	for _, i := range []int{-1, 2, 24} {
		if err := s.Set(i, p); !errors.Is(err, ErrIndex) {
			t.Errorf("set %d: expected %v, got %v", i, ErrIndex, err)
		}
	}
	if s.At(1) != p {
		t.Errorf("expected %s, got %s", p, s.At(1))
	}
	if n := s.Ticks(); n != 6 {
		t.Errorf("expected 6 ticks, got %d", n)
	}
}

func TestEncode(t *testing.T) {
	sym := testSymbols(t)

	tests := []struct {
		Name   string
		Pixels []pixel.RGB
		Want   string
	}{
		{"empty", nil, ""},
		{"black", []pixel.RGB{{}}, "000000000000000000000000"},
		{"white", []pixel.RGB{pixel.White}, "111111111111111111111111"},
		{"red is sent second", []pixel.RGB{{R: 0xff}}, "000000001111111100000000"},
		{"green is sent first", []pixel.RGB{{G: 0xff}}, "111111110000000000000000"},
		{"blue is sent last", []pixel.RGB{{B: 0xff}}, "000000000000000011111111"},
		{"msb first", []pixel.RGB{{G: 0x80, R: 0x01}}, "100000000000000100000000"},
		{"pixel order", []pixel.RGB{{B: 0x01}, {G: 0x80}}, "000000000000000000000001" + "100000000000000000000000"},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			s, err := sym.Encode(test.Pixels)
			if err != nil {
				t.Fatal(err)
			}
			if s.Len() != len(test.Pixels)*BitsPerPixel {
				t.Fatalf("expected %d pairs, got %d", len(test.Pixels)*BitsPerPixel, s.Len())
			}
			if got := bitsOf(sym, s); got != test.Want {
				t.Errorf("expected\n%s, got\n%s", test.Want, got)
			}
		})
	}
}

func TestEncodeDecodeAllValues(t *testing.T) {
	sym := testSymbols(t)

	pixels := make([]pixel.RGB, 256)
	for i := range pixels {
		pixels[i] = pixel.RGB{R: uint8(i), G: uint8(255 - i), B: uint8(i * 7)}
	}
	s, err := sym.Encode(pixels)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(s, sym)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(pixels) {
		t.Fatalf("expected %d pixels, got %d", len(pixels), len(got))
	}
	for i := range pixels {
		if got[i] != pixels[i] {
			t.Errorf("pixel %d: expected %+v, got %+v", i, pixels[i], got[i])
		}
	}
}

func TestDecodeLength(t *testing.T) {
	if _, err := Decode(NewSignal(25), testSymbols(t)); !errors.Is(err, ErrLength) {
		t.Errorf("expected %v, got %v", ErrLength, err)
	}
}

func TestRaster(t *testing.T) {
	sym := Symbols{
		One:  PulsePair{High: Pulse{gpio.High, 2}, Low: Pulse{gpio.Low, 2}},
		Zero: PulsePair{High: Pulse{gpio.High, 1}, Low: Pulse{gpio.Low, 3}},
	}
	s, err := sym.Encode([]pixel.RGB{{G: 0xa0}})
	if err != nil {
		t.Fatal(err)
	}

	buf := raster(nil, s, 16)
	if len(buf) != 24*4/8+2 {
		t.Fatalf("expected %d bytes, got %d", 24*4/8+2, len(buf))
	}
	// G = 1010 0000: 1100 1000 1100 1000, then 1000 for every other bit.
	want := []byte{0xc8, 0xc8, 0x88, 0x88}
	for i, b := range want {
		if buf[i] != b {
			t.Errorf("byte %d: expected %#02x, got %#02x", i, b, buf[i])
		}
	}
	for i := 4; i < 12; i++ {
		if buf[i] != 0x88 {
			t.Errorf("byte %d: expected %#02x, got %#02x", i, 0x88, buf[i])
		}
	}
	for i := 12; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Errorf("reset byte %d: expected 0, got %#02x", i, buf[i])
		}
	}

	// Reused buffers are cleared.
	again := raster(buf, s, 16)
	if &again[0] != &buf[0] {
		t.Error("expected buffer to be reused")
	}
	if again[12] != 0 || again[0] != 0xc8 {
		t.Errorf("expected reused buffer to be rewritten, got % x", again)
	}
}

func TestResetBits(t *testing.T) {
	// 300µs at 3.2MHz is 960 ticks.
	if n := resetBits(3200 * physic.KiloHertz); n < 960 {
		t.Errorf("expected at least 960 reset bits, got %d", n)
	}
}
