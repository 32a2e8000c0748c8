package pixel

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	for v := 0; v < 256; v += 51 {
		t.Run("", func(it *testing.T) {
			c := RGB{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2)}
			r, g, b, a := c.RGBA()
			if want := uint32(c.R) | uint32(c.R)<<8; r != want {
				it.Errorf("expected red to be %#04x, got %#04x", want, r)
			}
			if want := uint32(c.G) | uint32(c.G)<<8; g != want {
				it.Errorf("expected green to be %#04x, got %#04x", want, g)
			}
			if want := uint32(c.B) | uint32(c.B)<<8; b != want {
				it.Errorf("expected blue to be %#04x, got %#04x", want, b)
			}
			if a != 0xffff {
				it.Errorf("expected opaque alpha, got %#04x", a)
			}
		})
	}
}

func TestRGBWire(t *testing.T) {
	c := RGB{R: 0x11, G: 0x22, B: 0x33}
	if v := c.Wire(); v != [3]byte{0x22, 0x11, 0x33} {
		t.Fatalf("expected wire order G,R,B, got %#v", v)
	}
	if v := FromWire(c.Wire()); v != c {
		t.Fatalf("expected %#v, got %#v", c, v)
	}
}

func TestRGBModel(t *testing.T) {
	tests := []struct {
		Name string
		In   color.Color
		Want RGB
	}{
		{"rgb", RGB{R: 1, G: 2, B: 3}, RGB{R: 1, G: 2, B: 3}},
		{"rgba", color.RGBA{R: 0xff, G: 0x80, B: 0x01, A: 0xff}, RGB{R: 0xff, G: 0x80, B: 0x01}},
		{"nrgba", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x00}, RGB{R: 0x10, G: 0x20, B: 0x30}},
		{"gray16", color.Gray16{Y: 0xabcd}, RGB{R: 0xab, G: 0xab, B: 0xab}},
		{"white", color.White, White},
		{"black", color.Black, Black},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if v := RGBModel.Convert(test.In); v != test.Want {
				it.Errorf("expected %#v, got %#v", test.Want, v)
			}
		})
	}
}

func TestRGBIsBlack(t *testing.T) {
	if !Black.IsBlack() {
		t.Error("expected black to be black")
	}
	if (RGB{B: 1}).IsBlack() {
		t.Error("expected dim blue not to be black")
	}
}
