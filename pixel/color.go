package pixel

import "image/color"

// Models for the standard color types.
var (
	RGBModel color.Model = color.ModelFunc(rgbModel)
)

var (
	Black = RGB{}
	White = RGB{R: 0xff, G: 0xff, B: 0xff}
)

// RGB represents a 24-bit color as seen by an addressable LED, one byte per channel.
//
// There is no alpha channel, an LED is either lit at the given intensity or it is not.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Wire returns the channel bytes in the order WS2812-family controllers expect them on the wire:
// green, red, blue.
func (c RGB) Wire() [3]byte {
	return [3]byte{c.G, c.R, c.B}
}

// FromWire is the inverse of [RGB.Wire].
func FromWire(grb [3]byte) RGB {
	return RGB{R: grb[1], G: grb[0], B: grb[2]}
}

// IsBlack returns true if all channels are off.
func (c RGB) IsBlack() bool {
	return c.R|c.G|c.B == 0
}

func rgbModel(c color.Color) color.Color {
	switch c := c.(type) {
	case RGB:
		return c
	case color.RGBA:
		// Premultiplied, but alpha is dropped: a half transparent red is a dim red.
		return RGB{R: c.R, G: c.G, B: c.B}
	case color.NRGBA:
		return RGB{R: c.R, G: c.G, B: c.B}
	default:
		r, g, b, _ := c.RGBA()
		return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
}
