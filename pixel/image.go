package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/ledstrip/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// RGBImage is a 24-bit per pixel image, stored as R, G, B bytes.
//
// A LED strip is an RGBImage of N by 1 pixels; pixel (i, 0) is the i-th LED along the wire.
type RGBImage struct {
	Buffer
}

func NewRGBImage(w, h int) *RGBImage {
	stride := w * 3
	return &RGBImage{
		Buffer: makeBuffer(w, h, stride, stride*h),
	}
}

// NewStripImage returns an image for a strip of n LEDs.
func NewStripImage(n int) *RGBImage {
	return NewRGBImage(n, 1)
}

func (p *RGBImage) ColorModel() color.Model {
	return RGBModel
}

func (p *RGBImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *RGBImage) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(p.Rect) {
		return color.Transparent
	}
	return p.RGBAt(x, y)
}

// RGBAt returns the pixel at (x, y), or black if out of bounds.
func (p *RGBImage) RGBAt(x, y int) RGB {
	if !(image.Point{x, y}).In(p.Rect) {
		return RGB{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return RGB{R: s[0], G: s[1], B: s[2]}
}

func (p *RGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	p.SetRGB(x, y, rgbModel(c).(RGB))
}

// SetRGB sets the pixel at (x, y) without going through the color model.
func (p *RGBImage) SetRGB(x, y int, c RGB) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = c.R, c.G, c.B
}

func (p *RGBImage) Fill(c color.Color) {
	v := rgbModel(c).(RGB)
	for i := 0; i+2 < len(p.Pix); i += 3 {
		p.Pix[i+0] = v.R
		p.Pix[i+1] = v.G
		p.Pix[i+2] = v.B
	}
}

// Row returns a copy of row y as a pixel sequence.
func (p *RGBImage) Row(y int) []RGB {
	out := make([]RGB, p.Rect.Dx())
	for x := range out {
		out[x] = p.RGBAt(p.Rect.Min.X+x, y)
	}
	return out
}

// SetRow copies pixels into row y, starting at the left edge. Extra pixels are ignored.
func (p *RGBImage) SetRow(y int, pixels []RGB) {
	for x, c := range pixels {
		p.SetRGB(p.Rect.Min.X+x, y, c)
	}
}
