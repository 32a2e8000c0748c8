package draw

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
)

// Segment sets the pixels [from, to) of the strip to c. The range is clipped to the strip bounds.
func Segment(dst Image, from, to int, c color.Color) {
	r := dst.Bounds()
	if from < r.Min.X {
		from = r.Min.X
	}
	if to > r.Max.X {
		to = r.Max.X
	}
	for x := from; x < to; x++ {
		dst.Set(x, r.Min.Y, c)
	}
}

// Gradient fills the strip with a linear blend from a (first pixel) to b (last pixel).
func Gradient(dst Image, a, b color.Color) {
	var (
		r     = dst.Bounds()
		n     = r.Dx()
		ca, _ = colorful.MakeColor(opaque(a))
		cb, _ = colorful.MakeColor(opaque(b))
	)
	for i := 0; i < n; i++ {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		dst.Set(r.Min.X+i, r.Min.Y, rgba(ca.BlendRgb(cb, t)))
	}
}

// Rainbow spreads one full turn of the hue circle over the strip.
//
// The offset shifts the hue of the first pixel, in pixels; incrementing it on every frame makes the rainbow
// run along the strip. The value sets the HSV value (brightness) in the range [0, 1].
func Rainbow(dst Image, offset int, value float64) {
	var (
		r = dst.Bounds()
		n = r.Dx()
	)
	if n == 0 {
		return
	}
	value = math.Max(0, math.Min(1, value))
	for i := 0; i < n; i++ {
		h := float64(((i+offset)%n+n)%n) * 360 / float64(n)
		dst.Set(r.Min.X+i, r.Min.Y, rgba(colorful.Hsv(h, 1, value)))
	}
}

// Scale draws src onto the strip, resampled to fit its bounds.
//
// Images taller than one pixel are averaged down to a single row, which is useful to show a picture
// or a video frame on a single strip.
func Scale(dst Image, src image.Image) {
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// colorful.MakeColor fails on fully transparent colors.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}
}
