// Package draw provides drawing helpers for LED strips.
//
// A strip is an image that is N pixels wide and 1 pixel high, so the helpers in this package work along
// the X axis of row 0 of the destination. Any [Image] will do, including the [image.RGBA] types from
// the standard library.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

// Porter-Duff operators.
const (
	Over = draw.Over
	Src  = draw.Src
)

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// Copy replaces dst with src, aligning their top left corners. Pixels outside src are left alone.
func Copy(dst Image, src image.Image) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(dst.Bounds().Min).Intersect(dst.Bounds())
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
}

// Fill sets every pixel of dst to c.
func Fill(dst Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
