package ledstrip

import (
	"image"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/ledstrip/draw"
	"github.com/BeatGlow/ledstrip/pixel"
)

var _ display.Drawer = (*Strip)(nil)

// Strip is a frame buffer for an encoder's LEDs that can be drawn on like any image.
//
// Pixel (i, 0) is the i-th LED along the wire. Drawing operations other than Draw only update the frame
// buffer, call Refresh to send it.
type Strip struct {
	*pixel.RGBImage
	enc *Encoder
}

// NewStrip returns a strip with all LEDs off.
func NewStrip(enc *Encoder) *Strip {
	return &Strip{
		RGBImage: pixel.NewStripImage(enc.Len()),
		enc:      enc,
	}
}

func (s *Strip) String() string {
	return s.enc.String()
}

// Encoder used by the strip.
func (s *Strip) Encoder() *Encoder {
	return s.enc
}

// Pixels returns a copy of the frame buffer.
func (s *Strip) Pixels() []pixel.RGB {
	return s.Row(0)
}

// SetPixels replaces the frame buffer.
func (s *Strip) SetPixels(pixels []pixel.RGB) error {
	if len(pixels) != s.enc.Len() {
		return &Error{Op: "set", Err: ErrLength}
	}
	s.SetRow(0, pixels)
	return nil
}

// Refresh transmits the frame buffer.
func (s *Strip) Refresh() error {
	return s.enc.Transmit(s.Row(0))
}

// Draw copies src into the frame buffer and refreshes the strip.
func (s *Strip) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(s.RGBImage, r, src, sp, draw.Src)
	return s.Refresh()
}

// Rotate shifts the pixels k positions towards the start of the strip, wrapping around, and refreshes the
// strip. Negative k rotates the other way.
func (s *Strip) Rotate(k int) error {
	pixels := s.Row(0)
	rotate(pixels, k)
	s.SetRow(0, pixels)
	return s.Refresh()
}

// Halt turns all LEDs off.
func (s *Strip) Halt() error {
	s.Clear()
	return s.Refresh()
}

// Close turns all LEDs off and closes the encoder.
func (s *Strip) Close() error {
	if s.enc.closed {
		return nil
	}
	err := s.Halt()
	if cerr := s.enc.Close(); err == nil {
		err = cerr
	}
	return err
}

// rotate pixels left by k in place.
func rotate(pixels []pixel.RGB, k int) {
	n := len(pixels)
	if n == 0 {
		return
	}
	if k %= n; k < 0 {
		k += n
	}
	if k == 0 {
		return
	}
	reverse(pixels[:k])
	reverse(pixels[k:])
	reverse(pixels)
}

func reverse(pixels []pixel.RGB) {
	for i, j := 0, len(pixels)-1; i < j; i, j = i+1, j-1 {
		pixels[i], pixels[j] = pixels[j], pixels[i]
	}
}
