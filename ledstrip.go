// Package ledstrip contains a driver for addressable WS2812-family RGB LED strips.
//
// The LEDs are driven over a single self-clocked wire: every data bit is sent as a high pulse followed by a
// low pulse, and the ratio between the two tells the LED controller whether the bit is a one or a zero. The
// [Encoder] turns a sequence of [pixel.RGB] colors into such a pulse [Signal] and hands it to a pulse
// generating [Channel] bound to an output pin, which emits it while the caller waits.
//
// Channels are available for SPI buses ([SPIChannel]), GPIO pins that can stream bits ([StreamChannel]) and
// the terminal ([ConsoleChannel]). The [Strip] type wraps an encoder with a frame buffer that can be drawn
// on like any other image.
package ledstrip

import (
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("LEDSTRIP_DEBUG") != ""
}

// BitsPerPixel is the number of encoded bits per LED: 8 bits for each of green, red and blue.
const BitsPerPixel = 24
