package ledstrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ledstrip/pixel"
)

// streamPin is a test pin that records bit streams.
type streamPin struct {
	*gpiotest.Pin
	streams []*gpiostream.BitStream
}

func (p *streamPin) StreamOut(s gpiostream.Stream) error {
	b := s.(*gpiostream.BitStream)
	p.streams = append(p.streams, &gpiostream.BitStream{
		Freq: b.Freq,
		Bits: append([]byte(nil), b.Bits...),
		LSBF: b.LSBF,
	})
	return nil
}

func TestStreamChannel(t *testing.T) {
	ch, err := NewStreamChannel(&StreamConfig{Channel: 7})
	require.NoError(t, err)
	assert.Equal(t, "gpiostream 7", ch.String())

	pin := &streamPin{Pin: &gpiotest.Pin{N: "GPIO_stream", L: gpio.High}}
	enc, err := New(pin, ch, nil)
	require.NoError(t, err)
	defer enc.Close()
	assert.Equal(t, gpio.Low, pin.Read(), "pin must idle low")

	f, err := ch.CounterClock()
	require.NoError(t, err)
	assert.Equal(t, 5*physic.MegaHertz, f)

	pixels := []pixel.RGB{{R: 1}, {G: 2}, {B: 3}, {}, pixel.White}
	require.NoError(t, enc.Transmit(pixels))
	require.Len(t, pin.streams, 1)

	s, err := enc.Encode(pixels)
	require.NoError(t, err)
	b := pin.streams[0]
	assert.Equal(t, 5*physic.MegaHertz, b.Freq)
	assert.False(t, b.LSBF)
	assert.Equal(t, raster(nil, s, resetBits(f)), b.Bits)
}

func TestStreamChannelInvalidPin(t *testing.T) {
	ch, err := NewStreamChannel(&StreamConfig{Channel: 8})
	require.NoError(t, err)

	_, err = New(&gpiotest.Pin{N: "GPIO_nostream"}, ch, nil)
	assert.ErrorIs(t, err, ErrInvalidPin)
}

func TestStreamChannelClose(t *testing.T) {
	ch, err := NewStreamChannel(&StreamConfig{Channel: 9})
	require.NoError(t, err)

	pin := &streamPin{Pin: &gpiotest.Pin{N: "GPIO_stream_close"}}
	enc, err := New(pin, ch, nil)
	require.NoError(t, err)
	require.NoError(t, pin.Out(gpio.High))
	require.NoError(t, enc.Close())
	assert.Equal(t, gpio.Low, pin.Read())

	_, err = ch.CounterClock()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestConsoleChannel(t *testing.T) {
	ch := NewConsoleChannel(3)
	_, err := ch.CounterClock()
	assert.ErrorIs(t, err, ErrNotReady)

	enc, err := New(&gpiotest.Pin{N: "GPIO_console"}, ch, &Config{Pixels: 3, Divider: 2})
	require.NoError(t, err)
	defer enc.Close()

	f, err := ch.CounterClock()
	require.NoError(t, err)
	assert.Equal(t, 40*physic.MegaHertz, f)

	pixels := []pixel.RGB{{R: 0xff}, {G: 0x80}, {B: 0x01}}
	require.NoError(t, enc.Transmit(pixels))
	assert.Equal(t, pixels, ch.img.Row(0))

	assert.ErrorIs(t, ch.StartBlocking(NewSignal(25)), ErrLength)
}
