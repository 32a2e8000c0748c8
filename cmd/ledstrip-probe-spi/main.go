package main

import (
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ledstrip"
	"github.com/BeatGlow/ledstrip/conn"
	"github.com/BeatGlow/ledstrip/pixel"
)

func main() {
	busFlag := pflag.Int("bus", 0, "SPI bus")
	deviceFlag := pflag.Int("device", 0, "SPI device")
	pixelsFlag := pflag.Int("pixels", 0, "number of LEDs to blank (0: only probe the clock)")
	dividerFlag := pflag.Uint8("divider", ledstrip.DefaultConfig.Divider, "counter clock divider")
	pflag.Parse()

	c, err := conn.OpenSPI(*busFlag, *deviceFlag)
	if err != nil {
		log.Fatalln("open failed: ", err)
	}
	fmt.Println("connected using", c)

	ch, err := ledstrip.NewSPIChannel(c, nil)
	if err != nil {
		log.Fatalln("channel failed: ", err)
	}

	// The spidev node does not know its pins.
	pin := &gpiotest.Pin{N: fmt.Sprintf("MOSI%d.%d", *busFlag, *deviceFlag)}
	enc, err := ledstrip.New(pin, ch, &ledstrip.Config{
		Pixels:  max(*pixelsFlag, 1),
		Divider: *dividerFlag,
	})
	if err != nil {
		log.Fatalln("encoder failed: ", err)
	}
	defer func() {
		if err := enc.Close(); err != nil {
			log.Fatalln("close failed: ", err)
		}
	}()

	f, err := ch.CounterClock()
	if err != nil {
		log.Fatalln("clock failed: ", err)
	}
	requested := ledstrip.DefaultSPIConfig.Base / physic.Frequency(*dividerFlag)
	fmt.Printf("requested %s, running at %s\n", requested, f)

	sym, err := enc.Timing().Symbols(f)
	if err != nil {
		log.Fatalln("timing not reachable at this clock: ", err)
	}
	fmt.Printf("one:  %s (%s high, %s low)\n", sym.One, sym.One.High.Duration(f), sym.One.Low.Duration(f))
	fmt.Printf("zero: %s (%s high, %s low)\n", sym.Zero, sym.Zero.High.Duration(f), sym.Zero.Low.Duration(f))

	if *pixelsFlag > 0 {
		if err = enc.Transmit(make([]pixel.RGB, *pixelsFlag)); err != nil {
			log.Fatalln("transmit failed: ", err)
		}
		fmt.Printf("blanked %d pixels\n", *pixelsFlag)
	}
}
