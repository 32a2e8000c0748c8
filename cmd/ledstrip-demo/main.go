package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ledstrip"
	"github.com/BeatGlow/ledstrip/draw"
	"github.com/BeatGlow/ledstrip/internal/config"
	"github.com/BeatGlow/ledstrip/pixel"
)

var (
	configPath = ""
	pinName    = ""
	spiPort    = ""
	pixels     = 0
	divider    = uint8(0)
	fps        = 0
	pattern    = ""
	imagePath  = ""
	verbose    = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "YAML configuration file")
	pflag.StringVar(&pinName, "pin", pinName, "output GPIO pin (default from config: GPIO10)")
	pflag.StringVar(&spiPort, "spi-port", spiPort, "SPI port name (default: first available)")
	pflag.IntVarP(&pixels, "pixels", "n", pixels, "number of LEDs (default from config: 5)")
	pflag.Uint8Var(&divider, "divider", divider, "counter clock divider (default from config: 2)")
	pflag.IntVar(&fps, "fps", fps, "frames per second (default from config: 10)")
	pflag.StringVarP(&pattern, "pattern", "p", pattern, "pattern: rotate, rainbow or image")
	pflag.StringVar(&imagePath, "image", imagePath, "image file for the image pattern")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <spi|stream|console|nrzled>\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05 PM", // extended time.Kitchen
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	if pflag.NArg() > 1 {
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = run(ctx, logger, cfg); err != nil {
		fatal(err)
	}
}

// loadConfig reads the configuration file, if any, and applies the command line on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	if pflag.NArg() == 1 {
		cfg.Backend = pflag.Arg(0)
	}
	flags := pflag.CommandLine
	if flags.Changed("pin") {
		cfg.Pin = pinName
	}
	if flags.Changed("spi-port") {
		cfg.SPI.Port = spiPort
	}
	if flags.Changed("pixels") {
		cfg.Pixels = pixels
	}
	if flags.Changed("divider") {
		cfg.Divider = divider
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("image") {
		cfg.Image = imagePath
	}

	return cfg, config.Validate(cfg)
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	output, err := open(cfg)
	if err != nil {
		return err
	}
	defer closeOutput(logger, output)
	logger.Info("using output", "output", output, "pixels", cfg.Pixels, "pattern", cfg.Pattern)

	frame := pixel.NewStripImage(cfg.Pixels)
	switch cfg.Pattern {
	case config.PatternImage:
		src, err := loadImage(cfg.Image)
		if err != nil {
			return err
		}
		if src.Bounds().Size() == frame.Bounds().Size() {
			draw.Copy(frame, src)
		} else {
			draw.Scale(frame, src)
		}
		if err = output.Draw(frame.Bounds(), frame, image.Point{}); err != nil {
			return err
		}
		<-ctx.Done()
		return nil

	case config.PatternRotate:
		draw.Gradient(frame, color.RGBA{R: 0xff, A: 0xff}, color.RGBA{B: 0xff, A: 0xff})
		draw.Segment(frame, 0, 1, color.White)
	}

	var (
		ticker = time.NewTicker(time.Second / time.Duration(cfg.FPS))
		frames int
		start  = time.Now()
	)
	defer ticker.Stop()

	for {
		switch cfg.Pattern {
		case config.PatternRainbow:
			draw.Rainbow(frame, frames, 0.5)
			err = output.Draw(frame.Bounds(), frame, image.Point{})
		case config.PatternRotate:
			err = rotate(output, frame, frames)
		}
		if err != nil {
			return err
		}
		frames++

		select {
		case <-ctx.Done():
			logger.Debug("stopped", "frames", frames, "fps", float64(frames)/time.Since(start).Seconds())
			return nil
		case <-ticker.C:
		}
	}
}

// rotate shows the frame rotated by one more pixel than before.
func rotate(output display.Drawer, frame *pixel.RGBImage, frames int) error {
	if strip, ok := output.(*ledstrip.Strip); ok {
		if frames == 0 {
			return strip.Draw(frame.Bounds(), frame, image.Point{})
		}
		return strip.Rotate(1)
	}

	if frames > 0 {
		row := frame.Row(0)
		frame.SetRow(0, append(row[1:], row[0]))
	}
	return output.Draw(frame.Bounds(), frame, image.Point{})
}

func open(cfg *config.Config) (display.Drawer, error) {
	encoderConfig := &ledstrip.Config{
		Pixels:  cfg.Pixels,
		Divider: cfg.Divider,
		Timing:  ledstrip.WS2812,
	}

	var (
		ch  ledstrip.Channel
		pin gpio.PinOut
		err error
	)
	switch cfg.Backend {
	case config.BackendSPI:
		ch, err = ledstrip.OpenSPIChannel(&ledstrip.SPIConfig{
			Port:   cfg.SPI.Port,
			Bus:    cfg.SPI.Bus,
			Device: cfg.SPI.Device,
			Base:   physic.Frequency(cfg.SPI.BaseHz) * physic.Hertz,
			Mode:   ledstrip.DefaultSPIConfig.Mode,
		})
	case config.BackendStream:
		ch, err = ledstrip.NewStreamChannel(&ledstrip.StreamConfig{
			Channel: cfg.Stream.Channel,
			Base:    physic.Frequency(cfg.Stream.BaseHz) * physic.Hertz,
		})
	case config.BackendConsole:
		ch = ledstrip.NewConsoleChannel(cfg.Pixels)
		if pin = gpioreg.ByName(cfg.Pin); pin == nil {
			// Nothing is driven, any pin will do.
			pin = &gpiotest.Pin{N: "console"}
		}
	case config.BackendNRZLED:
		return openNRZLED(cfg)
	default:
		err = fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if pin == nil {
		if pin = gpioreg.ByName(cfg.Pin); pin == nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%w: %q", ledstrip.ErrInvalidPin, cfg.Pin)
		}
	}

	enc, err := ledstrip.New(pin, ch, encoderConfig)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	slog.Debug("encoder ready", "encoder", enc, "timing", enc.Timing())
	return ledstrip.NewStrip(enc), nil
}

// openNRZLED uses the periph nrzled driver, for comparison with the SPI channel on the same wiring.
func openNRZLED(cfg *config.Config) (display.Drawer, error) {
	port, err := spireg.Open(cfg.SPI.Port)
	if err != nil {
		return nil, err
	}
	return newNRZLED(port, cfg.Pixels)
}

// nrzledStrip owns the port the driver was opened on.
type nrzledStrip struct {
	*nrzled.Dev
	port spi.PortCloser
}

func newNRZLED(port spi.PortCloser, pixels int) (*nrzledStrip, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return &nrzledStrip{Dev: dev, port: port}, nil
}

func (s *nrzledStrip) Close() error {
	return s.port.Close()
}

// closeOutput turns the strip off before releasing it.
func closeOutput(logger *slog.Logger, output display.Drawer) {
	if err := output.Halt(); err != nil {
		logger.Warn("failed to turn off the strip", "error", err)
	}
	if closer, ok := output.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close the strip", "error", err)
		}
	}
}

func loadImage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	i, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return i, nil
}

func fatal(err error) {
	var e *ledstrip.Error
	if errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "fatal: %s failed: %v\n", e.Op, e.Err)
	} else {
		fmt.Fprintln(os.Stderr, "fatal:", err)
	}
	os.Exit(1)
}
