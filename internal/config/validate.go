package config

import (
	"fmt"
)

// Validate checks the configuration before any hardware is touched.
func Validate(c *Config) error {
	switch c.Backend {
	case BackendSPI, BackendStream, BackendConsole, BackendNRZLED:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	switch c.Pattern {
	case PatternRotate, PatternRainbow:
	case PatternImage:
		if c.Image == "" {
			return fmt.Errorf("config: pattern %q needs an image", c.Pattern)
		}
	default:
		return fmt.Errorf("config: unknown pattern %q", c.Pattern)
	}

	if c.Pixels <= 0 {
		return fmt.Errorf("config: pixels must be positive, got %d", c.Pixels)
	}
	if c.Divider == 0 {
		return fmt.Errorf("config: divider must be positive")
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		return fmt.Errorf("config: fps must be in 1..1000, got %d", c.FPS)
	}
	if c.Backend != BackendConsole && c.Pin == "" {
		return fmt.Errorf("config: backend %q needs a pin", c.Backend)
	}
	if c.SPI.BaseHz < 0 {
		return fmt.Errorf("config: spi.base_hz must not be negative")
	}
	if c.Stream.BaseHz < 0 {
		return fmt.Errorf("config: stream.base_hz must not be negative")
	}
	return nil
}
