// Package config loads the demo configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Backends
const (
	BackendSPI     = "spi"
	BackendStream  = "stream"
	BackendConsole = "console"
	BackendNRZLED  = "nrzled"
)

// Patterns
const (
	PatternRotate  = "rotate"
	PatternRainbow = "rainbow"
	PatternImage   = "image"
)

type SPI struct {
	Port   string `yaml:"port"`    // periph port name, e.g. SPI0.0; empty for the first one
	Bus    int    `yaml:"bus"`     // spidev fallback
	Device int    `yaml:"device"`  // spidev fallback
	BaseHz int64  `yaml:"base_hz"` // bus clock at divider 1
}

type Stream struct {
	Channel int   `yaml:"channel"`
	BaseHz  int64 `yaml:"base_hz"`
}

type Config struct {
	Backend string `yaml:"backend"` // spi | stream | console | nrzled
	Pin     string `yaml:"pin"`     // GPIO name, e.g. GPIO10
	Pixels  int    `yaml:"pixels"`
	Divider uint8  `yaml:"divider"`
	FPS     int    `yaml:"fps"`
	Pattern string `yaml:"pattern"` // rotate | rainbow | image
	Image   string `yaml:"image,omitempty"`

	SPI    SPI    `yaml:"spi"`
	Stream Stream `yaml:"stream"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend: BackendConsole,
		Pin:     "GPIO10",
		Pixels:  5,
		Divider: 2,
		FPS:     10,
		Pattern: PatternRotate,
		SPI: SPI{
			BaseHz: 6_400_000,
		},
		Stream: Stream{
			BaseHz: 10_000_000,
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
