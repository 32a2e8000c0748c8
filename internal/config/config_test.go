package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledstrip.yaml")
	data := []byte("backend: spi\npixels: 60\nspi:\n  port: SPI0.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Backend != BackendSPI {
		t.Errorf("expected backend %q, got %q", BackendSPI, c.Backend)
	}
	if c.Pixels != 60 {
		t.Errorf("expected 60 pixels, got %d", c.Pixels)
	}
	if c.SPI.Port != "SPI0.0" {
		t.Errorf("expected port SPI0.0, got %q", c.SPI.Port)
	}
	// Untouched keys keep their defaults.
	if c.Divider != 2 {
		t.Errorf("expected default divider 2, got %d", c.Divider)
	}
	if c.SPI.BaseHz != 6_400_000 {
		t.Errorf("expected default base 6400000, got %d", c.SPI.BaseHz)
	}
	if err := Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pixels: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledstrip.yaml")
	c := Default()
	c.Backend = BackendStream
	c.Stream.Channel = 1
	if err := Save(path, c); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *c {
		t.Errorf("expected %+v, got %+v", *c, *got)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "pwm" }},
		{"unknown pattern", func(c *Config) { c.Pattern = "sparkle" }},
		{"image without file", func(c *Config) { c.Pattern = PatternImage }},
		{"zero pixels", func(c *Config) { c.Pixels = 0 }},
		{"zero divider", func(c *Config) { c.Divider = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"spi without pin", func(c *Config) { c.Backend = BackendSPI; c.Pin = "" }},
		{"negative base", func(c *Config) { c.SPI.BaseHz = -1 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			if err := Validate(c); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
