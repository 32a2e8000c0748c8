package conn

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/spi"
)

func TestSPITxSize(t *testing.T) {
	c := &SPI{name: "spidev9.9", bufSize: 8}

	if err := c.Tx(make([]byte, 9), nil); !errors.Is(err, ErrTxSize) {
		t.Errorf("expected %v, got %v", ErrTxSize, err)
	}

	// Split over packets the message is still too large.
	p := []spi.Packet{
		{W: make([]byte, 5), KeepCS: true},
		{W: make([]byte, 5)},
	}
	if err := c.TxPackets(p); !errors.Is(err, ErrTxSize) {
		t.Errorf("expected %v, got %v", ErrTxSize, err)
	}
}

func TestSPITxPacketCount(t *testing.T) {
	c := &SPI{name: "spidev9.9", bufSize: 1 << 20}

	p := make([]spi.Packet, 512)
	for i := range p {
		p[i] = spi.Packet{W: []byte{0}, KeepCS: true}
	}
	err := c.TxPackets(p)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrTxSize) {
		t.Errorf("expected packet count error, got %v", err)
	}
}

func TestReadBufSize(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		Name string
		Data string
		Want int
	}{
		{"set", "65536\n", 65536},
		{"garbage", "lots\n", DefaultBufferSize},
		{"zero", "0\n", DefaultBufferSize},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			name := filepath.Join(dir, test.Name)
			if err := os.WriteFile(name, []byte(test.Data), 0o644); err != nil {
				t.Fatal(err)
			}
			if v := readBufSize(name); v != test.Want {
				t.Errorf("expected %d, got %d", test.Want, v)
			}
		})
	}

	if v := readBufSize(filepath.Join(dir, "missing")); v != DefaultBufferSize {
		t.Errorf("expected %d, got %d", DefaultBufferSize, v)
	}
}
