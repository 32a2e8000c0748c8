// Package conn implements a raw Linux spidev transport as a periph SPI port.
//
// It is used when no periph host driver claims the SPI bus, for example on boards periph does not know
// about but that do expose /dev/spidevB.D nodes.
package conn

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/ledstrip/internal/ioctl"
)

// Definitions from <spi/spidev.h>
const (
	spiCPHA = 0x01
	spiCPOL = 0x02
)

const spiDevPath = "/dev/spidev"

const (
	spiIOCMagic       = 0x6b // 'k'
	spiIOCMessage     = 0x6b00
	spiIOCMode        = 0x6b01
	spiIOCLSBFirst    = 0x6b02
	spiIOCBitsPerWord = 0x6b03
	spiIOCMaxSpeedHz  = 0x6b04
	spiIOCMode32      = 0x6b05
)

// DefaultBufferSize is the spidev bufsiz module parameter default, the largest transfer the kernel accepts.
const DefaultBufferSize = 4096

const spiBufSizePath = "/sys/module/spidev/parameters/bufsiz"

// ErrTxSize is returned for transfers larger than the spidev buffer.
var ErrTxSize = errors.New("conn: SPI transfer exceeds the spidev bufsiz module parameter")

// spiTransfer mirrors struct spi_ioc_transfer.
type spiTransfer struct {
	tx          uint64
	rx          uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	wordDelay   uint8
	pad         uint8
}

var (
	_ spi.PortCloser = (*SPI)(nil)
	_ spi.Conn       = (*SPI)(nil)
	_ conn.Limits    = (*SPI)(nil)
)

// SPI implements the spidev interface.
//
// It is both the port and, once connected, the connection; a spidev node only has one device.
type SPI struct {
	mu          sync.Mutex
	name        string
	f           *os.File
	fd          uintptr
	mode        uint8
	bitsPerWord uint8
	maxSpeedHz  uint32
	limitHz     uint32
	bufSize     int
	connected   bool
}

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	spidev := fmt.Sprintf("%s%d.%d", spiDevPath, bus, device)
	f, err := os.OpenFile(spidev, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &SPI{
		name:    spidev,
		f:       f,
		fd:      f.Fd(),
		bufSize: readBufSize(spiBufSizePath),
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.mode, spiIOCMode), &c.mode); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.bitsPerWord, spiIOCBitsPerWord), &c.bitsPerWord); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.maxSpeedHz, spiIOCMaxSpeedHz), &c.maxSpeedHz); err != nil {
		_ = f.Close()
		return nil, err
	}

	return c, nil
}

// readBufSize returns the spidev bufsiz module parameter, or the kernel default if it can not be read.
func readBufSize(name string) int {
	b, err := os.ReadFile(name)
	if err != nil {
		return DefaultBufferSize
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n <= 0 {
		return DefaultBufferSize
	}
	return n
}

func (c *SPI) Close() error {
	return c.f.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("%s mode=%d bits per word=%d max speed=%dHz", c.name, c.mode, c.bitsPerWord, c.maxSpeedHz)
}

// LimitSpeed caps the clock Connect may select.
func (c *SPI) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("conn: SPI invalid speed %s", f)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limitHz = uint32(f / physic.Hertz)
	return nil
}

// Connect configures the device. It can be called once.
func (c *SPI) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil, fmt.Errorf("conn: %s already connected", c.name)
	}
	if mode&^(spi.Mode3|spi.HalfDuplex|spi.NoCS|spi.LSBFirst) != 0 {
		return nil, fmt.Errorf("conn: SPI invalid mode %v", mode)
	}
	if bits < 1 || bits > 255 {
		return nil, fmt.Errorf("conn: SPI invalid bits %d", bits)
	}

	if err := c.setMode(uint8(mode & spi.Mode3)); err != nil {
		return nil, err
	}
	if err := c.setBitsPerWord(uint8(bits)); err != nil {
		return nil, err
	}

	hz := uint32(f / physic.Hertz)
	if c.limitHz != 0 && hz > c.limitHz {
		hz = c.limitHz
	}
	if hz > 0 {
		if err := c.setMaxSpeed(hz); err != nil {
			return nil, err
		}
	}

	c.connected = true
	return c, nil
}

// Frequency is the clock the kernel reports for the device.
func (c *SPI) Frequency() physic.Frequency {
	return physic.Frequency(c.maxSpeedHz) * physic.Hertz
}

// MaxTxSize is the largest single transfer.
func (c *SPI) MaxTxSize() int {
	return c.bufSize
}

func (c *SPI) Duplex() conn.Duplex {
	return conn.Full
}

// Tx does a single transfer. With r nil it is a plain write.
func (c *SPI) Tx(w, r []byte) error {
	if r == nil {
		if err := c.checkSize(len(w)); err != nil {
			return err
		}
		_, err := c.f.Write(w)
		return err
	}
	if len(w) != len(r) {
		return fmt.Errorf("conn: SPI write and read buffers differ in size: %d != %d", len(w), len(r))
	}
	return c.TxPackets([]spi.Packet{{W: w, R: r}})
}

// TxPackets does multiple transfers in one message, keeping CS asserted between packets that ask for it.
func (c *SPI) TxPackets(p []spi.Packet) error {
	if len(p) == 0 {
		return nil
	}

	var (
		transfers = make([]spiTransfer, len(p))
		tx, rx    int
	)
	for i, packet := range p {
		tx += len(packet.W)
		rx += len(packet.R)
		if len(packet.R) != 0 && len(packet.W) != 0 && len(packet.R) != len(packet.W) {
			return fmt.Errorf("conn: SPI packet %d write and read buffers differ in size", i)
		}
		t := &transfers[i]
		if len(packet.W) > 0 {
			t.tx = uint64(uintptr(unsafe.Pointer(&packet.W[0])))
			t.length = uint32(len(packet.W))
		}
		if len(packet.R) > 0 {
			t.rx = uint64(uintptr(unsafe.Pointer(&packet.R[0])))
			t.length = uint32(len(packet.R))
		}
		t.bitsPerWord = packet.BitsPerWord
		if packet.KeepCS {
			t.csChange = 0
		} else if i < len(p)-1 {
			t.csChange = 1
		}
	}

	if err := c.checkSize(tx); err != nil {
		return err
	}
	if err := c.checkSize(rx); err != nil {
		return err
	}
	command, err := ioctl.Array(ioctl.Write, &transfers[0], len(transfers), spiIOCMessage)
	if err != nil {
		return err
	}
	err = ioctl.Do(c.fd, command, &transfers[0])
	runtime.KeepAlive(p)
	return err
}

// checkSize rejects what the kernel would refuse with EMSGSIZE: a message moving more than bufsiz bytes in
// either direction, however it is split into transfers.
func (c *SPI) checkSize(n int) error {
	if n > c.bufSize {
		return fmt.Errorf("%w: %d bytes, %s takes at most %d", ErrTxSize, n, c.name, c.bufSize)
	}
	return nil
}

func (c *SPI) setMode(mode uint8) error {
	mode &= spiCPOL | spiCPHA

	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &mode, spiIOCMode), &mode); err != nil {
		return err
	}

	var test uint8
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &test, spiIOCMode), &test); err != nil {
		return err
	}

	if test&(spiCPOL|spiCPHA) != mode {
		return fmt.Errorf("conn: SPI attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	c.mode = mode
	return nil
}

func (c *SPI) setBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", bits)
	}

	if c.bitsPerWord != bits {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &bits, spiIOCBitsPerWord), &bits); err != nil {
			return err
		}
		c.bitsPerWord = bits
	}

	return nil
}

func (c *SPI) setMaxSpeed(hz uint32) error {
	if c.maxSpeedHz != hz {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &hz, spiIOCMaxSpeedHz), &hz); err != nil {
			return err
		}
	}

	// Read back what the driver settled on.
	var actual uint32
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &actual, spiIOCMaxSpeedHz), &actual); err != nil {
		return err
	}
	c.maxSpeedHz = actual
	return nil
}
