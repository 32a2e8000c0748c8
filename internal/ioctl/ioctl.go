// Package ioctl encodes and issues Linux ioctl requests.
package ioctl

import (
	"fmt"
	"reflect"
	"syscall"
)

// Mode is the IOCTL mode.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) Mode() Mode {
	return Mode(c >> 30 & 0x03)
}

// Size of the argument in bytes.
func (c Command) Size() int {
	return int(c >> 16 & 0x3fff)
}

func (c Command) String() string {
	var (
		mode = c.Mode()
		cmd  = c & 0xffff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, c.Size(), uintptr(cmd))
}

// Error is a failed ioctl call. It unwraps to the [syscall.Errno].
type Error struct {
	Command Command
	Errno   syscall.Errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Errno)
}

func (e *Error) Unwrap() error {
	return e.Errno
}

// Do executes the ioctl call. The argument must be a pointer, or nil.
func Do(fd uintptr, command Command, ptr interface{}) error {
	var p uintptr

	if ptr != nil {
		v := reflect.ValueOf(ptr)
		if v.Kind() != reflect.Pointer {
			return fmt.Errorf("ioctl: %s needs a pointer argument, got %T", command, ptr)
		}
		p = v.Pointer()
	}

	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(command), p)
	if errno != 0 {
		return &Error{Command: command, Errno: errno}
	}
	return nil
}

// MaxSize is the largest argument size a command can encode.
const MaxSize = 1<<14 - 1

// Encode an ioctl command.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(cmd)
}

// Pointer to a value.
func Pointer(mode Mode, ref interface{}, cmd uintptr) Command {
	size := uint16(reflect.TypeOf(ref).Elem().Size())
	return Encode(mode, size, cmd)
}

// Array of n values, passing a pointer to the first one. The size field of a command is 14 bits wide, larger
// arrays can not be passed.
func Array(mode Mode, ref interface{}, n int, cmd uintptr) (Command, error) {
	elem := int(reflect.TypeOf(ref).Elem().Size())
	if n < 1 || elem*n > MaxSize {
		return 0, fmt.Errorf("ioctl: %d values of %d bytes do not fit the %d byte argument size", n, elem, MaxSize)
	}
	return Encode(mode, uint16(elem*n), cmd), nil
}
