package ledstrip

import (
	"errors"
)

// ErrHardware matches every error returned by this package, see [Error].
var ErrHardware = errors.New("hardware error")

// Errors
var (
	ErrInvalidPin     = errors.New("invalid output pin")
	ErrInvalidChannel = errors.New("invalid pulse channel")
	ErrPinInUse       = errors.New("pin already in use")
	ErrChannelInUse   = errors.New("pulse channel already in use")
	ErrDivider        = errors.New("invalid clock divider")
	ErrTiming         = errors.New("invalid pulse timing")
	ErrClock          = errors.New("invalid counter clock")
	ErrTickOverflow   = errors.New("pulse duration exceeds tick counter")
	ErrTickUnderflow  = errors.New("pulse duration shorter than one tick")
	ErrIndex          = errors.New("signal index out of range")
	ErrNotReady       = errors.New("pulse channel not ready")
	ErrFrameSize      = errors.New("frame exceeds transfer size")
	ErrLength         = errors.New("pixel count mismatch")
	ErrClosed         = errors.New("encoder closed")
)

// Error is the single error kind reported by the encoder and its channels.
//
// The cause can be inspected with [errors.Is] against the package errors; every Error also matches
// [ErrHardware]. The encoder never retries, what to do with a failure is up to the caller.
type Error struct {
	// Op is the operation that failed, such as "new" or "transmit".
	Op string

	// Err is the cause.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "ledstrip: " + e.Op + ": " + ErrHardware.Error()
	}
	return "ledstrip: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrHardware
}

// wrapError returns err as an *Error, unless it is one already.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Op: op, Err: err}
}
