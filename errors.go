package glyphrun

import (
	"errors"
	"fmt"
)

// Sentinel errors for the glyphrun package.
var (
	// ErrInvalidHandle is returned when a run or font is nil, was never
	// registered with its engine, or has been released.
	ErrInvalidHandle = errors.New("glyphrun: invalid handle")

	// ErrTypeMismatch is returned when an engine hands back a value whose
	// element type or length does not match the requested channel.
	ErrTypeMismatch = errors.New("glyphrun: type mismatch")

	// ErrUnsupported is returned when an engine does not advertise the
	// capability an operation needs.
	ErrUnsupported = errors.New("glyphrun: operation not supported by engine")

	// ErrRangeOutOfBounds is returned when a requested glyph range does not
	// fit inside the run.
	ErrRangeOutOfBounds = errors.New("glyphrun: range out of bounds")
)

// ConversionError describes a failed conversion of an opaque engine value
// into a typed slice. It unwraps to ErrTypeMismatch.
type ConversionError struct {
	Want    string
	Got     string
	WantLen int
	GotLen  int
}

func (e *ConversionError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("glyphrun: cannot convert %s to %s", e.Got, e.Want)
	}
	return fmt.Sprintf("glyphrun: %s has %d elements, want %d", e.Got, e.GotLen, e.WantLen)
}

func (e *ConversionError) Unwrap() error { return ErrTypeMismatch }

// ChannelError records which channel access failed and why.
type ChannelError struct {
	Channel Channel
	Op      string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("glyphrun: %s %s: %v", e.Op, e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
