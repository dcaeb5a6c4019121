package hex

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrFormat    = errors.New("hex: malformed coordinate")
	ErrDomain    = errors.New("hex: argument out of domain")
	ErrOverflow  = errors.New("hex: integer overflow")
	ErrInvariant = errors.New("hex: cube invariant violated")
)

// FormatError reports text that is not a valid coordinate literal.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("hex: invalid coordinate %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// DomainError reports an argument outside the domain of an operation,
// such as a negative radius.
type DomainError struct {
	Op    string
	Arg   string
	Value int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("hex: %s: %s must be non-negative, got %d", e.Op, e.Arg, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// OverflowError reports a result that does not fit the int32 axial range.
type OverflowError struct {
	Op  string
	Err error
}

func (e *OverflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hex: %s overflows int32: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("hex: %s overflows int32", e.Op)
}

func (e *OverflowError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrOverflow, e.Err}
	}
	return []error{ErrOverflow}
}

// InvariantError reports a cube triple whose components do not sum to zero.
type InvariantError struct {
	Cube Cube
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hex: cube (%d, %d, %d) does not satisfy x+y+z=0", e.Cube.X, e.Cube.Y, e.Cube.Z)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
