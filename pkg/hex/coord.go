// Package hex implements axial hex-grid coordinates with exact distance,
// range enumeration and line drawing.
package hex

import (
	"cmp"

	"fortio.org/safecast"
)

// Axial represents axial coordinates (q, r). It is the stored form of a hex
// cell; Q and R use the host's integer width.
type Axial struct {
	Q int32
	R int32
}

// Directions for axial neighbors, in the order used by Neighbors and Ring.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// DiagonalDirections are the offsets of the six cells at distance 2 that
// sit between two neighbor directions.
var DiagonalDirections = [6]Axial{
	{+2, -1}, {+1, -2}, {-1, -1}, {-2, +1}, {-1, +2}, {+1, +1},
}

// Origin is the axial zero value.
var Origin = Axial{}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) (Axial, error) {
	return narrow("add", int64(a.Q)+int64(b.Q), int64(a.R)+int64(b.R))
}

// Sub returns a-b in axial space.
func (a Axial) Sub(b Axial) (Axial, error) {
	return narrow("subtract", int64(a.Q)-int64(b.Q), int64(a.R)-int64(b.R))
}

// Scale multiplies an axial vector by k.
func (a Axial) Scale(k int) (Axial, error) {
	if a == Origin || k == 0 {
		return Origin, nil
	}
	k32, err := safecast.Conv[int32](k)
	if err != nil {
		return Axial{}, &OverflowError{Op: "scale", Err: err}
	}
	return narrow("scale", int64(a.Q)*int64(k32), int64(a.R)*int64(k32))
}

// MustAdd is Add for operands whose sum is known to fit. It panics with an
// *OverflowError otherwise.
func (a Axial) MustAdd(b Axial) Axial {
	s, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return s
}

// Compare orders coordinates lexicographically on (Q, R). It returns -1, 0
// or +1.
func Compare(a, b Axial) int {
	if c := cmp.Compare(a.Q, b.Q); c != 0 {
		return c
	}
	return cmp.Compare(a.R, b.R)
}

// Less reports whether a sorts before b.
func (a Axial) Less(b Axial) bool { return Compare(a, b) < 0 }

// Neighbors returns the six cells at distance 1, in Directions order.
func Neighbors(a Axial) ([6]Axial, error) {
	return offsets(a, &Directions)
}

// Diagonals returns the six diagonal cells at distance 2.
func Diagonals(a Axial) ([6]Axial, error) {
	return offsets(a, &DiagonalDirections)
}

func offsets(a Axial, dirs *[6]Axial) ([6]Axial, error) {
	var out [6]Axial
	for i, d := range dirs {
		b, err := a.Add(d)
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}

// narrow converts an int64 pair back into axial range.
func narrow(op string, q, r int64) (Axial, error) {
	nq, err := safecast.Conv[int32](q)
	if err != nil {
		return Axial{}, &OverflowError{Op: op, Err: err}
	}
	nr, err := safecast.Conv[int32](r)
	if err != nil {
		return Axial{}, &OverflowError{Op: op, Err: err}
	}
	return Axial{Q: nq, R: nr}, nil
}
