// Package query names the set-producing hex operations so that every
// boundary (SQL functions, websocket messages, CLI) resolves arguments,
// applies limits and reports errors the same way.
package query

import (
	"errors"
	"fmt"
	"iter"

	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// ErrLimit matches every *LimitError.
var ErrLimit = errors.New("query: limit exceeded")

// LimitError reports a request larger than the configured limits allow.
type LimitError struct {
	Op    string
	What  string
	Value int64
	Limit int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s %d exceeds limit %d", e.Op, e.What, e.Value, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrLimit }

// Limits bounds the work a single operation may do. Zero means unlimited.
type Limits struct {
	MaxRadius       int
	MaxLineDistance int64
}

func (l Limits) checkRadius(op string, radius int) error {
	if l.MaxRadius > 0 && radius > l.MaxRadius {
		return &LimitError{Op: op, What: "radius", Value: int64(radius), Limit: int64(l.MaxRadius)}
	}
	return nil
}

func (l Limits) checkLine(op string, a, b hex.Axial) error {
	if l.MaxLineDistance <= 0 {
		return nil
	}
	if d := hex.Distance(a, b); d > l.MaxLineDistance {
		return &LimitError{Op: op, What: "distance", Value: d, Limit: l.MaxLineDistance}
	}
	return nil
}

// Kind is the type of an operation parameter.
type Kind int

const (
	KindHex Kind = iota
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindHex:
		return "hex"
	case KindInt:
		return "integer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param describes one positional parameter.
type Param struct {
	Name string
	Kind Kind
}

// Arg is a resolved argument; only the field matching the parameter kind
// is meaningful.
type Arg struct {
	Hex hex.Axial
	Int int64
}

// SetOp is a named operation producing a finite sequence of coordinates.
type SetOp struct {
	Name   string
	Params []Param
	run    func(l Limits, args []Arg) (iter.Seq[hex.Axial], error)
}

// Open validates args against the parameter list and the limits and
// returns the sequence. Nothing is computed until the sequence is ranged.
func (op SetOp) Open(l Limits, args []Arg) (iter.Seq[hex.Axial], error) {
	if len(args) != len(op.Params) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", op.Name, len(op.Params), len(args))
	}
	return op.run(l, args)
}

var setOps = []SetOp{
	{
		Name:   "hexes_in_range",
		Params: []Param{{"center", KindHex}, {"radius", KindInt}},
		run: func(l Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			return disk("hexes_in_range", l, args, hex.HexesInRange)
		},
	},
	{
		Name:   "linedraw",
		Params: []Param{{"a", KindHex}, {"b", KindHex}},
		run: func(l Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			if err := l.checkLine("linedraw", args[0].Hex, args[1].Hex); err != nil {
				return nil, err
			}
			return hex.LineDraw(args[0].Hex, args[1].Hex), nil
		},
	},
	{
		Name:   "neighbors",
		Params: []Param{{"center", KindHex}},
		run: func(_ Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			ns, err := hex.Neighbors(args[0].Hex)
			if err != nil {
				return nil, err
			}
			return sliceSeq(ns[:]), nil
		},
	},
	{
		Name:   "diagonals",
		Params: []Param{{"center", KindHex}},
		run: func(_ Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			ds, err := hex.Diagonals(args[0].Hex)
			if err != nil {
				return nil, err
			}
			return sliceSeq(ds[:]), nil
		},
	},
	{
		Name:   "ring_path",
		Params: []Param{{"center", KindHex}, {"radius", KindInt}},
		run: func(l Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			return disk("ring_path", l, args, hex.Ring)
		},
	},
	{
		Name:   "spiral_path",
		Params: []Param{{"center", KindHex}, {"radius", KindInt}},
		run: func(l Limits, args []Arg) (iter.Seq[hex.Axial], error) {
			return disk("spiral_path", l, args, hex.Spiral)
		},
	},
}

// SetOps returns every set-producing operation.
func SetOps() []SetOp {
	out := make([]SetOp, len(setOps))
	copy(out, setOps)
	return out
}

// Lookup finds a set-producing operation by name.
func Lookup(name string) (SetOp, bool) {
	for _, op := range setOps {
		if op.Name == name {
			return op, true
		}
	}
	return SetOp{}, false
}

func disk(op string, l Limits, args []Arg, f func(hex.Axial, int) (iter.Seq[hex.Axial], error)) (iter.Seq[hex.Axial], error) {
	radius := args[1].Int
	if radius < 0 {
		return nil, &hex.DomainError{Op: op, Arg: "radius", Value: int(radius)}
	}
	if err := l.checkRadius(op, int(radius)); err != nil {
		return nil, err
	}
	return f(args[0].Hex, int(radius))
}

func sliceSeq(cells []hex.Axial) iter.Seq[hex.Axial] {
	return func(yield func(hex.Axial) bool) {
		for _, c := range cells {
			if !yield(c) {
				return
			}
		}
	}
}
