package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// ArgFromValue converts a driver-level value (as delivered by database/sql
// drivers) into an argument for p.
func ArgFromValue(p Param, v any) (Arg, error) {
	switch p.Kind {
	case KindHex:
		switch x := v.(type) {
		case hex.Axial:
			return Arg{Hex: x}, nil
		case string:
			a, err := hex.Parse(x)
			return Arg{Hex: a}, err
		case []byte:
			a, err := hex.Parse(string(x))
			return Arg{Hex: a}, err
		case nil:
			return Arg{}, &hex.FormatError{Input: "NULL", Reason: p.Name + " is NULL"}
		default:
			return Arg{}, &hex.FormatError{Input: fmt.Sprint(v), Reason: fmt.Sprintf("%s: cannot use %T as a coordinate", p.Name, v)}
		}
	case KindInt:
		switch x := v.(type) {
		case int64:
			return Arg{Int: x}, nil
		case int:
			return Arg{Int: int64(x)}, nil
		case float64:
			if x != float64(int64(x)) {
				return Arg{}, fmt.Errorf("%s: %v is not an integer", p.Name, x)
			}
			return Arg{Int: int64(x)}, nil
		case string:
			return ArgFromString(p, x)
		default:
			return Arg{}, fmt.Errorf("%s: cannot use %T as an integer", p.Name, v)
		}
	}
	return Arg{}, fmt.Errorf("%s: unknown parameter kind %v", p.Name, p.Kind)
}

// ArgFromString parses a command-line style argument for p.
func ArgFromString(p Param, s string) (Arg, error) {
	if p.Kind == KindHex {
		a, err := hex.Parse(s)
		return Arg{Hex: a}, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Arg{}, fmt.Errorf("%s: %q is not an integer", p.Name, s)
	}
	return Arg{Int: n}, nil
}

// Args converts a full positional argument list for op.
func (op SetOp) Args(values []any) ([]Arg, error) {
	if len(values) != len(op.Params) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", op.Name, len(op.Params), len(values))
	}
	args := make([]Arg, len(values))
	for i, v := range values {
		a, err := ArgFromValue(op.Params[i], v)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}
