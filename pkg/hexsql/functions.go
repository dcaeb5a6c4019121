package hexsql

import (
	"encoding/json"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

type scalarFunc struct {
	name string
	impl any
}

func scalarFuncs() []scalarFunc {
	return []scalarFunc{
		{"hex_parse", hexParse},
		{"hex_make", hexMake},
		{"hex_q", hexQ},
		{"hex_r", hexR},
		{"hex_eq", hexEq},
		{"hex_cmp", hexCmp},
		{"hex_add", hexAdd},
		{"hex_sub", hexSub},
		{"hex_scale", hexScale},
		{"hex_distance", hexDistance},
	}
}

var coordParam = query.Param{Name: "hex", Kind: query.KindHex}

func coord(v any) (hex.Axial, error) {
	a, err := query.ArgFromValue(coordParam, v)
	return a.Hex, err
}

func coords(a, b any) (hex.Axial, hex.Axial, error) {
	x, err := coord(a)
	if err != nil {
		return hex.Axial{}, hex.Axial{}, err
	}
	y, err := coord(b)
	return x, y, err
}

func hexParse(v any) (string, error) {
	a, err := coord(v)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func hexMake(q, r int64) (string, error) {
	nq, err := safecast.Conv[int32](q)
	if err != nil {
		return "", &hex.OverflowError{Op: "hex_make", Err: err}
	}
	nr, err := safecast.Conv[int32](r)
	if err != nil {
		return "", &hex.OverflowError{Op: "hex_make", Err: err}
	}
	return hex.Axial{Q: nq, R: nr}.String(), nil
}

func hexQ(v any) (int64, error) {
	a, err := coord(v)
	return int64(a.Q), err
}

func hexR(v any) (int64, error) {
	a, err := coord(v)
	return int64(a.R), err
}

func hexEq(a, b any) (int64, error) {
	x, y, err := coords(a, b)
	if err != nil {
		return 0, err
	}
	if x == y {
		return 1, nil
	}
	return 0, nil
}

func hexCmp(a, b any) (int64, error) {
	x, y, err := coords(a, b)
	if err != nil {
		return 0, err
	}
	return int64(hex.Compare(x, y)), nil
}

func hexAdd(a, b any) (string, error) {
	x, y, err := coords(a, b)
	if err != nil {
		return "", err
	}
	s, err := x.Add(y)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

func hexSub(a, b any) (string, error) {
	x, y, err := coords(a, b)
	if err != nil {
		return "", err
	}
	d, err := x.Sub(y)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func hexScale(a any, k int64) (string, error) {
	x, err := coord(a)
	if err != nil {
		return "", err
	}
	kk, err := safecast.Conv[int](k)
	if err != nil {
		return "", &hex.OverflowError{Op: "hex_scale", Err: err}
	}
	s, err := x.Scale(kk)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

func hexDistance(a, b any) (int64, error) {
	x, y, err := coords(a, b)
	if err != nil {
		return 0, err
	}
	return hex.Distance(x, y), nil
}

// jsonFunc adapts a set operation into a scalar returning a JSON array of
// canonical coordinates.
func jsonFunc(op query.SetOp, limits query.Limits) any {
	run := func(values ...any) (string, error) {
		args, err := op.Args(values)
		if err != nil {
			return "", err
		}
		seq, err := op.Open(limits, args)
		if err != nil {
			return "", err
		}
		var cells []hex.Axial
		for a := range seq {
			cells = append(cells, a)
		}
		if cells == nil {
			cells = []hex.Axial{}
		}
		data, err := json.Marshal(cells)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op.Name, err)
		}
		return string(data), nil
	}
	switch len(op.Params) {
	case 1:
		return func(a any) (string, error) { return run(a) }
	case 2:
		return func(a, b any) (string, error) { return run(a, b) }
	default:
		return run
	}
}

// Collate orders coordinate text by (q, r) whatever literal form it is in.
// Text that does not parse sorts after every coordinate, in byte order.
func Collate(a, b string) int {
	x, errA := hex.Parse(a)
	y, errB := hex.Parse(b)
	switch {
	case errA == nil && errB == nil:
		return hex.Compare(x, y)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
