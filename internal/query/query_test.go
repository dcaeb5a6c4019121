package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/hexgeo/pkg/hex"
)

func collect(t *testing.T, op SetOp, l Limits, values ...any) []hex.Axial {
	t.Helper()
	args, err := op.Args(values)
	require.NoError(t, err)
	seq, err := op.Open(l, args)
	require.NoError(t, err)
	var out []hex.Axial
	for a := range seq {
		out = append(out, a)
	}
	return out
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"hexes_in_range", "linedraw", "neighbors", "diagonals", "ring_path", "spiral_path"} {
		op, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, op.Name)
	}
	_, ok := Lookup("astar")
	assert.False(t, ok)
	assert.Len(t, SetOps(), 6)
}

func TestSetOpsProduceKernelResults(t *testing.T) {
	rng, _ := Lookup("hexes_in_range")
	assert.Len(t, collect(t, rng, Limits{}, "[0, 1]", int64(1)), 7)

	line, _ := Lookup("linedraw")
	assert.Equal(t,
		[]hex.Axial{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		collect(t, line, Limits{}, "[0,0]", []byte(`{"q":3,"r":0}`)))

	nb, _ := Lookup("neighbors")
	assert.Len(t, collect(t, nb, Limits{}, hex.Axial{Q: 1, R: 2}), 6)

	ring, _ := Lookup("ring_path")
	assert.Len(t, collect(t, ring, Limits{}, "[0,0]", int64(3)), 18)

	spiral, _ := Lookup("spiral_path")
	assert.Len(t, collect(t, spiral, Limits{}, "[0,0]", "2"), 19)
}

func TestLimits(t *testing.T) {
	l := Limits{MaxRadius: 3, MaxLineDistance: 5}

	rng, _ := Lookup("hexes_in_range")
	args, err := rng.Args([]any{"[0,0]", int64(4)})
	require.NoError(t, err)
	_, err = rng.Open(l, args)
	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(4), le.Value)
	assert.Equal(t, int64(3), le.Limit)
	assert.True(t, errors.Is(err, ErrLimit))

	line, _ := Lookup("linedraw")
	args, err = line.Args([]any{"[0,0]", "[6,0]"})
	require.NoError(t, err)
	_, err = line.Open(l, args)
	assert.ErrorIs(t, err, ErrLimit)

	args, err = line.Args([]any{"[0,0]", "[5,0]"})
	require.NoError(t, err)
	_, err = line.Open(l, args)
	assert.NoError(t, err)
}

func TestArgErrors(t *testing.T) {
	rng, _ := Lookup("hexes_in_range")

	_, err := rng.Args([]any{"[0]", int64(1)})
	assert.ErrorIs(t, err, hex.ErrFormat)

	_, err = rng.Args([]any{nil, int64(1)})
	assert.ErrorIs(t, err, hex.ErrFormat)

	_, err = rng.Args([]any{"[0,0]", 1.5})
	assert.Error(t, err)

	_, err = rng.Args([]any{"[0,0]"})
	assert.Error(t, err)

	args, err := rng.Args([]any{"[0,0]", int64(-1)})
	require.NoError(t, err)
	_, err = rng.Open(Limits{}, args)
	assert.ErrorIs(t, err, hex.ErrDomain)
}
