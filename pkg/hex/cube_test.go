package hex

import (
	"errors"
	"math"
	"testing"
)

func TestCubeConversion(t *testing.T) {
	for _, a := range []Axial{{0, 0}, {3, -1}, {-4, 7}, {math.MaxInt32, math.MaxInt32}, {math.MinInt32, math.MinInt32}} {
		c := a.Cube()
		if c.X+c.Y+c.Z != 0 {
			t.Fatalf("cube of %v violates invariant: %+v", a, c)
		}
		if c.X != int64(a.Q) || c.Z != int64(a.R) {
			t.Fatalf("cube of %v has wrong x/z: %+v", a, c)
		}
		back, err := FromCube(c)
		if err != nil || back != a {
			t.Fatalf("FromCube(%+v) = %v, %v; want %v", c, back, err, a)
		}
	}
}

func TestFromCubeRejectsInvalidTriples(t *testing.T) {
	if _, err := FromCube(Cube{X: 1, Y: 1, Z: 1}); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	big := int64(math.MaxInt32) + 1
	if _, err := FromCube(Cube{X: big, Y: -big, Z: 0}); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestRoundCube(t *testing.T) {
	cases := []struct {
		name string
		in   FracCube
		want Cube
	}{
		{"already valid after rounding", FracCube{0.4, -0.3, -0.1}, Cube{0, 0, 0}},
		{"x furthest", FracCube{1.6, -1.3, -0.3}, Cube{1, -1, 0}},
		{"y furthest", FracCube{-1.75, 0.5, 1.25}, Cube{-2, 1, 1}},
		{"z furthest", FracCube{0.75, 0.75, -1.5}, Cube{1, 1, -2}},
		{"half on y", FracCube{2.25, -0.5, -1.75}, Cube{2, 0, -2}},
		{"x and y tie, y rebuilt", FracCube{0.5, 0.5, -1}, Cube{0, 1, -1}},
		{"x and z tie, z rebuilt", FracCube{0.5, 0, -0.5}, Cube{0, 0, 0}},
		{"x and z tie above y, z rebuilt", FracCube{0.4, -0.8, 0.4}, Cube{0, -1, 1}},
		{"integral input", FracCube{3, -5, 2}, Cube{3, -5, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RoundCube(tc.in)
			if got != tc.want {
				t.Fatalf("RoundCube(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
			if got.X+got.Y+got.Z != 0 {
				t.Fatalf("RoundCube(%+v) violates invariant: %+v", tc.in, got)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a := FracCube{0, 0, 0}
	b := FracCube{3, -3, 0}
	if got := a.Lerp(b, 0); got != a {
		t.Fatalf("t=0 gave %+v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Fatalf("t=1 gave %+v", got)
	}
	if got := a.Lerp(b, 0.5); got != (FracCube{1.5, -1.5, 0}) {
		t.Fatalf("t=0.5 gave %+v", got)
	}
}
