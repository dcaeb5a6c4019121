package hex

import "math"

// Cube represents cube coordinates (x, y, z) with x+y+z=0. It is derived
// from Axial for distance and rounding and is never stored. Components are
// int64 so that any axial value and any difference of two axial values
// converts without overflow.
type Cube struct {
	X int64
	Y int64
	Z int64
}

// FracCube is a fractional cube triple produced by interpolation.
type FracCube struct {
	X float64
	Y float64
	Z float64
}

// Cube converts axial to cube.
func (a Axial) Cube() Cube {
	x := int64(a.Q)
	z := int64(a.R)
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// FromCube converts cube to axial. The triple must satisfy x+y+z=0 and x, z
// must fit in int32.
func FromCube(c Cube) (Axial, error) {
	if c.X+c.Y+c.Z != 0 {
		return Axial{}, &InvariantError{Cube: c}
	}
	return narrow("from cube", c.X, c.Z)
}

// Add returns c+d.
func (c Cube) Add(d Cube) Cube {
	return Cube{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

// Sub returns c-d.
func (c Cube) Sub(d Cube) Cube {
	return Cube{X: c.X - d.X, Y: c.Y - d.Y, Z: c.Z - d.Z}
}

// Frac widens c to a fractional triple.
func (c Cube) Frac() FracCube {
	return FracCube{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)}
}

// Add returns f+g.
func (f FracCube) Add(g FracCube) FracCube {
	return FracCube{X: f.X + g.X, Y: f.Y + g.Y, Z: f.Z + g.Z}
}

// Lerp interpolates componentwise from f (t=0) to g (t=1).
func (f FracCube) Lerp(g FracCube, t float64) FracCube {
	return FracCube{
		X: lerp(f.X, g.X, t),
		Y: lerp(f.Y, g.Y, t),
		Z: lerp(f.Z, g.Z, t),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// RoundCube rounds a fractional triple to the nearest valid cube.
//
// Each component is rounded half-to-even on its own, which can leave
// x+y+z at -1 or +1. The component that moved furthest is then rebuilt
// from the other two: X only when it strictly moved furthest, otherwise Z
// if it moved further than Y, else Y.
func RoundCube(f FracCube) Cube {
	x := math.RoundToEven(f.X)
	y := math.RoundToEven(f.Y)
	z := math.RoundToEven(f.Z)

	dx := math.Abs(x - f.X)
	dy := math.Abs(y - f.Y)
	dz := math.Abs(z - f.Z)

	switch {
	case dx > dy && dx > dz:
		x = -y - z
	case dz > dy:
		z = -x - y
	default:
		y = -x - z
	}
	return Cube{X: int64(x), Y: int64(y), Z: int64(z)}
}
