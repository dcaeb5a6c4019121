package hex

import "iter"

// lineEpsilon nudges the start of every line off exact half-way points so
// that ties always round the same way. The nudge sums to zero.
var lineEpsilon = FracCube{X: 1e-6, Y: -3e-6, Z: 2e-6}

// LineDraw returns the cells of the straight line from a to b inclusive.
// The sequence has Distance(a, b)+1 elements, starts with a, ends with b
// and every step moves to an adjacent cell.
func LineDraw(a, b Axial) iter.Seq[Axial] {
	return func(yield func(Axial) bool) {
		n := Distance(a, b)
		if n == 0 {
			yield(a)
			return
		}
		start := a.Cube().Frac().Add(lineEpsilon)
		end := b.Cube().Frac()
		for i := int64(0); i <= n; i++ {
			var p Axial
			switch i {
			case 0:
				p = a
			case n:
				p = b
			default:
				t := float64(i) / float64(n)
				p = cubeToAxial(RoundCube(start.Lerp(end, t)))
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Line collects LineDraw into a slice.
func Line(a, b Axial) []Axial {
	res := make([]Axial, 0, Distance(a, b)+1)
	for p := range LineDraw(a, b) {
		res = append(res, p)
	}
	return res
}

// cubeToAxial converts a rounded interpolation point. Rounding keeps the
// point within the axial bounding box of the line's endpoints, so the
// conversion cannot fail.
func cubeToAxial(c Cube) Axial {
	a, err := FromCube(c)
	if err != nil {
		panic(err)
	}
	return a
}
