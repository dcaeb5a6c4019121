package hex

// Distance returns the graph distance between a and b: the minimum number
// of single-step moves between the two cells. It is total over all axial
// values; the int64 result cannot overflow.
func Distance(a, b Axial) int64 {
	return cubeLength(a.Cube().Sub(b.Cube()))
}

// Length returns the distance from a to the origin.
func Length(a Axial) int64 {
	return cubeLength(a.Cube())
}

func cubeLength(c Cube) int64 {
	return (abs(c.X) + abs(c.Y) + abs(c.Z)) / 2
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
