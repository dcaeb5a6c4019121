package hex

import (
	"iter"

	"fortio.org/safecast"
)

// DiskSize returns the number of cells within distance r of a center.
func DiskSize(r int) int { return 1 + 3*r*(r+1) }

// HexesInRange returns every coordinate at distance <= radius from center,
// each exactly once. Cells are produced by increasing cube x, then
// increasing z. The sequence holds no state between calls and can be
// ranged over any number of times.
func HexesInRange(center Axial, radius int) (iter.Seq[Axial], error) {
	if err := checkDisk("hexes_in_range", center, radius); err != nil {
		return nil, err
	}
	return func(yield func(Axial) bool) {
		n := radius
		for x := -n; x <= n; x++ {
			for z := max(-n, -x-n); z <= min(n, -x+n); z++ {
				if !yield(center.MustAdd(Axial{Q: int32(x), R: int32(z)})) {
					return
				}
			}
		}
	}, nil
}

// Disk returns all axial coordinates at distance <= r from center c.
func Disk(c Axial, r int) ([]Axial, error) {
	seq, err := HexesInRange(c, r)
	if err != nil {
		return nil, err
	}
	res := make([]Axial, 0, DiskSize(r))
	for a := range seq {
		res = append(res, a)
	}
	return res, nil
}

// Ring returns the coordinates at exact distance k from center c,
// starting from direction 4 and walking directions 0 through 5.
// If k==0, the ring is [c].
func Ring(c Axial, k int) (iter.Seq[Axial], error) {
	if err := checkDisk("ring", c, k); err != nil {
		return nil, err
	}
	return func(yield func(Axial) bool) {
		ring(c, k, yield)
	}, nil
}

// Spiral returns rings 0 through k around c, innermost first. It covers
// the same cells as HexesInRange in a different order.
func Spiral(c Axial, k int) (iter.Seq[Axial], error) {
	if err := checkDisk("spiral", c, k); err != nil {
		return nil, err
	}
	return func(yield func(Axial) bool) {
		for radius := 0; radius <= k; radius++ {
			if !ring(c, radius, yield) {
				return
			}
		}
	}, nil
}

// ring walks one ring and reports whether the consumer wants more.
// Callers must have checked the disk bounds.
func ring(c Axial, k int, yield func(Axial) bool) bool {
	if k == 0 {
		return yield(c)
	}
	start, _ := Directions[4].Scale(k)
	cur := c.MustAdd(start)
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			if !yield(cur) {
				return false
			}
			cur = cur.MustAdd(Directions[side])
		}
	}
	return true
}

// checkDisk rejects negative radii and disks that leave the int32 plane.
func checkDisk(op string, c Axial, radius int) error {
	if radius < 0 {
		return &DomainError{Op: op, Arg: "radius", Value: radius}
	}
	n, err := safecast.Conv[int32](radius)
	if err != nil {
		return &OverflowError{Op: op, Err: err}
	}
	if _, err := narrow(op, int64(c.Q)-int64(n), int64(c.R)-int64(n)); err != nil {
		return err
	}
	_, err = narrow(op, int64(c.Q)+int64(n), int64(c.R)+int64(n))
	return err
}
