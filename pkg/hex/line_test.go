package hex

import (
	"bytes"
	"math"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestLineDrawStraight(t *testing.T) {
	got := Line(Axial{0, 0}, Axial{3, 0})
	want := []Axial{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("Line = %v, want %v", got, want)
	}
}

func TestLineDrawSingleCell(t *testing.T) {
	a := Axial{-4, 9}
	if got := Line(a, a); !slices.Equal(got, []Axial{a}) {
		t.Fatalf("Line(a, a) = %v", got)
	}
}

func TestLineDrawProperties(t *testing.T) {
	pts, err := Disk(Origin, 4)
	if err != nil {
		t.Fatalf("Disk: %v", err)
	}
	pts = append(pts, Axial{57, -23}, Axial{-31, 70})
	for _, a := range pts {
		for _, b := range pts {
			line := Line(a, b)
			if int64(len(line)) != Distance(a, b)+1 {
				t.Fatalf("line %v->%v has %d cells, want %d", a, b, len(line), Distance(a, b)+1)
			}
			if line[0] != a || line[len(line)-1] != b {
				t.Fatalf("line %v->%v has endpoints %v, %v", a, b, line[0], line[len(line)-1])
			}
			for i := 1; i < len(line); i++ {
				if Distance(line[i-1], line[i]) != 1 {
					t.Fatalf("line %v->%v jumps between %v and %v", a, b, line[i-1], line[i])
				}
			}
		}
	}
}

func TestLineDrawFarFromOrigin(t *testing.T) {
	a := Axial{math.MaxInt32 - 7, math.MinInt32 + 3}
	b := Axial{math.MaxInt32, math.MinInt32}
	line := Line(a, b)
	if int64(len(line)) != Distance(a, b)+1 || line[0] != a || line[len(line)-1] != b {
		t.Fatalf("unexpected line %v", line)
	}
	for i := 1; i < len(line); i++ {
		if Distance(line[i-1], line[i]) != 1 {
			t.Fatalf("line jumps between %v and %v", line[i-1], line[i])
		}
	}
}

func TestLineDrawEarlyStop(t *testing.T) {
	seq := LineDraw(Axial{0, 0}, Axial{10, -4})
	var got []Axial
	for p := range seq {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[0] != (Axial{0, 0}) {
		t.Fatalf("unexpected prefix %v", got)
	}
	if full := Line(Axial{0, 0}, Axial{10, -4}); !slices.Equal(full[:2], got) {
		t.Fatalf("prefix %v does not match full line %v", got, full[:2])
	}
}

// Lines through exact half-way points depend on the nudge direction; these
// fixtures pin it.
func TestLineDrawTieBreakGolden(t *testing.T) {
	cases := []struct {
		name string
		a, b Axial
	}{
		{"line_straight", Axial{0, 0}, Axial{3, 0}},
		{"line_long_diagonal", Axial{-3, 0}, Axial{3, -3}},
		{"line_short_diagonal", Axial{0, 0}, Axial{2, -1}},
		{"line_short_diagonal_reversed", Axial{2, -1}, Axial{0, 0}},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			for p := range LineDraw(tc.a, tc.b) {
				buf.WriteString(p.String())
				buf.WriteByte('\n')
			}
			g.Assert(t, tc.name, buf.Bytes())
		})
	}
}
