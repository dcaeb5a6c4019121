package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gravitas-games/hexgeo/internal/network"
	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// Cell glyphs, in increasing precedence.
const (
	glyphCell   = '.'
	glyphLine   = '#'
	glyphMark   = '*'
	glyphCenter = '@'
)

var glyphColors = map[byte]*color.Color{
	glyphLine:   color.New(color.FgCyan),
	glyphMark:   color.New(color.FgYellow, color.Bold),
	glyphCenter: color.New(color.FgRed, color.Bold),
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Center hex.Axial `json:"center"`
	Radius int64     `json:"radius"`
	Rows   []string  `json:"rows"`
}

type renderOptions struct {
	marks []string
	line  string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <center> <radius>",
		Short: "Draw the cells within radius of center as text",
		Long: `Draw the disk around center as offset text rows, one row per r.
This is a debugging view of axial coordinates, not a pixel layout.

  @  center
  *  cells given with --mark
  #  cells on the line from center to --line
  .  every other cell`,
		Example: `  hexgeo render '[0,0]' 3 --mark '[2,-1]' --line '[-3,1]'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args, cmd)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.marks, "mark", "m", nil, "highlight a cell (repeatable)")
	cmd.Flags().StringVarP(&opts.line, "line", "l", "", "draw the line from center to this cell")
	return cmd
}

func runRender(rootOpts *RootOptions, opts *renderOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout())
	fail := func(err error) error { return f.Error(network.ErrorCode(err), err) }

	op, _ := query.Lookup("hexes_in_range")
	cells, err := openSetOp(rootOpts, op, args)
	if err != nil {
		return fail(err)
	}
	center, _ := hex.Parse(args[0])
	radius, _ := query.ArgFromString(op.Params[1], args[1])

	glyphs := make(map[hex.Axial]byte)
	if opts.line != "" {
		lineOp, _ := query.Lookup("linedraw")
		line, err := openSetOp(rootOpts, lineOp, []string{args[0], opts.line})
		if err != nil {
			return fail(err)
		}
		for a := range line {
			glyphs[a] = glyphLine
		}
	}
	for _, m := range opts.marks {
		a, err := hex.Parse(m)
		if err != nil {
			return fail(fmt.Errorf("--mark: %w", err))
		}
		glyphs[a] = glyphMark
	}
	glyphs[center] = glyphCenter

	canvas := newGrid(int(radius.Int))
	for a := range cells {
		g, ok := glyphs[a]
		if !ok {
			g = glyphCell
		}
		canvas.set(center, a, g)
	}

	return f.Success(RenderResult{Center: center, Radius: radius.Int, Rows: canvas.rows(nil)}, func(w io.Writer) error {
		for _, row := range canvas.rows(paint) {
			if _, err := fmt.Fprintln(w, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func paint(g byte) string {
	if c, ok := glyphColors[g]; ok {
		return c.Sprint(string(g))
	}
	return string(g)
}

// grid lays a disk out as text: row dr holds the cells with that r offset
// from the center, at column 2*dq+dr shifted so the leftmost cell is 0.
type grid struct {
	radius int
	cells  [][]byte
}

func newGrid(radius int) *grid {
	g := &grid{radius: radius, cells: make([][]byte, 2*radius+1)}
	for i := range g.cells {
		g.cells[i] = []byte(strings.Repeat(" ", 4*radius+1))
	}
	return g
}

func (g *grid) set(center, a hex.Axial, glyph byte) {
	dq := int64(a.Q) - int64(center.Q)
	dr := int64(a.R) - int64(center.R)
	row := dr + int64(g.radius)
	col := 2*dq + dr + 2*int64(g.radius)
	g.cells[row][col] = glyph
}

// rows returns the grid lines. When paint is nil the glyphs are returned
// as is.
func (g *grid) rows(paint func(byte) string) []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		trimmed := strings.TrimRight(string(row), " ")
		if paint == nil {
			out[i] = trimmed
			continue
		}
		var b strings.Builder
		for j := 0; j < len(trimmed); j++ {
			if trimmed[j] == ' ' {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(paint(trimmed[j]))
		}
		out[i] = b.String()
	}
	return out
}
