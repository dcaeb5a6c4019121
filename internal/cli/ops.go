package cli

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/hexgeo/internal/network"
	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// DistanceResult is the JSON payload of the distance command.
type DistanceResult struct {
	A        hex.Axial `json:"a"`
	B        hex.Axial `json:"b"`
	Distance int64     `json:"distance"`
}

// NewDistanceCommand creates the distance command.
func NewDistanceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distance <a> <b>",
		Short: "Print the grid distance between two cells",
		Example: `  hexgeo distance '[0,0]' '{"q":3,"r":-1}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistance(rootOpts, args, cmd)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runDistance(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout())

	a, err := hex.Parse(args[0])
	if err != nil {
		return f.Error(network.ErrorCode(err), err)
	}
	b, err := hex.Parse(args[1])
	if err != nil {
		return f.Error(network.ErrorCode(err), err)
	}

	d := hex.Distance(a, b)
	return f.Success(DistanceResult{A: a, B: b, Distance: d}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, d)
		return err
	})
}

// NewNeighborsCommand creates the neighbors command.
func NewNeighborsCommand(rootOpts *RootOptions) *cobra.Command {
	var diagonals bool

	cmd := &cobra.Command{
		Use:   "neighbors <center>",
		Short: "List the six neighbors of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "neighbors"
			if diagonals {
				name = "diagonals"
			}
			op, _ := query.Lookup(name)
			return runSetOp(rootOpts, op, args, cmd)
		},
	}
	cmd.Flags().BoolVarP(&diagonals, "diagonals", "d", false, "list the six diagonal cells instead")
	return cmd
}

// NewSetCommand creates a command running the named set operation with
// its parameters as positional arguments.
func NewSetCommand(rootOpts *RootOptions, use, opName, short string) *cobra.Command {
	op, ok := query.Lookup(opName)
	if !ok {
		panic(fmt.Sprintf("cli: unknown set operation %q", opName))
	}

	params := make([]string, len(op.Params))
	for i, p := range op.Params {
		params[i] = "<" + p.Name + ">"
	}

	cmd := &cobra.Command{
		Use:   use + " " + strings.Join(params, " "),
		Short: short,
		Args:  cobra.ExactArgs(len(op.Params)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetOp(rootOpts, op, args, cmd)
		},
	}
	// Negative radii must reach the operation instead of the flag parser.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runSetOp(opts *RootOptions, op query.SetOp, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout())
	seq, err := openSetOp(opts, op, args)
	if err != nil {
		return f.Error(network.ErrorCode(err), err)
	}
	return f.Hexes(seq)
}

func openSetOp(opts *RootOptions, op query.SetOp, raw []string) (iter.Seq[hex.Axial], error) {
	args := make([]query.Arg, len(raw))
	for i, s := range raw {
		a, err := query.ArgFromString(op.Params[i], s)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return op.Open(opts.config.Limits.Query(), args)
}
