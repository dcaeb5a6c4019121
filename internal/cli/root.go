// Package cli implements the hexgeo command line.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gravitas-games/hexgeo/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Color      string // "auto" | "on" | "off"

	config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidColors defines the allowed color modes.
var ValidColors = []string{"auto", "on", "off"}

// NewRootCommand creates the root command for the hexgeo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hexgeo",
		Short: "Hexagonal grid geometry",
		Long: `hexgeo computes distances, neighborhoods, ranges, rings, spirals and
lines on an axial hexagonal grid, and serves the same operations over
SQLite and a websocket query service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidColors, opts.Color) {
				return fmt.Errorf("invalid color mode %q: must be one of %v", opts.Color, ValidColors)
			}
			applyColorMode(opts.Color, cmd)

			path, explicit := config.ResolvePath(opts.ConfigPath)
			cfg, err := config.LoadOrDefault(path, explicit)
			if err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colorize output (auto|on|off)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewDistanceCommand(opts))
	cmd.AddCommand(NewNeighborsCommand(opts))
	cmd.AddCommand(NewSetCommand(opts, "range", "hexes_in_range", "List every cell within radius of center"))
	cmd.AddCommand(NewSetCommand(opts, "line", "linedraw", "Draw the cell line from a to b"))
	cmd.AddCommand(NewSetCommand(opts, "ring", "ring_path", "List the cells at exactly radius from center"))
	cmd.AddCommand(NewSetCommand(opts, "spiral", "spiral_path", "List the cells within radius of center, ring by ring"))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))

	return cmd
}

func applyColorMode(mode string, cmd *cobra.Command) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		f, ok := cmd.OutOrStdout().(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
	}
}
