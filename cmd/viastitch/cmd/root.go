package cmd

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "viastitch",
	Short: "Via stitching planner for KiCad boards",
	Long: `viastitch plans stitching via placement on KiCad PCB files (.kicad_pcb).

It fills copper zones of a chosen net with vias in a grid, boundary, or
spiral pattern, rejecting positions that collide with pads, traces, other
vias, keepout areas, or the board edge.

Examples:
  viastitch plan board.kicad_pcb --net GND            # Plan with defaults
  viastitch plan board.kicad_pcb --net GND --json     # Machine-readable plan
  viastitch nets board.kicad_pcb                      # List nets on a board`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger: human-oriented lines on stderr, verbosity
// gated by --verbose.
func newLogger() logr.Logger {
	level := 0
	if verbose {
		level = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: level})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
