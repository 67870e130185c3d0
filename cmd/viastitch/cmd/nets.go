package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/copperline/viastitch/pkg/kicad/pcb"
)

var netsCmd = &cobra.Command{
	Use:   "nets <board_file>",
	Short: "List nets on a board",
	Long: `Lists all nets in a PCB file with their pad, track, via, and zone
counts, so you can see which nets have zones worth stitching.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

type netCounts struct {
	pads   int
	tracks int
	vias   int
	zones  int
}

func runNets(cmd *cobra.Command, args []string) error {
	board, err := pcb.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	counts := make(map[int]*netCounts, len(board.Nets))
	for _, net := range board.Nets {
		counts[net.Number] = &netCounts{}
	}
	bump := func(net *pcb.Net, f func(*netCounts)) {
		if net == nil {
			return
		}
		if c, ok := counts[net.Number]; ok {
			f(c)
		}
	}

	for i := range board.Footprints {
		for j := range board.Footprints[i].Pads {
			bump(board.Footprints[i].Pads[j].Net, func(c *netCounts) { c.pads++ })
		}
	}
	for i := range board.Tracks {
		bump(board.Tracks[i].Net, func(c *netCounts) { c.tracks++ })
	}
	for i := range board.Vias {
		bump(board.Vias[i].Net, func(c *netCounts) { c.vias++ })
	}
	for i := range board.Zones {
		if board.Zones[i].RuleArea {
			continue
		}
		bump(board.Zones[i].Net, func(c *netCounts) { c.zones++ })
	}

	nets := make([]pcb.Net, len(board.Nets))
	copy(nets, board.Nets)
	sort.Slice(nets, func(i, j int) bool { return nets[i].Name < nets[j].Name })

	fmt.Printf("Board: %d nets\n\n", len(nets))
	fmt.Printf("%-30s %6s %6s %6s %6s\n", "Net Name", "Pads", "Tracks", "Vias", "Zones")
	fmt.Println("──────────────────────────────────────────────────────────────")
	for _, net := range nets {
		name := net.Name
		if name == "" {
			name = "(unconnected)"
		}
		c := counts[net.Number]
		fmt.Printf("%-30s %6d %6d %6d %6d\n", name, c.pads, c.tracks, c.vias, c.zones)
	}

	return nil
}
