package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/copperline/viastitch/internal/snapshot"
	"github.com/copperline/viastitch/pkg/kicad/pcb"
	"github.com/copperline/viastitch/pkg/stitch"
)

var planFlags struct {
	net            string
	layer          string
	pattern        string
	diameter       float64
	drill          float64
	hSpacing       float64
	vSpacing       float64
	hOffset        float64
	vOffset        float64
	edgeClearance  float64
	padClearance   float64
	traceClearance float64
	viaClearance   float64
	randomize      bool
	seed           int64
	jsonOut        bool
}

var planCmd = &cobra.Command{
	Use:   "plan <board_file>",
	Short: "Plan stitching via placement for a board",
	Long: `Plans stitching via positions for the copper zones of one net.

All dimensions are given in millimeters. The plan is printed as a table, or
as JSON with --json for consumption by downstream tools. The board file is
never modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	f := planCmd.Flags()
	f.StringVar(&planFlags.net, "net", "", "net to stitch, e.g. GND (required)")
	f.StringVar(&planFlags.layer, "layer", "", "restrict zones and trace obstacles to one copper layer")
	f.StringVar(&planFlags.pattern, "pattern", "grid", "candidate pattern: grid, boundary, or spiral")
	f.Float64Var(&planFlags.diameter, "diameter", 0, "via diameter in mm")
	f.Float64Var(&planFlags.drill, "drill", 0, "via drill in mm")
	f.Float64Var(&planFlags.hSpacing, "hspacing", 0, "horizontal pitch in mm")
	f.Float64Var(&planFlags.vSpacing, "vspacing", 0, "vertical pitch in mm")
	f.Float64Var(&planFlags.hOffset, "hoffset", 0, "horizontal lattice offset in mm")
	f.Float64Var(&planFlags.vOffset, "voffset", 0, "vertical lattice offset in mm")
	f.Float64Var(&planFlags.edgeClearance, "edge-clearance", 0, "margin from region and board edges in mm")
	f.Float64Var(&planFlags.padClearance, "pad-clearance", 0, "minimum via-to-pad separation in mm")
	f.Float64Var(&planFlags.traceClearance, "trace-clearance", 0, "minimum via-to-trace separation in mm")
	f.Float64Var(&planFlags.viaClearance, "via-clearance", 0, "minimum via-to-via separation in mm")
	f.BoolVar(&planFlags.randomize, "randomize", false, "jitter candidate positions")
	f.Int64Var(&planFlags.seed, "seed", 0, "jitter seed for reproducible randomized runs")
	f.BoolVar(&planFlags.jsonOut, "json", false, "emit the plan as JSON on stdout")

	planCmd.MarkFlagRequired("net")
}

// planSettings folds the changed mm flags into overrides on the defaults.
func planSettings(cmd *cobra.Command) (stitch.Settings, error) {
	var o stitch.Overrides

	nm := func(mm float64) *int64 {
		v := stitch.FromMM(mm)
		return &v
	}
	if cmd.Flags().Changed("diameter") {
		o.Diameter = nm(planFlags.diameter)
	}
	if cmd.Flags().Changed("drill") {
		o.Drill = nm(planFlags.drill)
	}
	if cmd.Flags().Changed("hspacing") {
		o.HSpacing = nm(planFlags.hSpacing)
	}
	if cmd.Flags().Changed("vspacing") {
		o.VSpacing = nm(planFlags.vSpacing)
	}
	if cmd.Flags().Changed("hoffset") {
		o.HOffset = nm(planFlags.hOffset)
	}
	if cmd.Flags().Changed("voffset") {
		o.VOffset = nm(planFlags.vOffset)
	}
	if cmd.Flags().Changed("edge-clearance") {
		o.EdgeClearance = nm(planFlags.edgeClearance)
	}
	if cmd.Flags().Changed("pad-clearance") {
		o.PadClearance = nm(planFlags.padClearance)
	}
	if cmd.Flags().Changed("trace-clearance") {
		o.TraceClearance = nm(planFlags.traceClearance)
	}
	if cmd.Flags().Changed("via-clearance") {
		o.ViaClearance = nm(planFlags.viaClearance)
	}
	if cmd.Flags().Changed("pattern") {
		p, err := stitch.ParsePattern(planFlags.pattern)
		if err != nil {
			return stitch.Settings{}, err
		}
		o.Pattern = &p
	}
	if cmd.Flags().Changed("randomize") {
		o.Randomize = &planFlags.randomize
	}
	if cmd.Flags().Changed("seed") {
		o.Seed = &planFlags.seed
	}

	return stitch.Merge(stitch.DefaultSettings(), o), nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	filename := args[0]
	log := newLogger()

	settings, err := planSettings(cmd)
	if err != nil {
		return err
	}

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	snap, err := snapshot.FromBoard(board, snapshot.Options{
		Net:   planFlags.net,
		Layer: planFlags.layer,
	}, log)
	if err != nil {
		return err
	}

	var progress stitch.ProgressFunc
	if verbose {
		progress = func(processed, total int) bool {
			fmt.Fprintf(os.Stderr, "  %d/%d candidates\n", processed, total)
			return true
		}
	}

	pipeline := stitch.NewPipeline(settings, log)
	result, err := pipeline.Run(cmd.Context(), snap, progress)
	if err != nil {
		return err
	}

	if planFlags.jsonOut {
		return writePlanJSON(os.Stdout, result)
	}
	printPlan(result)
	return nil
}

func printPlan(result *stitch.Result) {
	fmt.Printf("Plan: %s\n", result.GroupLabel)
	fmt.Printf("  Candidates: %d\n", result.Candidates)
	fmt.Printf("  Accepted:   %d\n", len(result.Vias))
	if result.State == stitch.StateCancelled {
		fmt.Println("  (run cancelled, partial result)")
	}

	if len(result.Tally) > 0 {
		fmt.Println("\nRejections:")
		reasons := make([]stitch.Reason, 0, len(result.Tally))
		for r := range result.Tally {
			reasons = append(reasons, r)
		}
		sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
		for _, r := range reasons {
			fmt.Printf("  %-16s %6d\n", r.String(), result.Tally[r])
		}
	}

	if len(result.Vias) > 0 {
		fmt.Printf("\n%-12s %-12s %-8s %-8s %s\n", "X (mm)", "Y (mm)", "Dia", "Drill", "Net")
		fmt.Println("─────────────────────────────────────────────────────")
		for _, v := range result.Vias {
			fmt.Printf("%-12.4f %-12.4f %-8.2f %-8.2f %s\n",
				stitch.ToMM(v.Pos.X), stitch.ToMM(v.Pos.Y),
				stitch.ToMM(v.Diameter), stitch.ToMM(v.Drill), v.NetName)
		}
	}
}

// planJSON is the machine-readable plan payload. Coordinates are emitted in
// millimeters to match the board file's unit.
type planJSON struct {
	Group      string         `json:"group"`
	State      string         `json:"state"`
	Candidates int            `json:"candidates"`
	Rejections map[string]int `json:"rejections"`
	Vias       []viaJSON      `json:"vias"`
}

type viaJSON struct {
	X        float64 `json:"x_mm"`
	Y        float64 `json:"y_mm"`
	Diameter float64 `json:"diameter_mm"`
	Drill    float64 `json:"drill_mm"`
	Net      int     `json:"net"`
	NetName  string  `json:"net_name"`
}

func writePlanJSON(w *os.File, result *stitch.Result) error {
	payload := planJSON{
		Group:      result.GroupLabel,
		State:      result.State.String(),
		Candidates: result.Candidates,
		Rejections: make(map[string]int, len(result.Tally)),
		Vias:       make([]viaJSON, 0, len(result.Vias)),
	}
	for r, n := range result.Tally {
		payload.Rejections[r.String()] = n
	}
	for _, v := range result.Vias {
		payload.Vias = append(payload.Vias, viaJSON{
			X:        stitch.ToMM(v.Pos.X),
			Y:        stitch.ToMM(v.Pos.Y),
			Diameter: stitch.ToMM(v.Diameter),
			Drill:    stitch.ToMM(v.Drill),
			Net:      v.Net,
			NetName:  v.NetName,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}
