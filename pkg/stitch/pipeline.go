package stitch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// State tracks pipeline progress through a placement run.
type State int

const (
	StateIdle State = iota
	StateIndexBuilt
	StateGenerating
	StateFiltering
	StateCommitting
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIndexBuilt:
		return "index-built"
	case StateGenerating:
		return "generating"
	case StateFiltering:
		return "filtering"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Tally counts rejected candidates by reason. Accepted candidates are not
// tallied; they appear in Result.Vias.
type Tally map[Reason]int

// PlacedVia is one accepted via position with the net it stitches.
type PlacedVia struct {
	Pos      Point
	Diameter int64
	Drill    int64
	Net      int
	NetName  string
}

// ObstacleCounts records how much static geometry the run indexed.
type ObstacleCounts struct {
	Pads     int
	Traces   int
	Vias     int
	Keepouts int
}

// Result is the outcome of a placement run. A cancelled run still carries
// everything accepted before the cancellation point; zero accepted vias is
// a valid result, not an error.
type Result struct {
	State      State
	Vias       []PlacedVia
	Tally      Tally
	Candidates int
	Obstacles  ObstacleCounts
	GroupLabel string
}

// ProgressFunc receives periodic progress updates. Returning false requests
// cancellation; the pipeline finishes the current candidate and stops.
type ProgressFunc func(processed, total int) bool

// progressEvery is the candidate interval between cancellation checkpoints.
const progressEvery = 10

// viaCellFactor sizes the mutable via index's buckets relative to the via
// diameter, keeping spacing queries within a 3x3 cell walk.
const viaCellFactor = 1.5

// Pipeline runs the full placement sequence: index board geometry, generate
// candidates per region, filter each against the checker and the spacing
// rule, and commit the survivors. Accepted vias enter the spacing index
// immediately, so each candidate is checked against everything accepted
// before it. A Pipeline is single-use per Run and not safe for concurrent
// Runs.
type Pipeline struct {
	settings Settings
	log      logr.Logger
}

// NewPipeline creates a pipeline. The settings are validated at Run time.
func NewPipeline(settings Settings, log logr.Logger) *Pipeline {
	return &Pipeline{settings: settings, log: log}
}

type candidate struct {
	pt      Point
	net     int
	netName string
}

// Run executes a placement over the snapshot. It returns an error only for
// invalid settings; cancellation via ctx or the progress callback yields a
// partial Result in StateCancelled instead. progress may be nil.
func (pl *Pipeline) Run(ctx context.Context, snap *BoardSnapshot, progress ProgressFunc) (*Result, error) {
	if err := pl.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	res := &Result{
		State: StateIdle,
		Tally: make(Tally),
		Obstacles: ObstacleCounts{
			Pads:     len(snap.Pads),
			Traces:   len(snap.Traces),
			Vias:     len(snap.Vias),
			Keepouts: len(snap.Keepouts),
		},
	}

	checker := NewChecker(snap, pl.settings)

	vias := NewIndex[struct{}](int64(viaCellFactor * float64(pl.settings.Diameter)))
	for _, v := range snap.Vias {
		vias.Insert(v.Pos, struct{}{})
	}
	res.State = StateIndexBuilt
	pl.log.V(1).Info("indexed board geometry",
		"pads", res.Obstacles.Pads,
		"traces", res.Obstacles.Traces,
		"vias", res.Obstacles.Vias,
		"keepouts", res.Obstacles.Keepouts)

	res.State = StateGenerating
	gen := NewGenerator(pl.settings)
	var cands []candidate
	for i := range snap.Regions {
		reg := &snap.Regions[i]
		if reg.RuleArea {
			continue
		}
		for p := range gen.Points(reg) {
			cands = append(cands, candidate{pt: p, net: reg.Net, netName: reg.NetName})
		}
	}
	res.Candidates = len(cands)
	pl.log.V(1).Info("generated candidates",
		"pattern", pl.settings.Pattern.String(), "count", len(cands))

	res.State = StateFiltering
	spacing := pl.settings.Diameter + pl.settings.ViaClearance
	for i, c := range cands {
		if i%progressEvery == 0 {
			if ctx.Err() != nil {
				res.State = StateCancelled
				pl.log.Info("run cancelled", "processed", i, "accepted", len(res.Vias))
				return res, nil
			}
			if progress != nil && !progress(i, len(cands)) {
				res.State = StateCancelled
				pl.log.Info("run cancelled by caller", "processed", i, "accepted", len(res.Vias))
				return res, nil
			}
		}

		ok, reason := checker.CanPlace(c.pt, c.net, AllChecks)
		if !ok {
			res.Tally[reason]++
			continue
		}
		if vias.AnyNear(c.pt, spacing) {
			res.Tally[ReasonViaSpacing]++
			continue
		}

		vias.Insert(c.pt, struct{}{})
		res.Vias = append(res.Vias, PlacedVia{
			Pos:      c.pt,
			Diameter: pl.settings.Diameter,
			Drill:    pl.settings.Drill,
			Net:      c.net,
			NetName:  c.netName,
		})
	}
	if progress != nil {
		progress(len(cands), len(cands))
	}

	res.State = StateCommitting
	res.GroupLabel = fmt.Sprintf("ViaStitching_%s_%s",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])

	res.State = StateDone
	pl.log.Info("placement complete",
		"accepted", len(res.Vias), "candidates", res.Candidates, "group", res.GroupLabel)
	return res, nil
}
