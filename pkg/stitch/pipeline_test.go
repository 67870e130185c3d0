package stitch

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// latticeSettings produces the 4x4 lattice on a 10 mm square region:
// 2 mm pitch, 0.5 mm edge clearance, candidates at 2.5/4.5/6.5/8.5 mm.
func latticeSettings() Settings {
	s := DefaultSettings()
	s.HSpacing = FromMM(2)
	s.VSpacing = FromMM(2)
	s.EdgeClearance = FromMM(0.5)
	return s
}

func latticeSnapshot() *BoardSnapshot {
	box := Rect{Left: 0, Top: 0, Right: 10 * Mm, Bottom: 10 * Mm}
	return &BoardSnapshot{
		Regions: []Region{{Box: box, Net: 1, NetName: "GND"}},
		Outline: BoxOutline{Box: box},
	}
}

func TestPipelineOpenLattice(t *testing.T) {
	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), latticeSnapshot(), nil)
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, 16, res.Candidates)
	assert.Len(t, res.Vias, 16)
	assert.Empty(t, res.Tally)
	assert.NotEmpty(t, res.GroupLabel)
	assert.Contains(t, res.GroupLabel, "ViaStitching_")

	for _, v := range res.Vias {
		assert.Equal(t, 1, v.Net)
		assert.Equal(t, "GND", v.NetName)
		assert.Equal(t, FromMM(0.6), v.Diameter)
		assert.Equal(t, FromMM(0.3), v.Drill)
	}
}

// A pad on one lattice point knocks out exactly that candidate: 15 accepted,
// one pad-collision in the tally.
func TestPipelinePadCollision(t *testing.T) {
	snap := latticeSnapshot()
	snap.Pads = []PadStub{
		{Center: Point{X: FromMM(4.5), Y: FromMM(4.5)}, Radius: FromMM(0.5), Net: 1},
	}

	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), snap, nil)
	require.NoError(t, err)

	assert.Equal(t, 16, res.Candidates)
	assert.Len(t, res.Vias, 15)
	assert.Equal(t, 1, res.Tally[ReasonPadCollision])

	for _, v := range res.Vias {
		assert.False(t, v.Pos.X == FromMM(4.5) && v.Pos.Y == FromMM(4.5),
			"via accepted on the pad")
	}
}

// Widening the via clearance never accepts more vias.
func TestPipelineSpacingMonotonicity(t *testing.T) {
	prev := 17 // above any possible count
	for _, clearanceMM := range []float64{0.2, 1.5, 2.5, 5.0} {
		s := latticeSettings()
		s.ViaClearance = FromMM(clearanceMM)

		pl := NewPipeline(s, logr.Discard())
		res, err := pl.Run(context.Background(), latticeSnapshot(), nil)
		require.NoError(t, err)

		accepted := len(res.Vias)
		assert.LessOrEqual(t, accepted, prev, "clearance %.1f mm", clearanceMM)
		assert.Equal(t, res.Candidates, accepted+res.Tally[ReasonViaSpacing])
		prev = accepted
	}
}

// Vias already on the board participate in the spacing rule from the start.
func TestPipelineExistingViasBlock(t *testing.T) {
	snap := latticeSnapshot()
	snap.Vias = []ViaStub{
		{Pos: Point{X: FromMM(2.5), Y: FromMM(2.5)}, Diameter: FromMM(0.6), Drill: FromMM(0.3), Net: 1},
	}

	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), snap, nil)
	require.NoError(t, err)

	assert.Len(t, res.Vias, 15)
	assert.Equal(t, 1, res.Tally[ReasonViaSpacing])
}

// Rule-area regions generate no candidates.
func TestPipelineSkipsRuleAreas(t *testing.T) {
	snap := latticeSnapshot()
	snap.Regions = append(snap.Regions, Region{
		Box:      Rect{Left: 0, Top: 0, Right: 10 * Mm, Bottom: 10 * Mm},
		Net:      1,
		RuleArea: true,
	})

	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), snap, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Candidates)
}

func TestPipelineInvalidSettings(t *testing.T) {
	s := latticeSettings()
	s.Diameter = 0

	pl := NewPipeline(s, logr.Discard())
	res, err := pl.Run(context.Background(), latticeSnapshot(), nil)
	assert.Error(t, err)
	assert.Nil(t, res)
}

// An empty board is a valid, empty result, not an error.
func TestPipelineEmptySnapshot(t *testing.T) {
	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), &BoardSnapshot{}, nil)
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Zero(t, res.Candidates)
	assert.Empty(t, res.Vias)
}

// A progress callback returning false stops the run at the next checkpoint,
// keeping everything accepted so far. Cancellation is an outcome, not an
// error.
func TestPipelineProgressCancel(t *testing.T) {
	var calls []int
	progress := func(processed, total int) bool {
		calls = append(calls, processed)
		assert.Equal(t, 16, total)
		return processed < 10
	}

	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(context.Background(), latticeSnapshot(), progress)
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, res.State)
	assert.Len(t, res.Vias, 10)
	assert.Equal(t, []int{0, 10}, calls)
}

func TestPipelineContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pl := NewPipeline(latticeSettings(), logr.Discard())
	res, err := pl.Run(ctx, latticeSnapshot(), nil)
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, res.State)
	assert.Empty(t, res.Vias)
}

// Each accepted via joins the spacing index immediately, so later candidates
// in the same run see it. With a clearance wider than the pitch, neighbors
// of an accepted via are rejected even though the board started empty.
func TestPipelineIncrementalSpacing(t *testing.T) {
	s := latticeSettings()
	s.ViaClearance = FromMM(1.5) // spacing radius 2.1 mm > 2 mm pitch

	pl := NewPipeline(s, logr.Discard())
	res, err := pl.Run(context.Background(), latticeSnapshot(), nil)
	require.NoError(t, err)

	require.NotEmpty(t, res.Vias)
	assert.Greater(t, res.Tally[ReasonViaSpacing], 0)

	minSpacing := float64(s.Diameter + s.ViaClearance)
	for i, a := range res.Vias {
		for _, b := range res.Vias[i+1:] {
			assert.Greater(t, Dist(a.Pos, b.Pos), minSpacing,
				"vias %v and %v too close", a.Pos, b.Pos)
		}
	}
}
