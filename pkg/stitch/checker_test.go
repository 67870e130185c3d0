package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSettings keeps checker geometry easy to reason about: 0.6 mm via
// (0.3 mm radius) with 0.2 mm clearances all around.
func testSettings() Settings {
	return DefaultSettings()
}

func boardOutline10mm() Outline {
	return BoxOutline{Box: Rect{Left: 0, Top: 0, Right: 10 * Mm, Bottom: 10 * Mm}}
}

func TestCheckerOutline(t *testing.T) {
	snap := &BoardSnapshot{Outline: boardOutline10mm()}
	c := NewChecker(snap, testSettings())

	ok, reason := c.CanPlace(Point{X: 5 * Mm, Y: 5 * Mm}, 1, AllChecks)
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)

	ok, reason = c.CanPlace(Point{X: 15 * Mm, Y: 5 * Mm}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonOffBoard, reason)
}

// The whole via body must fit on the board: a via centered closer to the
// edge than its radius is rejected even though its center is on the board.
func TestCheckerOutlineViaRadiusInset(t *testing.T) {
	c := NewChecker(&BoardSnapshot{Outline: boardOutline10mm()}, testSettings())

	// via radius 0.3 mm; a center 0.1 mm from the left edge hangs off
	ok, reason := c.CanPlace(Point{X: FromMM(0.1), Y: 5 * Mm}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonOffBoard, reason)

	ok, reason = c.CanPlace(Point{X: 5 * Mm, Y: FromMM(9.9)}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonOffBoard, reason)

	// tangent to the edge is allowed
	ok, _ = c.CanPlace(Point{X: FromMM(0.3), Y: 5 * Mm}, 1, AllChecks)
	assert.True(t, ok)

	ok, _ = c.CanPlace(Point{X: FromMM(0.4), Y: 5 * Mm}, 1, AllChecks)
	assert.True(t, ok)
}

// A snapshot without an outline cannot run the edge check; everything
// passes it rather than everything failing.
func TestCheckerNilOutlinePermissive(t *testing.T) {
	c := NewChecker(&BoardSnapshot{}, testSettings())

	ok, reason := c.CanPlace(Point{X: 100 * Mm, Y: 100 * Mm}, 1, AllChecks)
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)
}

func TestCheckerKeepout(t *testing.T) {
	snap := &BoardSnapshot{
		Outline: boardOutline10mm(),
		Keepouts: []Keepout{
			{Outline: BoxOutline{Box: Rect{Left: 2 * Mm, Top: 2 * Mm, Right: 4 * Mm, Bottom: 4 * Mm}}},
			{Outline: nil}, // degraded keepout contributes nothing
		},
	}
	c := NewChecker(snap, testSettings())

	ok, reason := c.CanPlace(Point{X: 3 * Mm, Y: 3 * Mm}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonKeepout, reason)

	ok, _ = c.CanPlace(Point{X: 7 * Mm, Y: 7 * Mm}, 1, AllChecks)
	assert.True(t, ok)
}

func TestCheckerPadCollision(t *testing.T) {
	pad := PadStub{Center: Point{X: 5 * Mm, Y: 5 * Mm}, Radius: FromMM(0.5), Net: 1}
	snap := &BoardSnapshot{Outline: boardOutline10mm(), Pads: []PadStub{pad}}
	c := NewChecker(snap, testSettings())

	// limit = 0.5 pad + 0.3 via + 0.2 clearance = 1.0 mm
	ok, reason := c.CanPlace(Point{X: FromMM(5.9), Y: 5 * Mm}, 2, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonPadCollision, reason)

	ok, _ = c.CanPlace(Point{X: FromMM(6.1), Y: 5 * Mm}, 2, AllChecks)
	assert.True(t, ok)
}

// Pads block placement even on the via's own net; only traces carry the
// same-net exemption.
func TestCheckerPadNoSameNetExemption(t *testing.T) {
	pad := PadStub{Center: Point{X: 5 * Mm, Y: 5 * Mm}, Radius: FromMM(0.5), Net: 1}
	snap := &BoardSnapshot{Outline: boardOutline10mm(), Pads: []PadStub{pad}}
	c := NewChecker(snap, testSettings())

	ok, reason := c.CanPlace(Point{X: 5 * Mm, Y: 5 * Mm}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonPadCollision, reason)
}

func TestCheckerTraceCollision(t *testing.T) {
	trace := TraceSegment{
		Start:     Point{X: 1 * Mm, Y: 5 * Mm},
		End:       Point{X: 9 * Mm, Y: 5 * Mm},
		HalfWidth: FromMM(0.1),
		Net:       2,
	}
	snap := &BoardSnapshot{Outline: boardOutline10mm(), Traces: []TraceSegment{trace}}
	c := NewChecker(snap, testSettings())

	// limit = 0.3 via + 0.1 half-width + 0.2 clearance = 0.6 mm
	ok, reason := c.CanPlace(Point{X: 5 * Mm, Y: FromMM(5.5)}, 1, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonTraceCollision, reason)

	ok, _ = c.CanPlace(Point{X: 5 * Mm, Y: FromMM(5.7)}, 1, AllChecks)
	assert.True(t, ok)
}

// A stitching via may sit on its own net's traces.
func TestCheckerTraceSameNetExemption(t *testing.T) {
	trace := TraceSegment{
		Start:     Point{X: 1 * Mm, Y: 5 * Mm},
		End:       Point{X: 9 * Mm, Y: 5 * Mm},
		HalfWidth: FromMM(0.1),
		Net:       1,
	}
	snap := &BoardSnapshot{Outline: boardOutline10mm(), Traces: []TraceSegment{trace}}
	c := NewChecker(snap, testSettings())

	ok, reason := c.CanPlace(Point{X: 5 * Mm, Y: 5 * Mm}, 1, AllChecks)
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)

	ok, reason = c.CanPlace(Point{X: 5 * Mm, Y: 5 * Mm}, 2, AllChecks)
	assert.False(t, ok)
	assert.Equal(t, ReasonTraceCollision, reason)
}

// Checks short-circuit in a fixed order; a point failing several checks
// reports the first.
func TestCheckerOrder(t *testing.T) {
	p := Point{X: 15 * Mm, Y: 15 * Mm}
	snap := &BoardSnapshot{
		Outline:  boardOutline10mm(),
		Keepouts: []Keepout{{Outline: BoxOutline{Box: Rect{Left: 14 * Mm, Top: 14 * Mm, Right: 16 * Mm, Bottom: 16 * Mm}}}},
		Pads:     []PadStub{{Center: p, Radius: FromMM(0.5), Net: 3}},
	}
	c := NewChecker(snap, testSettings())

	ok, reason := c.CanPlace(p, 1, AllChecks)
	require.False(t, ok)
	assert.Equal(t, ReasonOffBoard, reason)

	ok, reason = c.CanPlace(p, 1, CheckFlags{Keepout: true, Pads: true})
	require.False(t, ok)
	assert.Equal(t, ReasonKeepout, reason)

	ok, reason = c.CanPlace(p, 1, CheckFlags{Pads: true})
	require.False(t, ok)
	assert.Equal(t, ReasonPadCollision, reason)

	ok, reason = c.CanPlace(p, 1, CheckFlags{})
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)
}
