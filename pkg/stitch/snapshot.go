// Package stitch places stitching vias across copper regions of a PCB,
// validating every candidate position against the board edge, keepout
// areas, pads, traces, and other vias through grid-bucketed proximity
// indices. The engine consumes a point-in-time snapshot of board geometry
// and emits accepted positions; it never mutates board state itself.
package stitch

// Region is a copper zone eligible for via placement. Box is the zone's
// bounding rectangle; Poly, when present (three or more vertices), is the
// zone's exact contour. RuleArea regions are keepouts and are never filled.
type Region struct {
	Box      Rect
	Poly     []Point
	Net      int
	NetName  string
	RuleArea bool
}

// contains reports whether p lies strictly inside the region shrunk inward
// by margin on all sides, additionally passing the polygon test when
// contour data is available.
func (r *Region) contains(p Point, margin int64) bool {
	if !r.Box.Inset(margin).ContainsStrict(p) {
		return false
	}
	if len(r.Poly) >= 3 {
		return polyContains(r.Poly, p)
	}
	return true
}

// PadStub is the circle approximation of a pad: its center and half its
// largest extent. Immutable for the duration of a run.
type PadStub struct {
	Center Point
	Radius int64
	Net    int
}

// TraceSegment is a copper track centerline with half its width.
type TraceSegment struct {
	Start     Point
	End       Point
	HalfWidth int64
	Net       int
}

// ViaStub is a via already present on the board before the run.
type ViaStub struct {
	Pos      Point
	Diameter int64
	Drill    int64
	Net      int
}

// Keepout is a region where via placement is categorically forbidden.
// A nil Outline contributes nothing (degraded board data is permissive,
// not fatal).
type Keepout struct {
	Outline Outline
}

// BoardSnapshot is the read-only geometric contract between the board
// model and the engine: everything the placement run needs, captured once.
// A nil board Outline disables the edge check.
type BoardSnapshot struct {
	Regions  []Region
	Pads     []PadStub
	Traces   []TraceSegment
	Vias     []ViaStub
	Keepouts []Keepout
	Outline  Outline
}
