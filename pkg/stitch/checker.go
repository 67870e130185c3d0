package stitch

// Reason classifies why a candidate position was rejected. ReasonNone
// accompanies an accepted position.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonOffBoard
	ReasonKeepout
	ReasonPadCollision
	ReasonTraceCollision
	ReasonViaSpacing
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonOffBoard:
		return "off-board"
	case ReasonKeepout:
		return "keepout"
	case ReasonPadCollision:
		return "pad-collision"
	case ReasonTraceCollision:
		return "trace-collision"
	case ReasonViaSpacing:
		return "via-spacing"
	default:
		return "unknown"
	}
}

// CheckFlags toggles individual geometry checks. Disabled checks pass
// unconditionally.
type CheckFlags struct {
	Outline bool
	Keepout bool
	Pads    bool
	Traces  bool
}

// AllChecks enables every geometry check.
var AllChecks = CheckFlags{Outline: true, Keepout: true, Pads: true, Traces: true}

// Checker validates candidate via positions against static board geometry:
// the board outline, keepout areas, pads, and traces. Via-to-via spacing is
// not part of the checker; it depends on vias accepted earlier in the same
// run and lives in the pipeline's mutable via index.
type Checker struct {
	settings Settings
	outline  Outline
	keepouts []Keepout

	pads         *Index[PadStub]
	maxPadRadius int64

	traces       *SegIndex[TraceSegment]
	maxHalfWidth int64
}

// NewChecker builds a checker over the snapshot's static geometry, indexing
// pads and traces once up front. Index cell sizes track the respective query
// radii so a typical query touches a 3x3 cell neighborhood.
func NewChecker(snap *BoardSnapshot, settings Settings) *Checker {
	c := &Checker{
		settings: settings,
		outline:  snap.Outline,
		keepouts: snap.Keepouts,
	}

	for _, pad := range snap.Pads {
		if pad.Radius > c.maxPadRadius {
			c.maxPadRadius = pad.Radius
		}
	}
	padCell := settings.Radius() + settings.PadClearance + c.maxPadRadius
	c.pads = NewIndex[PadStub](padCell)
	for _, pad := range snap.Pads {
		c.pads.Insert(pad.Center, pad)
	}

	for _, seg := range snap.Traces {
		if seg.HalfWidth > c.maxHalfWidth {
			c.maxHalfWidth = seg.HalfWidth
		}
	}
	traceCell := settings.Radius() + settings.TraceClearance + c.maxHalfWidth
	c.traces = NewSegIndex[TraceSegment](traceCell)
	for _, seg := range snap.Traces {
		c.traces.Insert(seg.Start, seg.End, seg)
	}

	return c
}

// CanPlace reports whether a via of the configured diameter, connected to
// viaNet, may occupy p. Checks run cheapest first and short-circuit on the
// first failure; the returned Reason names that failure. The outline test
// requires the whole via body on the board: the center must lie within the
// outline bounds shrunk inward by the via radius, and within the contour
// when one is known. Traces on viaNet are exempt (a stitching via may touch
// its own net's copper); pads are not.
func (c *Checker) CanPlace(p Point, viaNet int, flags CheckFlags) (bool, Reason) {
	viaRadius := c.settings.Radius()

	if flags.Outline && c.outline != nil {
		if !c.outline.Bounds().Inset(viaRadius).Contains(p) {
			return false, ReasonOffBoard
		}
		if !c.outline.Contains(p) {
			return false, ReasonOffBoard
		}
	}

	if flags.Keepout {
		for _, ko := range c.keepouts {
			if ko.Outline == nil {
				continue
			}
			if ko.Outline.Contains(p) {
				return false, ReasonKeepout
			}
		}
	}

	if flags.Pads {
		query := viaRadius + c.settings.PadClearance + c.maxPadRadius
		for m := range c.pads.Near(p, query) {
			limit := float64(m.Item.Radius + viaRadius + c.settings.PadClearance)
			if m.Dist < limit {
				return false, ReasonPadCollision
			}
		}
	}

	if flags.Traces {
		query := viaRadius + c.settings.TraceClearance + c.maxHalfWidth
		for m := range c.traces.Near(p, query) {
			if m.Item.Net == viaNet {
				continue
			}
			d := SegmentDist(p, m.Start, m.End)
			limit := float64(viaRadius + m.Item.HalfWidth + c.settings.TraceClearance)
			if d < limit {
				return false, ReasonTraceCollision
			}
		}
	}

	return true, ReasonNone
}
