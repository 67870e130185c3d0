package stitch

import (
	"iter"
	"math"
	"math/rand"
)

// Generator produces candidate via positions for one region according to
// the configured pattern. The sequences it returns are lazy and
// restartable: each call to range over one rebuilds its jitter source from
// the fixed seed, so iterating twice yields identical points.
type Generator struct {
	settings Settings
}

// NewGenerator creates a generator for the given settings.
func NewGenerator(settings Settings) *Generator {
	return &Generator{settings: settings}
}

// Points returns the candidate sequence for reg. Candidates outside the
// region's strict interior (shrunk by the edge clearance, and clipped to
// the zone contour when one is known) are skipped, not yielded.
func (g *Generator) Points(reg *Region) iter.Seq[Point] {
	switch g.settings.Pattern {
	case PatternBoundary:
		return g.boundary(reg)
	case PatternSpiral:
		return g.spiral(reg)
	default:
		return g.grid(reg)
	}
}

// jitterSource returns the per-iteration random source, or nil when
// randomization is off.
func (g *Generator) jitterSource() *rand.Rand {
	if !g.settings.Randomize {
		return nil
	}
	return rand.New(rand.NewSource(g.settings.Seed))
}

// symJitter returns a uniform value in [-scale, scale], or 0 without a source.
func symJitter(rng *rand.Rand, scale float64) int64 {
	if rng == nil {
		return 0
	}
	return int64((rng.Float64()*2 - 1) * scale)
}

// posJitter returns a uniform value in [0, scale), or 0 without a source.
func posJitter(rng *rand.Rand, scale float64) int64 {
	if rng == nil {
		return 0
	}
	return int64(rng.Float64() * scale)
}

// grid walks a rectangular lattice across the region's bounding box,
// starting one edge clearance in from the top-left corner plus the
// configured offsets. Jitter displaces each point by up to a fifth of the
// pitch on each axis.
func (g *Generator) grid(reg *Region) iter.Seq[Point] {
	s := g.settings
	return func(yield func(Point) bool) {
		rng := g.jitterSource()

		startX := reg.Box.Left + s.EdgeClearance + s.HOffset
		startY := reg.Box.Top + s.EdgeClearance + s.VOffset
		endX := reg.Box.Right - s.EdgeClearance
		endY := reg.Box.Bottom - s.EdgeClearance

		for y := startY; y <= endY; y += s.VSpacing {
			for x := startX; x <= endX; x += s.HSpacing {
				p := Point{
					X: x + symJitter(rng, 0.2*float64(s.HSpacing)),
					Y: y + symJitter(rng, 0.2*float64(s.VSpacing)),
				}
				if !reg.contains(p, s.EdgeClearance) {
					continue
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// boundary walks the region's bounding-box perimeter clockwise from the
// top-left corner, one edge clearance in from each edge, stepping by the
// horizontal pitch. Jitter is asymmetric: along the leading edges it only
// pushes points inward, never off the board.
func (g *Generator) boundary(reg *Region) iter.Seq[Point] {
	s := g.settings
	return func(yield func(Point) bool) {
		rng := g.jitterSource()

		ec := s.EdgeClearance
		left := reg.Box.Left + ec
		top := reg.Box.Top + ec
		right := reg.Box.Right - ec
		bottom := reg.Box.Bottom - ec
		if right <= left || bottom <= top {
			return
		}

		width := right - left
		height := bottom - top
		perimeter := 2 * (width + height)
		h := float64(s.HSpacing)

		// Perimeter points sit exactly on the inset boundary, so the
		// containment test here is inclusive, unlike grid and spiral.
		inset := reg.Box.Inset(ec)
		emit := func(p Point) bool {
			if !inset.Contains(p) {
				return true
			}
			if len(reg.Poly) >= 3 && !polyContains(reg.Poly, p) {
				return true
			}
			return yield(p)
		}

		for dist := int64(0); dist < perimeter; dist += s.HSpacing {
			var p Point
			switch {
			case dist < width: // top edge, moving right
				p = Point{X: left + dist, Y: top}
				p.X += symJitter(rng, 0.1*h)
				p.Y += posJitter(rng, 0.2*h)
			case dist < width+height: // right edge, moving down
				p = Point{X: right, Y: top + (dist - width)}
				p.X -= posJitter(rng, 0.2*h)
				p.Y += symJitter(rng, 0.1*h)
			case dist < 2*width+height: // bottom edge, moving left
				p = Point{X: right - (dist - width - height), Y: bottom}
				p.X -= posJitter(rng, 0.2*h)
				p.Y += symJitter(rng, 0.1*h)
			default: // left edge, moving up
				p = Point{X: left, Y: bottom - (dist - 2*width - height)}
				p.X += symJitter(rng, 0.1*h)
				p.Y += posJitter(rng, 0.2*h)
			}
			if !emit(p) {
				return
			}
		}
	}
}

// spiral winds an Archimedean spiral out from the region center with a
// radial pitch of one horizontal spacing per turn, terminating once the
// radius exceeds half the region's smaller dimension. The angular step
// divides the arc pitch by the previous radius, so point spacing along the
// curve stays near the pitch throughout.
func (g *Generator) spiral(reg *Region) iter.Seq[Point] {
	s := g.settings
	return func(yield func(Point) bool) {
		rng := g.jitterSource()

		center := reg.Box.Center()
		h := float64(s.HSpacing)
		maxRadius := float64(min(reg.Box.Width(), reg.Box.Height())) / 2

		radius := float64(s.EdgeClearance)
		if radius < 1 {
			radius = h
		}
		theta := 0.0

		for radius <= maxRadius {
			r := radius
			a := theta
			if rng != nil {
				r += (rng.Float64()*0.2 - 0.1) * h
				a += rng.Float64()*0.2 - 0.1
			}
			p := Point{
				X: center.X + int64(r*math.Cos(a)),
				Y: center.Y + int64(r*math.Sin(a)),
			}
			if reg.contains(p, s.EdgeClearance) {
				if !yield(p) {
					return
				}
			}
			theta += h / radius
			radius = float64(s.EdgeClearance) + h*theta/(2*math.Pi)
		}
	}
}
