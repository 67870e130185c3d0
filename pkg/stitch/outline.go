package stitch

// Outline describes a closed region of the board plane. Precise polygon
// geometry is not always available in board data; the two implementations
// make the degraded case explicit instead of recovering it from errors:
// BoxOutline when only a bounding box is known, PolygonOutline when the
// exact contour is.
type Outline interface {
	// Bounds returns the axis-aligned bounding box of the region.
	Bounds() Rect
	// Contains reports whether p lies inside the region.
	Contains(p Point) bool
}

// BoxOutline is a region known only by its bounding box. Containment is
// conservative: everything inside the box counts as inside the region.
type BoxOutline struct {
	Box Rect
}

// Bounds returns the box itself.
func (o BoxOutline) Bounds() Rect { return o.Box }

// Contains reports whether p lies inside the box, borders included.
func (o BoxOutline) Contains(p Point) bool { return o.Box.Contains(p) }

// PolygonOutline is a region bounded by a simple polygon.
type PolygonOutline struct {
	pts []Point
	box Rect
}

// NewPolygonOutline builds a polygon outline from at least three vertices.
// Fewer vertices degrade to a BoxOutline over the given points, never an
// error: incomplete board geometry must not abort a placement run.
func NewPolygonOutline(pts []Point) Outline {
	box := BoundsOf(pts)
	if len(pts) < 3 {
		return BoxOutline{Box: box}
	}
	return &PolygonOutline{pts: pts, box: box}
}

// Bounds returns the polygon's bounding box.
func (o *PolygonOutline) Bounds() Rect { return o.box }

// Contains reports whether p lies inside the polygon, by even-odd ray
// casting. The bounding box check short-circuits the common far-away case.
func (o *PolygonOutline) Contains(p Point) bool {
	if !o.box.Contains(p) {
		return false
	}
	return polyContains(o.pts, p)
}

// Points returns the polygon vertices.
func (o *PolygonOutline) Points() []Point { return o.pts }

// polyContains tests point-in-polygon with an even-odd horizontal ray cast.
func polyContains(pts []Point, p Point) bool {
	inside := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			t := float64(p.Y-pi.Y) / float64(pj.Y-pi.Y)
			crossX := float64(pi.X) + t*float64(pj.X-pi.X)
			if float64(p.X) < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
