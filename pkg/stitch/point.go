package stitch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate in integer nanometers. Pure value, no identity.
type Point struct {
	X int64
	Y int64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", ToMM(p.X), ToMM(p.Y))
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// SegmentDist returns the distance from point p to the segment a-b, using
// the closest-point projection clamped to the segment. A zero-length
// segment reduces to point distance.
func SegmentDist(p, a, b Point) float64 {
	ap := r2.Vec{X: float64(p.X - a.X), Y: float64(p.Y - a.Y)}
	ab := r2.Vec{X: float64(b.X - a.X), Y: float64(b.Y - a.Y)}

	len2 := r2.Dot(ab, ab)
	if len2 == 0 {
		return r2.Norm(ap)
	}

	t := r2.Dot(ap, ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return r2.Norm(r2.Sub(ap, r2.Scale(t, ab)))
}

// Rect is an axis-aligned rectangle in integer nanometers.
// Left <= Right and Top <= Bottom for a non-degenerate rectangle.
type Rect struct {
	Left   int64
	Top    int64
	Right  int64
	Bottom int64
}

// Width returns the horizontal extent.
func (r Rect) Width() int64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int64 { return r.Bottom - r.Top }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies inside the rectangle, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsStrict reports whether p lies strictly inside the rectangle.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.Left && p.X < r.Right && p.Y > r.Top && p.Y < r.Bottom
}

// Inset returns the rectangle shrunk inward by d on all sides.
func (r Rect) Inset(d int64) Rect {
	return Rect{
		Left:   r.Left + d,
		Top:    r.Top + d,
		Right:  r.Right - d,
		Bottom: r.Bottom - d,
	}
}

// BoundsOf returns the bounding rectangle of a set of points.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < r.Left {
			r.Left = p.X
		}
		if p.X > r.Right {
			r.Right = p.X
		}
		if p.Y < r.Top {
			r.Top = p.Y
		}
		if p.Y > r.Bottom {
			r.Bottom = p.Y
		}
	}
	return r
}
