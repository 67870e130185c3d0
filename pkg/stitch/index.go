package stitch

import "iter"

// cellKey identifies one square bucket of the plane.
type cellKey struct {
	x int64
	y int64
}

// floorDiv divides a by b rounding toward negative infinity, so that cell
// coordinates stay consistent across the origin.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ceilDiv divides a by b rounding up. Both arguments must be positive.
func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// Match is one result of a proximity query: the stored point, its payload,
// and the true Euclidean distance to the query point.
type Match[T any] struct {
	Point Point
	Item  T
	Dist  float64
}

type indexEntry[T any] struct {
	pt   Point
	item T
}

// Index is a grid-bucketed proximity index over points. Items are hashed
// into square cells of a fixed edge length; a radius query visits only the
// cells that can contain matches and filters by true distance. Insertion is
// O(1) amortized; query cost is bounded by the number of populated buckets.
//
// The index is exclusively owned by one pipeline run and is not safe for
// concurrent use.
type Index[T any] struct {
	cellSize int64
	cells    map[cellKey][]indexEntry[T]
	count    int
}

// NewIndex creates an index with the given bucket edge length in
// nanometers. Non-positive sizes are clamped to 1.
func NewIndex[T any](cellSize int64) *Index[T] {
	if cellSize < 1 {
		cellSize = 1
	}
	return &Index[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]indexEntry[T]),
	}
}

// Len returns the number of stored items.
func (ix *Index[T]) Len() int { return ix.count }

// CellSize returns the bucket edge length.
func (ix *Index[T]) CellSize() int64 { return ix.cellSize }

func (ix *Index[T]) cellOf(p Point) cellKey {
	return cellKey{
		x: floorDiv(p.X, ix.cellSize),
		y: floorDiv(p.Y, ix.cellSize),
	}
}

// Insert stores item at the given point.
func (ix *Index[T]) Insert(p Point, item T) {
	key := ix.cellOf(p)
	ix.cells[key] = append(ix.cells[key], indexEntry[T]{pt: p, item: item})
	ix.count++
}

// Near returns a lazy sequence of all items within radius of p, with true
// Euclidean distances. Result order is unspecified. A radius <= 0 yields
// nothing. The radius may exceed the cell size; the query widens its cell
// walk accordingly.
func (ix *Index[T]) Near(p Point, radius int64) iter.Seq[Match[T]] {
	return func(yield func(Match[T]) bool) {
		if radius <= 0 {
			return
		}

		r := float64(radius)
		cellRadius := ceilDiv(radius, ix.cellSize)
		center := ix.cellOf(p)

		// When the walk would visit more buckets than exist, scanning
		// every bucket is cheaper and equally correct.
		if side := 2*cellRadius + 1; cellRadius > int64(len(ix.cells)) || side*side > int64(len(ix.cells)) {
			for _, entries := range ix.cells {
				for _, e := range entries {
					d := Dist(p, e.pt)
					if d <= r {
						if !yield(Match[T]{Point: e.pt, Item: e.item, Dist: d}) {
							return
						}
					}
				}
			}
			return
		}

		for dx := -cellRadius; dx <= cellRadius; dx++ {
			for dy := -cellRadius; dy <= cellRadius; dy++ {
				key := cellKey{x: center.x + dx, y: center.y + dy}
				for _, e := range ix.cells[key] {
					d := Dist(p, e.pt)
					if d <= r {
						if !yield(Match[T]{Point: e.pt, Item: e.item, Dist: d}) {
							return
						}
					}
				}
			}
		}
	}
}

// AnyNear reports whether at least one item lies within radius of p.
func (ix *Index[T]) AnyNear(p Point, radius int64) bool {
	for range ix.Near(p, radius) {
		return true
	}
	return false
}
