package stitch

import "iter"

// SegMatch is one result of a segment proximity query. The caller computes
// the precise point-to-segment distance itself; the index only guarantees
// it never misses a segment that could be within the query radius.
type SegMatch[T any] struct {
	Start Point
	End   Point
	Item  T
}

type segEntry[T any] struct {
	start Point
	end   Point
	item  T
}

// SegIndex is a grid-bucketed proximity index over line segments. Each
// segment is registered in every cell of its bounding-box cell range — a
// conservative over-registration that may return extra candidates but never
// loses a true one. Queries de-duplicate by segment identity.
type SegIndex[T any] struct {
	cellSize int64
	segs     []segEntry[T]
	cells    map[cellKey][]int
}

// NewSegIndex creates a segment index with the given bucket edge length in
// nanometers. Non-positive sizes are clamped to 1.
func NewSegIndex[T any](cellSize int64) *SegIndex[T] {
	if cellSize < 1 {
		cellSize = 1
	}
	return &SegIndex[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Len returns the number of stored segments.
func (ix *SegIndex[T]) Len() int { return len(ix.segs) }

// Insert stores a segment with its payload, registering it across all grid
// cells its bounding box overlaps, not just the endpoint cells.
func (ix *SegIndex[T]) Insert(start, end Point, item T) {
	id := len(ix.segs)
	ix.segs = append(ix.segs, segEntry[T]{start: start, end: end, item: item})

	minX, maxX := start.X, end.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := start.Y, end.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	cx0 := floorDiv(minX, ix.cellSize)
	cx1 := floorDiv(maxX, ix.cellSize)
	cy0 := floorDiv(minY, ix.cellSize)
	cy1 := floorDiv(maxY, ix.cellSize)

	for cx := cx0; cx <= cx1; cx++ {
		for cy := cy0; cy <= cy1; cy++ {
			key := cellKey{x: cx, y: cy}
			ix.cells[key] = append(ix.cells[key], id)
		}
	}
}

// Near returns a lazy, de-duplicated sequence of all segments registered in
// cells within ceil(radius/cellSize)+1 of p's cell. The extra ring of cells
// covers segments whose nearest point lies in a neighboring cell. A radius
// <= 0 yields nothing.
func (ix *SegIndex[T]) Near(p Point, radius int64) iter.Seq[SegMatch[T]] {
	return func(yield func(SegMatch[T]) bool) {
		if radius <= 0 {
			return
		}

		cellRadius := ceilDiv(radius, ix.cellSize) + 1
		cx := floorDiv(p.X, ix.cellSize)
		cy := floorDiv(p.Y, ix.cellSize)

		// When the walk would visit more buckets than exist, yielding
		// every segment once is cheaper and still conservative.
		if side := 2*cellRadius + 1; cellRadius > int64(len(ix.cells)) || side*side > int64(len(ix.cells)) {
			for _, e := range ix.segs {
				if !yield(SegMatch[T]{Start: e.start, End: e.end, Item: e.item}) {
					return
				}
			}
			return
		}

		seen := make(map[int]struct{})
		for dx := -cellRadius; dx <= cellRadius; dx++ {
			for dy := -cellRadius; dy <= cellRadius; dy++ {
				key := cellKey{x: cx + dx, y: cy + dy}
				for _, id := range ix.cells[key] {
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					e := ix.segs[id]
					if !yield(SegMatch[T]{Start: e.start, End: e.end, Item: e.item}) {
						return
					}
				}
			}
		}
	}
}
