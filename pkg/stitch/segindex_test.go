package stitch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDist(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{
			name: "projection inside segment",
			a:    Point{0, 0}, b: Point{10, 0}, p: Point{5, 3},
			want: 3.0,
		},
		{
			name: "projection clamps to start",
			a:    Point{0, 0}, b: Point{10, 0}, p: Point{-2, 0},
			want: 2.0,
		},
		{
			name: "projection clamps to end",
			a:    Point{0, 0}, b: Point{10, 0}, p: Point{13, 4},
			want: 5.0,
		},
		{
			name: "zero-length segment",
			a:    Point{4, 4}, b: Point{4, 4}, p: Point{4, 7},
			want: 3.0,
		},
		{
			name: "point on segment",
			a:    Point{0, 0}, b: Point{10, 10}, p: Point{5, 5},
			want: 0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SegmentDist(tt.p, tt.a, tt.b), 1e-9)
		})
	}
}

// The segment index may over-return but must never miss a segment whose true
// distance is within the query radius.
func TestSegIndexNeverMisses(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	type seg struct{ a, b Point }
	segs := make([]seg, 200)
	for i := range segs {
		segs[i] = seg{
			a: Point{X: rng.Int63n(100000) - 50000, Y: rng.Int63n(100000) - 50000},
			b: Point{X: rng.Int63n(100000) - 50000, Y: rng.Int63n(100000) - 50000},
		}
	}

	for _, cellSize := range []int64{500, 5000, 50000} {
		ix := NewSegIndex[int](cellSize)
		for i, s := range segs {
			ix.Insert(s.a, s.b, i)
		}
		require.Equal(t, len(segs), ix.Len())

		for q := 0; q < 30; q++ {
			p := Point{X: rng.Int63n(120000) - 60000, Y: rng.Int63n(120000) - 60000}
			radius := int64(1000 + rng.Int63n(20000))

			got := make(map[int]bool)
			for m := range ix.Near(p, radius) {
				assert.False(t, got[m.Item], "segment %d returned twice", m.Item)
				got[m.Item] = true
			}

			for i, s := range segs {
				if SegmentDist(p, s.a, s.b) <= float64(radius) {
					assert.True(t, got[i],
						"cellSize=%d: segment %d within radius %d of %v but not returned",
						cellSize, i, radius, p)
				}
			}
		}
	}
}

// A long diagonal segment is registered across its whole bounding-box cell
// range, so a query near its middle finds it even though both endpoints are
// many cells away.
func TestSegIndexFindsMidSegment(t *testing.T) {
	ix := NewSegIndex[string](100)
	ix.Insert(Point{0, 0}, Point{10000, 10000}, "diag")

	found := false
	for m := range ix.Near(Point{X: 5000, Y: 5050}, 200) {
		if m.Item == "diag" {
			found = true
		}
	}
	assert.True(t, found)
}

// A degenerate bucket size with a huge query radius must complete and still
// return each segment exactly once.
func TestSegIndexDegenerateCellSize(t *testing.T) {
	ix := NewSegIndex[string](1)
	ix.Insert(Point{X: -20000, Y: 0}, Point{X: 20000, Y: 0}, "a")
	ix.Insert(Point{X: 0, Y: -20000}, Point{X: 0, Y: 20000}, "b")

	got := make(map[string]int)
	for m := range ix.Near(Point{}, 1<<40) {
		got[m.Item]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, got)
}

func TestSegIndexNonPositiveRadius(t *testing.T) {
	ix := NewSegIndex[int](100)
	ix.Insert(Point{0, 0}, Point{10, 0}, 1)

	count := 0
	for range ix.Near(Point{5, 0}, 0) {
		count++
	}
	assert.Zero(t, count)
}
