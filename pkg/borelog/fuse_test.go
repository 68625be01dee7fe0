package borelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(hole string, from, to float64, index int) Interval {
	return Interval{Hole: hole, From: from, To: to, Index: index}
}

func pt(hole string, depth float64) Point {
	return Point{Hole: hole, Depth: depth}
}

func TestFusePointsBoundaryEdges(t *testing.T) {
	broad := []Interval{
		iv("BH1", 0, 5, 0),
		iv("BH1", 5, 10, 1),
	}
	// input order deliberately not depth order: Assigned must stay
	// parallel to the input
	points := []Point{
		pt("BH1", 10),  // equal to the last interval's to: outside
		pt("BH1", 0),   // equal to from: inside
		pt("BH1", 5),   // to of the first and from of the second: second wins
		pt("BH1", 4.9), // interior
		pt("BH1", -1),  // above the logged top
	}

	res := FusePoints(points, broad)

	assert.Equal(t, []int{-1, 0, 1, 0, -1}, res.Assigned)
	assert.Empty(t, res.Diagnostics)

	require.Len(t, res.Gaps, 2)
	assert.Equal(t, Gap{Hole: "BH1", Depth: -1, Input: 4}, res.Gaps[0])
	assert.Equal(t, Gap{Hole: "BH1", Depth: 10, Input: 0}, res.Gaps[1])
}

func TestFusePointsAcrossHoles(t *testing.T) {
	broad := []Interval{
		iv("BH2", 3, 8, 0),
		iv("BH1", 0, 5, 1),
	}
	points := []Point{
		pt("BH1", 4),
		pt("BH2", 4),
		pt("BH3", 4), // hole with no intervals at all
	}

	res := FusePoints(points, broad)

	assert.Equal(t, []int{1, 0, -1}, res.Assigned)
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, "BH3", res.Gaps[0].Hole)
}

func TestFusePointsOverlap(t *testing.T) {
	t.Run("first-starting interval wins", func(t *testing.T) {
		broad := []Interval{
			iv("BH1", 0, 10, 0),
			iv("BH1", 2, 3, 1),
		}
		res := FusePoints([]Point{pt("BH1", 2.5)}, broad)

		assert.Equal(t, []int{0}, res.Assigned)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, DiagOverlap, res.Diagnostics[0].Kind)
		assert.Equal(t, 1, res.Diagnostics[0].Row, "the intruding interval is the one reported")
		assert.Equal(t, "BH1", res.Diagnostics[0].Hole)
	})

	t.Run("equal starts resolve to first encountered", func(t *testing.T) {
		broad := []Interval{
			iv("BH1", 0, 5, 0),
			iv("BH1", 0, 7, 1),
		}
		res := FusePoints([]Point{pt("BH1", 1)}, broad)

		assert.Equal(t, []int{0}, res.Assigned)
		require.Len(t, res.Diagnostics, 1)
	})

	t.Run("later interval inside an earlier long one", func(t *testing.T) {
		broad := []Interval{
			iv("BH1", 0, 10, 0),
			iv("BH1", 2, 3, 1),
			iv("BH1", 4, 5, 2),
		}
		res := FusePoints([]Point{pt("BH1", 4.5)}, broad)

		assert.Equal(t, []int{0}, res.Assigned)
		assert.Len(t, res.Diagnostics, 2, "every intruding interval is reported")
	})
}

func TestFuseIntervals(t *testing.T) {
	broad := []Interval{
		iv("BH1", 0, 5, 0),
		iv("BH1", 5, 10, 1),
	}
	narrow := []Interval{
		iv("BH1", 2, 4, 0),
		iv("BH1", 5, 7, 1),   // top on the boundary: deeper interval wins
		iv("BH1", 12, 14, 2), // beyond the logged base
	}

	res := FuseIntervals(narrow, broad)

	assert.Equal(t, []int{0, 1, -1}, res.Assigned)
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, 12.0, res.Gaps[0].Depth, "interval containment keys off the narrow top")
}

func TestFuseEmptyInputs(t *testing.T) {
	res := FusePoints(nil, nil)
	assert.Empty(t, res.Assigned)
	assert.Empty(t, res.Gaps)

	res = FusePoints([]Point{pt("BH1", 1)}, nil)
	assert.Equal(t, []int{-1}, res.Assigned)
	assert.Len(t, res.Gaps, 1)
}
