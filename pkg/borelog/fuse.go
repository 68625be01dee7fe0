package borelog

import (
	"fmt"
	"sort"
)

// Gap is one record no broader interval contains. Gaps are ordinary
// results, not errors: a specimen above the logged lithology top is routine
// in real survey data.
type Gap struct {
	Hole  string
	Depth float64

	// Input is the record's position in the fuser's input slice.
	Input int
}

// FuseResult is the outcome of one fusion pass.
type FuseResult struct {
	// Assigned is parallel to the fuser's input: Assigned[i] is the index
	// into the broad slice whose interval contains input i, or -1.
	Assigned []int

	// Gaps lists the inputs with no containing interval.
	Gaps []Gap

	// Diagnostics carries overlap findings on the broad side.
	Diagnostics []Diagnostic
}

// FusePoints assigns each point the broad interval containing its depth,
// per hole. Containment is half-open and lower-inclusive: a depth equal to
// an interval's from is inside it, a depth equal to its to is not.
//
// Per hole the broad intervals are sorted by depth-from and the points are
// visited in depth order behind a cursor, so total work is linear in the
// input sizes rather than quadratic. Overlapping broad intervals resolve to
// the first-starting, then first-encountered interval, with the overlap
// reported as a diagnostic.
func FusePoints(points []Point, intervals []Interval) *FuseResult {
	keys := make([]fuseKey, len(points))
	for i, p := range points {
		keys[i] = fuseKey{hole: p.Hole, depth: p.Depth}
	}
	return fuse(keys, intervals)
}

// FuseIntervals assigns each narrow interval the broad interval containing
// its depth-from. Keying containment off the narrow interval's top matches
// how profile slices take their payload: a slice belongs to the stratum it
// starts in.
func FuseIntervals(narrow, broad []Interval) *FuseResult {
	keys := make([]fuseKey, len(narrow))
	for i, iv := range narrow {
		keys[i] = fuseKey{hole: iv.Hole, depth: iv.From}
	}
	return fuse(keys, broad)
}

type fuseKey struct {
	hole  string
	depth float64
}

func fuse(keys []fuseKey, broad []Interval) *FuseResult {
	res := &FuseResult{Assigned: make([]int, len(keys))}

	// sort the broad side per hole; stable keeps first-encountered order
	// for equal starts
	byHole := make(map[string][]int)
	for i, iv := range broad {
		byHole[iv.Hole] = append(byHole[iv.Hole], i)
	}
	holes := make([]string, 0, len(byHole))
	for hole := range byHole {
		holes = append(holes, hole)
	}
	sort.Strings(holes)
	for _, hole := range holes {
		idx := byHole[hole]
		sort.SliceStable(idx, func(a, b int) bool {
			return broad[idx[a]].From < broad[idx[b]].From
		})
		res.Diagnostics = append(res.Diagnostics, overlaps(hole, idx, broad)...)
	}

	// visit the narrow side in (hole, depth) order so one forward cursor
	// per hole suffices
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if ka.hole != kb.hole {
			return ka.hole < kb.hole
		}
		return ka.depth < kb.depth
	})

	var (
		curHole string
		cursor  int
		sorted  []int
		started bool
	)
	for _, i := range order {
		k := keys[i]
		if !started || k.hole != curHole {
			started = true
			curHole = k.hole
			cursor = 0
			sorted = byHole[k.hole]
		}
		for cursor < len(sorted) && broad[sorted[cursor]].To <= k.depth {
			cursor++
		}
		if cursor < len(sorted) && broad[sorted[cursor]].Contains(k.depth) {
			res.Assigned[i] = sorted[cursor]
			continue
		}
		res.Assigned[i] = -1
		res.Gaps = append(res.Gaps, Gap{Hole: k.hole, Depth: k.depth, Input: i})
	}
	return res
}

// overlaps reports intervals intruding into a shallower interval's range
// within one hole. idx is sorted by depth-from.
func overlaps(hole string, idx []int, broad []Interval) []Diagnostic {
	if len(idx) < 2 {
		return nil
	}
	var diags []Diagnostic
	maxTo := broad[idx[0]].To
	for _, i := range idx[1:] {
		iv := broad[i]
		if iv.From < maxTo {
			diags = append(diags, Diagnostic{
				Row:    iv.Index,
				Hole:   hole,
				Kind:   DiagOverlap,
				Detail: fmt.Sprintf("[%g, %g) intrudes into a shallower interval", iv.From, iv.To),
			})
		}
		if iv.To > maxTo {
			maxTo = iv.To
		}
	}
	return diags
}
