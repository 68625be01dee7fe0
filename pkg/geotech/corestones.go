package geotech

import (
	"math"
	"sort"

	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

// depthEps absorbs float noise when comparing logged depths.
const depthEps = 1e-9

// CorestoneOptions control corestone detection.
type CorestoneOptions struct {
	// MinThickness is the smallest core thickness reported, in metres.
	// Defaults to 0.5.
	MinThickness float64

	// MaxGrade is the largest weathering grade number still treated as
	// rock for the core itself. Defaults to 3.
	MaxGrade float64

	// GradeColumn names the weathering grade column. Defaults to
	// WETH_GRAD.
	GradeColumn string
}

func (o CorestoneOptions) withDefaults() CorestoneOptions {
	if o.MinThickness <= 0 {
		o.MinThickness = 0.5
	}
	if o.MaxGrade <= 0 {
		o.MaxGrade = 3
	}
	if o.GradeColumn == "" {
		o.GradeColumn = "WETH_GRAD"
	}
	return o
}

// DetectCorestones finds rock cores floating in decomposed material: an
// interval of grade MaxGrade or better, at least MinThickness thick, whose
// contiguous neighbours above and below are both more decomposed than
// MaxGrade. Results are keyed by hole, in depth order. Intervals whose
// grade does not parse never qualify as core or as neighbour.
func DetectCorestones(intervals []borelog.Interval, opts CorestoneOptions) map[string][]borelog.Interval {
	opts = opts.withDefaults()
	grade := func(iv borelog.Interval) (float64, bool) {
		if iv.Row == nil {
			return 0, false
		}
		return GradeNumeric(iv.Row[opts.GradeColumn])
	}
	byHole := make(map[string][]borelog.Interval)
	for _, iv := range intervals {
		byHole[iv.Hole] = append(byHole[iv.Hole], iv)
	}
	out := make(map[string][]borelog.Interval)
	for hole, ivs := range byHole {
		sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].From < ivs[j].From })
		for i := 1; i < len(ivs)-1; i++ {
			prev, cur, next := ivs[i-1], ivs[i], ivs[i+1]
			if math.Abs(prev.To-cur.From) > depthEps || math.Abs(cur.To-next.From) > depthEps {
				continue
			}
			if cur.Thickness() < opts.MinThickness {
				continue
			}
			g, ok := grade(cur)
			if !ok || g > opts.MaxGrade {
				continue
			}
			gp, okp := grade(prev)
			gn, okn := grade(next)
			if !okp || gp <= opts.MaxGrade || !okn || gn <= opts.MaxGrade {
				continue
			}
			out[hole] = append(out[hole], cur)
		}
	}
	return out
}
