package borelog

import (
	"github.com/fyrsmithlabs/strata/pkg/ags"
)

// Interval is one depth range drawn from an interval-keyed group table:
// a lithology stratum, a core run, a weathering zone. The payload Row
// references the source table's row; projections never copy or mutate it.
type Interval struct {
	// Hole is the sample-location identifier the interval belongs to.
	Hole string

	// From and To bound the interval in metres below ground level. The
	// range is half-open: From is inside, To is not.
	From float64
	To   float64

	// Row is the source payload.
	Row ags.Row

	// Index is the row's position in the projected table.
	Index int
}

// Thickness returns the interval's vertical extent.
func (iv Interval) Thickness() float64 {
	return iv.To - iv.From
}

// Contains reports whether depth d lies inside the half-open range
// [From, To).
func (iv Interval) Contains(d float64) bool {
	return d >= iv.From && d < iv.To
}

// Point is one single-depth record drawn from a point-keyed group table,
// typically a test specimen.
type Point struct {
	Hole  string
	Depth float64
	Row   ags.Row
	Index int
}

// IntervalSpec names the columns an interval projection reads.
type IntervalSpec struct {
	Hole string
	From string
	To   string
}

// PointSpec names the columns a point projection reads.
type PointSpec struct {
	Hole  string
	Depth string
}

// DiagnosticKind classifies a row dropped or flagged during projection or
// fusion.
type DiagnosticKind string

const (
	// DiagMissingHole marks a row with an empty hole identifier.
	DiagMissingHole DiagnosticKind = "missing_hole"

	// DiagBadDepth marks a row whose depth cell does not parse as a
	// number.
	DiagBadDepth DiagnosticKind = "bad_depth"

	// DiagBadOrder marks an interval row with depth-from greater than
	// depth-to.
	DiagBadOrder DiagnosticKind = "bad_order"

	// DiagOverlap marks overlapping intervals within one hole. Fusion
	// resolves the overlap deterministically; the diagnostic surfaces the
	// defect.
	DiagOverlap DiagnosticKind = "overlap"
)

// Diagnostic reports one row-level defect found while projecting or fusing.
// Row is the index into the source table's rows.
type Diagnostic struct {
	Group  string
	Row    int
	Hole   string
	Kind   DiagnosticKind
	Detail string
}
