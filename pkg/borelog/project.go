package borelog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/strata/pkg/ags"
)

// Intervals projects an interval-keyed table into typed records. Rows with
// an empty hole identifier, an unparsable depth, or depth-from greater than
// depth-to are dropped and reported; projection never invents data. Records
// come back in the table's row order, not depth order.
func Intervals(t *ags.Table, spec IntervalSpec) ([]Interval, []Diagnostic, error) {
	if t == nil {
		return nil, nil, ErrNilTable
	}
	if err := requireColumns(t, spec.Hole, spec.From, spec.To); err != nil {
		return nil, nil, err
	}

	var out []Interval
	var diags []Diagnostic
	for i, row := range t.Rows {
		hole := strings.TrimSpace(row[spec.Hole])
		if hole == "" {
			diags = append(diags, Diagnostic{Group: t.Name, Row: i, Kind: DiagMissingHole})
			continue
		}
		from, ok := parseDepth(row[spec.From])
		if !ok {
			diags = append(diags, badDepth(t.Name, i, hole, spec.From, row[spec.From]))
			continue
		}
		to, ok := parseDepth(row[spec.To])
		if !ok {
			diags = append(diags, badDepth(t.Name, i, hole, spec.To, row[spec.To]))
			continue
		}
		if to < from {
			diags = append(diags, Diagnostic{
				Group:  t.Name,
				Row:    i,
				Hole:   hole,
				Kind:   DiagBadOrder,
				Detail: fmt.Sprintf("[%g, %g)", from, to),
			})
			continue
		}
		out = append(out, Interval{Hole: hole, From: from, To: to, Row: row, Index: i})
	}
	return out, diags, nil
}

// Points projects a point-keyed table into typed records under the same
// drop-and-report rules as Intervals.
func Points(t *ags.Table, spec PointSpec) ([]Point, []Diagnostic, error) {
	if t == nil {
		return nil, nil, ErrNilTable
	}
	if err := requireColumns(t, spec.Hole, spec.Depth); err != nil {
		return nil, nil, err
	}

	var out []Point
	var diags []Diagnostic
	for i, row := range t.Rows {
		hole := strings.TrimSpace(row[spec.Hole])
		if hole == "" {
			diags = append(diags, Diagnostic{Group: t.Name, Row: i, Kind: DiagMissingHole})
			continue
		}
		depth, ok := parseDepth(row[spec.Depth])
		if !ok {
			diags = append(diags, badDepth(t.Name, i, hole, spec.Depth, row[spec.Depth]))
			continue
		}
		out = append(out, Point{Hole: hole, Depth: depth, Row: row, Index: i})
	}
	return out, diags, nil
}

func requireColumns(t *ags.Table, cols ...string) error {
	for _, col := range cols {
		if !t.HasColumn(col) {
			return fmt.Errorf("%w: %s in group %s", ErrMissingColumn, col, t.Name)
		}
	}
	return nil
}

func badDepth(group string, row int, hole, col, cell string) Diagnostic {
	return Diagnostic{
		Group:  group,
		Row:    row,
		Hole:   hole,
		Kind:   DiagBadDepth,
		Detail: fmt.Sprintf("%s=%q", col, cell),
	}
}

// parseDepth reads a depth cell in metres.
func parseDepth(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
