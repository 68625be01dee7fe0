package borelog

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fyrsmithlabs/strata/pkg/ags"
)

var tracer = otel.Tracer("strata/borelog")

// Depth columns every profile table carries.
const (
	ColDepthFrom = "DEPTH_FROM"
	ColDepthTo   = "DEPTH_TO"
	ColThickness = "THICKNESS"
)

// ColumnMapping copies one payload column onto the profile under a new
// name.
type ColumnMapping struct {
	Dst string
	Src string
}

// Overlay is one interval-keyed table contributing payload columns to a
// profile.
type Overlay struct {
	Table   *ags.Table
	Spec    IntervalSpec
	Columns []ColumnMapping
}

// ProfileOptions controls profile assembly.
type ProfileOptions struct {
	// Name is the output table's group name. Default "PROFILE".
	Name string

	// HoleColumn is the output hole-identifier column. Default "HOLE_ID".
	HoleColumn string
}

func (o ProfileOptions) withDefaults() ProfileOptions {
	if o.Name == "" {
		o.Name = "PROFILE"
	}
	if o.HoleColumn == "" {
		o.HoleColumn = "HOLE_ID"
	}
	return o
}

// BuildProfile fuses independently-logged interval tables into one table of
// elementary depth slices per hole. The boundary depths of every overlay
// are unioned into a sorted skeleton; each payload column is then painted
// onto the slices its source interval covers. Slices no overlay covers keep
// empty cells: coverage gaps are data, not errors.
//
// Output rows are ordered by hole, then depth. Each row carries the hole
// identifier, DEPTH_FROM, DEPTH_TO, THICKNESS, and the overlay columns in
// declaration order.
func BuildProfile(ctx context.Context, overlays []Overlay, opts ProfileOptions) (*ags.Table, []Diagnostic, error) {
	_, span := tracer.Start(ctx, "borelog.build_profile")
	defer span.End()

	if len(overlays) == 0 {
		return nil, nil, ErrNoOverlays
	}
	opts = opts.withDefaults()

	var diags []Diagnostic
	projected := make([][]Interval, len(overlays))
	bounds := make(map[string][]float64)
	for oi, ov := range overlays {
		ivs, ds, err := Intervals(ov.Table, ov.Spec)
		if err != nil {
			return nil, nil, fmt.Errorf("overlay %d: %w", oi, err)
		}
		diags = append(diags, ds...)
		projected[oi] = ivs
		for _, iv := range ivs {
			bounds[iv.Hole] = append(bounds[iv.Hole], iv.From, iv.To)
		}
	}

	holes := make([]string, 0, len(bounds))
	for hole := range bounds {
		holes = append(holes, hole)
	}
	sort.Strings(holes)

	table := &ags.Table{
		Name:    opts.Name,
		Columns: []string{opts.HoleColumn, ColDepthFrom, ColDepthTo, ColThickness},
	}
	for _, ov := range overlays {
		for _, m := range ov.Columns {
			if !table.HasColumn(m.Dst) {
				table.Columns = append(table.Columns, m.Dst)
			}
		}
	}

	var skeleton []Interval
	for _, hole := range holes {
		depths := dedupeSorted(bounds[hole])
		for k := 0; k+1 < len(depths); k++ {
			from, to := depths[k], depths[k+1]
			row := make(ags.Row, len(table.Columns))
			for _, col := range table.Columns {
				row[col] = ""
			}
			row[opts.HoleColumn] = hole
			row[ColDepthFrom] = formatDepth(from)
			row[ColDepthTo] = formatDepth(to)
			row[ColThickness] = formatDepth(to - from)
			table.Rows = append(table.Rows, row)
			skeleton = append(skeleton, Interval{Hole: hole, From: from, To: to, Row: row, Index: len(table.Rows) - 1})
		}
	}

	for oi, ov := range overlays {
		res := FuseIntervals(skeleton, projected[oi])
		diags = append(diags, res.Diagnostics...)
		for si, bi := range res.Assigned {
			if bi < 0 {
				continue
			}
			src := projected[oi][bi].Row
			dst := table.Rows[skeleton[si].Index]
			for _, m := range ov.Columns {
				dst[m.Dst] = src[m.Src]
			}
		}
	}

	span.SetAttributes(
		attribute.Int("borelog.profile.holes", len(holes)),
		attribute.Int("borelog.profile.slices", len(table.Rows)),
		attribute.Int("borelog.profile.diagnostics", len(diags)),
	)
	return table, diags, nil
}

// dedupeSorted sorts boundary depths and collapses values closer than
// contigEps, so textual variants of the same depth yield one boundary.
func dedupeSorted(vals []float64) []float64 {
	sort.Float64s(vals)
	out := vals[:0]
	for _, v := range vals {
		if len(out) == 0 || v-out[len(out)-1] > contigEps {
			out = append(out, v)
		}
	}
	return out
}

// formatDepth renders a depth cell rounded to millimetres, keeping float
// arithmetic noise out of the output table.
func formatDepth(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
