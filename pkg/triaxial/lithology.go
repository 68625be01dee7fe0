package triaxial

import (
	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

// WithLithology locates each specimen inside the logged lithology and
// copies the mapped columns onto the summary. Zero fields of spec default
// to LOCA_ID/GEOL_TOP/GEOL_BASE and the default mappings carry GEOL_LEG
// and GEOL_DESC through under their own names. Specimens above or below
// the logged lithology keep empty context cells; that is a gap, not an
// error.
func WithLithology(summary, geol *ags.Table, spec borelog.IntervalSpec, columns ...borelog.ColumnMapping) (*ags.Table, []borelog.Diagnostic, error) {
	if summary == nil || geol == nil {
		return nil, nil, borelog.ErrNilTable
	}
	if spec.Hole == "" {
		spec.Hole = "LOCA_ID"
	}
	if spec.From == "" {
		spec.From = "GEOL_TOP"
	}
	if spec.To == "" {
		spec.To = "GEOL_BASE"
	}
	if len(columns) == 0 {
		columns = []borelog.ColumnMapping{
			{Dst: "GEOL_LEG", Src: "GEOL_LEG"},
			{Dst: "GEOL_DESC", Src: "GEOL_DESC"},
		}
	}

	points, pdiags, err := borelog.Points(summary, borelog.PointSpec{Hole: ColHole, Depth: ColDepth})
	if err != nil {
		return nil, nil, err
	}
	intervals, idiags, err := borelog.Intervals(geol, spec)
	if err != nil {
		return nil, nil, err
	}
	diags := append(pdiags, idiags...)

	fused := borelog.FusePoints(points, intervals)
	diags = append(diags, fused.Diagnostics...)

	dsts := make([]string, len(columns))
	for i, m := range columns {
		dsts[i] = m.Dst
	}
	out := shallowCopy(summary)
	out.Columns = appendColumns(out.Columns, dsts...)
	for _, row := range summary.Rows {
		r := cloneRow(row)
		for _, d := range dsts {
			if _, ok := r[d]; !ok {
				r[d] = ""
			}
		}
		out.Rows = append(out.Rows, r)
	}
	for k, p := range points {
		idx := fused.Assigned[k]
		if idx < 0 {
			continue
		}
		src := intervals[idx].Row
		for _, m := range columns {
			out.Rows[p.Index][m.Dst] = src[m.Src]
		}
	}
	return out, diags, nil
}
