package triaxial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

// STValues appends stress-path coordinates to a summary. The major
// principal stress is cell pressure plus deviator stress at failure; s is
// the mean of the major and minor principal stresses and t half their
// difference, written to S_KPA and T_KPA. Rows whose stress cells do not
// parse keep empty coordinates and are reported.
func STValues(t *ags.Table) (*ags.Table, []borelog.Diagnostic, error) {
	if t == nil {
		return nil, nil, borelog.ErrNilTable
	}
	for _, col := range []string{ColCell, ColDev} {
		if !t.HasColumn(col) {
			return nil, nil, fmt.Errorf("%w: %s in %s", borelog.ErrMissingColumn, col, t.Name)
		}
	}
	out := shallowCopy(t)
	out.Columns = appendColumns(out.Columns, ColS, ColT)
	if u, ok := t.Units[ColCell]; ok {
		if out.Units == nil {
			out.Units = make(map[string]string, 2)
		}
		out.Units[ColS] = u
		out.Units[ColT] = u
	}

	var diags []borelog.Diagnostic
	for i, row := range t.Rows {
		r := cloneRow(row)
		r[ColS] = ""
		r[ColT] = ""
		cell, cerr := strconv.ParseFloat(strings.TrimSpace(row[ColCell]), 64)
		dev, derr := strconv.ParseFloat(strings.TrimSpace(row[ColDev]), 64)
		if cerr != nil || derr != nil {
			diags = append(diags, borelog.Diagnostic{
				Group:  t.Name,
				Row:    i,
				Hole:   row[ColHole],
				Kind:   DiagBadValue,
				Detail: "cell pressure or deviator stress does not parse",
			})
			out.Rows = append(out.Rows, r)
			continue
		}
		sigma1 := cell + dev
		r[ColS] = formatStress((sigma1 + cell) / 2)
		r[ColT] = formatStress((sigma1 - cell) / 2)
		out.Rows = append(out.Rows, r)
	}
	return out, diags, nil
}

// formatStress trims float noise to the nearest thousandth before
// rendering.
func formatStress(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
