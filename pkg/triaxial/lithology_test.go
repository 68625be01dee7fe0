package triaxial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

func TestWithLithology(t *testing.T) {
	summary := &ags.Table{
		Name:    "TRIAXIAL",
		Columns: []string{"HOLE_ID", "SAMP_REF", "SPEC_DPTH", "CELL_KPA", "DEVF_KPA"},
		Rows: []ags.Row{
			{"HOLE_ID": "BH1", "SAMP_REF": "S1", "SPEC_DPTH": "2.50", "CELL_KPA": "100", "DEVF_KPA": "250"},
			{"HOLE_ID": "BH1", "SAMP_REF": "S2", "SPEC_DPTH": "5.00", "CELL_KPA": "200", "DEVF_KPA": "310"},
			{"HOLE_ID": "BH2", "SAMP_REF": "S1", "SPEC_DPTH": "4.00", "CELL_KPA": "150", "DEVF_KPA": "300"},
			{"HOLE_ID": "BH1", "SAMP_REF": "S3", "SPEC_DPTH": "", "CELL_KPA": "90", "DEVF_KPA": "180"},
		},
	}
	geol := &ags.Table{
		Name:    "GEOL",
		Columns: []string{"LOCA_ID", "GEOL_TOP", "GEOL_BASE", "GEOL_LEG", "GEOL_DESC"},
		Rows: []ags.Row{
			{"LOCA_ID": "BH1", "GEOL_TOP": "0.00", "GEOL_BASE": "3.00", "GEOL_LEG": "1A", "GEOL_DESC": "FILL"},
			{"LOCA_ID": "BH1", "GEOL_TOP": "3.00", "GEOL_BASE": "8.00", "GEOL_LEG": "2B", "GEOL_DESC": "CDG"},
			{"LOCA_ID": "BH2", "GEOL_TOP": "0.00", "GEOL_BASE": "2.00", "GEOL_LEG": "3C", "GEOL_DESC": "ALLUVIUM"},
		},
	}

	out, diags, err := WithLithology(summary, geol, borelog.IntervalSpec{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"HOLE_ID", "SAMP_REF", "SPEC_DPTH", "CELL_KPA", "DEVF_KPA", "GEOL_LEG", "GEOL_DESC"},
		out.Columns)
	require.Len(t, out.Rows, 4)

	assert.Equal(t, "1A", out.Rows[0]["GEOL_LEG"])
	assert.Equal(t, "FILL", out.Rows[0]["GEOL_DESC"])
	assert.Equal(t, "2B", out.Rows[1]["GEOL_LEG"])

	// The BH2 specimen sits below the logged lithology: a gap, not an
	// error, so the context cells stay empty.
	assert.Equal(t, "", out.Rows[2]["GEOL_LEG"])
	assert.Equal(t, "", out.Rows[2]["GEOL_DESC"])

	// The blank specimen depth is reported by the point projection.
	assert.Equal(t, "", out.Rows[3]["GEOL_LEG"])
	require.Len(t, diags, 1)
	assert.Equal(t, borelog.DiagBadDepth, diags[0].Kind)
	assert.Equal(t, 3, diags[0].Row)

	// The input table is untouched.
	_, has := summary.Rows[0]["GEOL_LEG"]
	assert.False(t, has)
}

func TestWithLithologyCustomMapping(t *testing.T) {
	summary := &ags.Table{
		Name:    "TRIAXIAL",
		Columns: []string{"HOLE_ID", "SPEC_DPTH"},
		Rows: []ags.Row{
			{"HOLE_ID": "BH1", "SPEC_DPTH": "1.00"},
		},
	}
	geol := &ags.Table{
		Name:    "WETH",
		Columns: []string{"HOLE_ID", "WETH_TOP", "WETH_BASE", "WETH_GRAD"},
		Rows: []ags.Row{
			{"HOLE_ID": "BH1", "WETH_TOP": "0.00", "WETH_BASE": "4.00", "WETH_GRAD": "IV"},
		},
	}

	out, diags, err := WithLithology(summary, geol,
		borelog.IntervalSpec{Hole: "HOLE_ID", From: "WETH_TOP", To: "WETH_BASE"},
		borelog.ColumnMapping{Dst: "GRADE", Src: "WETH_GRAD"})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"HOLE_ID", "SPEC_DPTH", "GRADE"}, out.Columns)
	assert.Equal(t, "IV", out.Rows[0]["GRADE"])
}

func TestWithLithologyErrors(t *testing.T) {
	summary := &ags.Table{Name: "TRIAXIAL", Columns: []string{"HOLE_ID", "SPEC_DPTH"}}
	geol := &ags.Table{Name: "GEOL", Columns: []string{"LOCA_ID", "GEOL_TOP", "GEOL_BASE"}}

	_, _, err := WithLithology(nil, geol, borelog.IntervalSpec{})
	assert.ErrorIs(t, err, borelog.ErrNilTable)

	_, _, err = WithLithology(summary, geol, borelog.IntervalSpec{From: "DEPTH_A", To: "GEOL_BASE"})
	assert.ErrorIs(t, err, borelog.ErrMissingColumn)
}
