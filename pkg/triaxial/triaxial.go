package triaxial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

var (
	// ErrNilFile indicates a nil parsed file.
	ErrNilFile = errors.New("nil file")

	// ErrNoResultsGroup indicates a file carrying none of the configured
	// triaxial results groups.
	ErrNoResultsGroup = errors.New("no triaxial results group found")

	// ErrNoHoleColumn indicates a group with none of the recognized
	// hole-identifier columns.
	ErrNoHoleColumn = errors.New("no hole identifier column found")
)

const (
	// DiagNoSample marks a specimen whose sample register row is missing.
	DiagNoSample borelog.DiagnosticKind = "no_sample"

	// DiagBadValue marks a stress cell that does not parse.
	DiagBadValue borelog.DiagnosticKind = "bad_value"
)

// Canonical summary columns.
const (
	ColHole  = "HOLE_ID"
	ColRef   = "SAMP_REF"
	ColDepth = "SPEC_DPTH"
	ColCell  = "CELL_KPA"
	ColDev   = "DEVF_KPA"
	ColS     = "S_KPA"
	ColT     = "T_KPA"
)

// Config names the groups and columns a summary reads.
type Config struct {
	// Groups are the results group names tried in order. The first group
	// present in the file is used.
	Groups []string

	// SampleGroup names the sample register joined for context columns.
	SampleGroup string

	// HoleColumns are tried in order on the results and sample groups.
	HoleColumns []string

	// RefColumn names the sample reference shared by both groups.
	RefColumn string

	// DepthColumn names the specimen depth. TopColumn is consulted when
	// the specimen depth cell is empty.
	DepthColumn string
	TopColumn   string

	// Carry lists group-prefixed column suffixes copied through when the
	// results group declares them, MC for TRIX_MC and so on.
	Carry []string

	// SampleCarry lists sample columns copied through when declared.
	SampleCarry []string
}

// DefaultConfig returns the conventional group and column names.
func DefaultConfig() *Config {
	return &Config{
		Groups:      []string{"TRIX", "TRET"},
		SampleGroup: "SAMP",
		HoleColumns: []string{"HOLE_ID", "COMPOSITE_ID", "LOCA_ID"},
		RefColumn:   "SAMP_REF",
		DepthColumn: "SPEC_DPTH",
		TopColumn:   "SAMP_TOP",
		Carry:       []string{"MC", "BDEN", "DDEN"},
		SampleCarry: []string{"SAMP_TYPE", "SAMP_DESC"},
	}
}

// Summary flattens the file's triaxial results into one row per specimen:
// hole, sample reference, specimen depth, cell pressure, and deviator
// stress at failure under canonical names, plus any configured carry
// columns the source groups declare. When the sample register is present,
// rows are joined on (hole, reference); specimens without a register row
// are reported and keep empty sample cells. Rows without a hole are
// skipped with a diagnostic.
func Summary(file *ags.File, cfg *Config) (*ags.Table, []borelog.Diagnostic, error) {
	if file == nil {
		return nil, nil, ErrNilFile
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var results *ags.Table
	var prefix string
	for _, name := range cfg.Groups {
		if t, ok := file.Table(name); ok {
			results, prefix = t, name
			break
		}
	}
	if results == nil {
		return nil, nil, fmt.Errorf("%w: tried %s", ErrNoResultsGroup, strings.Join(cfg.Groups, ", "))
	}
	holeCol, err := holeColumn(results, cfg.HoleColumns)
	if err != nil {
		return nil, nil, err
	}
	cellCol := prefix + "_CELL"
	devCol := prefix + "_DEVF"

	// The register join is best effort: a missing group, or one without
	// the join columns, just means no sample context.
	var sampIndex map[string]ags.Row
	var sampCarry []string
	if samp, ok := file.Table(cfg.SampleGroup); ok {
		if sampHole, herr := holeColumn(samp, cfg.HoleColumns); herr == nil && samp.HasColumn(cfg.RefColumn) {
			sampIndex = make(map[string]ags.Row, samp.NumRows())
			for _, row := range samp.Rows {
				key := joinKey(row[sampHole], row[cfg.RefColumn])
				if _, dup := sampIndex[key]; !dup {
					sampIndex[key] = row
				}
			}
			for _, col := range cfg.SampleCarry {
				if samp.HasColumn(col) {
					sampCarry = append(sampCarry, col)
				}
			}
		}
	}

	var carry []string
	for _, suffix := range cfg.Carry {
		if col := prefix + "_" + suffix; results.HasColumn(col) {
			carry = append(carry, col)
		}
	}

	columns := []string{ColHole, ColRef, ColDepth, ColCell, ColDev}
	columns = appendColumns(columns, sampCarry...)
	columns = appendColumns(columns, carry...)

	out := &ags.Table{
		Name:    "TRIAXIAL",
		Columns: columns,
		Rows:    make([]ags.Row, 0, results.NumRows()),
	}
	if results.Units != nil {
		units := map[string]string{}
		if u, ok := results.Units[cellCol]; ok {
			units[ColCell] = u
		}
		if u, ok := results.Units[devCol]; ok {
			units[ColDev] = u
		}
		for _, col := range carry {
			if u, ok := results.Units[col]; ok {
				units[col] = u
			}
		}
		if len(units) > 0 {
			out.Units = units
		}
	}

	hasRef := results.HasColumn(cfg.RefColumn)
	var diags []borelog.Diagnostic
	for i, row := range results.Rows {
		hole := strings.TrimSpace(row[holeCol])
		if hole == "" {
			diags = append(diags, borelog.Diagnostic{
				Group:  results.Name,
				Row:    i,
				Kind:   borelog.DiagMissingHole,
				Detail: holeCol + " is empty",
			})
			continue
		}
		depth := strings.TrimSpace(row[cfg.DepthColumn])
		if depth == "" {
			depth = strings.TrimSpace(row[cfg.TopColumn])
		}
		if depth == "" {
			diags = append(diags, borelog.Diagnostic{
				Group:  results.Name,
				Row:    i,
				Hole:   hole,
				Kind:   borelog.DiagBadDepth,
				Detail: "no specimen depth",
			})
		}
		var ref string
		if hasRef {
			ref = strings.TrimSpace(row[cfg.RefColumn])
		}
		r := make(ags.Row, len(columns))
		for _, c := range columns {
			r[c] = ""
		}
		r[ColHole] = hole
		r[ColRef] = ref
		r[ColDepth] = depth
		r[ColCell] = strings.TrimSpace(row[cellCol])
		r[ColDev] = strings.TrimSpace(row[devCol])
		for _, c := range carry {
			r[c] = row[c]
		}
		if sampIndex != nil && ref != "" {
			if srow, ok := sampIndex[joinKey(hole, ref)]; ok {
				for _, c := range sampCarry {
					r[c] = srow[c]
				}
			} else {
				diags = append(diags, borelog.Diagnostic{
					Group:  results.Name,
					Row:    i,
					Hole:   hole,
					Kind:   DiagNoSample,
					Detail: fmt.Sprintf("no %s row for sample %s", cfg.SampleGroup, ref),
				})
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out, diags, nil
}

// RemoveDuplicates drops re-reported specimens, keeping the first row for
// each (hole, depth, reference) key. Key columns the table does not
// declare are left out of the key.
func RemoveDuplicates(t *ags.Table) *ags.Table {
	if t == nil {
		return nil
	}
	var keyCols []string
	for _, c := range []string{ColHole, ColDepth, ColRef} {
		if t.HasColumn(c) {
			keyCols = append(keyCols, c)
		}
	}
	if len(keyCols) == 0 {
		return t
	}
	out := shallowCopy(t)
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		parts := make([]string, len(keyCols))
		for i, c := range keyCols {
			parts[i] = strings.TrimSpace(row[c])
		}
		key := strings.Join(parts, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, row)
	}
	return out
}

func holeColumn(t *ags.Table, candidates []string) (string, error) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s declares none of %s", ErrNoHoleColumn, t.Name, strings.Join(candidates, ", "))
}

func joinKey(hole, ref string) string {
	return strings.TrimSpace(hole) + "\x00" + strings.TrimSpace(ref)
}

func appendColumns(cols []string, extra ...string) []string {
	for _, c := range extra {
		present := false
		for _, have := range cols {
			if have == c {
				present = true
				break
			}
		}
		if !present {
			cols = append(cols, c)
		}
	}
	return cols
}

func shallowCopy(t *ags.Table) *ags.Table {
	out := &ags.Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]ags.Row, 0, len(t.Rows)),
	}
	if t.Units != nil {
		out.Units = make(map[string]string, len(t.Units))
		for k, v := range t.Units {
			out.Units[k] = v
		}
	}
	if t.Types != nil {
		out.Types = make(map[string]string, len(t.Types))
		for k, v := range t.Types {
			out.Types[k] = v
		}
	}
	return out
}

func cloneRow(row ags.Row) ags.Row {
	out := make(ags.Row, len(row)+2)
	for k, v := range row {
		out[k] = v
	}
	return out
}
