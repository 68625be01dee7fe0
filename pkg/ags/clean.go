package ags

import (
	"math"
	"strconv"
	"strings"
)

// ExpandRows reconstructs multi-value cells: rows whose named columns carry
// separator-joined fragments are split into one row per fragment, aligned
// by position across the named columns. Cells in other columns are copied
// onto every emitted row. Rows without the separator pass through
// untouched. The receiver is not modified.
func (t *Table) ExpandRows(sep string, columns ...string) *Table {
	out := t.cloneHeader()
	for _, row := range t.Rows {
		n := 1
		frags := make(map[string][]string, len(columns))
		for _, col := range columns {
			if !t.HasColumn(col) {
				continue
			}
			parts := strings.Split(row[col], sep)
			frags[col] = parts
			if len(parts) > n {
				n = len(parts)
			}
		}
		for i := 0; i < n; i++ {
			expanded := make(Row, len(t.Columns))
			for _, col := range t.Columns {
				expanded[col] = row[col]
			}
			for col, parts := range frags {
				if i < len(parts) {
					expanded[col] = strings.TrimSpace(parts[i])
				} else {
					expanded[col] = ""
				}
			}
			out.Rows = append(out.Rows, expanded)
		}
	}
	return out
}

// Coalesce adds (or overwrites) column dst with the first non-empty value
// among the candidate columns per row. Useful for files that key holes on
// HOLE_ID and files that key on LOCA_ID. The receiver is not modified.
func (t *Table) Coalesce(dst string, candidates ...string) *Table {
	out := t.cloneHeader()
	if !out.HasColumn(dst) {
		out.Columns = append(out.Columns, dst)
	}
	for _, row := range t.Rows {
		merged := make(Row, len(out.Columns))
		for _, col := range t.Columns {
			merged[col] = row[col]
		}
		merged[dst] = row[dst]
		for _, c := range candidates {
			if v := strings.TrimSpace(row[c]); v != "" {
				merged[dst] = v
				break
			}
		}
		out.Rows = append(out.Rows, merged)
	}
	return out
}

// DropSingletonRows removes rows carrying at most one non-empty cell,
// noise left behind by producers that emit spacer records. The receiver is
// not modified.
func (t *Table) DropSingletonRows() *Table {
	out := t.cloneHeader()
	for _, row := range t.Rows {
		filled := 0
		for _, col := range t.Columns {
			if strings.TrimSpace(row[col]) != "" {
				filled++
			}
		}
		if filled <= 1 {
			continue
		}
		out.Rows = append(out.Rows, copyRow(row, t.Columns))
	}
	return out
}

// DedupeCells removes repeated separator-joined fragments within the named
// columns' cells, preserving first-seen order. The receiver is not
// modified.
func (t *Table) DedupeCells(sep string, columns ...string) *Table {
	out := t.cloneHeader()
	for _, row := range t.Rows {
		cleaned := copyRow(row, t.Columns)
		for _, col := range columns {
			if !t.HasColumn(col) || !strings.Contains(row[col], sep) {
				continue
			}
			seen := make(map[string]bool)
			var kept []string
			for _, part := range strings.Split(row[col], sep) {
				part = strings.TrimSpace(part)
				if part == "" || seen[part] {
					continue
				}
				seen[part] = true
				kept = append(kept, part)
			}
			cleaned[col] = strings.Join(kept, sep)
		}
		out.Rows = append(out.Rows, cleaned)
	}
	return out
}

// NumericColumn coerces the named column to float64 in row order. Blank
// cells become NaN silently; non-numeric cells become NaN and their row
// indices are returned so callers can surface the defect.
func NumericColumn(t *Table, col string) ([]float64, []int) {
	vals := make([]float64, len(t.Rows))
	var bad []int
	for i, row := range t.Rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			vals[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			vals[i] = math.NaN()
			bad = append(bad, i)
			continue
		}
		vals[i] = f
	}
	return vals, bad
}

// CombineTables builds one table from the row-wise union of the inputs.
// The column set is the union in first-seen order; cells a source table
// does not declare are empty. Inputs are not modified.
func CombineTables(name string, tables ...*Table) *Table {
	out := &Table{Name: name}
	seen := make(map[string]bool)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, col := range t.Columns {
			if !seen[col] {
				seen[col] = true
				out.Columns = append(out.Columns, col)
			}
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			merged := make(Row, len(out.Columns))
			for _, col := range out.Columns {
				merged[col] = row[col]
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// cloneHeader copies the table's name, columns, and metadata without rows.
func (t *Table) cloneHeader() *Table {
	out := &Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
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

func copyRow(row Row, columns []string) Row {
	out := make(Row, len(columns))
	for _, col := range columns {
		out[col] = row[col]
	}
	return out
}
