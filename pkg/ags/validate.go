package ags

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueKind classifies a validation issue.
type IssueKind string

const (
	// IssueMissingColumns means a group lacks columns its rule requires.
	IssueMissingColumns IssueKind = "missing_columns"

	// IssueNullValues means key columns carry empty cells.
	IssueNullValues IssueKind = "null_values"

	// IssueEmptyTable means a group declares a heading but no rows.
	IssueEmptyTable IssueKind = "empty_table"
)

// Issue is one validation finding. Rows holds offending row indices for
// null-value findings.
type Issue struct {
	Group    string
	Kind     IssueKind
	Severity Severity
	Columns  []string
	Rows     []int
	Detail   string
}

// GroupRule lists the columns a group must declare (Required) and the
// columns that must be non-empty in every row (Keys).
type GroupRule struct {
	Required []string
	Keys     []string
}

// Rules maps canonical group names to their validation rules. Groups a
// file does not carry are skipped; validation checks quality, not
// completeness of the survey.
type Rules map[string]GroupRule

// DefaultRules covers the groups every downstream consumer keys on.
func DefaultRules() Rules {
	return Rules{
		"PROJ": {Required: []string{"PROJ_ID"}, Keys: []string{"PROJ_ID", "PROJ_NAME"}},
		"LOCA": {Required: []string{"LOCA_ID"}, Keys: []string{"LOCA_ID", "LOCA_TYPE"}},
		"GEOL": {Required: []string{"LOCA_ID", "GEOL_TOP"}, Keys: []string{"LOCA_ID", "GEOL_TOP", "GEOL_BASE"}},
		"SAMP": {Required: []string{"LOCA_ID", "SAMP_ID"}, Keys: []string{"LOCA_ID", "SAMP_ID", "SAMP_TOP", "SAMP_BASE"}},
		"HOLE": {Required: []string{"HOLE_ID"}, Keys: []string{"HOLE_ID"}},
	}
}

// Report holds validation findings in group-name order.
type Report struct {
	Issues []Issue
}

// HasErrors reports whether any finding is error-severity.
func (r Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity findings.
func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings.
func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// Validate checks the file's tables against per-group rules. It is purely
// advisory: tables are never mutated and parsing outcomes are unaffected.
func Validate(f *File, rules Rules) Report {
	var report Report

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table, ok := f.Tables[name]
		if !ok {
			continue
		}
		rule := rules[name]

		var missing []string
		for _, col := range rule.Required {
			if !table.HasColumn(col) {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			report.Issues = append(report.Issues, Issue{
				Group:    name,
				Kind:     IssueMissingColumns,
				Severity: SeverityError,
				Columns:  missing,
				Detail:   fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
			})
		}

		if table.NumRows() == 0 {
			report.Issues = append(report.Issues, Issue{
				Group:    name,
				Kind:     IssueEmptyTable,
				Severity: SeverityWarning,
				Detail:   "group declares a heading but no rows",
			})
			continue
		}

		for _, col := range rule.Keys {
			if !table.HasColumn(col) {
				continue
			}
			var nulls []int
			for i, row := range table.Rows {
				if strings.TrimSpace(row[col]) == "" {
					nulls = append(nulls, i)
				}
			}
			if len(nulls) > 0 {
				report.Issues = append(report.Issues, Issue{
					Group:    name,
					Kind:     IssueNullValues,
					Severity: SeverityError,
					Columns:  []string{col},
					Rows:     nulls,
					Detail:   fmt.Sprintf("%d empty cells in key column %s", len(nulls), col),
				})
			}
		}
	}
	return report
}
