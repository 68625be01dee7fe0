package geotech

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

// SearchOptions control which columns keyword and soil-type searches read.
type SearchOptions struct {
	// Columns lists the description columns to search. Columns the table
	// does not declare are skipped. Defaults to GEOL_DESC and DETAILS.
	Columns []string

	// GradeColumn names the weathering grade column consulted by
	// MatchSoilTypes. Defaults to WETH_GRAD.
	GradeColumn string

	// FIColumn names the fracture-index column consulted by the
	// NO RECOVERY special case. Defaults to FI.
	FIColumn string

	// Dict supplies keyword tables. Nil falls back to the defaults.
	Dict *Dictionary
}

func (o SearchOptions) withDefaults() SearchOptions {
	if len(o.Columns) == 0 {
		o.Columns = []string{"GEOL_DESC", "DETAILS"}
	}
	if o.GradeColumn == "" {
		o.GradeColumn = "WETH_GRAD"
	}
	if o.FIColumn == "" {
		o.FIColumn = "FI"
	}
	if o.Dict == nil {
		o.Dict = DefaultDictionary()
	}
	return o
}

func (o SearchOptions) declaredColumns(t *ags.Table) []string {
	var cols []string
	for _, c := range o.Columns {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// SearchKeyword returns the indices of rows whose description columns
// contain the keyword, ignoring case. The keyword NO RECOVERY additionally
// matches rows whose fracture-index cell carries a no-recovery flag.
func SearchKeyword(t *ags.Table, keyword string, opts SearchOptions) []int {
	if t == nil || keyword == "" {
		return nil
	}
	opts = opts.withDefaults()
	upper := strings.ToUpper(keyword)
	noRecovery := upper == "NO RECOVERY" && t.HasColumn(opts.FIColumn)
	cols := opts.declaredColumns(t)
	var hits []int
	for i, row := range t.Rows {
		matched := false
		for _, c := range cols {
			if strings.Contains(strings.ToUpper(row[c]), upper) {
				matched = true
				break
			}
		}
		if !matched && noRecovery && opts.Dict.NoRecoveryMatch(row[opts.FIColumn]) {
			matched = true
		}
		if matched {
			hits = append(hits, i)
		}
	}
	return hits
}

// SoilMatch records the classification derived from one row's description.
type SoilMatch struct {
	Row      int
	Type     string
	Grains   string
	Combined string
}

// MatchSoilTypes classifies superficial deposits row by row. The soil type
// is the last SoilTypes keyword found in the description; saprolite grades
// override it (IV/V stays IV/V, grade VI or a RESIDUAL SOIL description
// becomes VI). Grain-size codes are collected in dictionary order,
// deduplicated, and comma-joined. Keyword matching is case sensitive, as
// survey descriptions are upper-case by convention. Rows with neither a
// type nor grains are omitted.
func MatchSoilTypes(t *ags.Table, opts SearchOptions) []SoilMatch {
	if t == nil {
		return nil
	}
	opts = opts.withDefaults()
	cols := opts.declaredColumns(t)
	hasGrade := t.HasColumn(opts.GradeColumn)
	var matches []SoilMatch
	for i, row := range t.Rows {
		var parts []string
		for _, c := range cols {
			if cell := strings.TrimSpace(row[c]); cell != "" {
				parts = append(parts, cell)
			}
		}
		desc := strings.Join(parts, " ")
		m := SoilMatch{Row: i}
		for _, kw := range opts.Dict.SoilTypes {
			if kw.Match != "" && strings.Contains(desc, kw.Match) {
				m.Type = kw.Code
			}
		}
		if hasGrade {
			switch strings.ToUpper(strings.TrimSpace(row[opts.GradeColumn])) {
			case "IV/V", "V/IV":
				m.Type = "IV/V"
			case "VI":
				m.Type = "VI"
			}
		}
		if strings.Contains(desc, "RESIDUAL SOIL") {
			m.Type = "VI"
		}
		var codes []string
		seen := make(map[string]bool)
		for _, kw := range opts.Dict.GrainSizes {
			if kw.Match == "" || !strings.Contains(desc, kw.Match) {
				continue
			}
			if seen[kw.Code] {
				continue
			}
			seen[kw.Code] = true
			codes = append(codes, kw.Code)
		}
		m.Grains = strings.Join(codes, ",")
		switch {
		case m.Type != "" && m.Grains != "":
			m.Combined = m.Type + "-" + m.Grains
		case m.Type != "":
			m.Combined = m.Type
		default:
			m.Combined = m.Grains
		}
		if m.Combined == "" {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// SearchDepth returns the intervals containing the given depth.
func SearchDepth(intervals []borelog.Interval, depth float64) []borelog.Interval {
	var out []borelog.Interval
	for _, iv := range intervals {
		if iv.Contains(depth) {
			out = append(out, iv)
		}
	}
	return out
}

// SearchDepthRange returns the intervals overlapping [from, to).
func SearchDepthRange(intervals []borelog.Interval, from, to float64) []borelog.Interval {
	var out []borelog.Interval
	for _, iv := range intervals {
		if iv.To <= from || iv.From >= to {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// RockheadByDescription reports, per hole, the top depth of the first
// interval whose description names a rock type. Holes without such an
// interval get a not-found boundary. A nil dictionary falls back to the
// defaults.
func RockheadByDescription(intervals []borelog.Interval, descColumn string, dict *Dictionary) map[string]borelog.Boundary {
	if dict == nil {
		dict = DefaultDictionary()
	}
	byHole := make(map[string][]borelog.Interval)
	for _, iv := range intervals {
		byHole[iv.Hole] = append(byHole[iv.Hole], iv)
	}
	out := make(map[string]borelog.Boundary, len(byHole))
	for hole, ivs := range byHole {
		sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].From < ivs[j].From })
		var b borelog.Boundary
		for _, iv := range ivs {
			if iv.Row != nil && dict.RockMatch(strings.ToUpper(iv.Row[descColumn])) {
				b = borelog.Boundary{Found: true, Depth: iv.From}
				break
			}
		}
		out[hole] = b
	}
	return out
}
