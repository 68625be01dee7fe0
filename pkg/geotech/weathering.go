package geotech

import (
	"strings"
)

// gradeNumbers ranks the six weathering grades. Split grades logged across
// a boundary take the halfway value.
var gradeNumbers = map[string]float64{
	"I":   1,
	"II":  2,
	"III": 3,
	"IV":  4,
	"V":   5,
	"VI":  6,

	"I/II":   1.5,
	"II/I":   1.5,
	"II/III": 2.5,
	"III/II": 2.5,
	"III/IV": 3.5,
	"IV/III": 3.5,
	"IV/V":   4.5,
	"V/IV":   4.5,
	"V/VI":   5.5,
	"VI/V":   5.5,
}

// GradeNumeric converts a weathering grade to its numeric rank, 1 (fresh)
// to 6 (residual soil). Grades are trimmed and upper-cased before lookup.
// Unknown grades, including the not-inspected code "NI", return false.
func GradeNumeric(grade string) (float64, bool) {
	n, ok := gradeNumbers[strings.ToUpper(strings.TrimSpace(grade))]
	return n, ok
}

// SimplifyGrade rounds a split weathering grade to its more weathered side,
// so interval classification works on the six plain grades. Plain grades
// pass through; the result is trimmed and upper-cased.
func SimplifyGrade(grade string) string {
	g := strings.ToUpper(strings.TrimSpace(grade))
	switch g {
	case "I/II", "II/I":
		return "II"
	case "II/III", "III/II":
		return "III"
	case "IV/V", "V/IV":
		return "V"
	case "V/VI", "VI/V":
		return "VI"
	}
	if strings.Contains(g, "III") && strings.Contains(g, "IV") {
		return "IV"
	}
	return g
}
