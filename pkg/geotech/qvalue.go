package geotech

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/strata/pkg/ags"
	"github.com/fyrsmithlabs/strata/pkg/borelog"
)

// QParams carries the joint-system parameters of the Barton Q-system.
// RQD is supplied separately per sample.
type QParams struct {
	Jn  float64 // joint set number
	Jr  float64 // joint roughness number
	Ja  float64 // joint alteration number
	Jw  float64 // joint water reduction factor
	SRF float64 // stress reduction factor
}

// QResult pairs a profile row with its computed Q value and class.
type QResult struct {
	Row   int
	Q     float64
	Class string
}

// QValue computes the Barton rock-mass quality index
//
//	Q = (RQD/Jn) * (Jr/Ja) * (Jw/SRF)
//
// RQD is a percentage in [0, 100]. Jn, Ja, and SRF must be positive.
func QValue(rqd float64, p QParams) (float64, error) {
	if rqd < 0 || rqd > 100 || math.IsNaN(rqd) {
		return 0, fmt.Errorf("%w: RQD %v outside [0, 100]", ErrQParameter, rqd)
	}
	if p.Jn <= 0 {
		return 0, fmt.Errorf("%w: Jn must be positive, got %v", ErrQParameter, p.Jn)
	}
	if p.Ja <= 0 {
		return 0, fmt.Errorf("%w: Ja must be positive, got %v", ErrQParameter, p.Ja)
	}
	if p.SRF <= 0 {
		return 0, fmt.Errorf("%w: SRF must be positive, got %v", ErrQParameter, p.SRF)
	}
	return (rqd / p.Jn) * (p.Jr / p.Ja) * (p.Jw / p.SRF), nil
}

// InterpretQ maps a Q value onto the standard descriptive classes.
func InterpretQ(q float64) string {
	switch {
	case q < 0.01:
		return "Exceptionally Poor"
	case q < 0.1:
		return "Extremely Poor"
	case q < 1:
		return "Very Poor"
	case q < 4:
		return "Poor"
	case q < 10:
		return "Fair"
	case q < 40:
		return "Good"
	case q < 100:
		return "Very Good"
	case q < 400:
		return "Extremely Good"
	default:
		return "Exceptionally Good"
	}
}

// QValueColumn computes Q for every row of a table, reading RQD percentages
// from rqdColumn. Rows whose cell is blank or does not parse get a NaN Q
// with an empty class and their indices are returned in the second value.
func QValueColumn(t *ags.Table, rqdColumn string, p QParams) ([]QResult, []int, error) {
	if t == nil {
		return nil, nil, borelog.ErrNilTable
	}
	if !t.HasColumn(rqdColumn) {
		return nil, nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, rqdColumn, t.Name)
	}
	results := make([]QResult, 0, t.NumRows())
	var bad []int
	for i, row := range t.Rows {
		cell := strings.TrimSpace(row[rqdColumn])
		rqd, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			results = append(results, QResult{Row: i, Q: math.NaN()})
			bad = append(bad, i)
			continue
		}
		q, err := QValue(rqd, p)
		if err != nil {
			results = append(results, QResult{Row: i, Q: math.NaN()})
			bad = append(bad, i)
			continue
		}
		results = append(results, QResult{Row: i, Q: q, Class: InterpretQ(q)})
	}
	return results, bad, nil
}

// EstimateRQD estimates RQD from a discontinuity frequency (fractures per
// metre) using the Priest and Hudson relation
//
//	RQD = 100 * e^(-0.1 f) * (0.1 f + 1)
//
// Negative frequencies are treated as zero. The result is clamped to
// [0, 100].
func EstimateRQD(freqPerMetre float64) float64 {
	if freqPerMetre < 0 || math.IsNaN(freqPerMetre) {
		freqPerMetre = 0
	}
	x := 0.1 * freqPerMetre
	rqd := 100 * math.Exp(-x) * (x + 1)
	if rqd < 0 {
		return 0
	}
	if rqd > 100 {
		return 100
	}
	return rqd
}
