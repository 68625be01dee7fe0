package geotech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeNumeric(t *testing.T) {
	tests := []struct {
		name  string
		grade string
		want  float64
		ok    bool
	}{
		{name: "fresh", grade: "I", want: 1, ok: true},
		{name: "moderately decomposed", grade: "III", want: 3, ok: true},
		{name: "residual soil", grade: "VI", want: 6, ok: true},
		{name: "lower case with padding", grade: " iii ", want: 3, ok: true},
		{name: "split grade", grade: "III/IV", want: 3.5, ok: true},
		{name: "split grade reversed", grade: "IV/III", want: 3.5, ok: true},
		{name: "fresh split", grade: "I/II", want: 1.5, ok: true},
		{name: "deep split", grade: "V/VI", want: 5.5, ok: true},
		{name: "not inspected", grade: "NI", ok: false},
		{name: "empty", grade: "", ok: false},
		{name: "free text", grade: "GRANITE", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GradeNumeric(tt.grade)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSimplifyGrade(t *testing.T) {
	tests := []struct {
		grade string
		want  string
	}{
		{"I/II", "II"},
		{"II/I", "II"},
		{"II/III", "III"},
		{"III/II", "III"},
		{"III/IV", "IV"},
		{"IV/III", "IV"},
		{"IV/V", "V"},
		{"V/IV", "V"},
		{"V/VI", "VI"},
		{"VI/V", "VI"},
		{"III", "III"},
		{" iv ", "IV"},
		{"NI", "NI"},
	}
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyGrade(tt.grade))
		})
	}
}
