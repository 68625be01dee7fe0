package geotech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRockMaterial(t *testing.T) {
	tests := []struct {
		name  string
		c     Criteria
		grade string
		fi    string
		desc  string
		want  bool
	}{
		{
			name:  "grade III qualifies",
			c:     DefaultCriteria(),
			grade: "III",
			want:  true,
		},
		{
			name:  "split grade on the cut-off",
			c:     DefaultCriteria(),
			grade: "II/III",
			want:  true,
		},
		{
			name:  "grade IV is soil",
			c:     DefaultCriteria(),
			grade: "IV",
			want:  false,
		},
		{
			name:  "not inspected never qualifies",
			c:     DefaultCriteria(),
			grade: "NI",
			want:  false,
		},
		{
			name:  "no recovery disqualifies",
			c:     DefaultCriteria(),
			grade: "II",
			fi:    "NR",
			want:  false,
		},
		{
			name:  "weak zone excluded by default",
			c:     DefaultCriteria(),
			grade: "II",
			desc:  "MODERATELY WEAK siltstone",
			want:  false,
		},
		{
			name:  "weak zone included on request",
			c:     Criteria{MaxGrade: 3, IncludeWeakZones: true},
			grade: "II",
			desc:  "MODERATELY WEAK siltstone",
			want:  true,
		},
		{
			name:  "relaxed grade cut-off",
			c:     Criteria{MaxGrade: 4},
			grade: "IV",
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.RockMaterial(tt.grade, tt.fi, tt.desc))
		})
	}
}

func TestClassify(t *testing.T) {
	c := DefaultCriteria()

	assert.Equal(t, Rock, c.Classify("II", "", "Moderately decomposed GRANITE"))
	assert.Equal(t, WeakRock, c.Classify("III", "", "MODERATELY WEAK siltstone"))
	assert.Equal(t, NotRock, c.Classify("V", "", "Completely decomposed GRANITE"))
	assert.Equal(t, NotRock, c.Classify("II", "NR", "GRANITE"))
	assert.Equal(t, NotRock, c.Classify("", "", ""))

	// IncludeWeakZones changes RockMaterial, never the classification.
	inc := Criteria{MaxGrade: 3, IncludeWeakZones: true}
	assert.Equal(t, WeakRock, inc.Classify("III", "", "WEAK seam"))
}

func TestDefaultCriteria(t *testing.T) {
	c := DefaultCriteria()
	assert.Equal(t, 3.0, c.MaxGrade)
	assert.False(t, c.IncludeWeakZones)
}
