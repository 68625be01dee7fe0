package geotech

// Criteria decides whether a logged interval counts as rock material.
type Criteria struct {
	// MaxGrade is the largest weathering grade number still treated as
	// rock. Grade III material (moderately decomposed) is the usual
	// cut-off, so the default is 3.
	MaxGrade float64

	// IncludeWeakZones keeps intervals whose description carries a
	// weak-zone tag. When false those intervals are rejected even if the
	// grade qualifies.
	IncludeWeakZones bool

	// Dict supplies the no-recovery and weak-zone keyword tables. Nil
	// falls back to the defaults.
	Dict *Dictionary
}

// DefaultCriteria returns the grade III cut-off with weak zones excluded.
func DefaultCriteria() Criteria {
	return Criteria{MaxGrade: 3}
}

func (c Criteria) dict() *Dictionary {
	if c.Dict != nil {
		return c.Dict
	}
	return DefaultDictionary()
}

// Material is the classification of one logged interval.
type Material int

const (
	// NotRock breaks any rock run it touches.
	NotRock Material = iota

	// WeakRock is rock-grade material whose description carries a
	// weak-zone tag. Whether it extends a run is the scan's
	// IncludeWeakZones decision.
	WeakRock

	// Rock is sound rock material.
	Rock
)

// Classify grades one interval. Grades that do not parse (including NI)
// and intervals whose fracture index records no recovery are NotRock;
// qualifying grades with a weak-zone description are WeakRock; the rest
// are Rock.
func (c Criteria) Classify(grade, fractureIndex, description string) Material {
	n, ok := GradeNumeric(grade)
	if !ok || n > c.MaxGrade {
		return NotRock
	}
	d := c.dict()
	if d.NoRecoveryMatch(fractureIndex) {
		return NotRock
	}
	if d.WeakZoneMatch(description) {
		return WeakRock
	}
	return Rock
}

// RockMaterial reports whether an interval with the given weathering grade,
// fracture-index cell, and description qualifies as rock material, counting
// weak zones only when IncludeWeakZones is set.
func (c Criteria) RockMaterial(grade, fractureIndex, description string) bool {
	switch c.Classify(grade, fractureIndex, description) {
	case Rock:
		return true
	case WeakRock:
		return c.IncludeWeakZones
	default:
		return false
	}
}
