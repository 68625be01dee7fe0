package ags

import (
	"strings"
)

// Marker keywords of the current dialect and the legacy reserved tokens.
const (
	markerGroup   = "GROUP"
	markerHeading = "HEADING"
	markerUnit    = "UNIT"
	markerType    = "TYPE"
	markerData    = "DATA"
	markerUnits   = "<UNITS>"
	markerCont    = "<CONT>"
)

// isCurrentMarker reports whether s is one of the current-dialect marker
// keywords.
func isCurrentMarker(s string) bool {
	switch s {
	case markerGroup, markerHeading, markerUnit, markerType, markerData:
		return true
	}
	return false
}

// resolveDialect inspects a tokenized line while the dialect is still
// unknown. Lines that open neither dialect leave it unresolved; they are
// pre-group content and ignored.
func resolveDialect(fields []string) Dialect {
	if len(fields) == 0 {
		return DialectUnknown
	}
	if strings.HasPrefix(fields[0], "**") {
		return DialectLegacy
	}
	if fields[0] == markerGroup {
		return DialectCurrent
	}
	return DialectUnknown
}

// classify assigns a record kind under the resolved dialect. A marker
// belonging to the other dialect fails closed with ErrMixedDialect rather
// than guessing.
//
// In the legacy dialect a bare first field equal to a current-dialect
// keyword is a legitimate data value; only a quoted one is treated as a
// foreign marker, because the current dialect quotes every field.
func classify(fields []string, firstQuoted bool, d Dialect) (recordKind, error) {
	f0 := fields[0]
	switch d {
	case DialectLegacy:
		switch {
		case strings.HasPrefix(f0, "**"):
			return kindGroup, nil
		case strings.HasPrefix(f0, "*"):
			return kindHeading, nil
		case f0 == markerUnits:
			return kindUnit, nil
		case f0 == markerCont:
			return kindContinuation, nil
		case firstQuoted && isCurrentMarker(f0):
			return kindIgnore, ErrMixedDialect
		default:
			return kindData, nil
		}
	case DialectCurrent:
		switch f0 {
		case markerGroup:
			return kindGroup, nil
		case markerHeading:
			return kindHeading, nil
		case markerUnit:
			return kindUnit, nil
		case markerType:
			return kindType, nil
		case markerData:
			return kindData, nil
		case markerUnits, markerCont:
			return kindIgnore, ErrMixedDialect
		}
		if strings.HasPrefix(f0, "*") {
			return kindIgnore, ErrMixedDialect
		}
		return kindIgnore, nil
	default:
		return kindIgnore, nil
	}
}
