package ags

import (
	"sort"
)

// Dialect identifies which of the two supported exchange-format grammar
// versions a file uses. It is resolved once from the first group marker and
// applies to every record in the file.
type Dialect int

const (
	// DialectUnknown means no group marker has been seen yet.
	DialectUnknown Dialect = iota

	// DialectLegacy is the AGS3 grammar: "**GROUP" markers, "*HEADING"
	// rows, a "<UNITS>" metadata row, and "<CONT>" continuation rows.
	DialectLegacy

	// DialectCurrent is the AGS4 grammar: every record's first field is one
	// of the marker keywords GROUP, HEADING, UNIT, TYPE, or DATA.
	DialectCurrent
)

// String returns the human-readable dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectLegacy:
		return "legacy"
	case DialectCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// recordKind classifies one tokenized physical line. Records are produced
// and consumed within a single parse pass and never retained.
type recordKind int

const (
	kindGroup recordKind = iota
	kindHeading
	kindUnit
	kindType
	kindData
	kindContinuation
	kindIgnore
)

// Row is one logical data row keyed by canonical column name. Every column
// of the owning table is present; cells the source row did not supply are
// empty strings.
type Row map[string]string

// Table is one parsed group: ordered unique column names, rows in file
// order, and per-column unit/type metadata. Cells are raw strings; type
// coercion is deferred to consumers. Tables are immutable once the parser
// returns them.
type Table struct {
	// Name is the canonical group name (aliases resolved, upper-cased).
	Name string

	// Columns is the ordered heading. Names are unique within a table.
	Columns []string

	// Units maps column name to the declared unit, when the file carries a
	// units row. Columns without a declared unit are absent.
	Units map[string]string

	// Types maps column name to the declared data type code (current
	// dialect only).
	Types map[string]string

	// Rows holds the logical data rows in file order.
	Rows []Row
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Col returns the named column as a slice in row order. The second return
// is false when the column is not declared.
func (t *Table) Col(name string) ([]string, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out, true
}

// File is the output of one parse: the resolved dialect, the canonical
// group name to table mapping, and the record-level diagnostics accumulated
// while tolerating malformed records. A File is immutable.
type File struct {
	Dialect     Dialect
	Tables      map[string]*Table
	Diagnostics []Diagnostic
}

// Table returns the named group table.
func (f *File) Table(name string) (*Table, bool) {
	t, ok := f.Tables[name]
	return t, ok
}

// GroupNames returns the canonical group names in sorted order.
func (f *File) GroupNames() []string {
	names := make([]string, 0, len(f.Tables))
	for name := range f.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DiagnosticKind classifies one tolerated record-level defect.
type DiagnosticKind string

const (
	// DiagBadQuoting marks a record rejected for an unterminated quote.
	DiagBadQuoting DiagnosticKind = "bad_quoting"

	// DiagRowTooLong marks a data row carrying more fields than the
	// group's heading declares.
	DiagRowTooLong DiagnosticKind = "row_too_long"

	// DiagContinuationOverflow marks a continuation row wider than the
	// group's heading.
	DiagContinuationOverflow DiagnosticKind = "continuation_overflow"

	// DiagUnknownMarker marks a current-dialect record whose first field is
	// not a recognized marker keyword.
	DiagUnknownMarker DiagnosticKind = "unknown_marker"

	// DiagMetadataOutsideHeading marks a unit/type row that arrived before
	// the group's heading and could not be mapped to columns.
	DiagMetadataOutsideHeading DiagnosticKind = "metadata_outside_heading"
)

// Diagnostic reports one malformed record that was dropped while parsing
// continued. Diagnostics are accumulated in file order and never discarded.
type Diagnostic struct {
	Line   int
	Group  string
	Kind   DiagnosticKind
	Detail string
}

// DefaultContinuationSeparator joins a column's accumulated value with a
// non-empty continuation fragment. Group-expansion consumers split
// multi-value cells on the same token.
const DefaultContinuationSeparator = "|"

// defaultMaxFileSize bounds input size. Survey files run to a few MiB;
// anything beyond this is not an exchange file.
const defaultMaxFileSize = 64 << 20

// Config controls parsing. Alias tables are immutable configuration passed
// explicitly into the parser, never process-wide state, so files can be
// parsed concurrently under different configurations.
type Config struct {
	// Encoding names the byte-to-text decoding: "auto", "utf-8",
	// "latin-1", or "windows-1252". Auto sniffs a byte-order mark and
	// falls back to Windows-1252 for non-UTF-8 input.
	Encoding string

	// MaxFileSize rejects inputs larger than this many bytes.
	MaxFileSize int

	// ContinuationSeparator joins non-empty cell values with non-empty
	// continuation fragments.
	ContinuationSeparator string

	// GroupAliases maps raw group spellings to canonical names before the
	// generic draft-prefix strip and case fold.
	GroupAliases map[string]string

	// ColumnAliases maps raw column spellings to canonical names before
	// the generic draft-prefix strip and case fold.
	ColumnAliases map[string]string
}

// DefaultGroupAliases returns the built-in legacy group spellings. Draft
// groups exported with a "?" prefix fold into their canonical names.
func DefaultGroupAliases() map[string]string {
	return map[string]string{
		"?ETH":  "WETH",
		"?LEGD": "LEGD",
		"?HORN": "HORN",
	}
}

// DefaultColumnAliases returns the built-in legacy column spellings.
func DefaultColumnAliases() map[string]string {
	return map[string]string{
		"?ETH_TOP":  "WETH_TOP",
		"?ETH_BASE": "WETH_BASE",
		"?ETH_GRAD": "WETH_GRAD",
	}
}

// DefaultConfig returns the parser defaults.
func DefaultConfig() *Config {
	return &Config{
		Encoding:              "auto",
		MaxFileSize:           defaultMaxFileSize,
		ContinuationSeparator: DefaultContinuationSeparator,
		GroupAliases:          DefaultGroupAliases(),
		ColumnAliases:         DefaultColumnAliases(),
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return ErrInvalidConfig
	}
	if c.ContinuationSeparator == "" {
		return ErrInvalidConfig
	}
	return nil
}
