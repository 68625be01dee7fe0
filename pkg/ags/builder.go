package ags

import (
	"fmt"
	"strings"
)

// builder accumulates group tables from the classified record stream. It
// owns canonical-name normalization and the heading lifecycle: legacy wide
// tables may extend a heading across consecutive rows, but only until the
// group's first data row.
type builder struct {
	cfg    *Config
	tables map[string]*Table
	diags  *[]Diagnostic

	cur         *Table
	pending     []string // heading accumulated since the current open
	pendingSeen map[string]bool
	pendingLine int
	dataSeen    bool // data row appended since the current open
}

func newBuilder(cfg *Config, diags *[]Diagnostic) *builder {
	return &builder{
		cfg:    cfg,
		tables: make(map[string]*Table),
		diags:  diags,
	}
}

// curName returns the open group's canonical name for diagnostics.
func (b *builder) curName() string {
	if b.cur == nil {
		return ""
	}
	return b.cur.Name
}

// openGroup normalizes the raw group name and makes its table current. A
// file defining the same group twice appends into the same table.
func (b *builder) openGroup(rawName string, line int) error {
	if err := b.commitHeading(); err != nil {
		return err
	}
	name := normalizeName(rawName, b.cfg.GroupAliases)
	if name == "" {
		return structural(ErrBadGroupMarker, "", line)
	}
	t, ok := b.tables[name]
	if !ok {
		t = &Table{Name: name}
		b.tables[name] = t
	}
	b.cur = t
	b.pending = nil
	b.pendingSeen = nil
	b.pendingLine = line
	b.dataSeen = false
	return nil
}

// addHeading accumulates normalized column names for the open group.
// Duplicate names within one group are rejected; a heading row after the
// group's first data row is rejected.
func (b *builder) addHeading(rawCols []string, line int) error {
	if b.cur == nil {
		return nil
	}
	if b.dataSeen {
		return structural(ErrHeadingAfterData, b.cur.Name, line)
	}
	if b.pendingSeen == nil {
		b.pendingSeen = make(map[string]bool)
		b.pendingLine = line
	}
	for _, raw := range rawCols {
		col := normalizeName(raw, b.cfg.ColumnAliases)
		if col == "" {
			continue
		}
		if b.pendingSeen[col] {
			return structural(fmt.Errorf("%w: %s", ErrDuplicateColumn, col), b.cur.Name, line)
		}
		b.pendingSeen[col] = true
		b.pending = append(b.pending, col)
	}
	return nil
}

// commitHeading closes the pending heading for the open group. A newly
// opened group takes the pending columns; a reopened group must redeclare
// the same heading or none at all.
func (b *builder) commitHeading() error {
	if b.cur == nil || b.pending == nil {
		return nil
	}
	defer func() {
		b.pending = nil
		b.pendingSeen = nil
	}()
	if len(b.cur.Columns) == 0 {
		b.cur.Columns = b.pending
		return nil
	}
	if !equalColumns(b.cur.Columns, b.pending) {
		return structural(ErrHeadingConflict, b.cur.Name, b.pendingLine)
	}
	return nil
}

// appendData appends one logical data row. values[k] maps to Columns[k];
// rows short by trailing fields are padded with empty cells, rows longer
// than the heading are dropped with a diagnostic.
func (b *builder) appendData(values []string, line int) error {
	if b.cur == nil {
		return nil
	}
	if err := b.commitHeading(); err != nil {
		return err
	}
	if len(b.cur.Columns) == 0 {
		return structural(ErrMissingHeading, b.cur.Name, line)
	}
	if len(values) > len(b.cur.Columns) {
		*b.diags = append(*b.diags, Diagnostic{
			Line:   line,
			Group:  b.cur.Name,
			Kind:   DiagRowTooLong,
			Detail: fmt.Sprintf("%d fields for %d columns", len(values), len(b.cur.Columns)),
		})
		return nil
	}
	row := make(Row, len(b.cur.Columns))
	for k, col := range b.cur.Columns {
		if k < len(values) {
			row[col] = values[k]
		} else {
			row[col] = ""
		}
	}
	b.cur.Rows = append(b.cur.Rows, row)
	b.dataSeen = true
	return nil
}

// applyMeta records unit or type metadata for the open group. values[k]
// maps to Columns[k]; empty cells are not stored. Metadata arriving before
// the heading cannot be mapped and is dropped with a diagnostic.
func (b *builder) applyMeta(kind recordKind, values []string, line int) error {
	if b.cur == nil {
		return nil
	}
	if err := b.commitHeading(); err != nil {
		return err
	}
	if len(b.cur.Columns) == 0 {
		*b.diags = append(*b.diags, Diagnostic{
			Line:  line,
			Group: b.cur.Name,
			Kind:  DiagMetadataOutsideHeading,
		})
		return nil
	}
	dst := &b.cur.Units
	if kind == kindType {
		dst = &b.cur.Types
	}
	for k, col := range b.cur.Columns {
		if k >= len(values) || values[k] == "" {
			continue
		}
		if *dst == nil {
			*dst = make(map[string]string)
		}
		(*dst)[col] = values[k]
	}
	return nil
}

// finish commits any trailing heading and returns the accumulated tables.
func (b *builder) finish() (map[string]*Table, error) {
	if err := b.commitHeading(); err != nil {
		return nil, err
	}
	return b.tables, nil
}

// normalizeName canonicalizes a raw group or column name: exact alias
// lookup first, then the generic draft-prefix strip, then case fold.
func normalizeName(raw string, aliases map[string]string) string {
	name := strings.TrimSpace(raw)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	name = strings.TrimPrefix(name, "?")
	return strings.ToUpper(name)
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
