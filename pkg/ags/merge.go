package ags

import (
	"fmt"
)

// foldContinuation merges a legacy continuation record into the last data
// row of the open group by position: fields[j] targets Columns[j]. When the
// accumulated cell and the fragment are both non-empty they are joined with
// the configured separator; an empty fragment contributes nothing. Folding
// is associative, so stitching a row from several continuation records does
// not depend on how they are batched.
func (b *builder) foldContinuation(fields []string, line int) error {
	if b.cur == nil || len(b.cur.Rows) == 0 {
		return structural(ErrOrphanContinuation, b.curName(), line)
	}
	if len(fields) > len(b.cur.Columns) {
		*b.diags = append(*b.diags, Diagnostic{
			Line:   line,
			Group:  b.cur.Name,
			Kind:   DiagContinuationOverflow,
			Detail: fmt.Sprintf("%d fields for %d columns", len(fields), len(b.cur.Columns)),
		})
		return nil
	}
	last := b.cur.Rows[len(b.cur.Rows)-1]
	for j := 1; j < len(fields); j++ {
		frag := fields[j]
		if frag == "" {
			continue
		}
		col := b.cur.Columns[j]
		if last[col] == "" {
			last[col] = frag
		} else {
			last[col] += b.cfg.ContinuationSeparator + frag
		}
	}
	return nil
}
