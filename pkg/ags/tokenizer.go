package ags

import (
	"errors"
	"strings"
)

// errUnterminatedQuote marks a record whose quoted field never closes. The
// record is rejected and reported; parsing continues at the next line.
var errUnterminatedQuote = errors.New("unterminated quote")

// splitFields tokenizes one physical line into an ordered field sequence.
//
// Fields are comma-delimited. A field wrapped in double quotes takes
// embedded delimiters literally and escapes an embedded quote by doubling
// it. Whitespace outside quotes is trimmed; whitespace inside quotes is
// preserved verbatim. firstQuoted reports whether field 0 was quoted, which
// the dialect guard uses to tell a current-dialect marker keyword from an
// identical bare data value.
func splitFields(line string) (fields []string, firstQuoted bool, err error) {
	i := 0
	for {
		field, quoted, next, err := scanField(line, i)
		if err != nil {
			return nil, firstQuoted, err
		}
		if len(fields) == 0 {
			firstQuoted = quoted
		}
		fields = append(fields, field)
		i = next
		if i >= len(line) {
			return fields, firstQuoted, nil
		}
		// line[i] is the delimiter
		i++
		if i >= len(line) {
			// trailing delimiter: final empty field
			return append(fields, ""), firstQuoted, nil
		}
	}
}

// scanField reads one field starting at i. It returns the field value,
// whether it was quoted, and the index of the delimiter or end of line.
func scanField(line string, i int) (string, bool, int, error) {
	n := len(line)
	for i < n && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i < n && line[i] == '"' {
		return scanQuoted(line, i)
	}

	start := i
	for i < n && line[i] != ',' {
		i++
	}
	return strings.TrimSpace(line[start:i]), false, i, nil
}

// scanQuoted reads a quoted field; line[i] is the opening quote. Content
// between the closing quote and the delimiter is appended literally with
// trailing whitespace trimmed, matching how permissive readers treat
// sloppy producer output.
func scanQuoted(line string, i int) (string, bool, int, error) {
	n := len(line)
	var b strings.Builder
	i++ // opening quote
	closed := false
	for i < n {
		c := line[i]
		if c == '"' {
			if i+1 < n && line[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			i++
			closed = true
			break
		}
		b.WriteByte(c)
		i++
	}
	if !closed {
		return "", true, i, errUnterminatedQuote
	}

	start := i
	for i < n && line[i] != ',' {
		i++
	}
	if tail := line[start:i]; strings.TrimSpace(tail) != "" {
		b.WriteString(strings.TrimRight(tail, " \t"))
	}
	return b.String(), true, i, nil
}

// quoteField renders a value as a quoted field. Tokenizing the result
// yields the value back exactly, including embedded delimiters and quotes.
func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
