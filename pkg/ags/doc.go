// Package ags parses geotechnical site-investigation exchange files into
// normalized in-memory group tables.
//
// The exchange format is line-oriented and CSV-flavored, self-describing,
// and exists in two incompatible dialects. The legacy dialect (AGS3) opens
// groups with "**NAME" markers, declares headings on "*COL" rows, carries a
// "<UNITS>" metadata row, and continues over-long data rows with "<CONT>"
// records. The current dialect (AGS4) tags every record with a marker
// keyword in its first field: GROUP, HEADING, UNIT, TYPE, or DATA. The
// parser accepts both without a caller-supplied hint; the first group
// marker resolves the dialect for the whole file, and a marker of the other
// dialect later in the file fails closed rather than guessing.
//
// # Error Philosophy
//
// Real-world survey files are imperfect. The parser distinguishes:
//
//   - Structural defects (mixed dialects, duplicate columns in a heading,
//     a continuation with no preceding data row): fatal to the one file,
//     returned as *StructuralError with group and line context.
//   - Record defects (an unterminated quote, a row wider than its
//     heading): the record is dropped, a Diagnostic is recorded, and
//     parsing continues. Diagnostics are never discarded.
//   - Absences (a group or column a file simply does not carry): not
//     errors at all; consumers see empty results.
//
// A caller batch-processing many files can therefore report pass/fail per
// file while still receiving usable tables for every file that parsed.
//
// # Normalization
//
// Group and column names are canonicalized: an alias table folds legacy
// draft spellings (for example "?ETH" to "WETH"), a residual draft prefix
// is stripped, and names are upper-cased. Alias tables travel in Config as
// immutable data passed explicitly, never process-wide state, so files
// can be parsed concurrently under different configurations.
//
// # Usage
//
//	parser, err := ags.NewParser(nil, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	file, err := parser.Parse(ctx, data)
//	if err != nil {
//	    var serr *ags.StructuralError
//	    if errors.As(err, &serr) {
//	        log.Printf("file rejected: %v", serr)
//	    }
//	    return err
//	}
//	geol, ok := file.Table("GEOL")
//
// Tables are immutable after parsing. The cleaning helpers (ExpandRows,
// Coalesce, DropSingletonRows) return new tables; Validate inspects tables
// against per-group column rules without mutating them.
package ags
