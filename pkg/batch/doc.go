// Package batch parses and concatenates multi-file site-investigation
// submissions.
//
// A survey ships as many exchange files, one per contract or drilling
// phase, and analysis wants one table per group across all of them. The
// Processor parses every source in parallel, then merges group by group in
// caller order. Each merged row carries provenance: SOURCE_FILE names the
// input, SOURCE_NO is a positional discriminator, and COMPOSITE_ID
// disambiguates hole identifiers that repeat across files.
//
// Failure is per file. A structural error marks its own file failed and
// contributes nothing to the merge; sibling files are unaffected. Merged
// column sets are the union across files, with cells a file did not supply
// left empty.
package batch
