// Package triaxial summarizes triaxial compression test results from
// parsed site-investigation files.
//
// Summary flattens a results group (TRIX, with TRET as fallback) into one
// row per specimen, joined with the sample register on hole and sample
// reference. STValues appends stress-path coordinates, RemoveDuplicates
// collapses re-reported specimens, and WithLithology fuses specimen depths
// into the logged lithology so each result carries its stratum.
//
// The package follows the same reporting discipline as borelog: rows that
// cannot be processed are skipped with a diagnostic, and specimens that
// fall outside the logged lithology keep empty context cells rather than
// raising an error.
package triaxial
