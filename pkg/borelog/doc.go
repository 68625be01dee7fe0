// Package borelog fuses independently-keyed borehole log tables into
// coherent per-depth records.
//
// Site-investigation files log each survey in its own group: lithology as
// depth ranges, core recovery as runs, test specimens at single depths.
// Nothing ties those records together except the hole identifier and depth,
// so cross-group analytics need depth joins. This package supplies them:
//
//   - Intervals and Points lift string-typed group tables into typed
//     records, dropping and reporting rows that cannot be used.
//   - FusePoints and FuseIntervals assign each record the containing
//     interval from a broader log, per hole.
//   - BuildProfile unions the boundary depths of several interval tables
//     into elementary slices and paints payload columns onto them.
//   - Scan walks depth-ordered intervals per hole to find the shallowest
//     contiguous run meeting a threshold over a minimum thickness.
//
// # Containment and Ties
//
// A depth d is inside [from, to) iff from <= d < to: a record at an
// interval's top belongs to that interval, a record at its base belongs to
// the next one. Overlapping intervals within one hole are a data-quality
// defect in the source log; fusion resolves them to the first-starting,
// then first-encountered interval and reports the overlap as a diagnostic
// instead of failing.
//
// # Gaps Are Results
//
// A record with no containing interval and a hole with no qualifying run
// are ordinary outcomes, reported as explicit values (an assignment of -1,
// a Boundary with Found false), never as errors. Real survey data is gappy:
// specimens sit above the logged lithology top, shallow holes never reach
// rock. Fusion must not abort on either.
package borelog
