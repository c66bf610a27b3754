// Package catalog provides the immutable TV size catalog used by the
// recommendation engine.
//
// # Overview
//
// A catalog is an ordered table of [SizeEntry] records. Each record gives the
// nominal size and diagonal of a screen together with the maximum comfortable
// viewing distance under each acuity [Regime] (4H, 6H, 8H):
//
//	size_inches  diagonal_inches  distance_4h_m  distance_6h_m  distance_8h_m
//	65           65.0             3.238          4.857          6.476
//
// The catalog is constructed once, validated, sorted ascending by size and
// then shared read-only. There is no package-level cache: callers build a
// [*Catalog] and pass it by reference into the components that need it.
//
// # Loading
//
// [Resolve] locates the catalog file: the BASE_TVS_FILE environment variable
// wins; otherwise a fixed list of fallback locations is searched. [Load]
// reads JSON (an array of records) or TOML (an array of [[tv]] tables,
// selected by the .toml extension):
//
//	cat, err := catalog.LoadDefault()
//	if err != nil {
//	    // errors.ErrCodeConfiguration: fatal, not retried
//	}
//
// # Interpolation
//
// [Catalog.Interpolate] estimates a record for a size between two catalog
// rows by linear interpolation of the diagonal and the three distances.
package catalog
