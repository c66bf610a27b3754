// Package pkg provides the core libraries for VisionSpec TV size studies.
//
// # Overview
//
// VisionSpec picks the minimum television size for a room under the three
// viewing regimes 4H, 6H and 8H, and documents the choice in a white-label
// technical report with one wall elevation diagram per recommendation. The
// pkg directory is organized into four main areas:
//
//  1. Domain logic (catalog, recommend, elevation, paginate)
//  2. Output (surface, report)
//  3. Infrastructure (study, cache, observability, errors, buildinfo)
//  4. Transport (api)
//
// # Architecture
//
// The typical data flow:
//
//	base_tvs.json
//	     ↓
//	[catalog] (immutable size table)
//	     ↓
//	[recommend] (4H, 6H, 8H recommendations)
//	     ↓
//	[paginate] → [elevation] (page slots, diagram geometry)
//	     ↓
//	[report] on a [surface] (SVG, PDF, PNG, JSON)
//
// # Quick Start
//
//	cat, _ := catalog.LoadDefault()
//	eng, _ := recommend.New(cat)
//	recs := eng.ComputeRecommendations(3.2, 1.2, 2.8)
//
//	st, _ := study.New(study.CreateRequest{
//	    ProjectName:      "Board room",
//	    ClientName:       "ACME",
//	    RoomName:         "Level 3",
//	    ViewingDistanceM: 3.2,
//	    EyeHeightM:       1.2,
//	    WhiteLabel:       study.WhiteLabel{CompanyName: "AV Partners"},
//	}, eng)
//	pdf, _ := report.Render(ctx, st, eng, report.FormatPDF, report.Options{})
//
// # Main Packages
//
// [catalog] - The TV size table loaded from JSON or TOML, with regime
// distances and linear interpolation between catalog sizes.
//
// [recommend] - The recommendation engine: smallest catalog size whose regime
// distance covers the viewer, falling back to the largest size.
//
// [elevation] - The wall elevation layout engine. Computes floor, eye line,
// ceiling and screen geometry on a single scale, the ceiling fit predicate,
// clipping, dimension lines and the auto-fitted info text block.
//
// [paginate] - Assigns diagrams to equal-height page slots.
//
// [surface] - Drawing surfaces: SVG, native PDF, a call recorder for tests,
// and PNG conversion from SVG.
//
// [report] - Assembles the summary page and elevation pages of a study.
//
// [study] - Studies and their storage backends (memory, MongoDB).
//
// [cache] - Artifact cache backends (null, memory, file, Redis) and keyers.
//
// [api] - The HTTP API over all of the above.
//
// # Testing
//
//	go test ./pkg/...
//
// [catalog]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/catalog
// [recommend]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/recommend
// [elevation]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/elevation
// [paginate]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/paginate
// [surface]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/surface
// [report]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/report
// [study]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/study
// [cache]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/cache
// [api]: https://pkg.go.dev/github.com/visionspec/visionspec/pkg/api
package pkg
