// Package recommend selects the minimum TV size for a viewing distance.
//
// The [Engine] scans an immutable [catalog.Catalog] in ascending size order
// and returns the first screen whose maximum comfortable distance for the
// requested [Regime] covers the viewer. When no screen qualifies, the largest
// catalog size is returned with WithinSpec=false: oversized distances yield a
// best-effort recommendation, never an error.
//
//	eng, err := recommend.New(cat)
//	recs := eng.ComputeRecommendations(3.2, 1.2, 2.8) // 4H, 6H, 8H
package recommend

import (
	"math"

	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/errors"
)

// Regime aliases [catalog.Regime] so callers need only this package.
type Regime = catalog.Regime

// Regime values, in reporting order.
const (
	Regime4H = catalog.Regime4H
	Regime6H = catalog.Regime6H
	Regime8H = catalog.Regime8H
)

// Regimes lists the regimes in the fixed reporting order 4H, 6H, 8H.
var Regimes = catalog.Regimes

// ParseRegime parses a regime name such as "6H".
func ParseRegime(s string) (Regime, error) { return catalog.ParseRegime(s) }

const (
	// MetersPerInch converts inches to meters.
	MetersPerInch = 0.0254

	// PlacementOffsetM is the gap between the eye line and the lower edge of
	// the screen.
	PlacementOffsetM = 0.10
)

// HeightFraction is the screen height as a fraction of the diagonal for a
// 16:9 panel: 9/sqrt(16²+9²).
var HeightFraction = 9 / math.Sqrt(16*16+9*9)

// Recommendation is the derived screen choice for one regime. It is a value
// type and is never mutated after construction.
type Recommendation struct {
	Regime         Regime  `json:"regime"`
	SizeInches     int     `json:"size_inches"`
	DiagonalInches float64 `json:"diagonal_inches"`
	ScreenHeightM  float64 `json:"screen_height_m"`
	ScreenWidthM   float64 `json:"screen_width_m"`
	ScreenHeightIn float64 `json:"screen_height_in"`
	ScreenWidthIn  float64 `json:"screen_width_in"`
	MaxDistanceM   float64 `json:"max_distance_m"`
	WithinSpec     bool    `json:"within_spec"`
	FitsCeiling    bool    `json:"fits_ceiling"`
}

// WithFitsCeiling returns a copy of r with FitsCeiling replaced.
func (r Recommendation) WithFitsCeiling(fits bool) Recommendation {
	r.FitsCeiling = fits
	return r
}

// Engine computes recommendations against a fixed catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
}

// New returns an engine over cat. A nil or empty catalog is a configuration
// error.
func New(cat *catalog.Catalog) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "recommendation engine requires a non-empty catalog")
	}
	return &Engine{cat: cat}, nil
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Recommend selects the smallest catalog screen whose maximum distance for
// regime is at least distanceM, falling back to the largest screen.
//
// FitsCeiling is the physical placement predicate
// eye + PlacementOffsetM + screen height <= ceiling. The layout engine owns
// the authoritative value; report assembly replaces it with
// [Recommendation.WithFitsCeiling].
func (e *Engine) Recommend(distanceM float64, regime Regime, eyeHeightM, ceilingHeightM float64) Recommendation {
	chosen := e.cat.Largest()
	for i := 0; i < e.cat.Len(); i++ {
		if entry := e.cat.At(i); entry.MaxDistance(regime) >= distanceM {
			chosen = entry
			break
		}
	}
	return FromEntry(chosen, regime, distanceM, eyeHeightM, ceilingHeightM)
}

// FromEntry derives the recommendation for a specific catalog entry, for
// example one produced by [catalog.Catalog.Interpolate].
func FromEntry(entry catalog.SizeEntry, regime Regime, distanceM, eyeHeightM, ceilingHeightM float64) Recommendation {
	heightM := ScreenHeightM(entry.DiagonalInches)
	widthM := heightM * 16 / 9
	maxDist := entry.MaxDistance(regime)

	return Recommendation{
		Regime:         regime,
		SizeInches:     entry.SizeInches,
		DiagonalInches: entry.DiagonalInches,
		ScreenHeightM:  heightM,
		ScreenWidthM:   widthM,
		ScreenHeightIn: heightM / MetersPerInch,
		ScreenWidthIn:  widthM / MetersPerInch,
		MaxDistanceM:   maxDist,
		WithinSpec:     distanceM <= maxDist,
		FitsCeiling:    FitsCeiling(eyeHeightM, heightM, ceilingHeightM),
	}
}

// ComputeRecommendations returns exactly three recommendations, one per
// regime in the order 4H, 6H, 8H.
func (e *Engine) ComputeRecommendations(distanceM, eyeHeightM, ceilingHeightM float64) []Recommendation {
	recs := make([]Recommendation, 0, len(Regimes))
	for _, r := range Regimes {
		recs = append(recs, e.Recommend(distanceM, r, eyeHeightM, ceilingHeightM))
	}
	return recs
}

// ScreenHeightM returns the physical height in meters of a 16:9 screen with
// the given diagonal in inches.
func ScreenHeightM(diagonalInches float64) float64 {
	return diagonalInches * MetersPerInch * HeightFraction
}

// FitsCeiling reports whether a screen of heightM, mounted with its lower
// edge PlacementOffsetM above the eye line, stays at or below the ceiling.
// The comparison tolerates a relative floating error of 1e-9 so boundary
// cases such as 1.7 + 0.1 + 1.0 = 2.8 count as fitting.
func FitsCeiling(eyeHeightM, heightM, ceilingHeightM float64) bool {
	return leq(eyeHeightM+PlacementOffsetM+heightM, ceilingHeightM)
}

func leq(a, b float64) bool {
	tol := 1e-9 * math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return a <= b+tol
}
