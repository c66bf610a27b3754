package cache

import "fmt"

// Key prefixes, also used as the keyType reported to observability hooks.
const (
	KeyTypeReport         = "report"
	KeyTypeRecommendation = "recommendation"
)

// Keyer builds cache keys for every cached value type.
type Keyer interface {
	// ReportKey is the key of a rendered report artifact.
	ReportKey(studyID string, opts ReportKeyOpts) string

	// RecommendationKey is the key of a recommendation set computed from
	// the catalog identified by catalogHash.
	RecommendationKey(catalogHash string, distanceM, eyeHeightM, ceilingHeightM float64) string
}

// ReportKeyOpts are the render options that change a report's bytes.
type ReportKeyOpts struct {
	Format       string  `json:"format"`
	SlotsPerPage int     `json:"slots_per_page"`
	Scale        float64 `json:"scale"`
	CatalogHash  string  `json:"catalog_hash,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<studyID>:<hash(opts)>".
func (DefaultKeyer) ReportKey(studyID string, opts ReportKeyOpts) string {
	return hashKey(fmt.Sprintf("%s:%s", KeyTypeReport, studyID), opts)
}

// RecommendationKey returns
// "recommendation:<hash(catalog, distance, eye, ceiling)>".
func (DefaultKeyer) RecommendationKey(catalogHash string, distanceM, eyeHeightM, ceilingHeightM float64) string {
	return hashKey(KeyTypeRecommendation, catalogHash, distanceM, eyeHeightM, ceilingHeightM)
}
