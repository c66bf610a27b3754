package cache

// ScopedKeyer wraps a Keyer with a prefix so that tenants or deployments
// sharing one Redis instance get separate namespaces:
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(studyID string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(studyID, opts)
}

// RecommendationKey generates a prefixed recommendation key.
func (k *ScopedKeyer) RecommendationKey(catalogHash string, distanceM, eyeHeightM, ceilingHeightM float64) string {
	return k.prefix + k.inner.RecommendationKey(catalogHash, distanceM, eyeHeightM, ceilingHeightM)
}
