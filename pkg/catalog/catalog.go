package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/visionspec/visionspec/pkg/errors"
)

// Regime is a viewing-acuity standard expressing the maximum comfortable
// viewing distance as a multiple of the screen height.
type Regime string

const (
	Regime4H Regime = "4H" // detail viewing
	Regime6H Regime = "6H" // presentation content
	Regime8H Regime = "8H" // video content
)

// Regimes lists every regime in the fixed reporting order.
var Regimes = []Regime{Regime4H, Regime6H, Regime8H}

// ParseRegime parses "4H", "6H" or "8H" (case-insensitive).
func ParseRegime(s string) (Regime, error) {
	switch r := Regime(strings.ToUpper(strings.TrimSpace(s))); r {
	case Regime4H, Regime6H, Regime8H:
		return r, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown regime %q (must be 4H, 6H or 8H)", s)
	}
}

// Multiplier returns the screen-height multiple of the regime (4, 6 or 8).
func (r Regime) Multiplier() int {
	switch r {
	case Regime4H:
		return 4
	case Regime6H:
		return 6
	case Regime8H:
		return 8
	}
	return 0
}

// Description returns the content type the regime is intended for.
func (r Regime) Description() string {
	switch r {
	case Regime4H:
		return "Detail viewing"
	case Regime6H:
		return "Presentation content"
	case Regime8H:
		return "Video content"
	}
	return string(r)
}

// SizeEntry is one immutable catalog record.
type SizeEntry struct {
	SizeInches     int     `json:"size_inches" toml:"size_inches"`
	DiagonalInches float64 `json:"diagonal_inches" toml:"diagonal_inches"`
	Distance4H     float64 `json:"distance_4h_m" toml:"distance_4h_m"`
	Distance6H     float64 `json:"distance_6h_m" toml:"distance_6h_m"`
	Distance8H     float64 `json:"distance_8h_m" toml:"distance_8h_m"`
}

// MaxDistance returns the maximum comfortable viewing distance in meters for
// the given regime. Unknown regimes return 0.
func (e SizeEntry) MaxDistance(r Regime) float64 {
	switch r {
	case Regime4H:
		return e.Distance4H
	case Regime6H:
		return e.Distance6H
	case Regime8H:
		return e.Distance8H
	}
	return 0
}

// Catalog is an immutable, size-sorted table of [SizeEntry] records.
// It is safe for concurrent use.
type Catalog struct {
	entries []SizeEntry
	source  string
}

// New validates entries and returns a catalog sorted ascending by size.
// The input slice is copied; later changes to it do not affect the catalog.
//
// Validation failures are configuration errors: an empty table, duplicate
// sizes, or non-positive sizes, diagonals or distances.
func New(entries []SizeEntry) (*Catalog, error) {
	return newCatalog(entries, "")
}

func newCatalog(entries []SizeEntry, source string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "catalog is empty")
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b SizeEntry) int {
		return cmp.Compare(a.SizeInches, b.SizeInches)
	})

	for i, e := range sorted {
		if e.SizeInches <= 0 {
			return nil, errors.New(errors.ErrCodeConfiguration, "catalog entry %d: size_inches must be positive", i)
		}
		if e.DiagonalInches <= 0 {
			return nil, errors.New(errors.ErrCodeConfiguration, "catalog size %d: diagonal_inches must be positive", e.SizeInches)
		}
		for _, r := range Regimes {
			if e.MaxDistance(r) <= 0 {
				return nil, errors.New(errors.ErrCodeConfiguration, "catalog size %d: %s distance must be positive", e.SizeInches, r)
			}
		}
		if i > 0 && sorted[i-1].SizeInches == e.SizeInches {
			return nil, errors.New(errors.ErrCodeConfiguration, "catalog has duplicate size %d", e.SizeInches)
		}
	}

	return &Catalog{entries: sorted, source: source}, nil
}

// Entries returns a copy of the catalog records in ascending size order.
func (c *Catalog) Entries() []SizeEntry { return slices.Clone(c.entries) }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th record in ascending size order.
func (c *Catalog) At(i int) SizeEntry { return c.entries[i] }

// Smallest returns the record with the smallest size.
func (c *Catalog) Smallest() SizeEntry { return c.entries[0] }

// Largest returns the record with the largest size.
func (c *Catalog) Largest() SizeEntry { return c.entries[len(c.entries)-1] }

// Source returns the file the catalog was loaded from, or "" when it was
// built in memory.
func (c *Catalog) Source() string { return c.source }

// Lookup returns the record with exactly the given size.
func (c *Catalog) Lookup(size int) (SizeEntry, bool) {
	i, ok := slices.BinarySearchFunc(c.entries, size, func(e SizeEntry, s int) int {
		return cmp.Compare(e.SizeInches, s)
	})
	if !ok {
		return SizeEntry{}, false
	}
	return c.entries[i], true
}
