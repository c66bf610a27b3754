package catalog

import "github.com/visionspec/visionspec/pkg/errors"

// Interpolate returns the record for size. Exact catalog sizes are returned
// unchanged. Sizes strictly between two rows get a diagonal and distances
// linearly interpolated between the nearest smaller and larger rows.
// Sizes outside the catalog range are invalid input.
func (c *Catalog) Interpolate(size int) (SizeEntry, error) {
	if e, ok := c.Lookup(size); ok {
		return e, nil
	}

	smallest, largest := c.Smallest(), c.Largest()
	if size < smallest.SizeInches || size > largest.SizeInches {
		return SizeEntry{}, errors.New(errors.ErrCodeInvalidInput,
			"size %d is outside the supported range %d-%d", size, smallest.SizeInches, largest.SizeInches)
	}

	// First row larger than size; the previous row is the nearest smaller one.
	hi := 1
	for c.entries[hi].SizeInches < size {
		hi++
	}
	lower, upper := c.entries[hi-1], c.entries[hi]

	ratio := float64(size-lower.SizeInches) / float64(upper.SizeInches-lower.SizeInches)
	lerp := func(a, b float64) float64 { return a + ratio*(b-a) }

	return SizeEntry{
		SizeInches:     size,
		DiagonalInches: lerp(lower.DiagonalInches, upper.DiagonalInches),
		Distance4H:     lerp(lower.Distance4H, upper.Distance4H),
		Distance6H:     lerp(lower.Distance6H, upper.Distance6H),
		Distance8H:     lerp(lower.Distance8H, upper.Distance8H),
	}, nil
}
