// Package paginate assigns elevation diagrams to page slots.
//
// A page's content band is split into equal-height slots stacked top to
// bottom. Item i lands on page i/slots in slot i%slots; slot 0 is the topmost
// band and marks the start of a new page.
package paginate

import (
	"github.com/visionspec/visionspec/pkg/elevation"
	"github.com/visionspec/visionspec/pkg/recommend"
)

// Page describes the vertical content band of a page in points, y up.
type Page struct {
	Width         float64
	ContentTop    float64
	ContentBottom float64
}

// Placement is the page position assigned to one recommendation.
type Placement struct {
	Recommendation recommend.Recommendation `json:"recommendation"`
	PageIndex      int                      `json:"page_index"`
	SlotIndex      int                      `json:"slot_index"`
	Area           elevation.DrawingArea    `json:"area"`
	NewPage        bool                     `json:"new_page"`
}

// Paginate assigns recs to slots in order. slotsPerPage below 1 is treated
// as 1.
func Paginate(recs []recommend.Recommendation, slotsPerPage int, page Page) []Placement {
	slots := max(slotsPerPage, 1)
	band := (page.ContentTop - page.ContentBottom) / float64(slots)

	out := make([]Placement, len(recs))
	for i, rec := range recs {
		slot := i % slots
		out[i] = Placement{
			Recommendation: rec,
			PageIndex:      i / slots,
			SlotIndex:      slot,
			Area: elevation.DrawingArea{
				PageWidth: page.Width,
				YBottom:   page.ContentTop - float64(slot+1)*band,
				Height:    band,
			},
			NewPage: slot == 0,
		}
	}
	return out
}

// PageCount returns the number of pages n items occupy.
func PageCount(n, slotsPerPage int) int {
	if n <= 0 {
		return 0
	}
	slots := max(slotsPerPage, 1)
	return (n + slots - 1) / slots
}
