// Package report assembles the technical report of a study.
//
// A report is one summary page (white-label header, study rows and the
// per-regime recommendation lines) followed by elevation pages. Each
// recommendation gets one elevation diagram; diagrams are assigned to page
// slots by [paginate.Paginate] and laid out by [elevation.Layout]. The
// layout's fit predicate is authoritative: the recommendations returned in
// the [Summary] and printed on the summary page carry it.
//
// [Build] draws onto any [surface.Surface]; [Render] produces the bytes of a
// complete artifact in one of the supported formats.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/visionspec/visionspec/pkg/elevation"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/observability"
	"github.com/visionspec/visionspec/pkg/paginate"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
	"github.com/visionspec/visionspec/pkg/surface"
)

// Page geometry in points.
const (
	PageWidth  = surface.A4Width
	PageHeight = surface.A4Height
	Margin     = 40.0

	// ContentTop and ContentBottom bound the elevation slots.
	ContentTop    = PageHeight - 90
	ContentBottom = 60.0

	DefaultSlotsPerPage = 2
)

// Options controls report assembly. The zero value is usable.
type Options struct {
	// SlotsPerPage is the number of diagrams per elevation page; 0 means
	// DefaultSlotsPerPage.
	SlotsPerPage int

	// Scale in points per meter; 0 fits the ceiling span to the slot.
	Scale float64

	// Logger receives debug output; nil discards it.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.SlotsPerPage <= 0 {
		o.SlotsPerPage = DefaultSlotsPerPage
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Elevation is one laid-out diagram and its page position.
type Elevation struct {
	Placement paginate.Placement `json:"placement"`
	Geometry  elevation.Geometry `json:"geometry"`
}

// Summary describes an assembled report.
type Summary struct {
	Study           *study.Study               `json:"study"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Elevations      []Elevation                `json:"elevations"`
	Scale           float64                    `json:"scale"`
	SlotsPerPage    int                        `json:"slots_per_page"`
	Pages           int                        `json:"pages"`
}

// Plan computes recommendations, placements and layouts without drawing.
func Plan(ctx context.Context, st *study.Study, engine *recommend.Engine, opts Options) (*Summary, error) {
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "report: study is required")
	}
	if engine == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "report: recommendation engine is required")
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if opts.Scale < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %g", opts.Scale)
	}
	opts = opts.withDefaults()
	hooks := observability.Report()

	room := st.Room()
	recs := engine.ComputeRecommendations(room.ViewingDistanceM, room.EyeHeightM, room.CeilingHeightM)
	hooks.OnRecommend(ctx, room.ViewingDistanceM, sizes(recs))

	page := paginate.Page{Width: PageWidth, ContentTop: ContentTop, ContentBottom: ContentBottom}
	placements := paginate.Paginate(recs, opts.SlotsPerPage, page)

	scale := opts.Scale
	if scale == 0 && len(placements) > 0 {
		scale = elevation.FitScale(placements[0].Area, room)
		if scale <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"%d slots per page leave no room for an elevation", opts.SlotsPerPage)
		}
	}

	sum := &Summary{
		Study:           st,
		Recommendations: make([]recommend.Recommendation, len(recs)),
		Elevations:      make([]Elevation, len(placements)),
		Scale:           scale,
		SlotsPerPage:    opts.SlotsPerPage,
		Pages:           1 + paginate.PageCount(len(recs), opts.SlotsPerPage),
	}
	for i, p := range placements {
		g := elevation.Layout(p.Recommendation, room, p.Area, scale)
		final := p.Recommendation.WithFitsCeiling(g.FitsCeiling)
		p.Recommendation = final

		sum.Recommendations[i] = final
		sum.Elevations[i] = Elevation{Placement: p, Geometry: g}

		hooks.OnLayout(ctx, string(final.Regime), g.FitsCeiling, g.Clipped)
		opts.Logger.Debug("laid out elevation",
			"regime", final.Regime, "size", final.SizeInches,
			"page", p.PageIndex, "slot", p.SlotIndex,
			"fits", g.FitsCeiling, "clipped", g.Clipped)
	}
	return sum, nil
}

// Build plans the report and draws it onto s.
func Build(ctx context.Context, st *study.Study, engine *recommend.Engine, s surface.Surface, opts Options) (*Summary, error) {
	sum, err := Plan(ctx, st, engine, opts)
	if err != nil {
		return nil, err
	}

	th := newTheme(st.WhiteLabel)
	s.NewPage()
	drawSummaryPage(s, sum, th)

	for _, e := range sum.Elevations {
		if e.Placement.NewPage {
			s.NewPage()
			drawElevationHeader(s, st, th)
			drawFooter(s, th)
		}
		elevation.Draw(s, e.Geometry, th.elevation)
	}
	return sum, nil
}

func sizes(recs []recommend.Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.SizeInches
	}
	return out
}

// RegimeLabel returns e.g. "4H – Detail viewing".
func RegimeLabel(r recommend.Regime) string {
	return fmt.Sprintf("%s – %s", r, r.Description())
}
