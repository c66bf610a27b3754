package report

import (
	"fmt"

	"github.com/visionspec/visionspec/pkg/elevation"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
	"github.com/visionspec/visionspec/pkg/surface"
)

const (
	FooterText = "VisionSpec · White-label technical document"
	TitleText  = "Technical Report"
)

type theme struct {
	primary   surface.Color
	accent    surface.Color
	text      surface.Color
	muted     surface.Color
	elevation elevation.Style
}

func newTheme(wl study.WhiteLabel) theme {
	base := elevation.DefaultStyle()
	primary := surface.ParseColor(wl.PrimaryColor, surface.ParseColor(study.DefaultPrimaryColor, surface.Black))
	accent := surface.ParseColor(wl.AccentColor, base.Accent)
	base.Accent = accent

	return theme{
		primary:   primary,
		accent:    accent,
		text:      surface.Black,
		muted:     surface.Gray,
		elevation: base,
	}
}

// Title returns the report heading for a company.
func Title(company string) string {
	return fmt.Sprintf("%s · %s", company, TitleText)
}

// StudyRows returns the study detail rows of the summary page.
func StudyRows(st *study.Study) []string {
	return []string{
		"Project: " + st.ProjectName,
		"Client: " + st.ClientName,
		"Room: " + st.RoomName,
		fmt.Sprintf("Viewing distance: %.2f m", st.ViewingDistanceM),
		fmt.Sprintf("Eye height: %.2f m", st.EyeHeightM),
		fmt.Sprintf("Ceiling height: %.2f m", st.CeilingHeightM),
	}
}

// RecommendationLine returns the summary line of one recommendation.
func RecommendationLine(r recommend.Recommendation) string {
	status := "fits"
	if !r.FitsCeiling {
		status = "does not fit"
	}
	spec := ""
	if !r.WithinSpec {
		spec = ", beyond catalog range"
	}
	return fmt.Sprintf("%s: %d\" (height %.2f m%s) - %s", RegimeLabel(r.Regime), r.SizeInches, r.ScreenHeightM, spec, status)
}

func drawSummaryPage(s surface.Surface, sum *Summary, th theme) {
	st := sum.Study
	top := PageHeight - 60

	s.Text(Margin, top, Title(st.WhiteLabel.CompanyName), surface.HelveticaBold, 20, th.primary)
	s.Line(Margin, top-12, PageWidth-Margin, top-12, surface.Stroke{Color: th.accent, Width: 1.5})

	y := PageHeight - 110
	for _, row := range StudyRows(st) {
		s.Text(Margin, y, row, surface.Helvetica, 12, th.text)
		y -= 20
	}

	y -= 10
	s.Text(Margin, y, "Recommendation by acuity regime", surface.HelveticaBold, 13, th.primary)
	y -= 24

	for _, r := range sum.Recommendations {
		c := th.elevation.Fits
		if !r.FitsCeiling {
			c = th.elevation.Exceeds
		}
		s.Rect(Margin, y-1, 6, 6, &c, nil, 0)
		s.Text(Margin+12, y, RecommendationLine(r), surface.Helvetica, 11, th.text)
		y -= 18
	}

	y -= 20
	s.Text(Margin, y, fmt.Sprintf("Front elevation: %d diagrams on %d pages", len(sum.Elevations), sum.Pages-1), surface.HelveticaOblique, 10, th.muted)

	drawFooter(s, th)
}

func drawElevationHeader(s surface.Surface, st *study.Study, th theme) {
	top := PageHeight - 50
	s.Text(Margin, top, Title(st.WhiteLabel.CompanyName), surface.HelveticaBold, 14, th.primary)
	sub := fmt.Sprintf("Front elevation · %s / %s", st.ProjectName, st.RoomName)
	s.Text(Margin, top-18, sub, surface.Helvetica, 10, th.muted)
	s.Line(Margin, top-26, PageWidth-Margin, top-26, surface.Stroke{Color: th.accent, Width: 1})
}

func drawFooter(s surface.Surface, th theme) {
	s.Text(Margin, 40, FooterText, surface.HelveticaOblique, 9, th.muted)
}
