package elevation

import (
	"fmt"
	"math"

	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/surface"
)

// Layout constants. Lengths are page points unless suffixed with M.
const (
	PlacementOffsetM = recommend.PlacementOffsetM

	LineSpacing = 1.2
	MinFontSize = 6.0

	SideMargin       = 40.0
	AreaMarginTop    = 24.0
	AreaMarginBottom = 24.0
	ClipMargin       = 2.0
	TextMargin       = 4.0
	EyeLabelPadding  = 12.0
	DimensionOffset  = 14.0

	// FitFraction is the share of the inner band the ceiling span fills
	// under [FitScale].
	FitFraction = 0.9
)

// Eye-line label font.
const (
	EyeLabelFont = surface.Helvetica
	EyeLabelSize = 8.0
)

// Base sizes of the info block lines.
const (
	RegimeLabelSize = 11.0
	InfoSize        = 9.0
)

// RoomProfile holds the room measurements in meters.
type RoomProfile struct {
	EyeHeightM       float64 `json:"eye_height_m"`
	CeilingHeightM   float64 `json:"ceiling_height_m"`
	ViewingDistanceM float64 `json:"viewing_distance_m"`
}

// DrawingArea is a horizontal band of a page owned by one diagram.
type DrawingArea struct {
	PageWidth float64 `json:"page_width"`
	YBottom   float64 `json:"y_bottom"`
	Height    float64 `json:"height"`
}

// Inner returns the bottom and top of the area after the fixed margins.
func (a DrawingArea) Inner() (bottom, top float64) {
	return a.YBottom + AreaMarginBottom, a.YBottom + a.Height - AreaMarginTop
}

// Segment is a straight line between two points.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Geometry is the complete layout of one elevation diagram.
type Geometry struct {
	Regime     recommend.Regime `json:"regime"`
	SizeInches int              `json:"size_inches"`
	Scale      float64          `json:"scale"`
	Area       DrawingArea      `json:"area"`

	FloorY   float64 `json:"floor_y"`
	CeilingY float64 `json:"ceiling_y"`
	EyeLineY float64 `json:"eye_line_y"`

	TVTop           float64 `json:"tv_top"`
	TVBottom        float64 `json:"tv_bottom"`
	TVLeft          float64 `json:"tv_left"`
	TVRight         float64 `json:"tv_right"`
	UnclippedBottom float64 `json:"unclipped_bottom"`
	ScreenHeightPx  float64 `json:"screen_height_px"`
	ScreenWidthPx   float64 `json:"screen_width_px"`

	// FitsCeiling is decided on the unclipped screen; Clipped only reports
	// that the drawn edge was clamped.
	FitsCeiling bool `json:"fits_ceiling"`
	Clipped     bool `json:"clipped"`

	FloorToTopM  float64 `json:"floor_to_top_m"`
	FloorToBaseM float64 `json:"floor_to_base_m"`

	Floor     Segment  `json:"floor"`
	Ceiling   Segment  `json:"ceiling"`
	EyeLine   Segment  `json:"eye_line"`
	EyeLabel  TextLine `json:"eye_label"`
	Dimension Segment  `json:"dimension"`

	TextAvailable float64    `json:"text_available"`
	Info          []TextLine `json:"info"`
}

// Option configures [Layout].
type Option func(*layoutConfig)

type layoutConfig struct {
	measurer surface.Measurer
}

// WithMeasurer measures the eye-line label with m instead of the
// Standard-14 metrics.
func WithMeasurer(m surface.Measurer) Option {
	return func(c *layoutConfig) {
		if m != nil {
			c.measurer = m
		}
	}
}

// Layout computes the diagram for rec in room, drawn into area at scale
// points per meter.
//
// Layout never fails. Degenerate inputs such as an eye line above the
// ceiling produce coordinates as computed, possibly outside the area, and a
// collapsed text block.
func Layout(rec recommend.Recommendation, room RoomProfile, area DrawingArea, scale float64, opts ...Option) Geometry {
	cfg := layoutConfig{measurer: surface.Metrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := Geometry{
		Regime:     rec.Regime,
		SizeInches: rec.SizeInches,
		Scale:      scale,
		Area:       area,
	}

	ceilingPx := room.CeilingHeightM * scale
	eyePx := room.EyeHeightM * scale

	innerBottom, innerTop := area.Inner()
	center := (innerBottom + innerTop) / 2
	g.FloorY = center - ceilingPx/2
	g.CeilingY = g.FloorY + ceilingPx
	g.EyeLineY = g.FloorY + eyePx

	g.TVTop = g.EyeLineY + PlacementOffsetM*scale
	g.UnclippedBottom = g.TVTop + rec.ScreenHeightM*scale
	g.TVBottom = g.UnclippedBottom
	g.ScreenHeightPx = g.UnclippedBottom - g.TVTop

	// Decided in meters so the result holds for any scale, including 0.
	g.FitsCeiling = recommend.FitsCeiling(room.EyeHeightM, rec.ScreenHeightM, room.CeilingHeightM)

	if limit := g.CeilingY - ClipMargin; g.UnclippedBottom > limit {
		g.TVBottom = math.Max(limit, g.TVTop)
		g.ScreenHeightPx = g.TVBottom - g.TVTop
		g.Clipped = true
	}

	usable := math.Max(area.PageWidth-2*SideMargin, 0)
	g.ScreenWidthPx = math.Min(math.Max(rec.ScreenWidthM*scale, 0), usable)
	g.TVLeft = SideMargin + (usable-g.ScreenWidthPx)/2
	g.TVRight = g.TVLeft + g.ScreenWidthPx

	if scale != 0 {
		topM := (g.TVTop - g.FloorY) / scale
		bottomM := (g.UnclippedBottom - g.FloorY) / scale
		g.FloorToTopM = math.Max(topM, bottomM)
		g.FloorToBaseM = math.Min(topM, bottomM)
	}

	right := SideMargin + usable
	g.Floor = Segment{X1: SideMargin, Y1: g.FloorY, X2: right, Y2: g.FloorY}
	g.Ceiling = Segment{X1: SideMargin, Y1: g.CeilingY, X2: right, Y2: g.CeilingY}

	dimX := g.TVRight + DimensionOffset
	g.Dimension = Segment{X1: dimX, Y1: g.FloorY, X2: dimX, Y2: math.Max(g.TVTop, g.TVBottom)}

	label := EyeLabel(room.EyeHeightM)
	labelWidth := cfg.measurer.MeasureText(label, EyeLabelFont, EyeLabelSize)
	g.EyeLine = Segment{X1: SideMargin, Y1: g.EyeLineY, X2: SideMargin + labelWidth + EyeLabelPadding, Y2: g.EyeLineY}
	g.EyeLabel = TextLine{
		Text:     label,
		Font:     EyeLabelFont,
		BaseSize: EyeLabelSize,
		Size:     EyeLabelSize,
		X:        SideMargin,
		Y:        g.EyeLineY + 3,
	}

	g.TextAvailable = math.Max(g.EyeLineY-g.FloorY-2*TextMargin, 0)
	g.Info = FitText(InfoLines(rec, g.FitsCeiling), TextBox{
		X:      SideMargin + TextMargin,
		Bottom: g.FloorY + TextMargin,
		Height: g.TextAvailable,
	})

	return g
}

// EyeLabel returns the eye-line label text.
func EyeLabel(eyeHeightM float64) string {
	return fmt.Sprintf("Eye height (%.2f m)", eyeHeightM)
}

// InfoLines returns the info block lines for rec in display order: regime
// label, description, height, width and fit status.
func InfoLines(rec recommend.Recommendation, fits bool) []LineSpec {
	status := "Fits below ceiling"
	if !fits {
		status = "Exceeds ceiling"
	}
	return []LineSpec{
		{Text: fmt.Sprintf("%s · %d\"", rec.Regime, rec.SizeInches), Font: surface.HelveticaBold, BaseSize: RegimeLabelSize},
		{Text: rec.Regime.Description(), Font: surface.Helvetica, BaseSize: InfoSize},
		{Text: fmt.Sprintf("Height: %.2f m (%.1f in)", rec.ScreenHeightM, rec.ScreenHeightIn), Font: surface.Helvetica, BaseSize: InfoSize},
		{Text: fmt.Sprintf("Width: %.2f m (%.1f in)", rec.ScreenWidthM, rec.ScreenWidthIn), Font: surface.Helvetica, BaseSize: InfoSize},
		{Text: status, Font: surface.HelveticaBold, BaseSize: InfoSize},
	}
}

// FitScale returns the scale at which the ceiling span fills FitFraction of
// the area's inner band. Non-positive ceilings or bands yield 0.
func FitScale(area DrawingArea, room RoomProfile) float64 {
	bottom, top := area.Inner()
	inner := top - bottom
	if inner <= 0 || room.CeilingHeightM <= 0 {
		return 0
	}
	return inner * FitFraction / room.CeilingHeightM
}
