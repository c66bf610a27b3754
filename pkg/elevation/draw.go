package elevation

import (
	"fmt"

	"github.com/visionspec/visionspec/pkg/surface"
)

// Style holds the colors and stroke widths used by [Draw].
type Style struct {
	Structure surface.Color // floor and ceiling
	EyeLine   surface.Color
	Screen    surface.Color
	Accent    surface.Color // screen outline and dimension
	Text      surface.Color
	Fits      surface.Color
	Exceeds   surface.Color

	FloorWidth   float64
	CeilingWidth float64
}

// DefaultStyle returns the neutral report style.
func DefaultStyle() Style {
	return Style{
		Structure:    surface.Black,
		EyeLine:      surface.Red,
		Screen:       surface.Color{R: 0.1, G: 0.1, B: 0.1},
		Accent:       surface.ParseColor("#2563eb", surface.Black),
		Text:         surface.Black,
		Fits:         surface.Green,
		Exceeds:      surface.Red,
		FloorWidth:   1.5,
		CeilingWidth: 1,
	}
}

// Draw renders g onto s. Lines with a resolved size of zero are skipped.
func Draw(s surface.Surface, g Geometry, st Style) {
	label := surface.Helvetica

	s.Line(g.Ceiling.X1, g.Ceiling.Y1, g.Ceiling.X2, g.Ceiling.Y2, surface.Stroke{Color: st.Structure, Width: st.CeilingWidth, Dash: []float64{4, 2}})
	s.Text(g.Ceiling.X1+TextMargin, g.CeilingY-10, fmt.Sprintf("Ceiling (%.2f m)", ceilingM(g)), label, 8, st.Text)

	s.Line(g.Floor.X1, g.Floor.Y1, g.Floor.X2, g.Floor.Y2, surface.Stroke{Color: st.Structure, Width: st.FloorWidth})

	s.Line(g.EyeLine.X1, g.EyeLine.Y1, g.EyeLine.X2, g.EyeLine.Y2, surface.Stroke{Color: st.EyeLine, Width: 1})
	s.Text(g.EyeLabel.X, g.EyeLabel.Y, g.EyeLabel.Text, g.EyeLabel.Font, g.EyeLabel.Size, st.EyeLine)

	screen, accent := st.Screen, st.Accent
	s.Rect(g.TVLeft, g.TVTop, g.ScreenWidthPx, g.ScreenHeightPx, &screen, &accent, 2)
	if g.Clipped {
		s.Line(g.TVLeft, g.TVBottom, g.TVRight, g.TVBottom, surface.Stroke{Color: st.Exceeds, Width: 1.5, Dash: []float64{3, 3}})
	}

	size := fmt.Sprintf("%d\"", g.SizeInches)
	w := s.MeasureText(size, surface.HelveticaBold, 10)
	s.Text((g.TVLeft+g.TVRight)/2-w/2, (g.TVTop+g.TVBottom)/2-3, size, surface.HelveticaBold, 10, surface.White)

	d := g.Dimension
	dim := surface.Stroke{Color: st.Accent, Width: 0.75}
	s.Line(d.X1, d.Y1, d.X2, d.Y2, dim)
	s.Line(d.X1-3, d.Y1, d.X1+3, d.Y1, dim)
	s.Line(d.X2-3, d.Y2, d.X2+3, d.Y2, dim)
	s.Text(d.X1+4, (d.Y1+d.Y2)/2, fmt.Sprintf("%.2f m", g.FloorToTopM), label, 8, st.Accent)

	for i, l := range g.Info {
		if l.Size <= 0 {
			continue
		}
		c := st.Text
		if i == len(g.Info)-1 {
			c = st.Exceeds
			if g.FitsCeiling {
				c = st.Fits
			}
		}
		s.Text(l.X, l.Y, l.Text, l.Font, l.Size, c)
	}
}

func ceilingM(g Geometry) float64 {
	if g.Scale == 0 {
		return 0
	}
	return (g.CeilingY - g.FloorY) / g.Scale
}
