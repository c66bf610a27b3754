package surface

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// DefaultPageGap is the vertical gap between stacked SVG pages in points.
const DefaultPageGap = 24

// SVGOption configures an [SVG] surface.
type SVGOption func(*SVG)

// WithPageGap sets the gap between stacked pages.
func WithPageGap(gap float64) SVGOption { return func(s *SVG) { s.gap = gap } }

// WithTitle sets the document <title>.
func WithTitle(title string) SVGOption { return func(s *SVG) { s.title = title } }

// SVG renders all pages into a single SVG document, stacked top to bottom.
type SVG struct {
	Metrics

	width, height float64
	gap           float64
	title         string
	pages         []*bytes.Buffer
}

// NewSVG returns an SVG surface with the given page size in points.
func NewSVG(width, height float64, opts ...SVGOption) *SVG {
	s := &SVG{width: width, height: height, gap: DefaultPageGap}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPage starts a new page.
func (s *SVG) NewPage() {
	s.pages = append(s.pages, &bytes.Buffer{})
}

// Pages returns the number of pages started so far.
func (s *SVG) Pages() int { return len(s.pages) }

func (s *SVG) page() *bytes.Buffer {
	if len(s.pages) == 0 {
		s.NewPage()
	}
	return s.pages[len(s.pages)-1]
}

// y converts a page y (bottom-up) to a document y (top-down).
func (s *SVG) y(y float64) float64 {
	offset := float64(len(s.pages)-1) * (s.height + s.gap)
	return offset + s.height - y
}

// Line draws a straight segment.
func (s *SVG) Line(x1, y1, x2, y2 float64, st Stroke) {
	buf := s.page()
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
		x1, s.y(y1), x2, s.y(y2), st.Color.Hex(), st.Width, dashAttr(st.Dash))
}

// Rect draws a rectangle with its origin at the bottom-left corner.
func (s *SVG) Rect(x, y, w, h float64, fill, stroke *Color, lineWidth float64) {
	buf := s.page()
	if h < 0 {
		y, h = y+h, -h
	}
	fillAttr, strokeAttr := "none", "none"
	if fill != nil {
		fillAttr = fill.Hex()
	}
	if stroke != nil {
		strokeAttr = stroke.Hex()
	}
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		x, s.y(y+h), w, h, fillAttr, strokeAttr, lineWidth)
}

// Text draws s with its baseline at (x, y).
func (s *SVG) Text(x, y float64, text string, f Font, size float64, c Color) {
	buf := s.page()
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%.2f"%s fill="%s">%s</text>`+"\n",
		x, s.y(y), size, fontAttrs(f), c.Hex(), escapeText(text))
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	n := max(len(s.pages), 1)
	total := float64(n)*s.height + float64(n-1)*s.gap

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, total, s.width, total)
	if s.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeText(s.title))
	}
	for i := 0; i < n; i++ {
		top := float64(i) * (s.height + s.gap)
		fmt.Fprintf(&buf, `  <rect x="0" y="%.2f" width="%.2f" height="%.2f" fill="#ffffff" stroke="#d1d5db" stroke-width="0.5"/>`+"\n",
			top, s.width, s.height)
	}
	for _, p := range s.pages {
		buf.Write(p.Bytes())
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func fontAttrs(f Font) string {
	switch f {
	case HelveticaBold:
		return ` font-weight="bold"`
	case HelveticaOblique:
		return ` font-style="italic"`
	}
	return ""
}

func dashAttr(dash []float64) string {
	if len(dash) == 0 {
		return ""
	}
	parts := make([]string, len(dash))
	for i, d := range dash {
		parts[i] = fmt.Sprintf("%.1f", d)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
}

func escapeText(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ Surface = (*SVG)(nil)
