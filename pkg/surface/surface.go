// Package surface provides the drawing surfaces that elevation reports are
// rendered onto.
//
// A [Surface] exposes five primitives: line, rectangle, text, text
// measurement and page break. Coordinates are page points (1/72 inch) with
// the origin at the bottom-left corner and y growing upward, the PDF
// convention. Implementations:
//
//   - [SVG]: a single SVG document with pages stacked vertically
//   - [PDF]: a multi-page PDF document written with fpdf
//   - [Recorder]: records every call, for tests and geometry dumps
//
// Text is measured with the Standard-14 Helvetica width tables, so layout
// results are identical across surfaces.
package surface

// A4 page size in points.
const (
	A4Width  = 595.276
	A4Height = 841.890
)

// Font names one of the supported Standard-14 fonts.
type Font string

const (
	Helvetica        Font = "Helvetica"
	HelveticaBold    Font = "Helvetica-Bold"
	HelveticaOblique Font = "Helvetica-Oblique"
)

// Stroke describes how a line is drawn.
type Stroke struct {
	Color Color
	Width float64
	Dash  []float64 // on/off lengths; nil for solid
}

// Measurer measures the advance width of text in points.
type Measurer interface {
	MeasureText(s string, font Font, size float64) float64
}

// Surface is a page-oriented drawing target.
//
// A surface starts with no page; the first drawing call or NewPage opens
// page one. Implementations are single-writer.
type Surface interface {
	Measurer

	// Line draws a straight segment.
	Line(x1, y1, x2, y2 float64, st Stroke)

	// Rect draws an axis-aligned rectangle with its origin at the
	// bottom-left corner. A nil fill or stroke skips that part.
	Rect(x, y, w, h float64, fill, stroke *Color, lineWidth float64)

	// Text draws s with its baseline starting at (x, y).
	Text(x, y float64, s string, font Font, size float64, c Color)

	// NewPage starts a new page.
	NewPage()
}
