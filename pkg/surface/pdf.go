package surface

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// PDFOption configures a [PDF] surface.
type PDFOption func(*PDF)

// WithPDFTitle sets the document title metadata.
func WithPDFTitle(title string) PDFOption { return func(p *PDF) { p.title = title } }

// WithPDFAuthor sets the document author metadata.
func WithPDFAuthor(author string) PDFOption { return func(p *PDF) { p.author = author } }

// WithCompression toggles Flate compression of content streams (default on).
func WithCompression(on bool) PDFOption { return func(p *PDF) { p.compress = on } }

// WithCreationDate fixes the creation date, for reproducible output.
func WithCreationDate(t time.Time) PDFOption { return func(p *PDF) { p.created = t } }

// PDF writes a multi-page PDF document with the core Helvetica fonts.
// Each call to NewPage opens a new page of the configured size.
//
// Surface coordinates are flipped onto fpdf's top-left origin; text is
// measured with [Metrics] like every other surface.
type PDF struct {
	Metrics

	doc           *fpdf.Fpdf
	width, height float64
	title         string
	author        string
	compress      bool
	created       time.Time
	enc           *encoding.Encoder

	out []byte
	err error
}

// NewPDF returns a PDF surface with the given page size in points.
func NewPDF(width, height float64, opts ...PDFOption) *PDF {
	p := &PDF{
		width:    width,
		height:   height,
		compress: true,
		created:  time.Now(),
		enc:      encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
	for _, opt := range opts {
		opt(p)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(p.compress)
	doc.SetProducer("VisionSpec", false)
	doc.SetCreationDate(p.created)
	doc.SetModificationDate(p.created)
	if p.title != "" {
		doc.SetTitle(p.encode(p.title), false)
	}
	if p.author != "" {
		doc.SetAuthor(p.encode(p.author), false)
	}
	p.doc = doc
	return p
}

// NewPage starts a new page.
func (p *PDF) NewPage() {
	p.doc.AddPage()
}

// Pages returns the number of pages started so far.
func (p *PDF) Pages() int { return p.doc.PageCount() }

func (p *PDF) ensurePage() {
	if p.doc.PageCount() == 0 {
		p.doc.AddPage()
	}
}

// flip converts a bottom-left origin y to fpdf's top-left origin.
func (p *PDF) flip(y float64) float64 { return p.height - y }

// Line draws a straight segment.
func (p *PDF) Line(x1, y1, x2, y2 float64, st Stroke) {
	p.ensurePage()
	p.doc.SetDrawColor(st.Color.rgb255())
	p.doc.SetLineWidth(st.Width)
	p.doc.SetDashPattern(st.Dash, 0)
	p.doc.Line(x1, p.flip(y1), x2, p.flip(y2))
	if len(st.Dash) > 0 {
		p.doc.SetDashPattern([]float64{}, 0)
	}
}

// Rect draws a rectangle with its origin at the bottom-left corner.
func (p *PDF) Rect(x, y, w, h float64, fill, stroke *Color, lineWidth float64) {
	if fill == nil && stroke == nil {
		return
	}
	p.ensurePage()
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}

	style := "D"
	if fill != nil {
		p.doc.SetFillColor(fill.rgb255())
		style = "F"
	}
	if stroke != nil {
		p.doc.SetDrawColor(stroke.rgb255())
		p.doc.SetLineWidth(lineWidth)
		if fill != nil {
			style = "FD"
		}
	}
	p.doc.Rect(x, p.flip(y+h), w, h, style)
}

// Text draws s with its baseline at (x, y).
func (p *PDF) Text(x, y float64, s string, f Font, size float64, c Color) {
	p.ensurePage()
	p.doc.SetFont("Helvetica", fontStyle(f), size)
	p.doc.SetTextColor(c.rgb255())
	p.doc.Text(x, p.flip(y), p.encode(s))
}

// encode converts s to WinAnsi, the encoding of the core fonts. Line breaks
// become spaces.
func (p *PDF) encode(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	encoded, err := p.enc.String(s)
	if err != nil {
		return s
	}
	return encoded
}

func fontStyle(f Font) string {
	switch f {
	case HelveticaBold:
		return "B"
	case HelveticaOblique:
		return "I"
	default:
		return ""
	}
}

// Bytes closes the document and returns the PDF file. A document with no
// pages gets one empty page. Later calls return the same result.
func (p *PDF) Bytes() ([]byte, error) {
	if p.out != nil || p.err != nil {
		return p.out, p.err
	}
	p.ensurePage()

	var buf bytes.Buffer
	if err := p.doc.Output(&buf); err != nil {
		p.err = fmt.Errorf("write pdf: %w", err)
		return nil, p.err
	}
	p.out = buf.Bytes()
	return p.out, nil
}

var _ Surface = (*PDF)(nil)
