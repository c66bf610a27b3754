package report

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/observability"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
	"github.com/visionspec/visionspec/pkg/surface"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// PNGScale is the rasterization factor for PNG output.
const PNGScale = 2.0

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Filename returns the download name of a study's report.
func Filename(studyID, format string) string {
	return "study-" + studyID + "." + format
}

// Render builds the report of st and encodes it as format.
func Render(ctx context.Context, st *study.Study, engine *recommend.Engine, format string, opts Options) (data []byte, err error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))

	start := time.Now()
	defer func() {
		observability.Report().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	switch format {
	case FormatJSON:
		sum, err := Plan(ctx, st, engine, opts)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(sum, "", "  ")

	case FormatPDF:
		pdf := surface.NewPDF(PageWidth, PageHeight,
			surface.WithPDFTitle(title(st)),
			surface.WithPDFAuthor(author(st)),
		)
		if _, err := Build(ctx, st, engine, pdf, opts); err != nil {
			return nil, err
		}
		return pdf.Bytes()

	default:
		svg := surface.NewSVG(PageWidth, PageHeight, surface.WithTitle(title(st)))
		if _, err := Build(ctx, st, engine, svg, opts); err != nil {
			return nil, err
		}
		if format == FormatSVG {
			return svg.Bytes(), nil
		}
		return surface.ToPNG(ctx, svg.Bytes(), PNGScale)
	}
}

func title(st *study.Study) string {
	if st == nil {
		return TitleText
	}
	return Title(st.WhiteLabel.CompanyName) + " · " + st.ProjectName
}

func author(st *study.Study) string {
	if st == nil {
		return ""
	}
	return st.WhiteLabel.CompanyName
}
