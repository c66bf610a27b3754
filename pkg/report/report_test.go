package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/elevation"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/observability"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
	"github.com/visionspec/visionspec/pkg/surface"
)

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	cat, err := catalog.New([]catalog.SizeEntry{
		{SizeInches: 55, DiagonalInches: 55, Distance4H: 2.7, Distance6H: 4.1, Distance8H: 5.5},
		{SizeInches: 65, DiagonalInches: 65, Distance4H: 3.2, Distance6H: 4.9, Distance8H: 6.5},
		{SizeInches: 85, DiagonalInches: 85, Distance4H: 4.2, Distance6H: 6.4, Distance8H: 8.5},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	eng, err := recommend.New(cat)
	if err != nil {
		t.Fatalf("recommend.New: %v", err)
	}
	return eng
}

// standingStudy picks 85" for 4H, which exceeds a 2.8 m ceiling at a 1.7 m
// eye line, and 55" for 6H and 8H, which fit.
func standingStudy() *study.Study {
	return &study.Study{
		ID:               "5f0c7a4e-2d7b-4b8e-9a57-0b8a3c9f6d21",
		ProjectName:      "Headquarters",
		ClientName:       "Acme",
		RoomName:         "Lobby",
		ViewingDistanceM: 4.0,
		EyeHeightM:       1.7,
		CeilingHeightM:   2.8,
		WhiteLabel: study.WhiteLabel{
			CompanyName:  "AV Pros",
			PrimaryColor: "#111827",
			AccentColor:  "#2563eb",
		},
	}
}

func TestPlan(t *testing.T) {
	sum, err := Plan(context.Background(), standingStudy(), testEngine(t), Options{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if sum.SlotsPerPage != DefaultSlotsPerPage {
		t.Errorf("SlotsPerPage = %d", sum.SlotsPerPage)
	}
	if sum.Pages != 3 {
		t.Errorf("Pages = %d, want 3 (summary + 2 elevation pages)", sum.Pages)
	}
	if len(sum.Elevations) != 3 || len(sum.Recommendations) != 3 {
		t.Fatalf("got %d elevations, %d recommendations", len(sum.Elevations), len(sum.Recommendations))
	}

	wantSizes := []int{85, 55, 55}
	wantFits := []bool{false, true, true}
	for i, e := range sum.Elevations {
		rec := sum.Recommendations[i]
		if rec.SizeInches != wantSizes[i] {
			t.Errorf("rec %d size = %d, want %d", i, rec.SizeInches, wantSizes[i])
		}
		if rec.FitsCeiling != e.Geometry.FitsCeiling {
			t.Errorf("rec %d FitsCeiling = %v, layout says %v", i, rec.FitsCeiling, e.Geometry.FitsCeiling)
		}
		if rec.FitsCeiling != wantFits[i] {
			t.Errorf("rec %d FitsCeiling = %v, want %v", i, rec.FitsCeiling, wantFits[i])
		}
		if e.Placement.Recommendation != rec {
			t.Errorf("placement %d should carry the final recommendation", i)
		}
	}

	if !sum.Elevations[0].Geometry.Clipped {
		t.Error("exceeding screen should be clipped")
	}
	pages := [][2]int{{0, 0}, {0, 1}, {1, 0}}
	for i, p := range pages {
		pl := sum.Elevations[i].Placement
		if pl.PageIndex != p[0] || pl.SlotIndex != p[1] {
			t.Errorf("placement %d = (%d, %d), want %v", i, pl.PageIndex, pl.SlotIndex, p)
		}
	}
}

func TestPlanScale(t *testing.T) {
	st := standingStudy()
	eng := testEngine(t)

	auto, err := Plan(context.Background(), st, eng, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := elevation.FitScale(auto.Elevations[0].Placement.Area, st.Room())
	if auto.Scale != want || auto.Scale <= 0 {
		t.Errorf("auto Scale = %v, want %v", auto.Scale, want)
	}

	fixed, err := Plan(context.Background(), st, eng, Options{Scale: 50})
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range fixed.Elevations {
		if e.Geometry.Scale != 50 {
			t.Errorf("elevation %d scale = %v, want 50", i, e.Geometry.Scale)
		}
	}

	if _, err := Plan(context.Background(), st, eng, Options{Scale: -1}); !errors.IsInvalidInput(err) {
		t.Errorf("negative scale error = %v", err)
	}
}

func TestPlanSlots(t *testing.T) {
	sum, err := Plan(context.Background(), standingStudy(), testEngine(t), Options{SlotsPerPage: 3})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Pages != 2 {
		t.Errorf("Pages = %d, want 2", sum.Pages)
	}
	for i, e := range sum.Elevations {
		if e.Placement.PageIndex != 0 || e.Placement.SlotIndex != i {
			t.Errorf("placement %d = %+v", i, e.Placement)
		}
	}
}

func TestPlanRejectsCollapsedSlots(t *testing.T) {
	for _, slots := range []int{15, 40} {
		t.Run(fmt.Sprint(slots), func(t *testing.T) {
			_, err := Plan(context.Background(), standingStudy(), testEngine(t), Options{SlotsPerPage: slots})
			if !errors.IsInvalidInput(err) {
				t.Errorf("Plan error = %v, want invalid input", err)
			}
		})
	}
}

func TestPlanFitsCeilingIgnoresSlots(t *testing.T) {
	eng := testEngine(t)
	for _, opts := range []Options{{SlotsPerPage: 2}, {SlotsPerPage: 14}, {SlotsPerPage: 40, Scale: 50}} {
		sum, err := Plan(context.Background(), standingStudy(), eng, opts)
		if err != nil {
			t.Fatalf("%+v: %v", opts, err)
		}
		if r := sum.Recommendations[0]; r.SizeInches != 85 || r.FitsCeiling {
			t.Errorf("%+v: 4H = %d\" fits=%v, want 85\" fits=false", opts, r.SizeInches, r.FitsCeiling)
		}
	}
}

func TestPlanValidation(t *testing.T) {
	eng := testEngine(t)

	inverted := standingStudy()
	inverted.CeilingHeightM = 1.5
	if _, err := Plan(context.Background(), inverted, eng, Options{}); !errors.IsInvalidInput(err) {
		t.Errorf("inverted room error = %v", err)
	}
	if _, err := Plan(context.Background(), nil, eng, Options{}); !errors.IsInvalidInput(err) {
		t.Errorf("nil study error = %v", err)
	}
	if _, err := Plan(context.Background(), standingStudy(), nil, Options{}); !errors.IsConfiguration(err) {
		t.Errorf("nil engine error = %v", err)
	}
}

func TestBuild(t *testing.T) {
	rec := surface.NewRecorder()
	st := standingStudy()

	sum, err := Build(context.Background(), st, testEngine(t), rec, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rec.Pages() != sum.Pages {
		t.Errorf("recorder pages = %d, summary says %d", rec.Pages(), sum.Pages)
	}

	if op, ok := rec.FindText(Title("AV Pros")); !ok || op.Page != 0 {
		t.Errorf("title op = %+v, %v", op, ok)
	}
	for _, row := range StudyRows(st) {
		if _, ok := rec.FindText(row); !ok {
			t.Errorf("missing study row %q", row)
		}
	}
	for _, r := range sum.Recommendations {
		if _, ok := rec.FindText(RecommendationLine(r)); !ok {
			t.Errorf("missing recommendation line %q", RecommendationLine(r))
		}
	}

	footers := 0
	screens := 0
	for _, op := range rec.Ops {
		if op.Kind == surface.OpText && op.Text == FooterText {
			footers++
		}
		if op.Kind == surface.OpRect && op.Page > 0 && op.Filled && op.X2-op.X1 > 20 {
			screens++
		}
	}
	if footers != sum.Pages {
		t.Errorf("footers = %d, want one per page (%d)", footers, sum.Pages)
	}
	if screens != 3 {
		t.Errorf("screen rects on elevation pages = %d, want 3", screens)
	}
}

func TestRecommendationLine(t *testing.T) {
	r := recommend.Recommendation{Regime: recommend.Regime6H, SizeInches: 65, ScreenHeightM: 0.8094, WithinSpec: true, FitsCeiling: true}
	if got, want := RecommendationLine(r), `6H – Presentation content: 65" (height 0.81 m) - fits`; got != want {
		t.Errorf("RecommendationLine = %q, want %q", got, want)
	}

	r.WithinSpec, r.FitsCeiling = false, false
	if got := RecommendationLine(r); !strings.Contains(got, "beyond catalog range") || !strings.HasSuffix(got, "does not fit") {
		t.Errorf("RecommendationLine = %q", got)
	}
}

func TestRender(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetReportHooks(hooks)

	ctx := context.Background()
	st := standingStudy()
	eng := testEngine(t)

	svg, err := Render(ctx, st, eng, FormatSVG, Options{})
	if err != nil {
		t.Fatalf("Render svg: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("AV Pros")) {
		t.Errorf("unexpected svg output: %.80s", svg)
	}

	pdf, err := Render(ctx, st, eng, "PDF", Options{})
	if err != nil {
		t.Fatalf("Render pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("unexpected pdf header: %.10q", pdf)
	}
	if !bytes.Contains(pdf, []byte("/Count 3")) {
		t.Error("pdf should have 3 pages")
	}

	raw, err := Render(ctx, st, eng, FormatJSON, Options{})
	if err != nil {
		t.Fatalf("Render json: %v", err)
	}
	var doc struct {
		Pages           int `json:"pages"`
		Recommendations []struct {
			SizeInches  int  `json:"size_inches"`
			FitsCeiling bool `json:"fits_ceiling"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("json: %v", err)
	}
	if doc.Pages != 3 || len(doc.Recommendations) != 3 || doc.Recommendations[0].FitsCeiling {
		t.Errorf("json summary = %+v", doc)
	}

	if hooks.renders["svg"] != 1 || hooks.renders["pdf"] != 1 || hooks.renders["json"] != 1 {
		t.Errorf("render hooks = %v", hooks.renders)
	}
	if hooks.layouts != 9 {
		t.Errorf("layout hooks = %d, want 9", hooks.layouts)
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	_, err := Render(context.Background(), standingStudy(), testEngine(t), "docx", Options{})
	if !errors.IsInvalidInput(err) {
		t.Errorf("error = %v, want invalid format", err)
	}
}

func TestContentTypeAndFilename(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatPDF:  "application/pdf",
		FormatPNG:  "image/png",
		FormatJSON: "application/json",
		"bin":      "application/octet-stream",
	}
	for f, want := range tests {
		if got := ContentType(f); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", f, got, want)
		}
	}
	if got := Filename("abc", "pdf"); got != "study-abc.pdf" {
		t.Errorf("Filename = %q", got)
	}
}

type recordingHooks struct {
	observability.NoopReportHooks
	layouts int
	renders map[string]int
}

func (h *recordingHooks) OnLayout(context.Context, string, bool, bool) { h.layouts++ }

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, err error) {
	if h.renders == nil {
		h.renders = make(map[string]int)
	}
	if err == nil {
		h.renders[format]++
	}
}
