package recommend

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/errors"
)

func mustCatalog(t *testing.T, entries ...catalog.SizeEntry) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}
	return cat
}

func mustEngine(t *testing.T, cat *catalog.Catalog) *Engine {
	t.Helper()
	eng, err := New(cat)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return eng
}

func bundled(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Load(filepath.Join("..", "..", "data", catalog.FileName))
	if err != nil {
		t.Fatalf("catalog.Load() error: %v", err)
	}
	return mustEngine(t, cat)
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(nil)
	if !errors.IsConfiguration(err) {
		t.Fatalf("New(nil) error = %v, want configuration error", err)
	}
}

func TestRecommendScenario65(t *testing.T) {
	cat := mustCatalog(t, catalog.SizeEntry{
		SizeInches: 65, DiagonalInches: 65.0, Distance4H: 2.5, Distance6H: 3.75, Distance8H: 5.0,
	})
	eng := mustEngine(t, cat)

	rec := eng.Recommend(2.0, Regime4H, 1.2, 2.8)
	if rec.SizeInches != 65 {
		t.Errorf("SizeInches = %d, want 65", rec.SizeInches)
	}
	if !rec.WithinSpec {
		t.Error("WithinSpec = false, want true")
	}
	if rec.MaxDistanceM != 2.5 {
		t.Errorf("MaxDistanceM = %v, want 2.5", rec.MaxDistanceM)
	}
	if rec.Regime != Regime4H {
		t.Errorf("Regime = %q, want 4H", rec.Regime)
	}
}

func TestRecommendSelection(t *testing.T) {
	cat := mustCatalog(t,
		catalog.SizeEntry{SizeInches: 43, DiagonalInches: 43, Distance4H: 2.0, Distance6H: 3.0, Distance8H: 4.0},
		catalog.SizeEntry{SizeInches: 55, DiagonalInches: 55, Distance4H: 2.6, Distance6H: 3.9, Distance8H: 5.2},
		catalog.SizeEntry{SizeInches: 75, DiagonalInches: 75, Distance4H: 3.6, Distance6H: 5.4, Distance8H: 7.2},
	)
	eng := mustEngine(t, cat)

	tests := []struct {
		name       string
		distance   float64
		regime     Regime
		wantSize   int
		withinSpec bool
	}{
		{"below smallest", 0.5, Regime4H, 43, true},
		{"equals smallest", 2.0, Regime4H, 43, true},
		{"just above smallest", 2.01, Regime4H, 55, true},
		{"middle 6H", 4.0, Regime6H, 75, true},
		{"8H smallest", 4.0, Regime8H, 43, true},
		{"equals largest", 3.6, Regime4H, 75, true},
		{"oversize fallback", 10, Regime4H, 75, false},
		{"oversize fallback 8H", 7.3, Regime8H, 75, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := eng.Recommend(tt.distance, tt.regime, 1.2, 2.8)
			if rec.SizeInches != tt.wantSize {
				t.Errorf("SizeInches = %d, want %d", rec.SizeInches, tt.wantSize)
			}
			if rec.WithinSpec != tt.withinSpec {
				t.Errorf("WithinSpec = %v, want %v", rec.WithinSpec, tt.withinSpec)
			}
		})
	}
}

func TestRecommendMonotonic(t *testing.T) {
	eng := bundled(t)
	for _, r := range Regimes {
		prev := 0
		for d := 0.5; d <= 20; d += 0.05 {
			size := eng.Recommend(d, r, 1.2, 2.8).SizeInches
			if size < prev {
				t.Fatalf("%s: size decreased from %d to %d at d=%.2f", r, prev, size, d)
			}
			prev = size
		}
	}
}

func TestAspectRatio(t *testing.T) {
	eng := bundled(t)
	for _, e := range eng.Catalog().Entries() {
		for _, r := range Regimes {
			rec := eng.Recommend(e.MaxDistance(r), r, 1.2, 2.8)
			if got := rec.ScreenWidthM / rec.ScreenHeightM; math.Abs(got-16.0/9.0) > 1e-12 {
				t.Errorf("%d\" %s: width/height = %v", rec.SizeInches, r, got)
			}
			if math.Abs(rec.ScreenHeightIn*MetersPerInch-rec.ScreenHeightM) > 1e-12 {
				t.Errorf("%d\": inch and meter heights disagree", rec.SizeInches)
			}
		}
	}
}

func TestScreenHeight(t *testing.T) {
	// 65" 16:9 panel is about 0.809 m tall.
	if got := ScreenHeightM(65); math.Abs(got-0.80942) > 1e-4 {
		t.Errorf("ScreenHeightM(65) = %v, want ~0.80942", got)
	}
	if math.Abs(HeightFraction-0.49026) > 1e-4 {
		t.Errorf("HeightFraction = %v", HeightFraction)
	}
}

func TestComputeRecommendationsOrder(t *testing.T) {
	eng := bundled(t)
	recs := eng.ComputeRecommendations(3.0, 1.2, 2.8)
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	for i, want := range []Regime{Regime4H, Regime6H, Regime8H} {
		if recs[i].Regime != want {
			t.Errorf("recs[%d].Regime = %q, want %q", i, recs[i].Regime, want)
		}
	}
	if !(recs[0].SizeInches >= recs[1].SizeInches && recs[1].SizeInches >= recs[2].SizeInches) {
		t.Errorf("sizes should not increase from 4H to 8H: %d %d %d",
			recs[0].SizeInches, recs[1].SizeInches, recs[2].SizeInches)
	}
}

func TestFitsCeiling(t *testing.T) {
	tests := []struct {
		name    string
		eye     float64
		height  float64
		ceiling float64
		want    bool
	}{
		{"boundary inclusive", 1.7, 1.0, 2.8, true},
		{"too tall", 1.7, 1.2, 2.8, false},
		{"plenty of room", 1.2, 0.8, 2.8, true},
		{"inverted room", 2.0, 0.5, 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitsCeiling(tt.eye, tt.height, tt.ceiling); got != tt.want {
				t.Errorf("FitsCeiling(%v, %v, %v) = %v, want %v", tt.eye, tt.height, tt.ceiling, got, tt.want)
			}
		})
	}
}

func TestWithFitsCeilingCopies(t *testing.T) {
	rec := Recommendation{SizeInches: 65, FitsCeiling: true}
	changed := rec.WithFitsCeiling(false)
	if !rec.FitsCeiling {
		t.Error("WithFitsCeiling mutated the receiver")
	}
	if changed.FitsCeiling || changed.SizeInches != 65 {
		t.Errorf("WithFitsCeiling() = %+v", changed)
	}
}
