package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
)

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	cat, err := catalog.New([]catalog.SizeEntry{
		{SizeInches: 50, DiagonalInches: 50, Distance4H: 2.0, Distance6H: 3.0, Distance8H: 4.0},
		{SizeInches: 55, DiagonalInches: 55, Distance4H: 2.4, Distance6H: 3.4, Distance8H: 4.8},
		{SizeInches: 65, DiagonalInches: 65, Distance4H: 3.2, Distance6H: 4.9, Distance8H: 6.5},
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

func newTestServer(t *testing.T, opts ...Option) (*Server, http.Handler) {
	t.Helper()
	srv, err := New(testEngine(t), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createStudy(t *testing.T, h http.Handler) study.Study {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/studies", map[string]any{
		"project_name":       "HQ",
		"client_name":        "Acme",
		"room_name":          "Boardroom",
		"viewing_distance_m": 3.0,
		"eye_height_m":       1.2,
		"white_label":        map[string]any{"company_name": "AV Pros"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /studies = %d: %s", rec.Code, rec.Body)
	}
	return decode[study.Study](t, rec)
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[healthResponse](t, rec); got.Status != "ok" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestSpecs(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/specs", nil)
	if entries := decode[[]catalog.SizeEntry](t, rec); len(entries) != 3 {
		t.Errorf("len(specs) = %d", len(entries))
	}

	tests := []struct {
		path     string
		status   int
		diagonal float64
	}{
		{"/specs/55", http.StatusOK, 55},
		{"/specs/60", http.StatusOK, 60},
		{"/specs/100", http.StatusBadRequest, 0},
		{"/specs/abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.status == http.StatusOK {
				if e := decode[catalog.SizeEntry](t, rec); e.DiagonalInches != tt.diagonal {
					t.Errorf("diagonal = %v, want %v", e.DiagonalInches, tt.diagonal)
				}
			} else if body := decode[errorBody](t, rec); body.Code != "INVALID_INPUT" {
				t.Errorf("code = %q", body.Code)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/recommendations?distance_m=3.0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	got := decode[RecommendationsResponse](t, rec)
	if got.DistanceM != 3 || got.EyeHeightM != DefaultEyeHeightM || got.CeilingHeightM != study.DefaultCeilingHeightM {
		t.Errorf("echoed inputs = %+v", got)
	}
	if len(got.Recommendations) != 3 || len(got.Base) != 3 {
		t.Fatalf("got %d recommendations, %d base rows", len(got.Recommendations), len(got.Base))
	}
	wantRegimes := []recommend.Regime{recommend.Regime4H, recommend.Regime6H, recommend.Regime8H}
	for i, r := range got.Recommendations {
		if r.Regime != wantRegimes[i] {
			t.Errorf("rec %d regime = %s", i, r.Regime)
		}
	}

	if mc, ok := srv.cache.(*cache.MemoryCache); !ok || mc.Len() != 1 {
		t.Error("recommendations should be cached")
	}
}

func TestRecommendationsValidation(t *testing.T) {
	_, h := newTestServer(t)
	for _, q := range []string{
		"",
		"?distance_m=abc",
		"?distance_m=0",
		"?distance_m=3&eye_height_m=2&ceiling_height_m=1.5",
	} {
		rec := do(t, h, http.MethodGet, "/recommendations"+q, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestStudyLifecycle(t *testing.T) {
	_, h := newTestServer(t)
	created := createStudy(t, h)

	if created.ID == "" || created.CeilingHeightM != study.DefaultCeilingHeightM || len(created.Recommendations) != 3 {
		t.Errorf("created = %+v", created)
	}

	rec := do(t, h, http.MethodGet, "/studies/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET study = %d", rec.Code)
	}
	if got := decode[study.Study](t, rec); got.ID != created.ID || got.WhiteLabel.CompanyName != "AV Pros" {
		t.Errorf("got = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/studies", nil)
	if list := decode[[]study.Study](t, rec); len(list) != 1 {
		t.Errorf("list = %d studies", len(list))
	}

	rec = do(t, h, http.MethodGet, "/studies/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing study = %d, want 404", rec.Code)
	}
}

func TestCreateStudyValidation(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"short company", map[string]any{
			"project_name": "HQ", "client_name": "Acme", "room_name": "R",
			"viewing_distance_m": 3.0, "eye_height_m": 1.2,
			"white_label": map[string]any{"company_name": "A"},
		}},
		{"zero distance", map[string]any{
			"project_name": "HQ", "client_name": "Acme", "room_name": "R",
			"viewing_distance_m": 0, "eye_height_m": 1.2,
			"white_label": map[string]any{"company_name": "AV Pros"},
		}},
		{"unknown field", map[string]any{"project": "HQ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/studies", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/studies", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", rec.Code)
	}
}

func TestStudyReport(t *testing.T) {
	_, h := newTestServer(t)
	created := createStudy(t, h)

	tests := []struct {
		path, contentType, prefix, ext string
	}{
		{"/studies/" + created.ID + "/report", "application/pdf", "%PDF-", "pdf"},
		{"/studies/" + created.ID + "/report?format=svg", "image/svg+xml", "<svg", "svg"},
		{"/studies/" + created.ID + "/report?format=json", "application/json", "{", "json"},
		{"/studies/" + created.ID + "/pdf", "application/pdf", "%PDF-", "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q", ct)
			}
			want := "attachment; filename=study-" + created.ID + "." + tt.ext
			if cd := rec.Header().Get("Content-Disposition"); cd != want {
				t.Errorf("Content-Disposition = %q, want %q", cd, want)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("body starts with %.10q", rec.Body.String())
			}
		})
	}

	again := do(t, h, http.MethodGet, "/studies/"+created.ID+"/report?format=svg", nil)
	if again.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", again.Header().Get("X-Cache"))
	}

	bad := do(t, h, http.MethodGet, "/studies/"+created.ID+"/report?format=docx", nil)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("bad format = %d", bad.Code)
	}
	missing := do(t, h, http.MethodGet, "/studies/nope/report", nil)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing study report = %d", missing.Code)
	}
}

func TestReportCacheTracksCatalog(t *testing.T) {
	store := study.NewMemoryStore()
	shared := cache.NewMemoryCache()
	t.Cleanup(func() { shared.Close() })

	before, err := New(testEngine(t), WithStore(store), WithCache(shared))
	if err != nil {
		t.Fatal(err)
	}
	created := createStudy(t, before.Handler())
	path := "/studies/" + created.ID + "/report?format=json"
	do(t, before.Handler(), http.MethodGet, path, nil)
	if got := do(t, before.Handler(), http.MethodGet, path, nil).Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("same catalog X-Cache = %q, want HIT", got)
	}

	cat, err := catalog.New([]catalog.SizeEntry{
		{SizeInches: 50, DiagonalInches: 50, Distance4H: 2.0, Distance6H: 3.0, Distance8H: 4.0},
		{SizeInches: 75, DiagonalInches: 75, Distance4H: 3.6, Distance6H: 5.5, Distance8H: 7.3},
	})
	if err != nil {
		t.Fatal(err)
	}
	eng, err := recommend.New(cat)
	if err != nil {
		t.Fatal(err)
	}
	after, err := New(eng, WithStore(store), WithCache(shared))
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, after.Handler(), http.MethodGet, path, nil)
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("edited catalog X-Cache = %q, want MISS", got)
	}
	if !strings.Contains(rec.Body.String(), `"size_inches": 75`) {
		t.Error("report should be rendered from the edited catalog")
	}

	q := "/recommendations?distance_m=3"
	do(t, before.Handler(), http.MethodGet, q, nil)
	if body := do(t, after.Handler(), http.MethodGet, q, nil).Body.String(); !strings.Contains(body, `"size_inches":75`) {
		t.Errorf("recommendations served from the old catalog: %s", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	_, h := newTestServer(t, WithRateLimit(2, time.Hour))

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("bucket should refill after the window")
	}

	now = now.Add(2 * time.Hour)
	rl.cleanup()
	if len(rl.clients) != 0 {
		t.Errorf("idle buckets should be removed, have %d", len(rl.clients))
	}
	rl.Stop()
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidFormat, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "gone"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "no png"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeConfiguration, "no catalog"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New(errors.ErrCodeConfiguration, "catalog at /secret/path"))
	body := decode[errorBody](t, rec)
	if body.Code != "CONFIGURATION_ERROR" || strings.Contains(body.Message, "/secret") {
		t.Errorf("body = %+v", body)
	}
}
