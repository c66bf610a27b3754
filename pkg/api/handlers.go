package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/visionspec/visionspec/pkg/buildinfo"
	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/report"
	"github.com/visionspec/visionspec/pkg/study"
)

// RecommendationsResponse is the body of GET /recommendations.
type RecommendationsResponse struct {
	DistanceM       float64                    `json:"distance_m"`
	EyeHeightM      float64                    `json:"eye_height_m"`
	CeilingHeightM  float64                    `json:"ceiling_height_m"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Base            []catalog.SizeEntry        `json:"base"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) listSpecs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Catalog().Entries())
}

func (s *Server) getSpec(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "size")
	size, err := strconv.Atoi(raw)
	if err != nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "size must be an integer, got %q", raw))
		return
	}
	entry, err := s.engine.Catalog().Interpolate(size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	distance, err := floatParam(q.Get("distance_m"), "distance_m", 0, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	eye, err := floatParam(q.Get("eye_height_m"), "eye_height_m", DefaultEyeHeightM, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ceiling, err := floatParam(q.Get("ceiling_height_m"), "ceiling_height_m", study.DefaultCeilingHeightM, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := errors.ValidateRoomProfile(distance, eye, ceiling); err != nil {
		s.fail(w, r, err)
		return
	}

	key := s.keys.RecommendationKey(s.catHash, distance, eye, ceiling)
	data, _, err := cache.Fetch(r.Context(), s.cache, cache.KeyTypeRecommendation, key, cache.RecommendationTTL, func() ([]byte, error) {
		return json.Marshal(RecommendationsResponse{
			DistanceM:       distance,
			EyeHeightM:      eye,
			CeilingHeightM:  ceiling,
			Recommendations: s.engine.ComputeRecommendations(distance, eye, ceiling),
			Base:            s.engine.Catalog().Entries(),
		})
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) createStudy(w http.ResponseWriter, r *http.Request) {
	var req study.CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	st, err := study.New(req, s.engine)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Create(r.Context(), st); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("created study", "id", st.ID, "project", st.ProjectName)
	w.Header().Set("Location", "/studies/"+st.ID)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) listStudies(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}
	studies, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if studies == nil {
		studies = []*study.Study{}
	}
	writeJSON(w, http.StatusOK, studies)
}

func (s *Server) getStudy(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) studyReport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatPDF
	}
	s.serveReport(w, r, format)
}

func (s *Server) studyPDF(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, report.FormatPDF)
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, format string) {
	if err := errors.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	key := s.keys.ReportKey(st.ID, cache.ReportKeyOpts{
		Format:       format,
		SlotsPerPage: s.render.SlotsPerPage,
		Scale:        s.render.Scale,
		CatalogHash:  s.catHash,
	})
	data, hit, err := cache.Fetch(r.Context(), s.cache, cache.KeyTypeReport, key, cache.ReportTTL, func() ([]byte, error) {
		return report.Render(r.Context(), st, s.engine, format, s.render)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(st.ID, format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusCode(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

// floatParam parses a query value; an absent optional value yields def.
func floatParam(raw, name string, def float64, required bool) (float64, error) {
	if raw == "" {
		if required {
			return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
	}
	return v, nil
}
