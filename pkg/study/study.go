// Package study defines viewing studies and their storage backends.
//
// A study captures one room (project, client, room name and its
// measurements), the white-label branding of the integrator who runs it, and
// the three recommendations computed when it was created. Studies are
// immutable once stored; reports are always rebuilt from the stored values.
//
// Backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [MongoStore]: MongoDB collection "studies"
package study

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/visionspec/visionspec/pkg/elevation"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
)

// Defaults applied by [New].
const (
	DefaultCeilingHeightM = 2.8
	DefaultPrimaryColor   = "#111827"
	DefaultAccentColor    = "#2563eb"

	// DefaultListLimit caps List when no limit is requested.
	DefaultListLimit = 50
)

// ErrNotFound is the cause of every NOT_FOUND error returned by a [Store].
var ErrNotFound = stderrors.New("not found")

// WhiteLabel is the integrator branding printed on reports.
type WhiteLabel struct {
	CompanyName  string `json:"company_name" bson:"company_name"`
	PrimaryColor string `json:"primary_color" bson:"primary_color"`
	AccentColor  string `json:"accent_color" bson:"accent_color"`
	LogoURL      string `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
}

// CreateRequest is the input for a new study.
type CreateRequest struct {
	ProjectName      string     `json:"project_name"`
	ClientName       string     `json:"client_name"`
	RoomName         string     `json:"room_name"`
	ViewingDistanceM float64    `json:"viewing_distance_m"`
	EyeHeightM       float64    `json:"eye_height_m"`
	CeilingHeightM   float64    `json:"ceiling_height_m,omitempty"`
	WhiteLabel       WhiteLabel `json:"white_label"`
}

// Study is a stored viewing study.
type Study struct {
	ID               string                     `json:"id" bson:"_id"`
	ProjectName      string                     `json:"project_name" bson:"project_name"`
	ClientName       string                     `json:"client_name" bson:"client_name"`
	RoomName         string                     `json:"room_name" bson:"room_name"`
	ViewingDistanceM float64                    `json:"viewing_distance_m" bson:"viewing_distance_m"`
	EyeHeightM       float64                    `json:"eye_height_m" bson:"eye_height_m"`
	CeilingHeightM   float64                    `json:"ceiling_height_m" bson:"ceiling_height_m"`
	WhiteLabel       WhiteLabel                 `json:"white_label" bson:"white_label"`
	Recommendations  []recommend.Recommendation `json:"recommendations" bson:"recommendations"`
	CreatedAt        time.Time                  `json:"created_at" bson:"created_at"`
}

// Room returns the study's room profile.
func (s *Study) Room() elevation.RoomProfile {
	return elevation.RoomProfile{
		EyeHeightM:       s.EyeHeightM,
		CeilingHeightM:   s.CeilingHeightM,
		ViewingDistanceM: s.ViewingDistanceM,
	}
}

// Validate checks the stored fields the report depends on.
func (s *Study) Validate() error {
	return errors.ValidateRoomProfile(s.ViewingDistanceM, s.EyeHeightM, s.CeilingHeightM)
}

// Store is the interface for study storage backends.
type Store interface {
	// Create stores a new study. The ID must be unique.
	Create(ctx context.Context, s *Study) error

	// Get retrieves a study by ID; a missing study is ErrNotFound.
	Get(ctx context.Context, id string) (*Study, error)

	// List returns up to limit studies, newest first. limit <= 0 means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Study, error)

	// Close releases backend resources.
	Close() error
}

// New validates req, applies defaults and computes the recommendations.
func New(req CreateRequest, engine *recommend.Engine) (*Study, error) {
	if engine == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "study: recommendation engine is required")
	}
	req = withDefaults(req)

	for _, f := range []struct{ name, value string }{
		{"project_name", req.ProjectName},
		{"client_name", req.ClientName},
		{"room_name", req.RoomName},
	} {
		if err := errors.ValidateName(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := errors.ValidateRoomProfile(req.ViewingDistanceM, req.EyeHeightM, req.CeilingHeightM); err != nil {
		return nil, err
	}
	wl := req.WhiteLabel
	if err := errors.ValidateWhiteLabel(wl.CompanyName, wl.PrimaryColor, wl.AccentColor, wl.LogoURL); err != nil {
		return nil, err
	}

	return &Study{
		ID:               uuid.NewString(),
		ProjectName:      req.ProjectName,
		ClientName:       req.ClientName,
		RoomName:         req.RoomName,
		ViewingDistanceM: req.ViewingDistanceM,
		EyeHeightM:       req.EyeHeightM,
		CeilingHeightM:   req.CeilingHeightM,
		WhiteLabel:       wl,
		Recommendations:  engine.ComputeRecommendations(req.ViewingDistanceM, req.EyeHeightM, req.CeilingHeightM),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func withDefaults(req CreateRequest) CreateRequest {
	req.ProjectName = strings.TrimSpace(req.ProjectName)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.RoomName = strings.TrimSpace(req.RoomName)
	req.WhiteLabel.CompanyName = strings.TrimSpace(req.WhiteLabel.CompanyName)
	if req.CeilingHeightM == 0 {
		req.CeilingHeightM = DefaultCeilingHeightM
	}
	if req.WhiteLabel.PrimaryColor == "" {
		req.WhiteLabel.PrimaryColor = DefaultPrimaryColor
	}
	if req.WhiteLabel.AccentColor == "" {
		req.WhiteLabel.AccentColor = DefaultAccentColor
	}
	return req
}

// ValidateID rejects IDs that are not UUIDs.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid study id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "study %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func (s *Study) String() string {
	return fmt.Sprintf("%s (%s / %s / %s)", s.ID, s.ProjectName, s.ClientName, s.RoomName)
}
