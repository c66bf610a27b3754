package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds free-text study fields (project, client, room).
const maxNameLength = 200

// ValidatePositive rejects zero, negative, NaN and infinite measurements.
// The name is used verbatim in the error message (e.g. "eye_height_m").
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be greater than 0, got %g", name, v)
	}
	return nil
}

// ValidateRoomProfile validates the measurements of a room before they reach
// the recommendation and layout engines.
//
// Rules:
//   - distance, eye height and ceiling height must all be positive
//   - the ceiling must be strictly above the eye line
//
// The layout engine itself degrades gracefully for inverted profiles; this
// check is applied at the boundaries (CLI flags, HTTP requests, report build).
func ValidateRoomProfile(distanceM, eyeHeightM, ceilingHeightM float64) error {
	if err := ValidatePositive("viewing_distance_m", distanceM); err != nil {
		return err
	}
	if err := ValidatePositive("eye_height_m", eyeHeightM); err != nil {
		return err
	}
	if err := ValidatePositive("ceiling_height_m", ceilingHeightM); err != nil {
		return err
	}
	if ceilingHeightM <= eyeHeightM {
		return New(ErrCodeInvalidInput, "ceiling_height_m (%g) must be greater than eye_height_m (%g)", ceilingHeightM, eyeHeightM)
	}
	return nil
}

// ValidateName validates a free-text study field such as the project name.
//   - No empty or whitespace-only values
//   - No control characters
//   - Maximum length of 200 characters
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if len(value) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxNameLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateCompanyName validates the white-label company name, which must be
// at least two characters long.
func ValidateCompanyName(name string) error {
	if err := ValidateName("company_name", name); err != nil {
		return err
	}
	if len([]rune(strings.TrimSpace(name))) < 2 {
		return New(ErrCodeInvalidInput, "company_name must have at least 2 characters")
	}
	return nil
}

// ValidateHexColor validates a "#rrggbb" color string. Empty strings are
// accepted so callers can fall back to their defaults.
func ValidateHexColor(field, value string) error {
	if value == "" {
		return nil
	}
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 || !strings.HasPrefix(value, "#") {
		return New(ErrCodeInvalidInput, "%s must be a #rrggbb color, got %q", field, value)
	}
	for _, r := range hex {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidInput, "%s must be a #rrggbb color, got %q", field, value)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https). Empty is accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateWhiteLabel validates the branding attached to a study.
func ValidateWhiteLabel(companyName, primaryColor, accentColor, logoURL string) error {
	if err := ValidateCompanyName(companyName); err != nil {
		return err
	}
	if err := ValidateHexColor("primary_color", primaryColor); err != nil {
		return err
	}
	if err := ValidateHexColor("accent_color", accentColor); err != nil {
		return err
	}
	return ValidateURL(logoURL)
}

// Formats lists the supported report output formats.
var Formats = []string{"svg", "pdf", "png", "json"}

// ValidateFormat rejects report formats other than [Formats].
func ValidateFormat(format string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
