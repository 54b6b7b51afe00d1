package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateDimensions checks that a canvas size is finite and positive.
// Every position and radius formula divides by a dimension, so zero is
// rejected rather than clamped.
func ValidateDimensions(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return New(ErrCodeInvalidDimensions, "canvas width must be positive, got %g", width)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		return New(ErrCodeInvalidDimensions, "canvas height must be positive, got %g", height)
	}
	return nil
}

// ValidatePalette checks that a palette has at least one non-blank color.
func ValidatePalette(palette []string) error {
	if len(palette) == 0 {
		return New(ErrCodeInvalidPalette, "palette must contain at least one color")
	}
	for i, c := range palette {
		if strings.TrimSpace(c) == "" {
			return New(ErrCodeInvalidPalette, "palette color %d is empty", i)
		}
		if strings.ContainsAny(c, `"<>&`) {
			return New(ErrCodeInvalidPalette, "palette color %d contains invalid characters: %q", i, c)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	return nil
}

// showcaseNameRegex matches names usable as URL path segments and cache keys.
var showcaseNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateShowcaseName validates a showcase name.
//
// Names appear in URLs (/showcases/{name}.svg) and file names, so the rules
// are conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Lowercase letters, digits, dash and underscore only
func ValidateShowcaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "showcase name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidName, "showcase name too long (max 64 characters)")
	}
	if !showcaseNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid showcase name: %q", name)
	}
	return nil
}

// ValidateLabel rejects labels containing control characters.
// Empty labels are allowed and render as a minimum-size bubble.
func ValidateLabel(label string) error {
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains control characters", label)
		}
	}
	return nil
}
