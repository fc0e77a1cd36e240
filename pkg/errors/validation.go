package errors

import (
	"math"
	"strings"
)

// ValidateURL checks a backend base URL. Only http and https are accepted,
// and the URL must name a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "backend URL cannot be empty")
	}
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "http://")
	}
	if !ok {
		return New(ErrCodeInvalidInput, "backend URL must use http or https, got %q", rawURL)
	}
	if rest == "" || rest[0] == '/' {
		return New(ErrCodeInvalidInput, "backend URL has no host: %q", rawURL)
	}
	return nil
}

// ValidateCoordinate checks a pointer coordinate. Coordinates may be negative
// or beyond the canvas (both simply miss every gate) but must be finite.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	return nil
}

// maxCanvasSide bounds canvas dimensions accepted from flags and requests.
const maxCanvasSide = 16384

// ValidateDimension checks a canvas width or height.
// Zero is accepted and means "natural size".
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative", name)
	}
	if v > maxCanvasSide {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, maxCanvasSide)
	}
	return nil
}
