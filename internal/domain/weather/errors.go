package weather

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FailureReason tags why a weather acquisition step failed.
type FailureReason string

const (
	ReasonPermissionDenied    FailureReason = "permission_denied"
	ReasonPositionUnavailable FailureReason = "position_unavailable"
	ReasonTimeout             FailureReason = "timeout"
	ReasonNetwork             FailureReason = "network"
	// ReasonCacheMiss is internal; it never reaches users.
	ReasonCacheMiss FailureReason = "cache_miss"
)

// ParseFailureReason accepts the reason names and the browser GeolocationPositionError codes.
func ParseFailureReason(raw string) (FailureReason, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "permission_denied", "1":
		return ReasonPermissionDenied, nil
	case "position_unavailable", "unsupported", "2":
		return ReasonPositionUnavailable, nil
	case "timeout", "3":
		return ReasonTimeout, nil
	default:
		return "", fmt.Errorf("unknown geolocation failure %q", raw)
	}
}

// Error is the typed failure surfaced by the weather domain.
type Error struct {
	Reason FailureReason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather %s: %v", e.Reason, e.Err)
	}
	return "weather " + string(e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Advisory is the text shown to end users when this failure was recovered or surfaced.
func (e *Error) Advisory() string {
	if e == nil {
		return ""
	}
	switch e.Reason {
	case ReasonPermissionDenied:
		return "Location permission denied."
	case ReasonPositionUnavailable:
		return "Location information is unavailable."
	case ReasonTimeout:
		return "Location request timed out."
	case ReasonNetwork:
		var apiErr *APIError
		if errors.As(e.Err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return "Location not found."
		}
		return "Weather service is unavailable."
	default:
		return ""
	}
}

// APIError is returned by providers for non-2xx upstream responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather api error: status=%d body=%s", e.StatusCode, e.Body)
}

func asError(err error, fallback FailureReason) *Error {
	var werr *Error
	if errors.As(err, &werr) {
		return werr
	}
	return &Error{Reason: fallback, Err: err}
}
