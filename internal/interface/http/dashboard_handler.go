package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/weather"
)

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// Error is the geolocation failure reported by the device, by name or
	// GeolocationPositionError code.
	Error string `json:"error"`
}

type cityRequest struct {
	City string `json:"city"`
}

type moodRequest struct {
	Mood string `json:"mood"`
}

func (r locationRequest) query() (weather.LocationQuery, *HTTPError) {
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return weather.LocationQuery{}, NewHTTPError(http.StatusBadRequest, "invalid_request", "latitude and longitude must be sent together", nil)
	}
	reason, err := weather.ParseFailureReason(r.Error)
	if err != nil {
		return weather.LocationQuery{}, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err)
	}
	if r.Latitude != nil {
		return weather.LocationQuery{
			Coordinates: &weather.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude},
			GeoFailure:  reason,
		}, nil
	}
	if reason == "" {
		// No coordinates and no reported failure means geolocation is unsupported.
		reason = weather.ReasonPositionUnavailable
	}
	return weather.LocationQuery{GeoFailure: reason}, nil
}

// WeatherByLocation refreshes the dashboard from device geolocation.
func (h *Handler) WeatherByLocation(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req locationRequest
	if !bindJSON(c, &req) {
		return
	}
	q, httpErr := req.query()
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	view, err := h.dashboardSvc.RefreshByLocation(c.Request.Context(), userID, q)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// WeatherByCity refreshes the dashboard from a searched city.
func (h *Handler) WeatherByCity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req cityRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.dashboardSvc.RefreshByCity(c.Request.Context(), userID, req.City)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectMood overrides the derived mood; an empty mood clears the override.
func (h *Handler) SelectMood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req moodRequest
	if !bindJSON(c, &req) {
		return
	}
	var selected mood.Mood
	if strings.TrimSpace(req.Mood) != "" {
		parsed, err := mood.Parse(req.Mood)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", err.Error(), err))
			return
		}
		selected = parsed
	}
	view, err := h.dashboardSvc.SelectMood(c.Request.Context(), userID, selected)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Dashboard returns the last applied view.
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.dashboardSvc.Current(userID))
}

// Moods lists the selectable moods.
func (h *Handler) Moods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"moods": mood.All()})
}
