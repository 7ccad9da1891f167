package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

type placesLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TrackPlaces starts the nearby places refresher for the caller.
func (h *Handler) TrackPlaces(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req placesLocationRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "latitude and longitude are required", nil))
		return
	}
	result, err := h.places.Track(c.Request.Context(), userID, weather.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UntrackPlaces stops the refresher; the client no longer has a location.
func (h *Handler) UntrackPlaces(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.places.Untrack(userID)
	c.Status(http.StatusNoContent)
}

// Places returns the latest nearby results.
func (h *Handler) Places(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, found := h.places.Latest(userID)
	if !found {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no tracked location", nil))
		return
	}
	c.JSON(http.StatusOK, result)
}
