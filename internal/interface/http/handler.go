package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moodmate/internal/domain/auth"
	"github.com/yanqian/moodmate/internal/domain/dashboard"
	"github.com/yanqian/moodmate/internal/domain/improvement"
	"github.com/yanqian/moodmate/internal/domain/places"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
)

// PlacesTracker is the part of the places refresher the transport needs.
type PlacesTracker interface {
	Track(ctx context.Context, userID string, loc weather.Coordinates) (places.Result, error)
	Untrack(userID string)
	Latest(userID string) (places.Result, bool)
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc           auth.Service
	dashboardSvc      dashboard.Service
	recommendationSvc recommendation.Service
	improvementSvc    improvement.Service
	places            PlacesTracker
	logger            *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	authSvc auth.Service,
	dashboardSvc dashboard.Service,
	recommendationSvc recommendation.Service,
	improvementSvc improvement.Service,
	tracker PlacesTracker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:           authSvc,
		dashboardSvc:      dashboardSvc,
		recommendationSvc: recommendationSvc,
		improvementSvc:    improvementSvc,
		places:            tracker,
		logger:            logger.With("component", "http.handler"),
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

// queryLimit parses ?limit=, returning 0 when absent.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
		return 0, false
	}
	return limit, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
