package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/moodmate/internal/domain/auth"
	"github.com/yanqian/moodmate/internal/infra/config"
	"github.com/yanqian/moodmate/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	httpLogger := logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(httpLogger),
		metricsMiddleware(m),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(httpLogger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, clockwork.NewRealClock(), httpLogger),
	)

	router.GET("/healthz", handler.Healthz)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
	}

	protected := api.Group("")
	protected.Use(authMiddleware(authSvc))
	{
		protected.POST("/auth/logout", handler.Logout)
		protected.GET("/me", handler.Me)
		protected.PUT("/me/language", handler.UpdateLanguage)

		protected.POST("/weather/location", handler.WeatherByLocation)
		protected.POST("/weather/city", handler.WeatherByCity)
		protected.PUT("/mood", handler.SelectMood)
		protected.GET("/dashboard", handler.Dashboard)
		protected.GET("/moods", handler.Moods)

		protected.GET("/recommendations", handler.Recommendations)
		protected.GET("/recommendations/history", handler.History)
		protected.POST("/recommendations/:id/feedback", handler.Feedback)

		protected.POST("/improvements", handler.AnalyzeImprovements)
		protected.GET("/improvements", handler.Improvements)

		protected.PUT("/places/location", handler.TrackPlaces)
		protected.DELETE("/places/location", handler.UntrackPlaces)
		protected.GET("/places", handler.Places)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
