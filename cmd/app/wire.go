//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/moodmate/internal/bootstrap"
	"github.com/yanqian/moodmate/internal/domain/auth"
	"github.com/yanqian/moodmate/internal/domain/dashboard"
	"github.com/yanqian/moodmate/internal/domain/improvement"
	"github.com/yanqian/moodmate/internal/domain/places"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
	"github.com/yanqian/moodmate/internal/infra/config"
	httpiface "github.com/yanqian/moodmate/internal/interface/http"
	"github.com/yanqian/moodmate/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideRegistry,
		provideMetrics,
		providePostgresPool,
		provideAuthConfig,
		provideAuthRepository,
		provideHistoryStore,
		provideHistoryRepository,
		provideWeatherLogRepository,
		provideImprovementRepository,
		provideWeatherConfig,
		provideWeatherProvider,
		provideWeatherCache,
		provideChatClient,
		provideTokenCounter,
		provideRecommendationProvider,
		provideImprovementConfig,
		providePlacesConfig,
		providePlacesService,
		recommendation.DefaultCatalog,
		recommendation.NewService,
		weather.NewService,
		dashboard.NewService,
		improvement.NewService,
		places.NewTracker,
		auth.NewService,
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		wire.Bind(new(httpiface.PlacesTracker), new(*places.Tracker)),
		wire.Bind(new(bootstrap.Closer), new(*places.Tracker)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
