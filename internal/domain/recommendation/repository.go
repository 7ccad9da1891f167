package recommendation

import "context"

// HistoryRepository persists AI suggestions and their feedback.
type HistoryRepository interface {
	AddHistory(ctx context.Context, entries []HistoryEntry) error
	// ListHistory returns the newest entries first. An empty userID lists every user.
	ListHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	GetHistory(ctx context.Context, id string) (HistoryEntry, bool, error)
	UpdateFeedback(ctx context.Context, id string, rating int, helpful *bool) (HistoryEntry, error)
}

// WeatherLogRepository persists the weather context of each AI request.
type WeatherLogRepository interface {
	AddWeatherLog(ctx context.Context, entry WeatherLogEntry) error
	// ListWeatherLogs returns the newest entries first. An empty userID lists every user.
	ListWeatherLogs(ctx context.Context, userID string, limit int) ([]WeatherLogEntry, error)
}
