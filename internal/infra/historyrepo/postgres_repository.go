package historyrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
)

// PostgresRepository persists history and weather logs using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const historyColumns = `id::text, user_id::text, location, weather_condition, mood, recommendation_type,
	recommendation_data, user_feedback, was_helpful, created_at`

// AddHistory inserts all entries in one batch.
func (r *PostgresRepository) AddHistory(ctx context.Context, entries []recommendation.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO recommendation_history (id, user_id, location, weather_condition, mood, recommendation_type, recommendation_data, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, e.ID, e.UserID, e.Location, e.WeatherCondition, string(e.Mood), string(e.Type), []byte(e.Data), e.CreatedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// ListHistory returns newest entries first.
func (r *PostgresRepository) ListHistory(ctx context.Context, userID string, limit int) ([]recommendation.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+historyColumns+`
		FROM recommendation_history
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]recommendation.HistoryEntry, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// GetHistory fetches one entry by id.
func (r *PostgresRepository) GetHistory(ctx context.Context, id string) (recommendation.HistoryEntry, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+historyColumns+`
		FROM recommendation_history
		WHERE id::text = $1
		LIMIT 1
	`, id)
	if err != nil {
		return recommendation.HistoryEntry{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return recommendation.HistoryEntry{}, false, rows.Err()
	}
	entry, err := scanHistory(rows)
	if err != nil {
		return recommendation.HistoryEntry{}, false, err
	}
	return entry, true, rows.Err()
}

// UpdateFeedback stores a rating and keeps the previous helpful flag when none is given.
func (r *PostgresRepository) UpdateFeedback(ctx context.Context, id string, rating int, helpful *bool) (recommendation.HistoryEntry, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE recommendation_history
		SET user_feedback = $2, was_helpful = COALESCE($3, was_helpful)
		WHERE id::text = $1
		RETURNING `+historyColumns, id, rating, helpful)
	return scanHistory(row)
}

// AddWeatherLog inserts a weather log row.
func (r *PostgresRepository) AddWeatherLog(ctx context.Context, entry recommendation.WeatherLogEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO location_weather_history (id, user_id, location, weather_condition, temperature, mood_selected, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.Location, entry.WeatherCondition, entry.Temperature, string(entry.MoodSelected), entry.RecordedAt)
	return err
}

// ListWeatherLogs returns newest entries first.
func (r *PostgresRepository) ListWeatherLogs(ctx context.Context, userID string, limit int) ([]recommendation.WeatherLogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id::text, location, weather_condition, temperature, mood_selected, recorded_at
		FROM location_weather_history
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY recorded_at DESC
		LIMIT $2
	`, userID, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]recommendation.WeatherLogEntry, 0)
	for rows.Next() {
		var (
			entry    recommendation.WeatherLogEntry
			moodSel  string
			recorded time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Location, &entry.WeatherCondition, &entry.Temperature, &moodSel, &recorded); err != nil {
			return nil, err
		}
		entry.MoodSelected = mood.Mood(moodSel)
		entry.RecordedAt = recorded.UTC()
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (recommendation.HistoryEntry, error) {
	var (
		entry    recommendation.HistoryEntry
		moodTag  string
		kind     string
		data     []byte
		feedback sql.NullInt32
		helpful  sql.NullBool
		created  time.Time
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Location, &entry.WeatherCondition, &moodTag, &kind, &data, &feedback, &helpful, &created); err != nil {
		return recommendation.HistoryEntry{}, err
	}
	entry.Mood = mood.Mood(moodTag)
	entry.Type = recommendation.ItemType(kind)
	entry.Data = data
	if feedback.Valid {
		v := int(feedback.Int32)
		entry.UserFeedback = &v
	}
	if helpful.Valid {
		v := helpful.Bool
		entry.WasHelpful = &v
	}
	entry.CreatedAt = created.UTC()
	return entry, nil
}

// limitOrAll maps a non-positive limit to NULL, which Postgres treats as no limit.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

var (
	_ recommendation.HistoryRepository    = (*PostgresRepository)(nil)
	_ recommendation.WeatherLogRepository = (*PostgresRepository)(nil)
)
