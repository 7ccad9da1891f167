package improvementrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/moodmate/internal/domain/improvement"
)

// PostgresRepository persists improvements in the ai_improvements table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Add inserts items in one batch.
func (r *PostgresRepository) Add(ctx context.Context, items []improvement.Improvement) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		analysis, err := json.Marshal(item.DataAnalysis)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO ai_improvements (id, improvement_type, suggestion, data_analysis, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, string(item.ImprovementType), item.Suggestion, analysis, item.Status, item.CreatedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// Latest returns the newest records first.
func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]improvement.Improvement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, improvement_type, suggestion, data_analysis, status, created_at
		FROM ai_improvements
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]improvement.Improvement, 0)
	for rows.Next() {
		var (
			item     improvement.Improvement
			kind     string
			analysis []byte
			created  time.Time
		)
		if err := rows.Scan(&item.ID, &kind, &item.Suggestion, &analysis, &item.Status, &created); err != nil {
			return nil, err
		}
		if len(analysis) > 0 {
			if err := json.Unmarshal(analysis, &item.DataAnalysis); err != nil {
				return nil, err
			}
		}
		item.ImprovementType = improvement.Type(kind)
		item.CreatedAt = created.UTC()
		out = append(out, item)
	}
	return out, rows.Err()
}

var _ improvement.Repository = (*PostgresRepository)(nil)
