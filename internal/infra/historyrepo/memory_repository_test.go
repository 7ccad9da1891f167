package historyrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
)

func TestMemoryRepositoryHistoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AddHistory(ctx, []recommendation.HistoryEntry{
		{ID: "a", UserID: "u1", Mood: mood.Sad, Type: recommendation.ItemFood, CreatedAt: base},
		{ID: "b", UserID: "u2", Mood: mood.Happy, Type: recommendation.ItemMusic, CreatedAt: base.Add(time.Minute)},
		{ID: "c", UserID: "u1", Mood: mood.Calm, Type: recommendation.ItemStay, CreatedAt: base.Add(2 * time.Minute)},
	}))

	mine, err := repo.ListHistory(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "c", mine[0].ID)
	require.Equal(t, "a", mine[1].ID)

	all, err := repo.ListHistory(ctx, "", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, []string{all[0].ID, all[1].ID})
}

func TestMemoryRepositoryAddHistoryIsAllOrNothing(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	err := repo.AddHistory(ctx, []recommendation.HistoryEntry{
		{ID: "a", UserID: "u1"},
		{UserID: "u1"},
	})
	require.Error(t, err)

	entries, err := repo.ListHistory(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, entries)
	_, found, err := repo.GetHistory(ctx, "a")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRepositoryFeedback(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.AddHistory(ctx, []recommendation.HistoryEntry{{ID: "a", UserID: "u1"}}))

	helpful := true
	updated, err := repo.UpdateFeedback(ctx, "a", 4, &helpful)
	require.NoError(t, err)
	require.Equal(t, 4, *updated.UserFeedback)
	require.True(t, *updated.WasHelpful)

	stored, ok, err := repo.GetHistory(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, updated, stored)

	_, err = repo.UpdateFeedback(ctx, "missing", 3, nil)
	require.Error(t, err)
	_, ok, err = repo.GetHistory(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepositoryWeatherLogs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.AddWeatherLog(ctx, recommendation.WeatherLogEntry{ID: "1", UserID: "u1", Location: "Pune"}))
	require.NoError(t, repo.AddWeatherLog(ctx, recommendation.WeatherLogEntry{ID: "2", UserID: "u2", Location: "Goa"}))

	logs, err := repo.ListWeatherLogs(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "Goa", logs[0].Location)

	logs, err = repo.ListWeatherLogs(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}
