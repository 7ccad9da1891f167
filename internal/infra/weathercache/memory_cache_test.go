package weathercache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

func TestMemoryCacheExpiresEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCache(clock)
	ctx := context.Background()
	snap := weather.Snapshot{Location: "Pune", Condition: "clear"}

	require.NoError(t, cache.Set(ctx, "u1", snap, 5*time.Minute))

	got, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, snap, got)

	clock.Advance(5 * time.Minute)
	_, ok, err = cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheWithoutTTLNeverExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCache(clock)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "u1", weather.Snapshot{Location: "Goa"}, 0))
	clock.Advance(24 * time.Hour)
	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryCacheMissForUnknownKey(t *testing.T) {
	cache := NewMemoryCache(nil)
	_, ok, err := cache.Get(context.Background(), "nobody")
	require.NoError(t, err)
	require.False(t, ok)
}
