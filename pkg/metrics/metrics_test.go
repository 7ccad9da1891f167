package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WeatherResolved("default_city")
	m.WeatherResolved("default_city")
	m.WeatherCacheLookup("hit")
	m.RecommendationServed("static")
	m.AIFallback("error")
	m.PlacesLookup("google", errors.New("boom"))
	m.PlacesLookup("mock", nil)
	m.SetTrackedLocations(3)
	m.ObserveHTTP("GET", "/api/v1/dashboard", 200, 20*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.WeatherResolutions.WithLabelValues("default_city")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.WeatherCache.WithLabelValues("hit")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PlacesLookups.WithLabelValues("google", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PlacesLookups.WithLabelValues("mock", "success")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.TrackedLocations))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/dashboard", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.WeatherResolved("cache")
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.SetTrackedLocations(1)
	})
}
