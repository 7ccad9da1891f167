package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "moodmate"

// Metrics holds the Prometheus collectors shared across the service.
// A nil *Metrics is valid and records nothing, which keeps unit tests free of registries.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration       *prometheus.HistogramVec // labels: method, route
	WeatherResolutions *prometheus.CounterVec   // labels: strategy
	WeatherCache       *prometheus.CounterVec   // labels: result={hit,miss,error}
	Recommendations    *prometheus.CounterVec   // labels: source={static,ai}
	AIFallbacks        *prometheus.CounterVec   // labels: reason={error,breaker_open}
	PlacesLookups      *prometheus.CounterVec   // labels: provider, outcome={success,error}
	TrackedLocations   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		WeatherResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_resolutions_total",
			Help:      "Weather lookups by the fallback strategy that satisfied them.",
		}, []string{"strategy"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation bundles served by source.",
		}, []string{"source"}),
		AIFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "AI recommendation calls that fell back to the static catalog.",
		}, []string{"reason"}),
		PlacesLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_lookups_total",
			Help:      "Nearby place lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		TrackedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "places_tracked_locations",
			Help:      "Users with an active places refresher.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPDuration,
			m.WeatherResolutions,
			m.WeatherCache,
			m.Recommendations,
			m.AIFallbacks,
			m.PlacesLookups,
			m.TrackedLocations,
		)
	}
	return m
}

// ObserveHTTP records a finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// WeatherResolved counts the strategy that produced a snapshot.
func (m *Metrics) WeatherResolved(strategy string) {
	if m == nil {
		return
	}
	m.WeatherResolutions.WithLabelValues(strategy).Inc()
}

// WeatherCacheLookup counts a cache hit, miss or error.
func (m *Metrics) WeatherCacheLookup(result string) {
	if m == nil {
		return
	}
	m.WeatherCache.WithLabelValues(result).Inc()
}

// RecommendationServed counts a bundle by its source.
func (m *Metrics) RecommendationServed(source string) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(source).Inc()
}

// AIFallback counts a fallback to the static catalog.
func (m *Metrics) AIFallback(reason string) {
	if m == nil {
		return
	}
	m.AIFallbacks.WithLabelValues(reason).Inc()
}

// PlacesLookup counts a provider call.
func (m *Metrics) PlacesLookup(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.PlacesLookups.WithLabelValues(provider, outcome).Inc()
}

// SetTrackedLocations updates the tracked users gauge.
func (m *Metrics) SetTrackedLocations(n int) {
	if m == nil {
		return
	}
	m.TrackedLocations.Set(float64(n))
}
