package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/auth"
	"github.com/yanqian/moodmate/internal/domain/dashboard"
	"github.com/yanqian/moodmate/internal/domain/improvement"
	"github.com/yanqian/moodmate/internal/domain/mood"
	"github.com/yanqian/moodmate/internal/domain/places"
	"github.com/yanqian/moodmate/internal/domain/recommendation"
	"github.com/yanqian/moodmate/internal/domain/weather"
	"github.com/yanqian/moodmate/internal/infra/config"
	"github.com/yanqian/moodmate/internal/infra/improvementrepo"
	"github.com/yanqian/moodmate/internal/infra/userrepo"
	apperrors "github.com/yanqian/moodmate/pkg/errors"
	"github.com/yanqian/moodmate/pkg/metrics"
)

const registerBody = `{"name":"Meera","phone":"9000000000","email":"meera@example.com","password":"secret1","confirmPassword":"secret1"}`

func TestRouter_RegisterAndDuplicate(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var view auth.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "meera@example.com", view.Email)
	require.Equal(t, "en", view.Language)

	rec = env.do(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "email_exists", errBody["error"]["code"])
	require.Equal(t, "Email already registered", errBody["error"]["message"])
}

func TestRouter_RegisterValidation(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/register",
		`{"name":"Meera","email":"meera@example.com","password":"secret1","confirmPassword":"secret2"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Passwords do not match", decodeErrorBody(t, rec.Body.Bytes())["error"]["message"])

	rec = env.do(http.MethodPost, "/api/v1/auth/register", `{"name":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_LoginFailure(t *testing.T) {
	env := newRouterUnderTest(t)
	env.do(http.MethodPost, "/api/v1/auth/register", registerBody, "")

	rec := env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"meera@example.com","password":"nope12"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid email or password", decodeErrorBody(t, rec.Body.Bytes())["error"]["message"])
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	env := newRouterUnderTest(t)

	for _, path := range []string{"/api/v1/dashboard", "/api/v1/me", "/api/v1/moods", "/api/v1/places"} {
		rec := env.do(http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := env.do(http.MethodGet, "/api/v1/dashboard", "", "not-a-jwt")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_WeatherByLocationPassesGeolocationFailure(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)

	var got weather.LocationQuery
	env.dashboard.refreshByLocation = func(_ context.Context, userID string, q weather.LocationQuery) (dashboard.View, error) {
		require.NotEmpty(t, userID)
		got = q
		return dashboard.View{Advisory: "Location permission denied.", Strategy: weather.StrategyDefaultCity, Generation: 1}, nil
	}

	rec := env.do(http.MethodPost, "/api/v1/weather/location", `{"error":"1"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, got.Coordinates)
	require.Equal(t, weather.ReasonPermissionDenied, got.GeoFailure)

	var view dashboard.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Location permission denied.", view.Advisory)

	rec = env.do(http.MethodPost, "/api/v1/weather/location", `{"latitude":19.07,"longitude":72.87}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Coordinates)
	require.InDelta(t, 19.07, got.Coordinates.Latitude, 0.0001)

	rec = env.do(http.MethodPost, "/api/v1/weather/location", `{"latitude":19.07}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_WeatherFailureMapsToBadGateway(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)
	env.dashboard.refreshByCity = func(context.Context, string, string) (dashboard.View, error) {
		return dashboard.View{}, apperrors.Wrap("weather_error", "Location not found.", nil)
	}

	rec := env.do(http.MethodPost, "/api/v1/weather/city", `{"city":"Nowhere"}`, token)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "weather_error", errBody["error"]["code"])
	require.Equal(t, "Location not found.", errBody["error"]["message"])
}

func TestRouter_SelectMood(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)
	var selected mood.Mood = "unset"
	env.dashboard.selectMood = func(_ context.Context, _ string, m mood.Mood) (dashboard.View, error) {
		selected = m
		return dashboard.View{Mood: m}, nil
	}

	rec := env.do(http.MethodPut, "/api/v1/mood", `{"mood":"Cozy"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, mood.Cozy, selected)

	rec = env.do(http.MethodPut, "/api/v1/mood", `{"mood":""}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, mood.Mood(""), selected)

	rec = env.do(http.MethodPut, "/api/v1/mood", `{"mood":"grumpy"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RecommendationsAndMoods(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)

	rec := env.do(http.MethodGet, "/api/v1/recommendations?mood=sad", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var bundle recommendation.Bundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	require.Equal(t, mood.Sad, bundle.Mood)
	require.Equal(t, recommendation.SourceStatic, bundle.Source)
	require.Len(t, bundle.Foods, 3)

	rec = env.do(http.MethodGet, "/api/v1/recommendations", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/moods", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var moods map[string][]mood.Mood
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moods))
	require.Equal(t, mood.All(), moods["moods"])

	rec = env.do(http.MethodGet, "/api/v1/recommendations/history?limit=abc", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/recommendations/missing/feedback", `{"rating":4}`, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ImprovementsWithoutLLM(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)

	rec := env.do(http.MethodPost, "/api/v1/improvements", "", token)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "ai_disabled", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = env.do(http.MethodGet, "/api/v1/improvements", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PlacesLifecycle(t *testing.T) {
	env := newRouterUnderTest(t)
	token := env.login(t)

	rec := env.do(http.MethodGet, "/api/v1/places", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPut, "/api/v1/places/location", `{"latitude":12.97,"longitude":77.59}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/places", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/v1/places/location", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/places", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env.do(http.MethodPut, "/api/v1/places/location", `{"latitude":12.97,"longitude":77.59}`, token)
	rec = env.do(http.MethodPost, "/api/v1/auth/logout", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, env.dashboard.resets)
	_, tracked := env.places.Latest(env.userID)
	require.False(t, tracked)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	env := newRouterUnderTest(t)

	rec := env.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "moodmate_http_requests_total")
}

func TestRateLimiterRefillsWithClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}, clock)

	require.True(t, limiter.allow("1.2.3.4"))
	require.True(t, limiter.allow("1.2.3.4"))
	require.False(t, limiter.allow("1.2.3.4"))
	require.True(t, limiter.allow("5.6.7.8"))

	clock.Advance(90 * time.Second)
	require.True(t, limiter.allow("1.2.3.4"))
	require.True(t, limiter.allow("1.2.3.4"))
	require.False(t, limiter.allow("1.2.3.4"))
}

type routerEnv struct {
	server    *http.Server
	dashboard *stubDashboard
	places    *stubTracker
	userID    string
}

func newRouterUnderTest(t *testing.T) *routerEnv {
	t.Helper()
	logger := newTestLogger()
	authSvc := auth.NewService(auth.Config{
		Secret:          "router-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: time.Hour,
	}, userrepo.NewMemoryRepository(), logger)
	recs := recommendation.NewService(recommendation.DefaultCatalog(), nil, nil, nil, logger)
	improvements := improvement.NewService(improvement.Config{}, nil, nil, nil, improvementrepo.NewMemoryRepository(), nil, nil, logger)

	dash := &stubDashboard{}
	tracker := &stubTracker{results: make(map[string]places.Result)}
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	handler := NewHandler(authSvc, dash, recs, improvements, tracker, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return &routerEnv{
		server:    NewRouter(cfg, handler, authSvc, m, registry, logger),
		dashboard: dash,
		places:    tracker,
	}
}

func (e *routerEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *routerEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(http.MethodPost, "/api/v1/auth/login", `{"email":"meera@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	e.userID = resp.User.ID
	return resp.Token
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubDashboard struct {
	refreshByLocation func(ctx context.Context, userID string, q weather.LocationQuery) (dashboard.View, error)
	refreshByCity     func(ctx context.Context, userID, city string) (dashboard.View, error)
	selectMood        func(ctx context.Context, userID string, m mood.Mood) (dashboard.View, error)
	resets            int
}

func (s *stubDashboard) RefreshByLocation(ctx context.Context, userID string, q weather.LocationQuery) (dashboard.View, error) {
	if s.refreshByLocation != nil {
		return s.refreshByLocation(ctx, userID, q)
	}
	return dashboard.View{}, nil
}

func (s *stubDashboard) RefreshByCity(ctx context.Context, userID, city string) (dashboard.View, error) {
	if s.refreshByCity != nil {
		return s.refreshByCity(ctx, userID, city)
	}
	return dashboard.View{}, nil
}

func (s *stubDashboard) SelectMood(ctx context.Context, userID string, m mood.Mood) (dashboard.View, error) {
	if s.selectMood != nil {
		return s.selectMood(ctx, userID, m)
	}
	return dashboard.View{}, nil
}

func (s *stubDashboard) Current(string) dashboard.View { return dashboard.View{} }

func (s *stubDashboard) Reset(string) { s.resets++ }

type stubTracker struct {
	results map[string]places.Result
}

func (s *stubTracker) Track(_ context.Context, userID string, loc weather.Coordinates) (places.Result, error) {
	result := places.Result{Location: loc, HotelsProvider: "mock", RestaurantsProvider: "mock"}
	s.results[userID] = result
	return result, nil
}

func (s *stubTracker) Untrack(userID string) { delete(s.results, userID) }

func (s *stubTracker) Latest(userID string) (places.Result, bool) {
	result, ok := s.results[userID]
	return result, ok
}
