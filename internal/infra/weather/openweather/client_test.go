package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

const sampleBody = `{
	"name": "Hyderabad",
	"main": {"temp": 27.6, "humidity": 74},
	"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
	"wind": {"speed": 4.1}
}`

func TestByCoordinatesNormalizesResponse(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{"lat": q.Get("lat"), "lon": q.Get("lon"), "appid": q.Get("appid"), "units": q.Get("units")}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(srv.URL, "secret", time.Second, clock)
	snap, err := client.ByCoordinates(context.Background(), weather.Coordinates{Latitude: 17.385, Longitude: 78.4867})
	require.NoError(t, err)

	require.Equal(t, map[string]string{"lat": "17.385", "lon": "78.4867", "appid": "secret", "units": "metric"}, query)
	require.Equal(t, weather.Snapshot{
		Location:    "Hyderabad",
		Temperature: 28,
		Condition:   "clouds",
		Description: "scattered clouds",
		Humidity:    74,
		WindSpeed:   4.1,
		Icon:        "03d",
		FetchedAt:   clock.Now(),
	}, snap)
}

func TestByCitySendsQuery(t *testing.T) {
	var city string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		city = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, nil)
	_, err := client.ByCity(context.Background(), "New Delhi")
	require.NoError(t, err)
	require.Equal(t, "New Delhi", city)
}

func TestNonSuccessStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, nil)
	_, err := client.ByCity(context.Background(), "Atlantis")
	var apiErr *weather.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Contains(t, apiErr.Body, "city not found")
}

func TestMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second, nil)
	_, err := client.ByCity(context.Background(), "Pune")
	require.Error(t, err)
}

func TestNormalizeWithoutWeatherEntries(t *testing.T) {
	snap := normalize(apiResponse{Name: "Nowhere", Main: apiMain{Temp: -0.4}}, time.Time{})
	require.Equal(t, "Nowhere", snap.Location)
	require.Empty(t, snap.Condition)
	require.InDelta(t, 0, snap.Temperature, 0.001)
}
