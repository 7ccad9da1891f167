package yelp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/places"
	"github.com/yanqian/moodmate/internal/domain/weather"
)

func TestNearbyRestaurants(t *testing.T) {
	var (
		got  url.Values
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"businesses":[{"id":"b1","name":"Chutneys","rating":4.4,"price":"$$","image_url":"https://img","distance":812.5,"phone":"+914012345678","url":"https://yelp.com/biz/chutneys","location":{"display_address":["Road 1","Hyderabad"]},"categories":[{"alias":"indpak"},{"alias":"vegetarian"}]}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", time.Second)
	out, err := client.Nearby(context.Background(), places.Query{
		Location: weather.Coordinates{Latitude: 17.4, Longitude: 78.4},
		Kind:     places.KindRestaurants,
		Radius:   100000,
	})
	require.NoError(t, err)

	require.Equal(t, "Bearer key", auth)
	require.Equal(t, "40000", got.Get("radius"))
	require.Equal(t, "restaurants,food", got.Get("categories"))
	require.Equal(t, "20", got.Get("limit"))

	require.Len(t, out, 1)
	p := out[0]
	require.Equal(t, "Road 1, Hyderabad", p.Address)
	require.Equal(t, 2, *p.PriceLevel)
	require.Equal(t, 812.5, *p.Distance)
	require.Equal(t, []string{"indpak", "vegetarian"}, p.Types)
}

func TestNearbyHotelsUnsupported(t *testing.T) {
	client := NewClient("", "key", 0)
	_, err := client.Nearby(context.Background(), places.Query{Kind: places.KindHotels})
	require.ErrorIs(t, err, places.ErrUnsupportedKind)
}

func TestNearbyStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", time.Second)
	_, err := client.Nearby(context.Background(), places.Query{Kind: places.KindRestaurants, Radius: 2000})
	require.ErrorContains(t, err, "status=401")
}
