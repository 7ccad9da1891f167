package places

import "context"

// MockProvider returns fixed demo places and never fails.
type MockProvider struct{}

func (MockProvider) Name() string { return "mock" }

func (MockProvider) Nearby(_ context.Context, q Query) ([]Place, error) {
	if q.Kind == KindHotels {
		return mockHotels(), nil
	}
	return mockRestaurants(), nil
}

func ptr[T any](v T) *T { return &v }

func mockHotels() []Place {
	return []Place{
		{ID: "mock-hotel-1", Name: "Grand Palace Hotel", Address: "Near your location", Rating: ptr(4.5), PriceLevel: ptr(3), Types: []string{"lodging", "hotel"}, OpenNow: ptr(true)},
		{ID: "mock-hotel-2", Name: "Comfort Inn & Suites", Address: "2.5 km from your location", Rating: ptr(4.2), PriceLevel: ptr(2), Types: []string{"lodging", "hotel"}, OpenNow: ptr(true)},
		{ID: "mock-hotel-3", Name: "Luxury Resort & Spa", Address: "5 km from your location", Rating: ptr(4.8), PriceLevel: ptr(4), Types: []string{"lodging", "resort"}, OpenNow: ptr(true)},
	}
}

func mockRestaurants() []Place {
	return []Place{
		{ID: "mock-restaurant-1", Name: "Spice Garden Restaurant", Address: "500m from your location", Rating: ptr(4.3), PriceLevel: ptr(2), Types: []string{"restaurant", "indian_cuisine"}, OpenNow: ptr(true), PhoneNumber: "+91-9876543210"},
		{ID: "mock-restaurant-2", Name: "Pizza Corner", Address: "800m from your location", Rating: ptr(4.1), PriceLevel: ptr(2), Types: []string{"restaurant", "pizza"}, OpenNow: ptr(true), PhoneNumber: "+91-9876543211"},
		{ID: "mock-restaurant-3", Name: "Royal Biryani House", Address: "1.2 km from your location", Rating: ptr(4.6), PriceLevel: ptr(3), Types: []string{"restaurant", "biryani"}, OpenNow: ptr(true), PhoneNumber: "+91-9876543212"},
	}
}

var _ Provider = MockProvider{}
