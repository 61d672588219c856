package geocode

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

func testGeocodeConfig(baseURL string) config.GeocodeConfig {
	return config.GeocodeConfig{
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
	}
}

func TestForward(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Lisbon", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "38.7223", "lon": "-9.1393", "display_name": "Lisboa, Portugal"}]`))
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())

	point, err := service.Forward(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.InDelta(t, 38.7223, point.Latitude, 1e-9)
	assert.InDelta(t, -9.1393, point.Longitude, 1e-9)

	// Second lookup is served from the cache.
	_, err = service.Forward(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestForward_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())

	_, err := service.Forward(context.Background(), "Nowhereville")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestForward_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())

	_, err := service.Forward(context.Background(), "Lisbon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestForward_OutOfRangeCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "95.0", "lon": "0.0"}]`))
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())

	_, err := service.Forward(context.Background(), "Broken Place")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReverseCountry(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "38.7223", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"country": "Portugal"}}`))
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())
	point := types.GeoPoint{Latitude: 38.7223, Longitude: -9.1393}

	country, err := service.ReverseCountry(context.Background(), point)
	require.NoError(t, err)
	assert.Equal(t, "Portugal", country)

	// Nearby lookups share the 4-decimal cache key.
	country, err = service.ReverseCountry(context.Background(), point)
	require.NoError(t, err)
	assert.Equal(t, "Portugal", country)
	assert.Equal(t, int32(1), requests.Load())
}

func TestReverseCountry_MissingCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {}}`))
	}))
	defer server.Close()

	service := NewService(testGeocodeConfig(server.URL), slog.Default())

	_, err := service.ReverseCountry(context.Background(), types.GeoPoint{Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, ErrNoResults)
}
