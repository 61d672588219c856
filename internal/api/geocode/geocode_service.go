package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

const userAgent = "go-tourist-spots/1.0"

// ErrNoResults means the geocoder found no match for the query. Callers
// surface this as a user-visible "no results", not a server error.
var ErrNoResults = errors.New("geocode: no results")

var _ Service = (*ServiceImpl)(nil)

// Service resolves free-text place names to coordinates and coordinates to
// country names.
type Service interface {
	Forward(ctx context.Context, query string) (*types.GeoPoint, error)
	ReverseCountry(ctx context.Context, point types.GeoPoint) (string, error)
}

type ServiceImpl struct {
	client *resty.Client
	cache  *cache.Cache
	logger *slog.Logger
}

func NewService(cfg config.GeocodeConfig, logger *slog.Logger) *ServiceImpl {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(cfg.Timeout)

	return &ServiceImpl{
		client: client,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger: logger,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
}

// Forward resolves a place name to its center point. Results are memoized to
// keep request volume within the upstream usage policy.
func (s *ServiceImpl) Forward(ctx context.Context, query string) (*types.GeoPoint, error) {
	key := "fwd:" + strings.ToLower(strings.TrimSpace(query))
	if cached, ok := s.cache.Get(key); ok {
		point := cached.(types.GeoPoint)
		return &point, nil
	}

	var results []searchResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("forward geocode request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("forward geocode returned status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q in geocode response: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q in geocode response: %w", results[0].Lon, err)
	}

	point := types.GeoPoint{Latitude: lat, Longitude: lon}
	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("geocode response out of range: %w", err)
	}

	s.cache.SetDefault(key, point)
	return &point, nil
}

// ReverseCountry resolves the country name at a point. An empty string with a
// nil error is never returned; callers treat any error as a missing country.
func (s *ServiceImpl) ReverseCountry(ctx context.Context, point types.GeoPoint) (string, error) {
	key := fmt.Sprintf("rev:%.4f,%.4f", point.Latitude, point.Longitude)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(string), nil
	}

	var result reverseResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(point.Latitude, 'f', -1, 64),
			"lon":    strconv.FormatFloat(point.Longitude, 'f', -1, 64),
			"format": "json",
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("reverse geocode returned status %d", resp.StatusCode())
	}
	if result.Address.Country == "" {
		return "", ErrNoResults
	}

	s.cache.SetDefault(key, result.Address.Country)
	return result.Address.Country, nil
}
