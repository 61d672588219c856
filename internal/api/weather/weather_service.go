package weather

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/FACorreiaa/go-tourist-spots/app/observability/metrics"
	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

const userAgent = "go-tourist-spots/1.0"

// rainThresholdMm is the hourly precipitation above which an hour counts as
// rain.
const rainThresholdMm = 0.1

// weatherCodeDescriptions maps WMO condition codes to human-readable text.
var weatherCodeDescriptions = map[int]string{
	0: "clear sky", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
	45: "fog", 48: "depositing rime fog", 51: "light drizzle", 53: "moderate drizzle",
	55: "dense drizzle", 56: "light freezing drizzle", 57: "dense freezing drizzle",
	61: "slight rain", 63: "moderate rain", 65: "heavy rain",
	66: "light freezing rain", 67: "heavy freezing rain", 71: "slight snow fall",
	73: "moderate snow fall", 75: "heavy snow fall", 77: "snow grains",
	80: "slight rain showers", 81: "moderate rain showers", 82: "violent rain showers",
	85: "slight snow showers", 86: "heavy snow showers", 95: "thunderstorm",
	96: "thunderstorm with slight hail", 99: "thunderstorm with heavy hail",
}

// rainCodes is the set of WMO codes treated as rain regardless of the
// measured precipitation amount. Code and amount can disagree; either signal
// alone flags rain.
var rainCodes = map[int]struct{}{
	51: {}, 53: {}, 55: {}, 56: {}, 57: {},
	61: {}, 63: {}, 65: {}, 66: {}, 67: {},
	80: {}, 81: {}, 82: {}, 95: {}, 96: {}, 99: {},
}

var _ Service = (*ServiceImpl)(nil)

// Service fetches and summarizes weather forecasts.
type Service interface {
	// GetForecast returns the snapshot for a point, or nil (with a nil
	// error) when the forecast source is unavailable after retries.
	// Callers must treat the nil snapshot as a degraded-but-valid state.
	GetForecast(ctx context.Context, point types.GeoPoint) (*types.WeatherSnapshot, error)
}

type ServiceImpl struct {
	client *resty.Client
	cfg    config.WeatherConfig
	logger *slog.Logger
}

func NewService(cfg config.WeatherConfig, logger *slog.Logger) *ServiceImpl {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(cfg.Timeout)

	return &ServiceImpl{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Precipitation []float64 `json:"precipitation"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"hourly"`
}

// GetForecast fetches the current conditions plus 48 hourly samples and
// derives the day1/day2/next_48h rain summaries. Transient network failures
// are retried with a linearly increasing delay; exhausting the budget yields
// a nil snapshot, not an error.
func (s *ServiceImpl) GetForecast(ctx context.Context, point types.GeoPoint) (*types.WeatherSnapshot, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	m := metrics.Get()
	m.WeatherFetchesTotal.Add(ctx, 1)

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		var result openMeteoResponse
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"latitude":      strconv.FormatFloat(point.Latitude, 'f', -1, 64),
				"longitude":     strconv.FormatFloat(point.Longitude, 'f', -1, 64),
				"current":       "temperature_2m,weather_code",
				"hourly":        "precipitation,weather_code",
				"forecast_days": "3",
			}).
			SetResult(&result).
			Get("/v1/forecast")

		if err != nil {
			s.logger.WarnContext(ctx, "Forecast fetch attempt failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			if attempt < s.cfg.MaxRetries {
				m.WeatherRetriesTotal.Add(ctx, 1)
				select {
				case <-time.After(s.cfg.RetryDelay * time.Duration(attempt)):
				case <-ctx.Done():
					return nil, nil
				}
				continue
			}
			s.logger.ErrorContext(ctx, "Forecast unavailable after retries",
				slog.Int("max_retries", s.cfg.MaxRetries))
			return nil, nil
		}

		if !resp.IsSuccess() {
			s.logger.WarnContext(ctx, "Forecast source returned error status",
				slog.Int("status", resp.StatusCode()))
			return nil, nil
		}

		return buildSnapshot(result), nil
	}
	return nil, nil
}

func buildSnapshot(data openMeteoResponse) *types.WeatherSnapshot {
	precip := data.Hourly.Precipitation
	codes := data.Hourly.WeatherCode
	if len(precip) > 48 {
		precip = precip[:48]
	}
	if len(codes) > 48 {
		codes = codes[:48]
	}

	day1End := min(24, len(precip))
	day1CodesEnd := min(24, len(codes))

	description, ok := weatherCodeDescriptions[data.Current.WeatherCode]
	if !ok {
		description = "unknown weather"
	}

	return &types.WeatherSnapshot{
		TemperatureC: data.Current.Temperature,
		Description:  description,
		Forecast: map[string]types.ForecastWindow{
			types.ForecastDay1:   summarizeWindow(precip[:day1End], codes[:day1CodesEnd]),
			types.ForecastDay2:   summarizeWindow(precip[day1End:], codes[day1CodesEnd:]),
			types.ForecastNext48: summarizeWindow(precip, codes),
		},
	}
}

// summarizeWindow derives the rain summary for one time bucket. The rain
// flag is the OR of the precipitation-amount signal and the condition-code
// signal; the hour count follows precipitation only.
func summarizeWindow(precip []float64, codes []int) types.ForecastWindow {
	var window types.ForecastWindow
	for _, p := range precip {
		if p > rainThresholdMm {
			window.RainChance = true
			window.RainHours++
		}
		if p > window.MaxPrecipitationMm {
			window.MaxPrecipitationMm = p
		}
	}
	if !window.RainChance {
		for _, code := range codes {
			if _, rainy := rainCodes[code]; rainy {
				window.RainChance = true
				break
			}
		}
	}
	return window
}

// Intensity classifies the expected rain strength from the peak hourly
// precipitation. The thresholds are fixed; exactly 1mm is moderate and
// exactly 5mm is heavy.
func Intensity(maxPrecipitationMm float64) string {
	switch {
	case maxPrecipitationMm < 1:
		return "light"
	case maxPrecipitationMm < 5:
		return "moderate"
	default:
		return "heavy"
	}
}
