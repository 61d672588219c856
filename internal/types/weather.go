package types

// Forecast window keys as they appear in API responses.
const (
	ForecastDay1   = "day1"
	ForecastDay2   = "day2"
	ForecastNext48 = "next_48h"
)

// ForecastWindow summarizes rain likelihood over a fixed time bucket.
type ForecastWindow struct {
	RainChance         bool    `json:"rain_chance"`
	RainHours          int     `json:"rain_hours"`
	MaxPrecipitationMm float64 `json:"max_precipitation"`
}

// WeatherSnapshot is the result of one forecast query. Immutable once
// returned; callers re-fetch instead of caching.
type WeatherSnapshot struct {
	TemperatureC float64                   `json:"temperature"`
	Description  string                    `json:"description"`
	Forecast     map[string]ForecastWindow `json:"forecast"`
}
