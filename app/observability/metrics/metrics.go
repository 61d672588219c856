package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SpotSearchesTotal        metric.Int64Counter
	SpotSearchDuration       metric.Float64Histogram
	SecondaryQueriesTotal    metric.Int64Counter
	WeatherFetchesTotal      metric.Int64Counter
	WeatherRetriesTotal      metric.Int64Counter
	CompletionRequestsTotal  metric.Int64Counter
	CompletionRotationsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-tourist-spots")
		var err error
		m := &AppMetrics{}

		m.SpotSearchesTotal, err = meter.Int64Counter(
			"spot_searches_total",
			metric.WithDescription("Total number of spot searches served"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create spot_searches_total: %v", err)
		}

		m.SpotSearchDuration, err = meter.Float64Histogram(
			"spot_search_duration_seconds",
			metric.WithDescription("Duration of spot searches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create spot_search_duration_seconds: %v", err)
		}

		m.SecondaryQueriesTotal, err = meter.Int64Counter(
			"spot_secondary_queries_total",
			metric.WithDescription("Total number of fallback overlay queries issued"),
			metric.WithUnit("{query}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create spot_secondary_queries_total: %v", err)
		}

		m.WeatherFetchesTotal, err = meter.Int64Counter(
			"weather_fetches_total",
			metric.WithDescription("Total number of forecast fetches"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_fetches_total: %v", err)
		}

		m.WeatherRetriesTotal, err = meter.Int64Counter(
			"weather_retries_total",
			metric.WithDescription("Total number of forecast fetch retries"),
			metric.WithUnit("{retry}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_retries_total: %v", err)
		}

		m.CompletionRequestsTotal, err = meter.Int64Counter(
			"completion_requests_total",
			metric.WithDescription("Total number of completion requests attempted"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_requests_total: %v", err)
		}

		m.CompletionRotationsTotal, err = meter.Int64Counter(
			"completion_key_rotations_total",
			metric.WithDescription("Total number of credential rotations after rate limits"),
			metric.WithUnit("{rotation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_key_rotations_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. It panics if
// InitAppMetrics was not called at startup.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
