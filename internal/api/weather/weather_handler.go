package weather

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-spots/internal/api"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

type Handler struct {
	weatherService Service
	logger         *slog.Logger
}

func NewHandler(weatherService Service, logger *slog.Logger) *Handler {
	return &Handler{
		weatherService: weatherService,
		logger:         logger,
	}
}

// GetWeather returns the current conditions and 48h forecast for a point.
// GET /api/v1/weather?lat=<f>&lon=<f>
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Weather").Start(r.Context(), "GetWeather", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetWeather"))

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	point := types.GeoPoint{Latitude: lat, Longitude: lon}
	if err := point.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.weatherService.GetForecast(ctx, point)
	if err != nil {
		l.ErrorContext(ctx, "Forecast fetch failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if snapshot == nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Weather data unavailable")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, snapshot)
}
