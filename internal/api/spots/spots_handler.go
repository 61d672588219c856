package spots

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-spots/internal/api"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/geocode"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

const defaultRadiusKm = 10

type Handler struct {
	spotService Service
	geocoder    geocode.Service
	logger      *slog.Logger
}

func NewHandler(spotService Service, geocoder geocode.Service, logger *slog.Logger) *Handler {
	return &Handler{
		spotService: spotService,
		geocoder:    geocoder,
		logger:      logger,
	}
}

// Search resolves a free-text location to a center point and returns the
// tourist spots around it.
// GET /api/v1/spots/search?location=<text>&radius=<km>
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Spots").Start(r.Context(), "Search", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/spots/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Search"))

	location := r.URL.Query().Get("location")
	if location == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "location query parameter is required")
		return
	}
	radius, err := parseRadius(r.URL.Query().Get("radius"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a positive number")
		return
	}

	center, err := h.geocoder.Forward(ctx, location)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResults) {
			api.ErrorResponse(w, r, http.StatusNotFound, "No results for the given location")
			return
		}
		l.ErrorContext(ctx, "Forward geocode failed", slog.Any("error", err), slog.String("location", location))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to resolve location")
		return
	}

	spots, err := h.spotService.FindSpots(ctx, *center, radius)
	if err != nil {
		l.ErrorContext(ctx, "Spot search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to fetch tourist spots")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, spots)
}

// Nearby returns the tourist spots around explicit device coordinates.
// GET /api/v1/spots/nearby?lat=<f>&lon=<f>&radius=<km>
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Spots").Start(r.Context(), "Nearby", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/spots/nearby"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Nearby"))

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}
	radius, err := parseRadius(r.URL.Query().Get("radius"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a positive number")
		return
	}

	center := types.GeoPoint{Latitude: lat, Longitude: lon}
	if err := center.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	spots, err := h.spotService.FindSpots(ctx, center, radius)
	if err != nil {
		l.ErrorContext(ctx, "Spot search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to fetch tourist spots")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, spots)
}

func parseRadius(raw string) (float64, error) {
	if raw == "" {
		return defaultRadiusKm, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || radius <= 0 {
		return 0, errors.New("invalid radius")
	}
	return radius, nil
}
