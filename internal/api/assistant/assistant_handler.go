package assistant

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-spots/internal/api"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

type Handler struct {
	assistantService Service
	logger           *slog.Logger
}

func NewHandler(assistantService Service, logger *slog.Logger) *Handler {
	return &Handler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// AskQuestion answers a visitor question about a selected spot.
// POST /api/v1/assistant/question
func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Assistant").Start(r.Context(), "AskQuestion", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/assistant/question"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AskQuestion"))

	var req types.AskQuestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.SpotName == "" || req.Question == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "spot_name and question are required")
		return
	}

	answer, err := h.assistantService.Answer(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to answer question", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to answer question")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"answer": answer})
}

// GenerateDescription returns a generated description for a spot.
// POST /api/v1/assistant/description
func (h *Handler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Assistant").Start(r.Context(), "GenerateDescription", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/assistant/description"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateDescription"))

	var req types.DescriptionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.SpotName == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "spot_name is required")
		return
	}

	description, err := h.assistantService.GenerateDescription(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate description", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate description")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"description": description})
}
