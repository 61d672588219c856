package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-tourist-spots/internal/api/weather"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// weatherKeywords flag a question as weather-related. Substring matching is
// a deliberate heuristic; do not replace it with smarter intent
// classification, the template answers depend on it.
var weatherKeywords = []string{"rain", "weather", "forecast", "precipitation", "sunny", "cloudy", "storm", "thunder"}

// twoDayKeywords widen the answer window from 24 to 48 hours.
var twoDayKeywords = []string{"next 2 days", "next two days", "2 days", "two days", "48 hours", "tomorrow"}

// rainKeywords select the rain-specific template branch.
var rainKeywords = []string{"rain", "precipitation", "storm"}

var _ Service = (*ServiceImpl)(nil)

// Service answers visitor questions and generates spot descriptions.
type Service interface {
	Answer(ctx context.Context, req types.AskQuestionRequest) (string, error)
	GenerateDescription(ctx context.Context, req types.DescriptionRequest) (string, error)
}

// completer is the interface satisfied by completion.KeyManager.
type completer interface {
	Complete(ctx context.Context, messages []types.CompletionMessage) (string, error)
}

type ServiceImpl struct {
	completer completer
	logger    *slog.Logger
}

func NewService(completer completer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		completer: completer,
		logger:    logger,
	}
}

// Answer routes weather-related questions to deterministic templates filled
// from the forecast snapshot; everything else goes to the completion
// service with the structured spot context as grounding. Template answers
// never touch the completion service, so they cannot contradict the fetched
// forecast.
func (s *ServiceImpl) Answer(ctx context.Context, req types.AskQuestionRequest) (string, error) {
	question := strings.ToLower(req.Question)

	if containsAny(question, weatherKeywords) && req.Weather != nil && req.Weather.Forecast != nil {
		return s.answerFromForecast(question, req), nil
	}

	return s.delegateQuestion(ctx, req)
}

func (s *ServiceImpl) answerFromForecast(question string, req types.AskQuestionRequest) string {
	snapshot := req.Weather
	twoDays := containsAny(question, twoDayKeywords)

	if containsAny(question, rainKeywords) {
		return rainAnswer(req.SpotName, snapshot, twoDays)
	}
	return generalWeatherAnswer(req.SpotName, snapshot, twoDays)
}

// rainAnswer reports rain chance, expected duration and intensity for the
// selected window(s).
func rainAnswer(spotName string, snapshot *types.WeatherSnapshot, twoDays bool) string {
	day1 := snapshot.Forecast[types.ForecastDay1]

	if twoDays {
		day2 := snapshot.Forecast[types.ForecastDay2]
		day1Intensity := weather.Intensity(day1.MaxPrecipitationMm)
		day2Intensity := weather.Intensity(day2.MaxPrecipitationMm)

		switch {
		case day1.RainChance && day2.RainChance:
			return fmt.Sprintf("Yes, there's a chance of rain at %s in the next 2 days. Today: %s rain for approximately %d hours. Tomorrow: %s rain for approximately %d hours.",
				spotName, day1Intensity, day1.RainHours, day2Intensity, day2.RainHours)
		case day1.RainChance:
			return fmt.Sprintf("There's a chance of %s rain today at %s for approximately %d hours, but tomorrow looks dry based on current forecasts.",
				day1Intensity, spotName, day1.RainHours)
		case day2.RainChance:
			return fmt.Sprintf("Today looks dry at %s, but tomorrow there's a chance of %s rain for approximately %d hours.",
				spotName, day2Intensity, day2.RainHours)
		default:
			return fmt.Sprintf("No rain is expected at %s for the next 2 days based on current forecasts. The current weather is %s at %s°C.",
				spotName, snapshot.Description, formatTemp(snapshot.TemperatureC))
		}
	}

	if day1.RainChance {
		return fmt.Sprintf("Yes, there's a chance of %s rain in the next 24 hours at %s. Rain is expected for approximately %d hours.",
			weather.Intensity(day1.MaxPrecipitationMm), spotName, day1.RainHours)
	}
	return fmt.Sprintf("No rain is expected at %s in the next 24 hours based on current forecasts. The current weather is %s at %s°C.",
		spotName, snapshot.Description, formatTemp(snapshot.TemperatureC))
}

// generalWeatherAnswer reports current conditions plus a plain
// rain-expected flag for the window(s).
func generalWeatherAnswer(spotName string, snapshot *types.WeatherSnapshot, twoDays bool) string {
	day1 := snapshot.Forecast[types.ForecastDay1]

	if twoDays {
		day2 := snapshot.Forecast[types.ForecastDay2]
		return fmt.Sprintf("Today: %s, %s°C. Rain is %s. Tomorrow: Rain is %s.",
			snapshot.Description, formatTemp(snapshot.TemperatureC),
			expectedFlag(day1.RainChance), expectedFlag(day2.RainChance))
	}

	return fmt.Sprintf("Current weather at %s is %s at %s°C. Rain is %s in the next 24 hours.",
		spotName, snapshot.Description, formatTemp(snapshot.TemperatureC),
		expectedFlag(day1.RainChance))
}

// delegateQuestion grounds a non-weather question in the structured spot
// context and delegates to the completion service.
func (s *ServiceImpl) delegateQuestion(ctx context.Context, req types.AskQuestionRequest) (string, error) {
	answer, err := s.completer.Complete(ctx, questionMessages(req))
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return answer, nil
}

// GenerateDescription asks the completion service for a short tour-guide
// description of the spot, weather tip included.
func (s *ServiceImpl) GenerateDescription(ctx context.Context, req types.DescriptionRequest) (string, error) {
	description, err := s.completer.Complete(ctx, descriptionMessages(req))
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}
	return description, nil
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func expectedFlag(rain bool) string {
	if rain {
		return "expected"
	}
	return "not expected"
}

func formatTemp(temperature float64) string {
	return strconv.FormatFloat(temperature, 'f', -1, 64)
}
