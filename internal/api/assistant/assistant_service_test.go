package assistant

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// stubCompleter records whether the completion service was reached.
type stubCompleter struct {
	calls    int
	messages []types.CompletionMessage
	response string
	err      error
}

func (c *stubCompleter) Complete(ctx context.Context, messages []types.CompletionMessage) (string, error) {
	c.calls++
	c.messages = messages
	return c.response, c.err
}

func snapshotWith(day1, day2 types.ForecastWindow) *types.WeatherSnapshot {
	return &types.WeatherSnapshot{
		TemperatureC: 21.5,
		Description:  "partly cloudy",
		Forecast: map[string]types.ForecastWindow{
			types.ForecastDay1:   day1,
			types.ForecastDay2:   day2,
			types.ForecastNext48: types.ForecastWindow{},
		},
	}
}

func questionRequest(question string, weather *types.WeatherSnapshot) types.AskQuestionRequest {
	return types.AskQuestionRequest{
		SpotContext: types.SpotContext{
			SpotID:   "123",
			SpotName: "Belem Tower",
			Category: "attraction",
			Location: "Lisbon",
			Country:  "Portugal",
		},
		Question: question,
		Weather:  weather,
	}
}

func TestAnswer_RainQuestionNeverTouchesCompletion(t *testing.T) {
	completer := &stubCompleter{}
	service := NewService(completer, slog.Default())

	snapshot := snapshotWith(
		types.ForecastWindow{RainChance: true, RainHours: 4, MaxPrecipitationMm: 2.3},
		types.ForecastWindow{},
	)

	answer, err := service.Answer(context.Background(), questionRequest("Will it rain today?", snapshot))

	require.NoError(t, err)
	assert.Equal(t, "Yes, there's a chance of moderate rain in the next 24 hours at Belem Tower. Rain is expected for approximately 4 hours.", answer)
	assert.Zero(t, completer.calls)
}

func TestAnswer_NoRainExpected(t *testing.T) {
	completer := &stubCompleter{}
	service := NewService(completer, slog.Default())

	snapshot := snapshotWith(types.ForecastWindow{}, types.ForecastWindow{})

	answer, err := service.Answer(context.Background(), questionRequest("Any rain coming?", snapshot))

	require.NoError(t, err)
	assert.Equal(t, "No rain is expected at Belem Tower in the next 24 hours based on current forecasts. The current weather is partly cloudy at 21.5°C.", answer)
	assert.Zero(t, completer.calls)
}

func TestAnswer_TwoDayRainBranches(t *testing.T) {
	rainy := types.ForecastWindow{RainChance: true, RainHours: 3, MaxPrecipitationMm: 0.8}
	heavy := types.ForecastWindow{RainChance: true, RainHours: 6, MaxPrecipitationMm: 7.2}
	dry := types.ForecastWindow{}

	tests := []struct {
		name     string
		day1     types.ForecastWindow
		day2     types.ForecastWindow
		expected string
	}{
		{
			name: "rain both days",
			day1: rainy,
			day2: heavy,
			expected: "Yes, there's a chance of rain at Belem Tower in the next 2 days. " +
				"Today: light rain for approximately 3 hours. Tomorrow: heavy rain for approximately 6 hours.",
		},
		{
			name:     "rain today only",
			day1:     rainy,
			day2:     dry,
			expected: "There's a chance of light rain today at Belem Tower for approximately 3 hours, but tomorrow looks dry based on current forecasts.",
		},
		{
			name:     "rain tomorrow only",
			day1:     dry,
			day2:     heavy,
			expected: "Today looks dry at Belem Tower, but tomorrow there's a chance of heavy rain for approximately 6 hours.",
		},
		{
			name:     "dry both days",
			day1:     dry,
			day2:     dry,
			expected: "No rain is expected at Belem Tower for the next 2 days based on current forecasts. The current weather is partly cloudy at 21.5°C.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			completer := &stubCompleter{}
			service := NewService(completer, slog.Default())

			answer, err := service.Answer(context.Background(),
				questionRequest("Will it rain in the next 2 days?", snapshotWith(tc.day1, tc.day2)))

			require.NoError(t, err)
			assert.Equal(t, tc.expected, answer)
			assert.Zero(t, completer.calls)
		})
	}
}

func TestAnswer_TomorrowWidensGeneralWeatherWindow(t *testing.T) {
	completer := &stubCompleter{}
	service := NewService(completer, slog.Default())

	snapshot := snapshotWith(
		types.ForecastWindow{RainChance: true, RainHours: 2, MaxPrecipitationMm: 0.5},
		types.ForecastWindow{},
	)

	// "tomorrow" selects the two-day window; without a rain keyword the
	// general template answers.
	answer, err := service.Answer(context.Background(),
		questionRequest("What's the weather like tomorrow?", snapshot))

	require.NoError(t, err)
	assert.Equal(t, "Today: partly cloudy, 21.5°C. Rain is expected. Tomorrow: Rain is not expected.", answer)
	assert.Zero(t, completer.calls)
}

func TestAnswer_GeneralWeatherSingleDay(t *testing.T) {
	completer := &stubCompleter{}
	service := NewService(completer, slog.Default())

	snapshot := snapshotWith(types.ForecastWindow{}, types.ForecastWindow{})

	answer, err := service.Answer(context.Background(),
		questionRequest("Is it sunny right now?", snapshot))

	require.NoError(t, err)
	assert.Equal(t, "Current weather at Belem Tower is partly cloudy at 21.5°C. Rain is not expected in the next 24 hours.", answer)
	assert.Zero(t, completer.calls)
}

func TestAnswer_NonWeatherQuestionDelegates(t *testing.T) {
	completer := &stubCompleter{response: "The tower opens at 10am."}
	service := NewService(completer, slog.Default())

	snapshot := snapshotWith(types.ForecastWindow{}, types.ForecastWindow{})

	answer, err := service.Answer(context.Background(),
		questionRequest("What time does it open?", snapshot))

	require.NoError(t, err)
	assert.Equal(t, "The tower opens at 10am.", answer)
	assert.Equal(t, 1, completer.calls)

	// The grounded prompt carries the structured context.
	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, "Belem Tower")
	assert.Contains(t, completer.messages[1].Content, "Lisbon, Portugal")
	assert.Contains(t, completer.messages[1].Content, "What time does it open?")
}

func TestAnswer_WeatherQuestionWithoutSnapshotDelegates(t *testing.T) {
	completer := &stubCompleter{response: "It is usually mild in spring."}
	service := NewService(completer, slog.Default())

	answer, err := service.Answer(context.Background(),
		questionRequest("Will it rain tomorrow?", nil))

	require.NoError(t, err)
	assert.Equal(t, "It is usually mild in spring.", answer)
	assert.Equal(t, 1, completer.calls)
}

func TestAnswer_DelegationErrorPropagates(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream unavailable")}
	service := NewService(completer, slog.Default())

	_, err := service.Answer(context.Background(), questionRequest("Is it crowded?", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to answer question")
}

func TestGenerateDescription(t *testing.T) {
	completer := &stubCompleter{response: "A riverside fortress from the age of discoveries."}
	service := NewService(completer, slog.Default())

	req := types.DescriptionRequest{
		SpotContext: types.SpotContext{
			SpotName: "Belem Tower",
			Category: "historic_fort",
			Location: "Lisbon",
			Country:  "Portugal",
		},
		Weather: &types.WeatherSnapshot{TemperatureC: 18, Description: "clear sky"},
	}

	description, err := service.GenerateDescription(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "A riverside fortress from the age of discoveries.", description)

	require.Len(t, completer.messages, 2)
	// Underscored categories read naturally in the prompt.
	assert.Contains(t, completer.messages[1].Content, "historic fort")
	assert.Contains(t, completer.messages[1].Content, "clear sky, 18°C")
}
