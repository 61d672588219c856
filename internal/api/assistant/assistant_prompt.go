package assistant

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

const guideSystemPrompt = "You are a knowledgeable local tour guide providing authentic, accurate answers about tourist destinations based on given data."

const descriptionSystemPrompt = "You are a knowledgeable local tour guide providing authentic information about tourist destinations. Your descriptions sound natural and engaging, like a real person talking."

// questionMessages builds the grounded prompt for a non-weather question.
func questionMessages(req types.AskQuestionRequest) []types.CompletionMessage {
	category := strings.ReplaceAll(req.Category, "_", " ")

	weatherInfo := "unknown"
	forecastInfo := ""
	if req.Weather != nil {
		weatherInfo = fmt.Sprintf("%s, %s°C", req.Weather.Description, formatTemp(req.Weather.TemperatureC))
		if day1, ok := req.Weather.Forecast[types.ForecastDay1]; ok {
			forecastInfo = fmt.Sprintf("Rain %s in next 24 hours", expectedFlag(day1.RainChance))
		}
	}

	var grounding strings.Builder
	fmt.Fprintf(&grounding, "Name: %s\n", req.SpotName)
	fmt.Fprintf(&grounding, "Category: %s\n", category)
	fmt.Fprintf(&grounding, "Location: %s, %s\n", req.Location, req.Country)
	fmt.Fprintf(&grounding, "Current weather: %s\n", weatherInfo)
	if forecastInfo != "" {
		fmt.Fprintf(&grounding, "Forecast: %s\n", forecastInfo)
	}

	prompt := fmt.Sprintf(`You are a local tour guide with deep knowledge about %s, a %s in %s, %s.
Here's the available information:
%s
A visitor has asked: '%s'
Provide a concise, accurate answer (80-100 words) based only on this data and logical inferences from the category and weather.
Avoid speculation beyond the provided information. Answer in a friendly, direct tone as if speaking to the visitor.`,
		req.SpotName, category, req.Location, req.Country, grounding.String(), req.Question)

	return []types.CompletionMessage{
		{Role: "system", Content: guideSystemPrompt},
		{Role: "user", Content: prompt},
	}
}

// descriptionMessages builds the prompt for a generated spot description.
func descriptionMessages(req types.DescriptionRequest) []types.CompletionMessage {
	category := strings.ReplaceAll(req.Category, "_", " ")

	currentWeather := "unknown"
	if req.Weather != nil {
		currentWeather = fmt.Sprintf("%s, %s°C", req.Weather.Description, formatTemp(req.Weather.TemperatureC))
	}

	prompt := fmt.Sprintf(`Create a concise, natural description (100 - 120 words) for this tourist spot:
- Name: '%s'
- Category: %s
- Location: %s, %s

Focus only on:
1. What makes this place special or unique (be specific to the actual location if possible)
2. One activity visitors typically enjoy here (tailored to the type of location)
3. A practical tip based on the current weather: %s

Write as an experienced tour guide in simple, direct language. Avoid generic phrases like "worth visiting" or "popular destination."`,
		req.SpotName, category, req.Location, req.Country, currentWeather)

	return []types.CompletionMessage{
		{Role: "system", Content: descriptionSystemPrompt},
		{Role: "user", Content: prompt},
	}
}
