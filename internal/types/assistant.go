package types

// SpotContext is the structured grounding passed to the assistant alongside a
// visitor question or description request.
type SpotContext struct {
	SpotID   string `json:"spot_id"`
	SpotName string `json:"spot_name"`
	Category string `json:"spot_category"`
	Location string `json:"location"`
	Country  string `json:"country"`
}

// AskQuestionRequest is a visitor question about a selected spot.
type AskQuestionRequest struct {
	SpotContext
	Question string           `json:"question"`
	Weather  *WeatherSnapshot `json:"weather_data,omitempty"`
}

// DescriptionRequest asks for a generated spot description.
type DescriptionRequest struct {
	SpotContext
	Weather *WeatherSnapshot `json:"weather_data,omitempty"`
}

// CompletionMessage is one role-tagged turn sent to the text-completion
// service.
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
