package completion

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// Client is one credential-bound connection to the text-completion service.
type Client interface {
	Generate(ctx context.Context, messages []types.CompletionMessage, temperature float32, maxTokens int32) (string, error)
}

type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(ctx context.Context, apiKey string, cfg config.CompletionConfig) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	return &geminiClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate sends the role-tagged message list and returns the response text.
// System messages become the system instruction; assistant turns map to the
// model role.
func (c *geminiClient) Generate(ctx context.Context, messages []types.CompletionMessage, temperature float32, maxTokens int32) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxTokens,
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			genConfig.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", err
	}

	return result.Text(), nil
}
