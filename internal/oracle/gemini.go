package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements TextOracle using Gemini text generation.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  modelName,
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(prompt)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", &ServiceError{Provider: "gemini", Reason: "request failed", Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &ServiceError{Provider: "gemini", Reason: "empty completion"}
	}
	return cleanMarkdownOutput(text), nil
}
