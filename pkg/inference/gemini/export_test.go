package gemini

import (
	"context"

	"google.golang.org/genai"
)

// GeneratorFunc is a fake of Gemini API.
type GeneratorFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f GeneratorFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, config)
}

func NewWithGenerator(g GeneratorFunc, options ...Option) *Client {
	return newClient(g, options...)
}
