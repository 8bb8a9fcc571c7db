// Package gemini asks Google Gemini models to correct grammar.
package gemini

import (
	"context"
	"errors"

	"github.com/opst/grammarfab/pkg/correction"
	xe "github.com/opst/grammarfab/pkg/errors"
	"github.com/opst/grammarfab/pkg/inference"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is given.
const DefaultModel = "gemini-2.0-flash"

const instruction = "You are a proofreader. Correct the grammar, spelling and punctuation " +
	"of the text the user gives. Keep its meaning and wording as much as possible. " +
	"Reply with the corrected text only, without quotes or explanations."

// generator is the part of genai.Models used by Client.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models      generator
	model       string
	temperature float32
}

var _ correction.Inferencer = &Client{}

type Option func(*Client) *Client

// WithModel sets the model name. default = DefaultModel
func WithModel(model string) Option {
	return func(c *Client) *Client {
		if model != "" {
			c.model = model
		}
		return c
	}
}

// WithTemperature sets sampling temperature. default = 0.1
func WithTemperature(t float64) Option {
	return func(c *Client) *Client {
		c.temperature = float32(t)
		return c
	}
}

// New connects to Gemini API with apiKey.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, xe.WrapWithNote("gemini: failed to create client", err)
	}
	return newClient(client.Models, options...), nil
}

func newClient(models generator, options ...Option) *Client {
	c := &Client{models: models, model: DefaultModel, temperature: 0.1}
	for _, opt := range options {
		c = opt(c)
	}
	return c
}

// Infer asks the model to correct text.
func (c *Client) Infer(ctx context.Context, text string) (string, error) {
	resp, err := c.models.GenerateContent(
		ctx, c.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			Temperature:       genai.Ptr(c.temperature),
			CandidateCount:    1,
		},
	)
	if err != nil {
		return "", xe.Wrap(err)
	}
	if resp == nil {
		return "", inference.ErrEmptyOutput
	}
	return inference.Clean(resp.Text())
}
