// Package hf asks text2text-generation models served in the
// Hugging Face inference API shape.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/opst/grammarfab/pkg/correction"
	xe "github.com/opst/grammarfab/pkg/errors"
	"github.com/opst/grammarfab/pkg/inference"
)

// Parameters are generation parameters of the model.
type Parameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	DoSample          bool    `json:"do_sample"`
}

// DefaultParameters are parameters tuned for grammar correction.
func DefaultParameters() Parameters {
	return Parameters{
		MaxNewTokens:      512,
		Temperature:       0.1,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
		DoSample:          false,
	}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generated struct {
	GeneratedText string `json:"generated_text"`
}

// StatusError is returned when the endpoint responds non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference endpoint responded %d: %s", e.Code, e.Body)
}

type Client struct {
	endpoint   string
	token      string
	parameters Parameters
	http       *http.Client
}

var _ correction.Inferencer = &Client{}

type Option func(*Client) *Client

// WithToken sets an API token sent as "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(c *Client) *Client {
		c.token = token
		return c
	}
}

// WithParameters replaces DefaultParameters().
func WithParameters(p Parameters) Option {
	return func(c *Client) *Client {
		c.parameters = p
		return c
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) *Client {
		c.http = hc
		return c
	}
}

// New creates a Client POSTing to endpoint.
func New(endpoint string, options ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		parameters: DefaultParameters(),
		http:       http.DefaultClient,
	}
	for _, opt := range options {
		c = opt(c)
	}
	return c
}

// maxErrorBody is the limit of response body quoted in StatusError.
const maxErrorBody = 1024

// Infer asks the model to correct text.
//
// It fails when the endpoint responds non-2xx status, malformed JSON,
// or nothing but a prompt echo.
func (c *Client) Infer(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(request{Inputs: text, Parameters: c.parameters})
	if err != nil {
		return "", xe.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", xe.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", xe.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	var out []generated
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", xe.WrapWithNote("malformed response", err)
	}
	if len(out) == 0 {
		return "", inference.ErrEmptyOutput
	}
	return inference.Clean(out[0].GeneratedText)
}
