package describe

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Gemini asks a Gemini model for the description.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOption adjusts the client configuration, mostly for tests.
type GeminiOption func(*genai.ClientConfig)

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) GeminiOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = hc
	}
}

// NewGemini creates a client for the Gemini API authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GeminiFactory returns a Factory creating Gemini clients for model.
func GeminiFactory(model string, opts ...GeminiOption) Factory {
	return func(apiKey string) (Describer, error) {
		return NewGemini(context.Background(), apiKey, model, opts...)
	}
}

func (g *Gemini) Describe(ctx context.Context, title, mood string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(title, mood)), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
