// Package assistant drives a Gemini chat session over the tool catalog.
//
// The assistant never touches the store directly. Every read and write it
// wants goes through a declared tool, the result is fed back as a function
// response, and the exchange repeats until the model answers in text.
package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when the config names none.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Gemini API connection.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient connects to the Gemini API.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{genai: client, model: model}, nil
}

// Model returns the model name in use.
func (c *Client) Model() string {
	return c.model
}

// Close releases the API connection. The underlying genai client is a
// stateless HTTP client with no close operation, so there is nothing to
// release.
func (c *Client) Close() error {
	return nil
}
