package assistant

import "errors"

var (
	// ErrNoAPIKey is returned when no Gemini API key is configured.
	ErrNoAPIKey = errors.New("gemini api key not configured")

	// ErrEmptyReply is returned when the model produces no content.
	ErrEmptyReply = errors.New("model returned no content")

	// ErrToolRounds is returned when a single message keeps requesting
	// tool calls without ever answering.
	ErrToolRounds = errors.New("too many tool rounds")
)
