package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

// maxToolRounds bounds how many tool batches one user message may trigger
// before the exchange is abandoned.
const maxToolRounds = 8

// generateFunc matches genai's Models.GenerateContent, injected so tests
// can script responses.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// ToolCall records one dispatched call within an exchange.
type ToolCall struct {
	Name       string
	Args       map[string]any
	Result     any
	Err        string
	DurationMs int64
}

// Reply is the assistant's final answer to one user message, with the tool
// calls it made along the way.
type Reply struct {
	Text  string
	Calls []ToolCall
}

// Session is one conversation with the assistant. History accumulates
// across Send calls until Reset. Apart from SetModel, not safe for
// concurrent use.
type Session struct {
	registry *tools.Registry
	store    *store.Store
	logger   *zap.Logger

	mu       sync.Mutex
	model    string
	generate generateFunc

	history []*genai.Content
}

// NewSession starts a conversation using the given client and tool set.
func NewSession(client *Client, registry *tools.Registry, st *store.Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		registry: registry,
		store:    st,
		logger:   logger,
		model:    client.model,
		generate: client.genai.Models.GenerateContent,
	}
}

// Send delivers one user message and runs the tool loop until the model
// answers in text. Tool failures are reported back to the model rather
// than ending the exchange; only transport and shape problems do that.
func (s *Session) Send(ctx context.Context, text string) (*Reply, error) {
	prompt, err := BuildSystemPrompt(ctx, s.store)
	if err != nil {
		return nil, err
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: Declarations(s.registry.Describe())},
		},
	}

	s.history = append(s.history, genai.NewContentFromText(text, genai.RoleUser))

	var calls []ToolCall
	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.generate(ctx, s.Model(), s.history, config)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		content := replyContent(resp)
		if content == nil {
			return nil, ErrEmptyReply
		}
		s.history = append(s.history, content)

		pending := resp.FunctionCalls()
		if len(pending) == 0 {
			return &Reply{Text: resp.Text(), Calls: calls}, nil
		}

		parts := make([]*genai.Part, 0, len(pending))
		for _, call := range pending {
			outcome, payload := s.dispatch(ctx, call)
			calls = append(calls, outcome)
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, payload))
		}
		s.history = append(s.history, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return nil, fmt.Errorf("%w: gave up after %d", ErrToolRounds, maxToolRounds)
}

// Reset drops the conversation history.
func (s *Session) Reset() {
	s.history = nil
}

// SetModel switches which model later requests use. Safe to call while a
// Send is in flight; the change applies from the next request.
func (s *Session) SetModel(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.model = name
	s.mu.Unlock()
}

// Model returns the model name requests are sent to.
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	return len(s.history)
}

// dispatch runs one requested call and shapes its wire payload.
func (s *Session) dispatch(ctx context.Context, call *genai.FunctionCall) (ToolCall, map[string]any) {
	outcome := ToolCall{Name: call.Name, Args: call.Args}

	res, err := s.registry.Dispatch(ctx, call.Name, call.Args)
	if res != nil {
		outcome.DurationMs = res.DurationMs
	}
	if err == nil {
		outcome.Result, err = jsonify(res.Result)
	}
	if err != nil {
		s.logger.Warn("tool call failed",
			zap.String("tool", call.Name),
			zap.Error(err))
		outcome.Err = err.Error()
		return outcome, map[string]any{"error": err.Error()}
	}
	return outcome, map[string]any{"result": outcome.Result}
}

// replyContent extracts the model turn from a response.
func replyContent(resp *genai.GenerateContentResponse) *genai.Content {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content
}

// jsonify flattens a tool result to plain JSON types for the wire.
func jsonify(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}
	return out, nil
}
