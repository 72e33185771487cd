// Package expert makes single zero-shot chat-completion calls that
// role-play a named expert persona on behalf of the orchestrating
// assistant. Experts have no memory; every call is self-contained.
package expert

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrNoChoices is returned when the completion response carries no choices.
var ErrNoChoices = errors.New("no choices in completion response")

// expertTemperature keeps expert replies close to deterministic.
const expertTemperature = 0.2

// Caller issues persona'd completion requests against a fixed model.
type Caller struct {
	client openai.Client
	model  openai.ChatModel
}

// New creates a Caller. Extra request options (custom base URL, HTTP
// client) are forwarded to the SDK; tests inject a fake transport this way.
func New(apiKey, model string, opts ...option.RequestOption) (*Caller, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Caller{
		client: openai.NewClient(reqOpts...),
		model:  openai.ChatModel(model),
	}, nil
}

// Contact performs one zero-shot request: name and persona are embedded in
// the system message, instructions become the user message. Returns the
// first choice's text. The persona may be empty; the system message then
// carries only the name.
func (c *Caller) Contact(ctx context.Context, name, persona, instructions string) (string, error) {
	system := fmt.Sprintf("You are an %s. %s", name, persona)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(instructions),
		},
		Temperature: openai.Float(expertTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("contact expert %q: %w", name, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
