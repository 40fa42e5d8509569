// ABOUTME: Registry is the opaque responder boundary and its OpenAI-backed implementation
// ABOUTME: One Invoke produces one reply authored by the named responder
package agents

import (
	"context"
	"fmt"

	"github.com/harper/support-desk/internal/models"
	"github.com/harper/support-desk/internal/routing"
	openai "github.com/sashabaranov/go-openai"
)

// Registry invokes a named responder against the conversation so far and
// returns its single reply. Implementations may fail with any error; the
// coordinator owns retries, so a registry must not retry internally.
type Registry interface {
	Invoke(ctx context.Context, name string, history []models.Message) (models.Message, error)
}

// OpenAIRegistry runs each responder as a chat completion with a
// role-specific system prompt.
type OpenAIRegistry struct {
	client  *openai.Client
	model   string
	prompts map[string]string
}

// NewOpenAIRegistry creates a registry for every responder in the roster.
func NewOpenAIRegistry(apiKey, model string, roster routing.Roster) (*OpenAIRegistry, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIRegistry{
		client:  openai.NewClient(apiKey),
		model:   model,
		prompts: buildPrompts(roster),
	}, nil
}

// Invoke runs one completion for the named responder. The reply text is
// returned verbatim; envelope parsing happens downstream.
func (r *OpenAIRegistry) Invoke(ctx context.Context, name string, history []models.Message) (models.Message, error) {
	prompt, ok := r.prompts[name]
	if !ok {
		return models.Message{}, fmt.Errorf("unknown responder %q", name)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	})
	for _, m := range history {
		if m.IsUser() {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Name:    m.Author,
			Content: m.Content,
		})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("responder %s: %w", name, err)
	}
	if len(resp.Choices) == 0 {
		return models.Message{}, fmt.Errorf("responder %s: no completion choices returned", name)
	}

	return models.Message{
		Author:   name,
		Content:  resp.Choices[0].Message.Content,
		Sequence: len(history),
	}, nil
}
