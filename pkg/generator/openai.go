package generator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI-compatible client used for
// single-shot generation. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator generates text through any OpenAI-compatible chat
// completion endpoint.
type OpenAIGenerator struct {
	client ChatCompleter
	model  string
}

// NewOpenAIGenerator wraps a chat client and model name.
func NewOpenAIGenerator(client ChatCompleter, model string) *OpenAIGenerator {
	return &OpenAIGenerator{client: client, model: model}
}

// Generate implements TextGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, instruction, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
