package generator

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiGenerator generates text through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a Gemini-backed generator. apiKey must be set;
// model defaults to gemini-2.0-flash when empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGoogleAI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements TextGenerator.
func (g *GeminiGenerator) Generate(ctx context.Context, instruction, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(instruction+"\n\n"+prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "gemini generation failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("empty response from model")
	}
	return b.String(), nil
}
