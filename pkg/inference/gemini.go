package inference

import (
	"cmp"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"veoprompt/pkg/schema"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates an analyzer backed by the Gemini API.
func NewGeminiAnalyzer(ctx context.Context, apiKey string, model string) (*GeminiAnalyzer, error) {
	return NewGeminiAnalyzerWithConfig(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func NewGeminiAnalyzerWithConfig(ctx context.Context, config *genai.ClientConfig, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAnalyzer{
		client: client,
		model:  cmp.Or(model, DefaultGeminiModel),
	}, nil
}

func (g *GeminiAnalyzer) Model() string { return g.model }

// Analyze sends the image inline with the instruction and asks for JSON
// constrained to the six-field schema.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, mimeType, instruction string) (schema.ImageAnalysis, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.GeminiResponseSchema(),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return schema.ImageAnalysis{}, fmt.Errorf("%w: gemini: %w", ErrTransport, err)
	}

	text := result.Text()
	log.Debug("gemini analysis received", "model", g.model, "bytes", len(text))
	return parseAnalysis(text)
}
