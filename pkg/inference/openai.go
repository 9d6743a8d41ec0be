package inference

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"veoprompt/pkg/schema"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIAnalyzer implements Analyzer using OpenAI's official Go SDK. It also
// serves OpenAI-compatible providers through a different base URL.
type OpenAIAnalyzer struct {
	client *openai.Client
	apiKey string
	model  string
	opts   []option.RequestOption
}

// NewOpenAIAnalyzer creates a new analyzer using the OpenAI client. SDK
// retries are off so each Analyze makes one request.
func NewOpenAIAnalyzer(apiKey string, model string, opts ...option.RequestOption) *OpenAIAnalyzer {
	o := &OpenAIAnalyzer{
		apiKey: apiKey,
		model:  cmp.Or(model, DefaultOpenAIModel),
		opts:   opts,
	}
	o.ChangeBaseURL("")
	return o
}

// ChangeBaseURL points the client at another OpenAI-compatible endpoint.
// An empty URL keeps the SDK default.
func (o *OpenAIAnalyzer) ChangeBaseURL(baseURL string) {
	opts := append([]option.RequestOption{option.WithAPIKey(o.apiKey), option.WithMaxRetries(0)}, o.opts...)
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	o.client = &client
}

func (o *OpenAIAnalyzer) SetModel(model string) {
	o.model = model
}

func (o *OpenAIAnalyzer) Model() string { return o.model }

// Analyze sends the image as a data URL next to the instruction and requests
// a strict JSON-schema response.
func (o *OpenAIAnalyzer) Analyze(ctx context.Context, image []byte, mimeType, instruction string) (schema.ImageAnalysis, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
							openai.TextContentPart(instruction),
						},
					},
				},
			},
		},
		ResponseFormat:      schema.StructuredOutputsResponseFormat(),
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.2),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return schema.ImageAnalysis{}, fmt.Errorf("%w: openai: %w", ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		return schema.ImageAnalysis{}, fmt.Errorf("%w: %w", ErrMalformedResponse, errors.New("no choices returned"))
	}

	content := resp.Choices[0].Message.Content
	log.Debug("openai analysis received", "model", o.model, "bytes", len(content))
	return parseAnalysis(content)
}
