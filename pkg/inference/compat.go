package inference

import (
	"cmp"

	"github.com/openai/openai-go/v3/option"
)

// NewGrokAnalyzer targets xAI's OpenAI-compatible API.
func NewGrokAnalyzer(apiKey string, model string, opts ...option.RequestOption) *OpenAIAnalyzer {
	o := NewOpenAIAnalyzer(apiKey, cmp.Or(model, "grok-4-fast-non-reasoning"), opts...)
	o.ChangeBaseURL("https://api.x.ai/v1")
	return o
}

// NewMoonshotAnalyzer targets Moonshot AI's OpenAI-compatible API.
func NewMoonshotAnalyzer(apiKey string, model string, opts ...option.RequestOption) *OpenAIAnalyzer {
	o := NewOpenAIAnalyzer(apiKey, cmp.Or(model, "moonshot-v1-8k-vision-preview"), opts...)
	o.ChangeBaseURL("https://api.moonshot.ai/v1")
	return o
}
