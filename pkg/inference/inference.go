package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"veoprompt/pkg/schema"
	"veoprompt/pkg/utils"
)

var (
	// ErrTransport covers requests that could not be sent or that the remote rejected.
	ErrTransport = errors.New("inference request failed")
	// ErrMalformedResponse means the reply did not match the structured shape.
	ErrMalformedResponse = errors.New("malformed inference response")
)

// Analyzer describes the person in an image. Implementations make exactly
// one remote call per invocation.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType, instruction string) (schema.ImageAnalysis, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, image []byte, mimeType, instruction string) (schema.ImageAnalysis, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, image []byte, mimeType, instruction string) (schema.ImageAnalysis, error) {
	return f(ctx, image, mimeType, instruction)
}

// parseAnalysis decodes the model output into the six-field shape. Missing
// keys decode to empty strings; anything that is not a JSON object fails.
func parseAnalysis(raw string) (schema.ImageAnalysis, error) {
	var out schema.ImageAnalysis
	raw = utils.CleanJSON(raw)
	if raw == "" {
		return out, fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	if !strings.HasPrefix(raw, "{") {
		return out, fmt.Errorf("%w: expected a JSON object, got %q", ErrMalformedResponse, utils.LimitStr(raw, 40))
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return out, nil
}
