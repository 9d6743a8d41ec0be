// Package config reads the server configuration from the environment.
package config

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"veoprompt/pkg/analysis"
	"veoprompt/pkg/inference"
)

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderGrok     = "grok"
	ProviderMoonshot = "moonshot"
)

// LocalBaseURL is used when no provider key is configured at all.
const LocalBaseURL = "http://localhost:1234/v1"

var ErrUnknownProvider = errors.New("unknown inference provider")

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Provider string `env:"INFERENCE_PROVIDER"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	APIKey       string `env:"API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	GrokAPIKey string `env:"GROK_API_KEY"`
	GrokModel  string `env:"GROK_MODEL"`

	MoonshotAPIKey string `env:"MOONSHOT_API_KEY"`
	MoonshotModel  string `env:"MOONSHOT_MODEL"`

	MaxImageBytes     int64         `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`
	AnalysisWorkers   int           `env:"ANALYSIS_WORKERS" envDefault:"2"`
	AnalysisQueueSize int           `env:"ANALYSIS_QUEUE_SIZE" envDefault:"32"`
	AnalysisTimeout   time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"2m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (c Config) geminiKey() string {
	return cmp.Or(c.GeminiAPIKey, c.APIKey)
}

// ResolveProvider returns the explicit provider, or else the first one with
// a key, in the order gemini, openai, grok, moonshot. With no key at all it
// falls back to a local OpenAI-compatible server.
func (c Config) ResolveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	switch {
	case c.geminiKey() != "":
		return ProviderGemini
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GrokAPIKey != "":
		return ProviderGrok
	case c.MoonshotAPIKey != "":
		return ProviderMoonshot
	}
	return ProviderOpenAI
}

// Analyzer builds the vision analyzer for the resolved provider.
func (c Config) Analyzer(ctx context.Context) (inference.Analyzer, error) {
	provider := c.ResolveProvider()
	switch provider {
	case ProviderGemini:
		g, err := inference.NewGeminiAnalyzer(ctx, c.geminiKey(), c.GeminiModel)
		if err != nil {
			return nil, err
		}
		log.Info("using gemini analyzer", "model", g.Model())
		return g, nil
	case ProviderOpenAI:
		o := inference.NewOpenAIAnalyzer(c.OpenAIAPIKey, c.OpenAIModel)
		switch {
		case c.OpenAIBaseURL != "":
			o.ChangeBaseURL(c.OpenAIBaseURL)
		case c.OpenAIAPIKey == "":
			o.ChangeBaseURL(LocalBaseURL)
			o.SetModel(c.OpenAIModel)
			log.Warn("no inference key configured, using local server", "url", LocalBaseURL)
		}
		log.Info("using openai analyzer", "model", o.Model())
		return o, nil
	case ProviderGrok:
		o := inference.NewGrokAnalyzer(c.GrokAPIKey, c.GrokModel)
		log.Info("using grok analyzer", "model", o.Model())
		return o, nil
	case ProviderMoonshot:
		o := inference.NewMoonshotAnalyzer(c.MoonshotAPIKey, c.MoonshotModel)
		log.Info("using moonshot analyzer", "model", o.Model())
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
}

// BodyLimit is the largest request accepted: one image at MaxImageBytes plus
// room for the multipart envelope.
func (c Config) BodyLimit() int64 {
	return c.MaxImageBytes + 1<<20
}

func (c Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Workers:   c.AnalysisWorkers,
		QueueSize: c.AnalysisQueueSize,
		MaxBytes:  c.MaxImageBytes,
		Timeout:   c.AnalysisTimeout,
	}
}
