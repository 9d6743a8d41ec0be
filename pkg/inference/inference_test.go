package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"veoprompt/pkg/schema"
)

const analysisJSON = `{"race":"Indonesia-Jawa","gender":"Pria","age":"32","outfit":"batik cokelat","hairstyle":"cepak","description":"Tersenyum ke kamera."}`

func TestParseAnalysis(t *testing.T) {
	want := schema.ImageAnalysis{
		Race: "Indonesia-Jawa", Gender: "Pria", Age: "32",
		Outfit: "batik cokelat", Hairstyle: "cepak", Description: "Tersenyum ke kamera.",
	}

	for name, raw := range map[string]string{
		"plain":  analysisJSON,
		"fenced": "```json\n" + analysisJSON + "\n```",
		"spaces": "\n  " + analysisJSON + "  \n",
	} {
		t.Run(name, func(t *testing.T) {
			got, err := parseAnalysis(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("missing keys are empty", func(t *testing.T) {
		got, err := parseAnalysis(`{"race":"Arab"}`)
		require.NoError(t, err)
		assert.Equal(t, schema.ImageAnalysis{Race: "Arab"}, got)
	})

	for name, raw := range map[string]string{
		"empty":     "",
		"prose":     "Maaf, saya tidak bisa melihat gambar.",
		"array":     `["Arab"]`,
		"truncated": `{"race":"Arab","gender":`,
	} {
		t.Run("malformed "+name, func(t *testing.T) {
			_, err := parseAnalysis(raw)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string `json:"name"`
			Strict bool   `json:"strict"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "test",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func fakeOpenAI(t *testing.T, status int, body string, seen *chatRequest) (*OpenAIAnalyzer, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(raw, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	o := NewOpenAIAnalyzer("test-key", "", option.WithRequestTimeout(5*time.Second))
	o.ChangeBaseURL(srv.URL + "/v1/")
	return o, &hits
}

func TestOpenAIAnalyze(t *testing.T) {
	var req chatRequest
	o, hits := fakeOpenAI(t, http.StatusOK, chatCompletion(analysisJSON), &req)

	got, err := o.Analyze(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "jelaskan")
	require.NoError(t, err)
	assert.Equal(t, "Indonesia-Jawa", got.Race)
	assert.Equal(t, "Tersenyum ke kamera.", got.Description)
	assert.EqualValues(t, 1, hits.Load())

	assert.Equal(t, DefaultOpenAIModel, req.Model)
	assert.Equal(t, "json_schema", req.ResponseFormat.Type)
	assert.Equal(t, "character_image_analysis", req.ResponseFormat.JSONSchema.Name)
	assert.True(t, req.ResponseFormat.JSONSchema.Strict)
	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Content, 2)
	assert.Equal(t, "data:image/png;base64,iVBORw==", req.Messages[0].Content[0].ImageURL.URL)
	assert.Equal(t, "jelaskan", req.Messages[0].Content[1].Text)
}

func TestOpenAIAnalyzeFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		o, hits := fakeOpenAI(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)
		_, err := o.Analyze(context.Background(), []byte("x"), "image/png", "i")
		assert.ErrorIs(t, err, ErrTransport)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
		assert.EqualValues(t, 1, hits.Load(), "no retries")
	})

	t.Run("prose answer", func(t *testing.T) {
		o, _ := fakeOpenAI(t, http.StatusOK, chatCompletion("I cannot help with that."), nil)
		_, err := o.Analyze(context.Background(), []byte("x"), "image/png", "i")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("no choices", func(t *testing.T) {
		o, _ := fakeOpenAI(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)
		_, err := o.Analyze(context.Background(), []byte("x"), "image/png", "i")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestCompatibleProvidersKeepModels(t *testing.T) {
	assert.Equal(t, "grok-4-fast-non-reasoning", NewGrokAnalyzer("k", "").Model())
	assert.Equal(t, "custom", NewMoonshotAnalyzer("k", "custom").Model())
}

func TestGeminiAnalyze(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, DefaultGeminiModel+":generateContent")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		resp, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": analysisJSON}},
				},
			}},
		})
		_, _ = w.Write(resp)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGeminiAnalyzerWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	}, "")
	require.NoError(t, err)

	got, err := g.Analyze(context.Background(), []byte("img"), "image/jpeg", "jelaskan")
	require.NoError(t, err)
	assert.Equal(t, "cepak", got.Hairstyle)

	config, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig sent")
	assert.Equal(t, "application/json", config["responseMimeType"])
	assert.NotNil(t, config["responseSchema"])
}
