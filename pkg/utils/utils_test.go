package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                             `{"a":1}`,
		"  {\"a\":1}\n":                       `{"a":1}`,
		"```json\n{\"a\":1}\n```":             `{"a":1}`,
		"```\n{\"a\":1}\n```  ":               `{"a":1}`,
		"```json\n{\"a\":1}\n```\n":           `{"a":1}`,
		"":                                    "",
		"not json":                            "not json",
		"<think>hmm {x}</think>\n{\"a\":1}":   `{"a":1}`,
		"Here it is: {\"a\":1} hope it helps": `{"a":1}`,
		"```{\"a\":1}```":                     `{"a":1}`,
		`["a"]`:                               `["a"]`,
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanJSON(in), "input %q", in)
	}
}

func TestLimitStr(t *testing.T) {
	assert.Equal(t, "abc", LimitStr("abc", 3))
	assert.Equal(t, "ab...", LimitStr("abc", 2))
	assert.Equal(t, "ü...", LimitStr("üü", 1))
}

func TestErrJSON(t *testing.T) {
	assert.Equal(t, map[string]any{"success": false, "error": "boom"}, ErrJSON("boom"))
}

func TestSSEWriter(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	w, err := NewSSEWriter(c)
	require.NoError(t, err)
	require.NoError(t, w.Event("prompts", map[string]string{"en": "x"}))
	require.NoError(t, w.Event("raw", "hello"))
	require.NoError(t, w.Ping())
	w.Close()
	w.Close()
	require.NoError(t, w.Event("ignored", "after close"))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "event: prompts\ndata: {\"en\":\"x\"}\n\nevent: raw\ndata: hello\n\n: ping\n\nevent: close\ndata: null\n\n", rec.Body.String())
}
