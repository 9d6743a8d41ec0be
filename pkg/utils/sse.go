package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrNotFlushable = errors.New("SSE not supported: ResponseWriter not flushable")

// SSEWriter writes server-sent events to an echo response.
type SSEWriter struct {
	w    http.ResponseWriter
	fl   http.Flusher
	done bool
}

// NewSSEWriter sends the stream headers and a 200 status.
func NewSSEWriter(c echo.Context) (*SSEWriter, error) {
	res := c.Response()
	f, ok := res.Writer.(http.Flusher)
	if !ok {
		return nil, ErrNotFlushable
	}

	h := res.Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	f.Flush()
	return &SSEWriter{w: res, fl: f}, nil
}

// Event sends one named event. Strings are sent as-is, anything else as JSON.
func (s *SSEWriter) Event(event string, data any) error {
	if s.done {
		return nil
	}
	payload, ok := data.(string)
	if !ok {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	return s.write("event: %s\ndata: %s\n\n", event, payload)
}

// Ping writes a comment line so idle proxies keep the stream open.
func (s *SSEWriter) Ping() error {
	if s.done {
		return nil
	}
	return s.write(": ping\n\n")
}

func (s *SSEWriter) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.w, format, args...); err != nil {
		return err
	}
	s.fl.Flush()
	return nil
}

// Close sends the final "close" event. Later writes are dropped.
func (s *SSEWriter) Close() {
	if s.done {
		return
	}
	_ = s.write("event: close\ndata: null\n\n")
	s.done = true
}
