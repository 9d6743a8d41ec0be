package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"veoprompt/pkg/session"
	"veoprompt/pkg/utils"
)

const pingInterval = 25 * time.Second

// GET /api/events streams a "prompts" event after every state change and a
// "notice" event when an analysis fails. The current prompts are sent first.
func (s *Server) handleGetEvents(c echo.Context) error {
	events, unsubscribe := s.Session.Subscribe(16)
	defer unsubscribe()

	w, err := utils.NewSSEWriter(c)
	if err != nil {
		return err
	}
	defer w.Close()

	snap := s.Session.Snapshot()
	if err := w.Event(session.EventPrompts, session.Event{Type: session.EventPrompts, Version: snap.Version, Prompts: &snap.Prompts}); err != nil {
		return nil
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ping.C:
			if err := w.Ping(); err != nil {
				return nil
			}
		case <-ctx.Done():
			return nil
		case <-s.Ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := w.Event(ev.Type, ev); err != nil {
				log.Warn("SSE write error", "error", err)
				return nil
			}
		}
	}
}
