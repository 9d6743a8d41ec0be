package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"veoprompt/pkg/diff"
	"veoprompt/pkg/prompt"
	"veoprompt/pkg/schema"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Veo Prompt Generator API",
		"status":  "ok",
	})
}

// GET /api/options
func (s *Server) handleGetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, schema.AllOptions())
}

// GET /api/state
func (s *Server) handleGetState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Session.Snapshot())
}

// GET /api/prompts
func (s *Server) handleGetPrompts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Session.Prompts())
}

func languageParam(c echo.Context) (prompt.Language, error) {
	lang, ok := prompt.ParseLanguage(c.Param("lang"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown language, expected id, en or json")
	}
	return lang, nil
}

// GET /api/prompts/:lang returns one render as plain text for copying.
func (s *Server) handleGetPrompt(c echo.Context) error {
	lang, err := languageParam(c)
	if err != nil {
		return err
	}
	text := s.Session.Prompts().For(lang)
	if lang == prompt.JSON {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(text))
	}
	return c.String(http.StatusOK, text)
}

// GET /api/prompts/:lang/diff
func (s *Server) handleGetPromptDiff(c echo.Context) error {
	lang, err := languageParam(c)
	if err != nil {
		return err
	}
	previous, current := s.Session.PromptPair()
	return c.JSON(http.StatusOK, diff.Prompts(previous, current, lang))
}

// GET /api/prompts/tokens
func (s *Server) handleGetTokens(c echo.Context) error {
	out := s.Session.Prompts()
	counts := make(map[prompt.Language]int, len(prompt.Languages))
	for _, lang := range prompt.Languages {
		n, err := s.CountTokens(out.For(lang))
		if err != nil {
			log.Warn("token count failed", "lang", lang, "error", err)
			n = -1
		}
		counts[lang] = n
	}
	return c.JSON(http.StatusOK, counts)
}
