package server

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"veoprompt/pkg/analysis"
	"veoprompt/pkg/inference"
	"veoprompt/pkg/preview"
	"veoprompt/pkg/session"
	"veoprompt/pkg/utils"
)

type Server struct {
	Echo     *echo.Echo
	Session  *session.Session
	Analysis *analysis.Service
	Previews *preview.Store
	Ctx      context.Context

	// CountTokens estimates prompt sizes for /api/prompts/tokens.
	CountTokens func(string) (int, error)
}

const defaultBodyLimit = 16 << 20

// NewServer builds the API. bodyLimit caps request bodies in bytes; zero
// means 16 MiB.
func NewServer(ctx context.Context, sess *session.Session, svc *analysis.Service, previews *preview.Store, bodyLimit int64) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(strconv.FormatInt(cmp.Or(bodyLimit, defaultBodyLimit), 10) + "B"))

	s := &Server{
		Echo:        e,
		Session:     sess,
		Analysis:    svc,
		Previews:    previews,
		Ctx:         ctx,
		CountTokens: utils.CountTokens,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.GET("/options", s.handleGetOptions)
	api.GET("/state", s.handleGetState)
	api.GET("/events", s.handleGetEvents)

	api.GET("/prompts", s.handleGetPrompts)
	api.GET("/prompts/tokens", s.handleGetTokens)
	api.GET("/prompts/:lang", s.handleGetPrompt)
	api.GET("/prompts/:lang/diff", s.handleGetPromptDiff)

	api.POST("/characters", s.handlePostCharacter)
	api.PATCH("/characters/:id", s.handlePatchCharacter)
	api.DELETE("/characters/:id", s.handleDeleteCharacter)
	api.POST("/characters/:id/image", s.handlePostImage)

	api.POST("/dialogues", s.handlePostDialogue)
	api.PATCH("/dialogues/:id", s.handlePatchDialogue)
	api.DELETE("/dialogues/:id", s.handleDeleteDialogue)

	api.PATCH("/environment", s.handlePatchEnvironment)

	api.GET("/previews/:id", s.handleGetPreview)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

// Shutdown stops accepting requests, cancels running analyses and releases
// every preview.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")

	err := s.Echo.Shutdown(ctx)
	if s.Analysis != nil {
		s.Analysis.Stop()
	}
	s.Session.Close()
	if s.Previews != nil {
		s.Previews.ReleaseAll()
	}
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, preview.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoCharacters),
		errors.Is(err, session.ErrAnalyzing),
		errors.Is(err, analysis.ErrAlreadyAnalyzing):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, analysis.ErrFileRead):
		return http.StatusBadRequest
	case errors.Is(err, inference.ErrTransport), errors.Is(err, inference.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError renders err in the {"success":false,"error":...} shape.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, utils.ErrJSON(err.Error()))
}

// writeAnalysisError adds the failure kind and the Indonesian notification.
func writeAnalysisError(c echo.Context, err error) error {
	body := utils.ErrJSON(err.Error())
	body["kind"] = analysis.Kind(err)
	body["message"] = analysis.Message(err)
	return c.JSON(statusFor(err), body)
}
