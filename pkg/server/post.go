package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"veoprompt/pkg/analysis"
)

// POST /api/characters
func (s *Server) handlePostCharacter(c echo.Context) error {
	return c.JSON(http.StatusCreated, s.Session.AddCharacter())
}

// POST /api/dialogues
func (s *Server) handlePostDialogue(c echo.Context) error {
	d, err := s.Session.AddDialogue()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// POST /api/characters/:id/image takes a multipart "image" file, marks the
// character as analyzing and queues the analysis. With ?wait=true the
// response is sent after the result has been merged.
func (s *Server) handlePostImage(c echo.Context) error {
	id := c.Param("id")
	fh, err := c.FormFile("image")
	if err != nil {
		log.Warn("image upload without file", "character", id, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"image\" is required")
	}

	up := analysis.Upload{
		MimeType: fh.Header.Get(echo.HeaderContentType),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}

	wait, _ := strconv.ParseBool(c.QueryParam("wait"))
	if !wait {
		char, err := s.Analysis.Submit(id, up)
		if err != nil {
			return writeAnalysisError(c, err)
		}
		return c.JSON(http.StatusAccepted, char)
	}

	char, err := s.Analysis.SubmitAndWait(c.Request().Context(), id, up)
	if err != nil {
		return writeAnalysisError(c, err)
	}
	return c.JSON(http.StatusOK, char)
}
