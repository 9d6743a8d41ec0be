package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"veoprompt/pkg/preview"
)

// GET /api/previews/:id serves the display copy of an uploaded image.
func (s *Server) handleGetPreview(c echo.Context) error {
	if s.Previews == nil {
		return echo.NewHTTPError(http.StatusNotFound, "previews disabled")
	}
	img, err := s.Previews.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	mimeType := img.MimeType
	if !preview.Displayable(mimeType) {
		mimeType = echo.MIMEOctetStream
	}

	h := c.Response().Header()
	h.Set("Cache-Control", "private, max-age=3600")
	h.Set(echo.HeaderXContentTypeOptions, "nosniff")
	h.Set(echo.HeaderContentSecurityPolicy, "default-src 'none'")
	return c.Blob(http.StatusOK, mimeType, img.Data)
}
