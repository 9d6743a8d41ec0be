package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"veoprompt/pkg/schema"
)

// PATCH /api/characters/:id
func (s *Server) handlePatchCharacter(c echo.Context) error {
	var patch schema.CharacterPatch
	if err := c.Bind(&patch); err != nil {
		log.Warn("invalid JSON in character patch", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	char, err := s.Session.UpdateCharacter(c.Param("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, char)
}

// DELETE /api/characters/:id removes the character with its dialogues.
func (s *Server) handleDeleteCharacter(c echo.Context) error {
	id := c.Param("id")
	removed, err := s.Session.DeleteCharacter(id)
	if err != nil {
		return writeError(c, err)
	}
	log.Info("character deleted", "id", id, "dialogues", removed)
	return c.JSON(http.StatusOK, map[string]any{
		"success":           true,
		"dialogues_removed": removed,
	})
}

// PATCH /api/dialogues/:id
func (s *Server) handlePatchDialogue(c echo.Context) error {
	var patch schema.DialoguePatch
	if err := c.Bind(&patch); err != nil {
		log.Warn("invalid JSON in dialogue patch", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	d, err := s.Session.UpdateDialogue(c.Param("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// DELETE /api/dialogues/:id
func (s *Server) handleDeleteDialogue(c echo.Context) error {
	if err := s.Session.DeleteDialogue(c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PATCH /api/environment
func (s *Server) handlePatchEnvironment(c echo.Context) error {
	var patch schema.EnvironmentPatch
	if err := c.Bind(&patch); err != nil {
		log.Warn("invalid JSON in environment patch", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	return c.JSON(http.StatusOK, s.Session.UpdateEnvironment(patch))
}
