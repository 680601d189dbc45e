package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rewind/pkg/agent"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":  "Rewind Analysis API",
		"status":   "ok",
		"min_year": agent.MinYear,
		"max_year": agent.MaxYear,
	})
}

func (s *Server) handleGetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rewind-analysis",
	})
}
