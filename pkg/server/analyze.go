package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"rewind/pkg/agent"
	"rewind/pkg/inference"
	"rewind/pkg/utils"
)

type analyzeForm struct {
	image    inference.Image
	location string
	year     int
}

// bindAnalyzeForm reads the multipart fields shared by the analysis endpoints.
func (s *Server) bindAnalyzeForm(c echo.Context) (*analyzeForm, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "failed reading image upload")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "failed reading image upload")
	}

	location := strings.TrimSpace(c.FormValue("location"))
	year, err := strconv.Atoi(strings.TrimSpace(c.FormValue("target_year")))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "target_year must be an integer")
	}

	if err := agent.ValidateInput(inference.Image{Data: raw}, location, year); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	normalized, err := utils.NormalizeImage(raw, s.Cfg.MaxImageDim)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unsupported image format")
	}

	return &analyzeForm{
		image:    inference.Image{Data: normalized, MIME: "image/png"},
		location: location,
		year:     year,
	}, nil
}

// POST /api/analyze
//
// Runs the full pipeline and streams each stage's record as an SSE event
// (analysis, context, prompts), finishing with a done event carrying the
// complete result.
func (s *Server) handlePostAnalyze(c echo.Context) error {
	form, err := s.bindAnalyzeForm(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	w := utils.NewSSEWriter(c)
	defer w.Close()

	progress := func(stage string, record any) {
		if err := w.Event(stage, record); err != nil {
			c.Logger().Errorf("SSE write error on %s: %v", stage, err)
		}
	}

	result, err := s.Agent.Run(ctx, form.image, form.location, form.year, progress)
	if err != nil {
		_ = w.Event("error", utils.ErrJSON(err.Error()))
		return nil
	}

	if err := utils.Save(payloadPath(result.ID), result); err != nil {
		c.Logger().Warnf("failed to save result %s: %v", result.ID, err)
	}

	_ = w.Event("done", result)
	return nil
}

// POST /api/quick-analysis
//
// Runs only the scene analysis stage and returns the record as plain JSON.
func (s *Server) handlePostQuick(c echo.Context) error {
	form, err := s.bindAnalyzeForm(c)
	if err != nil {
		return err
	}

	analysis, outcome := s.Agent.Analyze(c.Request().Context(), form.image, form.location, form.year)
	return c.JSON(http.StatusOK, map[string]any{
		"analysis": analysis,
		"outcome":  outcome,
	})
}

// GET /api/payloads/:id
func (s *Server) handleGetPayload(c echo.Context) error {
	id := utils.SanitizeFilename(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payload id is required")
	}

	result, err := utils.Load[agent.Result](payloadPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return echo.NewHTTPError(http.StatusNotFound, "payload not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed reading payload")
	}
	return c.JSON(http.StatusOK, result)
}

func payloadPath(id string) string {
	return filepath.Join("payloads", utils.SanitizeFilename(id)+".json")
}
