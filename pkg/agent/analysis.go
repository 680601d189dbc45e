package agent

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"rewind/pkg/inference"
	"rewind/pkg/schema"
)

// Analyze derives a SceneAnalysis from the photograph. With the capability
// disabled it returns the deterministic fallback; with unusable output it
// degrades to the same fallback; a failed capability call yields an error
// record. Analyze never returns an error.
func (a *Agent) Analyze(ctx context.Context, image inference.Image, location string, year int) (schema.SceneAnalysis, Outcome) {
	if !a.assisted() {
		return fallbackAnalysis(), OutcomeFallback
	}

	params := &openai.ChatCompletionNewParams{
		Model:               a.cfg.VisionModel,
		MaxCompletionTokens: openai.Int(2000),
		ResponseFormat:      schema.SceneAnalysisResponseFormat(),
	}
	user := fmt.Sprintf("Location: %s; TargetYear: %d", location, year)

	out, err := a.inf.InferVision(ctx, params, analysisInstruction, image, user)
	if err != nil {
		log.Error("scene analysis inference failed", "location", location, "error", err)
		return errorAnalysis(err), OutcomeError
	}

	raw, ok := a.decode(ctx, out)
	if !ok {
		log.Warn("scene analysis output unusable, using fallback", "location", location)
		return fallbackAnalysis(), OutcomeFallback
	}
	data, ok := schema.Coerce(raw, schema.SceneAnalysisShape)
	if !ok {
		log.Warn("scene analysis output is not an object, using fallback", "location", location)
		return fallbackAnalysis(), OutcomeFallback
	}
	analysis, err := schema.BuildRecord[schema.SceneAnalysis](data)
	if err != nil {
		log.Warn("scene analysis record construction failed, using fallback", "error", err)
		return fallbackAnalysis(), OutcomeFallback
	}

	log.Debug("scene analysis complete",
		"scene", analysis.SceneType,
		"architecture", len(analysis.ArchitecturalElements),
		"technology", len(analysis.TechnologyVisible))
	return analysis, OutcomeModel
}
