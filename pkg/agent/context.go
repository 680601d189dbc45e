package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"rewind/pkg/schema"
	"rewind/pkg/utils"
)

// Research derives a HistoricalContext for the place and period, grounded on
// the scene analysis. Same degradation policy as Analyze: fallback on
// disabled capability or unusable output, error record when the call fails.
func (a *Agent) Research(ctx context.Context, location string, year int, analysis schema.SceneAnalysis) (schema.HistoricalContext, Outcome) {
	if !a.assisted() {
		return fallbackContext(location, year), OutcomeFallback
	}

	prompt := fmt.Sprintf(
		"Provide ONLY a JSON object describing the historical context of %s in %d. "+
			"Keys: architectural_styles, common_materials, typical_clothing, transportation_methods, "+
			"technology_level, cultural_characteristics, notable_events, social_context. "+
			"Image cues: %s; Scene: %s. "+
			"Every value must be an array of short strings; use [] when unknown, never omit a key.",
		location, year,
		strings.Join(firstN(analysis.ArchitecturalElements, 8), ", "),
		analysis.SceneType,
	)

	if n, err := utils.NumTokensFromMessages(prompt); err == nil {
		log.Debug("researching historical context", "location", location, "year", year, "tokens", n)
	}

	params := &openai.ChatCompletionNewParams{
		Model:               a.cfg.TextModel,
		MaxCompletionTokens: openai.Int(1500),
		Temperature:         openai.Float(0.35),
		ResponseFormat:      schema.HistoricalContextResponseFormat(),
	}

	out, err := a.inf.Infer(ctx, params, "", prompt)
	if err != nil {
		log.Error("historical context inference failed", "location", location, "year", year, "error", err)
		return errorContext(err), OutcomeError
	}

	raw, ok := a.decode(ctx, out)
	if !ok {
		log.Warn("historical context output unusable, using fallback", "location", location, "year", year)
		return fallbackContext(location, year), OutcomeFallback
	}
	data, ok := schema.Coerce(raw, schema.HistoricalContextShape)
	if !ok {
		log.Warn("historical context output is not an object, using fallback", "location", location, "year", year)
		return fallbackContext(location, year), OutcomeFallback
	}
	hctx, err := schema.BuildRecord[schema.HistoricalContext](data)
	if err != nil {
		log.Warn("historical context record construction failed, using fallback", "error", err)
		return fallbackContext(location, year), OutcomeFallback
	}

	log.Debug("historical context complete",
		"styles", len(hctx.ArchitecturalStyles),
		"materials", len(hctx.CommonMaterials),
		"events", len(hctx.NotableEvents))
	return hctx, OutcomeModel
}
