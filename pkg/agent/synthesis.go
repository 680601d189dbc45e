package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"rewind/pkg/schema"
	"rewind/pkg/utils"
)

// baseNegatives are the anachronism terms every generation request suppresses.
var baseNegatives = []string{
	"modern cars", "neon lights", "modern signage", "skyscrapers",
	"contemporary clothing", "smartphones", "electric poles", "traffic lights",
}

// periodStyleModifiers bias the renderer toward a period-photograph look.
var periodStyleModifiers = []string{
	"historical realism", "rich texture", "fine detail",
	"natural lighting", "film grain", "high dynamic range",
}

const negativeFallback = "modern elements, contemporary cars, modern signage, modern clothing"

// Synthesize merges the scene analysis, historical context and enrichment
// keywords into PromptComponents. The heuristic path is fully deterministic
// and is also the fallback target for every failure of the model-assisted
// path, so both paths produce records of the identical shape.
func (a *Agent) Synthesize(ctx context.Context, analysis schema.SceneAnalysis, hctx schema.HistoricalContext, location string, year int) (schema.PromptComponents, Outcome) {
	var tokens []string
	if a.enricher != nil && a.cfg.EnableEnrichment && strings.TrimSpace(location) != "" {
		tokens = a.enricher.Enrich(ctx, location, year, hctx.ArchitecturalStyles)
	}

	if !a.assisted() {
		return a.heuristicComponents(analysis, hctx, location, year, tokens), OutcomeFallback
	}

	prompt := a.synthesisPrompt(analysis, hctx, location, year, tokens)
	if n, err := utils.NumTokensFromMessages(prompt); err == nil {
		log.Debug("synthesizing prompt components", "location", location, "year", year, "tokens", n)
	}

	params := &openai.ChatCompletionNewParams{
		Model:               a.cfg.TextModel,
		MaxCompletionTokens: openai.Int(1200),
		Temperature:         openai.Float(0.4),
		ResponseFormat:      schema.PromptComponentsResponseFormat(),
	}

	out, err := a.inf.Infer(ctx, params, "", prompt)
	if err != nil {
		// The heuristic result is complete on its own, so a failed call
		// falls back in full rather than producing a partial record.
		log.Error("prompt synthesis inference failed, using heuristic path", "error", err)
		return a.heuristicComponents(analysis, hctx, location, year, tokens), OutcomeError
	}

	components, ok := a.parseComponents(ctx, out, analysis, location, year)
	if !ok {
		return a.heuristicComponents(analysis, hctx, location, year, tokens), OutcomeFallback
	}
	return components, OutcomeModel
}

func (a *Agent) synthesisPrompt(analysis schema.SceneAnalysis, hctx schema.HistoricalContext, location string, year int, tokens []string) string {
	prompt := fmt.Sprintf(
		"You are a prompt engineering assistant. Produce ONLY compact JSON (no markdown). "+
			"Target: transform the scene to %s in %d. "+
			"Keys: core_description (<=40 words), historical_style_tags (5-10), architectural_details (6-12), "+
			"atmospheric_elements (4-8), negative_prompts (8-15), style_modifiers (6-10), composition_guidance (3-6). "+
			"Avoid commentary.\n"+
			"SceneType=%s; Arch=%s; Styles=%s; Materials=%s; Mood=%s.",
		location, year,
		analysis.SceneType,
		strings.Join(firstN(analysis.ArchitecturalElements, 10), "; "),
		strings.Join(firstN(hctx.ArchitecturalStyles, 8), "; "),
		strings.Join(firstN(hctx.CommonMaterials, 6), "; "),
		strings.Join(firstN(moodValues(analysis), 4), "; "),
	)
	if len(tokens) > 0 {
		prompt += " ExtraHistoricalKeywords=" + strings.Join(firstN(tokens, 12), ", ")
	}
	return prompt
}

func (a *Agent) parseComponents(ctx context.Context, out string, analysis schema.SceneAnalysis, location string, year int) (schema.PromptComponents, bool) {
	var zero schema.PromptComponents

	raw, ok := a.decode(ctx, out)
	if !ok {
		log.Warn("prompt synthesis output unusable, using heuristic path")
		return zero, false
	}
	data, ok := schema.Coerce(raw, schema.PromptComponentsShape)
	if !ok {
		log.Warn("prompt synthesis output is not an object, using heuristic path")
		return zero, false
	}
	if desc, _ := data["core_description"].(string); strings.TrimSpace(desc) == "" {
		data["core_description"] = coreDescription(analysis, location, year)
	}
	components, err := schema.BuildRecord[schema.PromptComponents](data)
	if err != nil {
		log.Warn("prompt components construction failed, using heuristic path", "error", err)
		return zero, false
	}
	return components, true
}

// heuristicComponents is the deterministic synthesis path. Calling it twice
// with the same inputs yields byte-identical records.
func (a *Agent) heuristicComponents(analysis schema.SceneAnalysis, hctx schema.HistoricalContext, location string, year int, tokens []string) schema.PromptComponents {
	styles := hctx.ArchitecturalStyles
	materials := hctx.CommonMaterials

	var atmos []string
	for _, m := range moodValues(analysis) {
		atmos = append(atmos, truncate(strings.ToLower(strings.TrimSpace(m)), 60))
	}

	negatives := slices.Clone(baseNegatives)
	for _, t := range firstN(analysis.TechnologyVisible, 5) {
		negatives = append(negatives, "modern "+t)
	}

	return schema.PromptComponents{
		CoreDescription:      coreDescription(analysis, location, year),
		HistoricalStyleTags:  capList(dedupe(concat(firstN(styles, 8), firstN(materials, 5), firstN(tokens, 6))), 10),
		ArchitecturalDetails: capList(dedupe(concat(firstN(analysis.ArchitecturalElements, 10), firstN(materials, 5))), 12),
		AtmosphericElements:  capList(dedupe(atmos), 6),
		NegativePrompts:      capList(dedupe(negatives), 15),
		StyleModifiers:       slices.Clone(periodStyleModifiers),
		CompositionGuidance:  capList(dedupe(concat(firstN(analysis.CompositionElements, 4), []string{"maintain original perspective"})), 5),
	}
}

func coreDescription(analysis schema.SceneAnalysis, location string, year int) string {
	scene := analysis.SceneType
	if scene == "unknown" || scene == "" {
		scene = "scene"
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s %s", year, location, scene))
}

// moodValues returns the four scene mood descriptors, skipping unknowns.
func moodValues(analysis schema.SceneAnalysis) []string {
	var out []string
	for _, m := range []string{
		analysis.LightingConditions,
		analysis.WeatherAtmosphere,
		analysis.TimeOfDay,
		analysis.Season,
	} {
		if m != "" && m != "unknown" {
			out = append(out, m)
		}
	}
	return out
}

// dedupe removes duplicates case-insensitively on trimmed text, preserving
// first-seen order and the original casing of the first occurrence.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func capList(in []string, n int) []string {
	return firstN(in, n)
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
