// Package agent implements the analysis pipeline: scene analysis of the
// photograph, historical research for the target place and period, synthesis
// of categorized prompt components, and assembly of the final prompt payload.
// Every stage degrades to a deterministic record instead of failing; the only
// error the pipeline itself returns is invalid input.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"rewind/pkg/config"
	"rewind/pkg/inference"
	"rewind/pkg/schema"
	"rewind/pkg/utils"
)

// Accepted historical range for the target year.
const (
	MinYear = 1000
	MaxYear = 2000
)

var (
	ErrMissingImage    = errors.New("image is required")
	ErrMissingLocation = errors.New("location is required")
	ErrYearOutOfRange  = errors.New("target year must be between 1000 and 2000")
)

// Outcome reports how a stage produced its record.
type Outcome string

const (
	// OutcomeModel means the model-assisted path succeeded.
	OutcomeModel Outcome = "model"
	// OutcomeFallback means the capability was disabled or its output was
	// unusable; the record is the stage's deterministic fallback.
	OutcomeFallback Outcome = "fallback"
	// OutcomeError means the capability call itself failed; the record
	// carries the error text in a user-visible field.
	OutcomeError Outcome = "error"
)

// Enricher is the optional keyword-enrichment capability consumed during
// prompt synthesis. Implementations never return an error; total failure is
// an empty slice.
type Enricher interface {
	Enrich(ctx context.Context, location string, year int, styleHints []string) []string
}

type Agent struct {
	cfg      config.Config
	inf      inference.Inferencer
	enricher Enricher
}

// New creates a pipeline agent. inf may be nil (heuristic-only operation) and
// enricher may be nil (no keyword enrichment).
func New(cfg config.Config, inf inference.Inferencer, enricher Enricher) *Agent {
	return &Agent{cfg: cfg, inf: inf, enricher: enricher}
}

func (a *Agent) assisted() bool {
	return a.inf != nil && !a.cfg.PromptOnly
}

// Outcomes collects the per-stage outcome values of one pipeline run.
type Outcomes struct {
	Analysis  Outcome `json:"analysis"`
	Context   Outcome `json:"context"`
	Synthesis Outcome `json:"synthesis"`
}

// Result carries the final payload together with every intermediate record so
// callers can inspect partial results.
type Result struct {
	ID         string                   `json:"id"`
	Location   string                   `json:"location"`
	TargetYear int                      `json:"target_year"`
	Analysis   schema.SceneAnalysis     `json:"analysis"`
	Context    schema.HistoricalContext `json:"historical_context"`
	Components schema.PromptComponents  `json:"prompt_components"`
	Payload    schema.PromptPayload     `json:"payload"`
	Outcomes   Outcomes                 `json:"outcomes"`
}

// ProgressFunc receives each stage's record as soon as it is available.
type ProgressFunc func(stage string, record any)

// ValidateInput checks the pipeline preconditions. This is the only check
// that can reject a request before the stages run.
func ValidateInput(image inference.Image, location string, year int) error {
	if len(image.Data) == 0 {
		return ErrMissingImage
	}
	if strings.TrimSpace(location) == "" {
		return ErrMissingLocation
	}
	if year < MinYear || year > MaxYear {
		return ErrYearOutOfRange
	}
	return nil
}

// Run executes the full pipeline. Stage failures never abort: downstream
// stages receive the fallback or error record and the run always completes
// with a full payload. progress may be nil.
func (a *Agent) Run(ctx context.Context, image inference.Image, location string, year int, progress ProgressFunc) (*Result, error) {
	location = strings.TrimSpace(location)
	if err := ValidateInput(image, location, year); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(string, any) {}
	}

	id := ksuid.New().String()
	log.Info("starting pipeline", "id", id, "location", location, "year", year, "assisted", a.assisted())

	analysis, analysisOut := a.Analyze(ctx, image, location, year)
	progress("analysis", analysis)

	hctx, contextOut := a.Research(ctx, location, year, analysis)
	progress("context", hctx)

	components, synthesisOut := a.Synthesize(ctx, analysis, hctx, location, year)
	progress("prompts", components)

	payload := BuildPayload(components)

	log.Info("pipeline complete", "id", id,
		"analysis", analysisOut, "context", contextOut, "synthesis", synthesisOut)

	return &Result{
		ID:         id,
		Location:   location,
		TargetYear: year,
		Analysis:   analysis,
		Context:    hctx,
		Components: components,
		Payload:    payload,
		Outcomes: Outcomes{
			Analysis:  analysisOut,
			Context:   contextOut,
			Synthesis: synthesisOut,
		},
	}, nil
}

// decode extracts and parses the JSON object embedded in a model response.
// Unparsable output gets one repair inference before giving up.
func (a *Agent) decode(ctx context.Context, out string) (any, bool) {
	blob := utils.ExtractJSON(utils.CleanJSON(out))

	var raw any
	if err := json.Unmarshal([]byte(blob), &raw); err == nil {
		return raw, true
	}

	log.Warn("model output is not valid JSON, attempting repair", "chars", len(blob))
	fixed, err := a.inf.Infer(ctx, nil, fixJSONPrompt, blob)
	if err != nil {
		log.Warn("JSON repair inference failed", "error", err)
		return nil, false
	}
	fixed = utils.ExtractJSON(utils.CleanJSON(fixed))
	if err := json.Unmarshal([]byte(fixed), &raw); err != nil {
		log.Warn("JSON repair produced invalid JSON", "error", err)
		return nil, false
	}
	return raw, true
}
