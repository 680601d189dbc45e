package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewind/pkg/config"
	"rewind/pkg/inference"
	"rewind/pkg/schema"
)

// stubInferencer routes calls to the configured functions; unconfigured
// capabilities fail, which keeps tests honest about which path they exercise.
type stubInferencer struct {
	infer       func(system, user string) (string, error)
	inferVision func(system, user string) (string, error)
}

func (s *stubInferencer) Infer(_ context.Context, _ *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if s.infer == nil {
		return "", errors.New("text capability not stubbed")
	}
	return s.infer(system, user)
}

func (s *stubInferencer) InferVision(_ context.Context, _ *openai.ChatCompletionNewParams, system string, _ inference.Image, user string) (string, error) {
	if s.inferVision == nil {
		return "", errors.New("vision capability not stubbed")
	}
	return s.inferVision(system, user)
}

type stubEnricher struct {
	tokens []string
	calls  int
}

func (s *stubEnricher) Enrich(context.Context, string, int, []string) []string {
	s.calls++
	return s.tokens
}

func testImage() inference.Image {
	return inference.Image{Data: []byte("not really a png"), MIME: "image/png"}
}

func TestValidateInput(t *testing.T) {
	img := testImage()

	assert.ErrorIs(t, ValidateInput(inference.Image{}, "Paris", 1920), ErrMissingImage)
	assert.ErrorIs(t, ValidateInput(img, "   ", 1920), ErrMissingLocation)
	assert.ErrorIs(t, ValidateInput(img, "Paris", 999), ErrYearOutOfRange)
	assert.ErrorIs(t, ValidateInput(img, "Paris", 2001), ErrYearOutOfRange)

	assert.NoError(t, ValidateInput(img, "Paris", 1000))
	assert.NoError(t, ValidateInput(img, "Paris", 2000))
}

func TestRunRejectsInvalidInput(t *testing.T) {
	a := New(config.Default(), nil, nil)

	_, err := a.Run(context.Background(), inference.Image{}, "Paris", 1920, nil)
	assert.ErrorIs(t, err, ErrMissingImage)

	_, err = a.Run(context.Background(), testImage(), "", 1920, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)

	_, err = a.Run(context.Background(), testImage(), "Paris", 2025, nil)
	assert.ErrorIs(t, err, ErrYearOutOfRange)
}

func TestRunHeuristicOnly(t *testing.T) {
	a := New(config.Config{MaxImageDim: 1024}, nil, nil)

	var stages []string
	result, err := a.Run(context.Background(), testImage(), "  Paris  ", 1920, func(stage string, _ any) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Paris", result.Location)
	assert.Equal(t, 1920, result.TargetYear)
	assert.Equal(t, []string{"analysis", "context", "prompts"}, stages)

	assert.Equal(t, OutcomeFallback, result.Outcomes.Analysis)
	assert.Equal(t, OutcomeFallback, result.Outcomes.Context)
	assert.Equal(t, OutcomeFallback, result.Outcomes.Synthesis)

	assert.Equal(t, "urban scene", result.Analysis.SceneType)
	assert.Contains(t, result.Context.ArchitecturalStyles, "1920 period architecture")
	assert.Contains(t, result.Context.TechnologyLevel, "1920 technology")
	assert.Contains(t, result.Context.NotableEvents, "Events around 1920 in Paris")

	assert.Equal(t, "1920 Paris urban scene", result.Components.CoreDescription)
	assert.Contains(t, result.Payload.CorePrompt, "1920 Paris urban scene")
	assert.Contains(t, result.Payload.NegativePrompt, "modern cars")
	assert.Contains(t, result.Payload.NegativePrompt, "modern modern tech")
}

func TestRunNeverAbortsOnCapabilityFailure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	inf := &stubInferencer{
		infer:       func(string, string) (string, error) { return "", boom },
		inferVision: func(string, string) (string, error) { return "", boom },
	}
	a := New(config.Default(), inf, nil)

	result, err := a.Run(context.Background(), testImage(), "Kyoto", 1600, nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomeError, result.Outcomes.Analysis)
	assert.Equal(t, OutcomeError, result.Outcomes.Context)
	assert.Equal(t, OutcomeError, result.Outcomes.Synthesis)

	assert.Contains(t, result.Analysis.ClarificationQuestions[0], "upstream unavailable")
	assert.Contains(t, result.Context.SocialContext[0], "upstream unavailable")
	// synthesis degrades to the full heuristic record built from the error
	// analysis, so the payload is still complete
	assert.NotEmpty(t, result.Payload.CorePrompt)
	assert.NotEmpty(t, result.Payload.NegativePrompt)
}

func TestResearchFallbackShape(t *testing.T) {
	a := New(config.Config{PromptOnly: true}, &stubInferencer{}, nil)

	hctx, outcome := a.Research(context.Background(), "Lisbon", 1755, fallbackAnalysis())
	assert.Equal(t, OutcomeFallback, outcome)
	assert.Equal(t, []string{"1755 period architecture"}, hctx.ArchitecturalStyles)
	assert.Equal(t, []string{"stone", "wood", "brick"}, hctx.CommonMaterials)
	assert.Equal(t, []string{"walking", "horse-drawn"}, hctx.TransportationMethods)
	assert.Equal(t, []string{"Lisbon social context around 1755"}, hctx.SocialContext)
	assert.NotNil(t, hctx.TypicalClothing)
}

func TestResearchCoercesModelOutput(t *testing.T) {
	inf := &stubInferencer{
		infer: func(system, user string) (string, error) {
			assert.Contains(t, user, "Lisbon")
			assert.Contains(t, user, "1755")
			return `{"historical_context": {
				"architectural_styles": "Pombaline, Baroque",
				"common_materials": ["stone", "azulejo tile"],
				"notable_events": ["Great earthquake of 1755"]
			}}`, nil
		},
	}
	a := New(config.Default(), inf, nil)

	hctx, outcome := a.Research(context.Background(), "Lisbon", 1755, schema.SceneAnalysis{SceneType: "urban scene"})
	assert.Equal(t, OutcomeModel, outcome)
	assert.Equal(t, []string{"Pombaline", "Baroque"}, hctx.ArchitecturalStyles)
	assert.Equal(t, []string{"stone", "azulejo tile"}, hctx.CommonMaterials)
	assert.Equal(t, []string{"Great earthquake of 1755"}, hctx.NotableEvents)
	assert.Equal(t, []string{}, hctx.TypicalClothing)
}
