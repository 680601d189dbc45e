package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewind/pkg/config"
)

func TestAnalyzeHeuristicWhenDisabled(t *testing.T) {
	for name, a := range map[string]*Agent{
		"nil inferencer": New(config.Default(), nil, nil),
		"prompt only":    New(config.Config{PromptOnly: true}, &stubInferencer{}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			analysis, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
			assert.Equal(t, OutcomeFallback, outcome)
			assert.Equal(t, "urban scene", analysis.SceneType)
			assert.Equal(t, []string{"buildings", "structures"}, analysis.ArchitecturalElements)
			assert.Equal(t, []string{"cars"}, analysis.VehiclesTransportation)
			assert.Equal(t, "daylight", analysis.LightingConditions)
			assert.Equal(t, "unknown", analysis.Season)
			assert.Equal(t, []string{"maintain original composition"}, analysis.CompositionElements)
			assert.NotNil(t, analysis.ColorPaletteNotes)
		})
	}
}

func TestAnalyzeParsesWrappedOutput(t *testing.T) {
	inf := &stubInferencer{
		inferVision: func(system, user string) (string, error) {
			assert.Contains(t, user, "Location: Paris")
			assert.Contains(t, user, "TargetYear: 1920")
			return "Sure, here is the analysis:\n```json\n" +
				`{"scene_type": "street scene", "architectural_elements": "haussmann facades, mansard roofs", "technology_visible": ["neon signs"]}` +
				"\n```\nLet me know if you need anything else.", nil
		},
	}
	a := New(config.Default(), inf, nil)

	analysis, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
	assert.Equal(t, OutcomeModel, outcome)
	assert.Equal(t, "street scene", analysis.SceneType)
	assert.Equal(t, []string{"haussmann facades", "mansard roofs"}, analysis.ArchitecturalElements)
	assert.Equal(t, []string{"neon signs"}, analysis.TechnologyVisible)
	assert.Equal(t, "unknown", analysis.WeatherAtmosphere)
	assert.Equal(t, []string{}, analysis.ClothingFashion)
}

func TestAnalyzeRepairsBrokenJSON(t *testing.T) {
	var repaired bool
	inf := &stubInferencer{
		inferVision: func(string, string) (string, error) {
			return `{"scene_type": "street scene", "architectural_elements": [`, nil
		},
		infer: func(system, user string) (string, error) {
			repaired = true
			assert.NotEmpty(t, system)
			return `{"scene_type": "street scene", "architectural_elements": []}`, nil
		},
	}
	a := New(config.Default(), inf, nil)

	analysis, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
	require.True(t, repaired)
	assert.Equal(t, OutcomeModel, outcome)
	assert.Equal(t, "street scene", analysis.SceneType)
}

func TestAnalyzeFallsBackWhenRepairFails(t *testing.T) {
	inf := &stubInferencer{
		inferVision: func(string, string) (string, error) { return "no json here at all", nil },
		infer:       func(string, string) (string, error) { return "still not json", nil },
	}
	a := New(config.Default(), inf, nil)

	analysis, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
	assert.Equal(t, OutcomeFallback, outcome)
	assert.Equal(t, "urban scene", analysis.SceneType)
}

func TestAnalyzeErrorRecord(t *testing.T) {
	inf := &stubInferencer{
		inferVision: func(string, string) (string, error) { return "", errors.New("timeout contacting model") },
	}
	a := New(config.Default(), inf, nil)

	analysis, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
	assert.Equal(t, OutcomeError, outcome)
	assert.Equal(t, "unknown", analysis.SceneType)
	require.Len(t, analysis.ClarificationQuestions, 1)
	assert.Equal(t, "Error: timeout contacting model", analysis.ClarificationQuestions[0])
	assert.NotNil(t, analysis.ArchitecturalElements)
}

func TestAnalyzeNonObjectOutputFallsBack(t *testing.T) {
	inf := &stubInferencer{
		inferVision: func(string, string) (string, error) { return `["a", "list"]`, nil },
		infer:       func(string, string) (string, error) { return `["still", "a", "list"]`, nil },
	}
	a := New(config.Default(), inf, nil)

	_, outcome := a.Analyze(context.Background(), testImage(), "Paris", 1920)
	assert.Equal(t, OutcomeFallback, outcome)
}
