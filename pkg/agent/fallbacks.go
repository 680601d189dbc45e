package agent

import (
	"fmt"

	"rewind/pkg/schema"
)

// fallbackAnalysis is the deterministic substitute used whenever the vision
// capability is unavailable or its output is unusable. The salient fields are
// non-empty so downstream stages always have something to merge.
func fallbackAnalysis() schema.SceneAnalysis {
	return schema.Normalize(schema.SceneAnalysis{
		ArchitecturalElements:  []string{"buildings", "structures"},
		VehiclesTransportation: []string{"cars"},
		TechnologyVisible:      []string{"modern tech"},
		SceneType:              "urban scene",
		LightingConditions:     "daylight",
		WeatherAtmosphere:      "clear",
		TimeOfDay:              "daytime",
		Season:                 "unknown",
		CompositionElements:    []string{"maintain original composition"},
		ClarificationQuestions: []string{"Key architectural style details?"},
		ResearchSuggestions:    []string{"Research local period architecture"},
	}, schema.SceneAnalysisShape)
}

// errorAnalysis makes the failure visible to the end consumer without
// aborting the pipeline.
func errorAnalysis(err error) schema.SceneAnalysis {
	return schema.Normalize(schema.SceneAnalysis{
		SceneType:              "unknown",
		LightingConditions:     "unknown",
		WeatherAtmosphere:      "unknown",
		TimeOfDay:              "unknown",
		Season:                 "unknown",
		ClarificationQuestions: []string{fmt.Sprintf("Error: %v", err)},
	}, schema.SceneAnalysisShape)
}

func fallbackContext(location string, year int) schema.HistoricalContext {
	return schema.Normalize(schema.HistoricalContext{
		ArchitecturalStyles:     []string{fmt.Sprintf("%d period architecture", year)},
		CommonMaterials:         []string{"stone", "wood", "brick"},
		TransportationMethods:   []string{"walking", "horse-drawn"},
		TechnologyLevel:         []string{fmt.Sprintf("%d technology", year)},
		CulturalCharacteristics: []string{fmt.Sprintf("%d culture", year)},
		NotableEvents:           []string{fmt.Sprintf("Events around %d in %s", year, location)},
		SocialContext:           []string{fmt.Sprintf("%s social context around %d", location, year)},
	}, schema.HistoricalContextShape)
}

func errorContext(err error) schema.HistoricalContext {
	return schema.Normalize(schema.HistoricalContext{
		SocialContext: []string{fmt.Sprintf("Error: %v", err)},
	}, schema.HistoricalContextShape)
}
