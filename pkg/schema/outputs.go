package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var (
	sceneAnalysisSchema     = generateSchema[SceneAnalysis]()
	historicalContextSchema = generateSchema[HistoricalContext]()
	promptComponentsSchema  = generateSchema[PromptComponents]()
)

// SceneAnalysisResponseFormat constrains providers that support structured
// outputs; the brace-span extraction in the pipeline still applies for
// providers that ignore it.
func SceneAnalysisResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("scene_analysis", "Categorized observations extracted from one photograph", sceneAnalysisSchema)
}

func HistoricalContextResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("historical_context", "Categorized facts about a place and period", historicalContextSchema)
}

func PromptComponentsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("prompt_components", "Categorized generation-prompt components", promptComponentsSchema)
}

func responseFormat(name, description string, schema any) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
