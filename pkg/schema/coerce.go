package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape describes the expected field layout of a record so that loosely-typed
// model output can be normalized before construction. Wrapper names the single
// key under which a model may nest the whole payload; exactly one level of
// unwrapping is supported.
type Shape struct {
	Wrapper string
	Lists   []string
	Scalars map[string]string
}

var SceneAnalysisShape = Shape{
	Wrapper: "scene_analysis",
	Lists: []string{
		"architectural_elements", "clothing_fashion", "vehicles_transportation",
		"technology_visible", "materials_construction",
		"architectural_style_research", "cultural_context_needed",
		"fashion_period_research", "technology_evolution",
		"visual_style_descriptors", "composition_elements", "color_palette_notes",
		"clarification_questions", "research_suggestions",
	},
	Scalars: map[string]string{
		"scene_type":          "unknown",
		"lighting_conditions": "unknown",
		"weather_atmosphere":  "unknown",
		"time_of_day":         "unknown",
		"season":              "unknown",
	},
}

var HistoricalContextShape = Shape{
	Wrapper: "historical_context",
	Lists: []string{
		"architectural_styles", "common_materials", "typical_clothing",
		"transportation_methods", "technology_level",
		"cultural_characteristics", "notable_events", "social_context",
	},
}

var PromptComponentsShape = Shape{
	Wrapper: "prompt_components",
	Lists: []string{
		"historical_style_tags", "architectural_details", "atmospheric_elements",
		"negative_prompts", "style_modifiers", "composition_guidance",
	},
	Scalars: map[string]string{
		"core_description": "",
	},
}

// Coerce normalizes a parsed JSON-like value against shape. Every list field
// comes back as a []string (comma-delimited strings are split, anything else
// is dropped to empty) and every scalar field as a string. The second return
// is false only on total failure: the value is not a mapping even after one
// level of unwrapping. Coerce never panics.
func Coerce(raw any, shape Shape) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, ok := unwrap(m, shape.Wrapper); ok {
		m = inner
	}

	out := make(map[string]any, len(shape.Lists)+len(shape.Scalars))
	for _, field := range shape.Lists {
		out[field] = CoerceList(m[field])
	}
	for field, def := range shape.Scalars {
		if s, ok := m[field].(string); ok {
			out[field] = s
		} else {
			out[field] = def
		}
	}
	return out, true
}

// unwrap handles models that nest the payload under the record's own name,
// e.g. {"scene_analysis": {...}}.
func unwrap(m map[string]any, wrapper string) (map[string]any, bool) {
	if wrapper == "" {
		return nil, false
	}
	for k, v := range m {
		if !strings.EqualFold(k, wrapper) {
			continue
		}
		if inner, ok := v.(map[string]any); ok {
			return inner, true
		}
	}
	return nil, false
}

// CoerceList normalizes a single value to a list of strings:
// absent -> empty, comma-delimited string -> split/trim/drop-empty,
// list -> string elements kept and scalars stringified, anything else -> empty.
func CoerceList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case string:
				if it = strings.TrimSpace(it); it != "" {
					out = append(out, it)
				}
			case float64, bool, json.Number:
				out = append(out, fmt.Sprint(it))
			}
		}
		return out
	case []string:
		return val
	default:
		return []string{}
	}
}

// BuildRecord constructs a record of type T from coerced data by round-tripping
// through JSON. Unknown keys are ignored; a type mismatch surfaces as an error
// so the caller can substitute its fallback record.
func BuildRecord[T any](data map[string]any) (T, error) {
	var rec T
	bin, err := json.Marshal(data)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(bin, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Normalize re-applies shape coercion to an already-built record, replacing
// nil list fields with empty slices. Fallback and error records go through
// here so the list invariant holds for every record the pipeline hands out.
func Normalize[T any](rec T, shape Shape) T {
	bin, err := json.Marshal(rec)
	if err != nil {
		return rec
	}
	var raw any
	if err := json.Unmarshal(bin, &raw); err != nil {
		return rec
	}
	data, ok := Coerce(raw, shape)
	if !ok {
		return rec
	}
	out, err := BuildRecord[T](data)
	if err != nil {
		return rec
	}
	return out
}
