package agent

import (
	"strings"

	"rewind/pkg/schema"
)

// BuildPayload flattens prompt components into the renderer payload. Fragment
// order is fixed so identical components always produce an identical prompt.
func BuildPayload(c schema.PromptComponents) schema.PromptPayload {
	core := strings.TrimSpace(c.CoreDescription)

	fragments := []string{
		strings.Join(c.HistoricalStyleTags, ", "),
		strings.Join(firstN(c.ArchitecturalDetails, 8), ", "),
		strings.Join(firstN(c.AtmosphericElements, 5), ", "),
		strings.Join(firstN(c.StyleModifiers, 8), ", "),
		strings.Join(firstN(c.CompositionGuidance, 4), ", "),
	}

	combined := core
	for _, frag := range fragments {
		if frag == "" {
			continue
		}
		combined += ", " + frag
	}

	negative := strings.Join(c.NegativePrompts, ", ")
	if negative == "" {
		negative = negativeFallback
	}

	return schema.PromptPayload{
		CorePrompt:           combined,
		NegativePrompt:       negative,
		StyleModifiers:       c.StyleModifiers,
		ArchitecturalDetails: c.ArchitecturalDetails,
		AtmosphericElements:  c.AtmosphericElements,
		CompositionGuidance:  c.CompositionGuidance,
		HistoricalTags:       c.HistoricalStyleTags,
	}
}
