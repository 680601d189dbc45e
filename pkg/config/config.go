// Package config holds the explicit configuration bundle handed to the
// pipeline at construction time. Environment lookups happen once in FromEnv;
// nothing in the core reads ambient process state.
package config

import (
	"cmp"
	"os"
)

type Config struct {
	// VisionModel and TextModel name the models backing the two completion
	// capabilities; they are opaque to the pipeline.
	VisionModel string
	TextModel   string

	// PromptOnly forces the deterministic heuristic path in every stage.
	PromptOnly bool

	// EnableEnrichment gates the optional lookup-based keyword enrichment.
	EnableEnrichment bool

	// MaxImageDim caps the longest side of an uploaded photo before it is
	// sent to the vision model.
	MaxImageDim int
}

func Default() Config {
	return Config{
		VisionModel:      "gpt-4o-mini",
		TextModel:        "gpt-4o",
		EnableEnrichment: true,
		MaxImageDim:      1024,
	}
}

func FromEnv() Config {
	cfg := Default()
	cfg.VisionModel = cmp.Or(os.Getenv("REWIND_VISION_MODEL"), cfg.VisionModel)
	cfg.TextModel = cmp.Or(os.Getenv("REWIND_TEXT_MODEL"), cfg.TextModel)
	cfg.PromptOnly = isTrue(os.Getenv("PROMPT_ONLY"))
	if v := os.Getenv("REWIND_ENABLE_WIKI"); v != "" {
		cfg.EnableEnrichment = isTrue(v)
	}
	return cfg
}

func isTrue(v string) bool {
	switch v {
	case "1", "true", "True":
		return true
	}
	return false
}
