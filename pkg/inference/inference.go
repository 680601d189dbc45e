package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Image is a decoded-and-normalized photograph ready for a vision model.
type Image struct {
	Data []byte
	MIME string
}

// Inferencer defines an interface for running text and vision model inference.
// Implementations are single request/response with no multi-step state; a
// cancelled context aborts the call with an error and no side effects.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	InferVision(ctx context.Context, params *openai.ChatCompletionNewParams, system string, image Image, user string) (string, error)
}
