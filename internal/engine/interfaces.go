package engine

import (
	"context"

	"github.com/uidraft/uidraft/internal/model"
)

// ModelClient abstracts LLM calls. Implementations can wrap Gemini, OpenAI, etc.
type ModelClient interface {
	// GenerateComponent produces a React component from a prompt, the prior
	// conversation, and an optional reference image.
	GenerateComponent(ctx context.Context, req GenerateRequest) (*GenerationResult, error)
	// SuggestNextSteps proposes short follow-up prompts for an existing
	// component. Failures are acceptable; callers treat suggestions as
	// best-effort.
	SuggestNextSteps(ctx context.Context, description, code string) ([]string, error)
}

// ReferenceExtractor abstracts fetching readable text from a web page,
// used to give the model design context from a reference URL.
type ReferenceExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// GenerateRequest carries everything the model needs for one generation turn.
type GenerateRequest struct {
	// Prompt is the user's current instruction.
	Prompt string
	// History is the prior conversation, oldest first. It must not include
	// the message being generated for.
	History []model.Message
	// Image is an optional base64-encoded PNG, with or without a data: URL
	// prefix.
	Image string
	// Reference is optional readable text extracted from a reference URL.
	Reference string
}

// GenerationResult is the structured output of a generation call.
type GenerationResult struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
