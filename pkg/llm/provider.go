package llm

import (
	"context"
	"errors"
)

// ErrNoContent signals that the provider answered but returned no
// candidates or no content parts. Callers map it to their documented
// fallback value.
var ErrNoContent = errors.New("generation response contained no content")

// GroundedResult is a text response plus the search-grounding citation
// markup rendered by the provider.
type GroundedResult struct {
	Text string
	// RenderedCitations is the provider's citation HTML (anchor "chip"
	// elements). Empty when the model did not ground the answer.
	RenderedCitations string
}

// ImagePart is an inline image attached to a vision request.
type ImagePart struct {
	Data     []byte
	MIMEType string
}

// Provider defines the interface for the generation service.
type Provider interface {
	// GenerateGrounded sends a prompt with web-search grounding enabled
	// and a text-only response modality. The name labels the intent for
	// history logging.
	GenerateGrounded(ctx context.Context, name, prompt string) (*GroundedResult, error)

	// GenerateVision sends a prompt with an optional inline image and
	// returns the raw text response. A nil image sends the prompt alone.
	GenerateVision(ctx context.Context, name, prompt string, image *ImagePart) (string, error)
}
