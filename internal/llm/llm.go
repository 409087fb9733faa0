package llm

import "context"

// Request is a single prompt exchange sent to the completion service.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	// JSONOnly asks the model to emit a single JSON object and nothing else.
	JSONOnly bool
}

// CompletionService abstracts the language-model backend so callers can
// substitute deterministic fakes without network access.
type CompletionService interface {
	Complete(ctx context.Context, req Request) (string, error)
}
