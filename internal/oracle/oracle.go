// Package oracle wraps hosted text-generation services behind a single
// prompt-in, completion-out interface.
package oracle

import "context"

// TextOracle is the capability interface for the text-generation service.
// Implementations are injected into the enrichment components so tests can
// substitute canned completions.
type TextOracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ServiceError describes a failed generation call: network trouble, an auth
// rejection, or an empty/unusable completion. Callers degrade their step to
// its no-op default when they see one.
type ServiceError struct {
	Provider string
	Status   int // HTTP status when applicable, 0 otherwise
	Reason   string
	Err      error
}

func (e *ServiceError) Error() string {
	msg := e.Provider + " generation failed: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
