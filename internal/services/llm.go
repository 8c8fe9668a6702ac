package services

import (
	"context"
	"strings"
)

// GenerateOptions tune a single completion request.
type GenerateOptions struct {
	// Temperature overrides the provider default when non-nil.
	Temperature *float64
	// JSONMode asks the provider to constrain output to JSON where
	// the backend supports it.
	JSONMode bool
}

// TextService is the interface all LLM providers implement. The
// pipeline gateways depend only on this.
type TextService interface {
	// InitModel prepares the configured model for use.
	InitModel(ctx context.Context, modelName string) error
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Temp is a convenience for building GenerateOptions literals.
func Temp(t float64) *float64 {
	return &t
}

// StripFences removes the markdown code fences models sometimes wrap
// JSON in, even when asked not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
