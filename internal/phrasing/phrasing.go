// Package phrasing turns dialogue intents into user-facing text. A
// deterministic template renders every intent; an optional LLM provider
// may rephrase the template output, but the conversation never depends
// on one being configured or reachable.
package phrasing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/NamanSoni18/Finmate-Backend/internal/dialogue"
)

// Provider rewrites a drafted message in a given tone. Implementations
// live under providers/.
type Provider interface {
	Name() string
	Rephrase(ctx context.Context, tone, draft string) (string, error)
}

// Renderer produces the final reply for an intent.
type Renderer struct {
	provider Provider
	timeout  time.Duration
}

// NewRenderer builds a renderer. A nil provider means template-only
// output.
func NewRenderer(provider Provider, timeout time.Duration) *Renderer {
	return &Renderer{provider: provider, timeout: timeout}
}

// Render returns the reply text for an intent. tone is a sentiment hint
// ("neutral", "urgent", ...) the provider may use to adjust wording.
// Provider failure or empty output falls back to the template draft.
func (r *Renderer) Render(ctx context.Context, intent dialogue.Intent, tone string) string {
	draft := Text(intent)
	if r.provider == nil {
		return draft
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.provider.Rephrase(ctx, tone, draft)
	if err != nil {
		slog.Warn("phrasing provider failed, using template",
			"provider", r.provider.Name(), "err", err)
		return draft
	}
	if strings.TrimSpace(out) == "" {
		return draft
	}
	return out
}
