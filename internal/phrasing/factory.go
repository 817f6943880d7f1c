package phrasing

import (
	"fmt"

	pAnthropic "github.com/NamanSoni18/Finmate-Backend/internal/phrasing/providers/anthropic"
	pGemini "github.com/NamanSoni18/Finmate-Backend/internal/phrasing/providers/gemini"
	pOpenAI "github.com/NamanSoni18/Finmate-Backend/internal/phrasing/providers/openai"
)

// NewProvider resolves a configured provider name. "template" (and the
// empty string) means template-only rendering, returned as a nil
// Provider.
func NewProvider(name, apiKey, baseURL, model string) (Provider, error) {
	switch name {
	case "", "template", "none":
		return nil, nil
	case "openai":
		return pOpenAI.New(apiKey, baseURL, model), nil
	case "gemini":
		return pGemini.New(apiKey, model)
	case "anthropic":
		return pAnthropic.New(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown phrasing provider %q", name)
	}
}
