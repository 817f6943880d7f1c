package anthropic

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Provider struct {
	client anthropic.Client
	model  string
}

func New(apiKey, model string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	return &Provider{client: anthropic.NewClient(option.WithAPIKey(apiKey)), model: model}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Rephrase(ctx context.Context, tone, draft string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(tone)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(draft)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var out string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += b.Text
		}
	}
	return strings.TrimSpace(out), nil
}

func systemPrompt(tone string) string {
	return "You are FinMate, a friendly loan assistant. Rewrite the user's message " +
		"in a warm, concise voice with a " + tone + " tone. Keep every number, " +
		"₹ amount, and instruction exactly as given. Reply with only the rewritten message."
}
