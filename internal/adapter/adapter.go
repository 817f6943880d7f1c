// Package adapter connects external messaging platforms to the chat
// service.
package adapter

import (
	"context"

	"github.com/NamanSoni18/Finmate-Backend/internal/chat"
)

// TurnHandler runs one conversation turn. Adapters hold no dialogue
// logic themselves.
type TurnHandler func(ctx context.Context, sessionID, text string) *chat.Result

// InputAdapter receives customer messages from an external platform.
type InputAdapter interface {
	// Name returns the adapter name (e.g. "telegram").
	Name() string

	// Start begins listening for messages. Must respect context
	// cancellation.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the adapter.
	Stop(ctx context.Context) error
}
