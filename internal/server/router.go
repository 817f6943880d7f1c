package server

import (
	"strings"
	"sync"

	"github.com/google/shlex"
)

// CommandRouter rewrites slash commands into the plain keywords the
// dialogue engine understands, so "/restart extra words" still resets.
type CommandRouter struct {
	commands map[string]string
	mu       sync.RWMutex
}

func NewCommandRouter() *CommandRouter {
	r := &CommandRouter{commands: make(map[string]string)}
	r.Register("/start", "restart")
	r.Register("/restart", "restart")
	r.Register("/reset", "restart")
	r.Register("/help", "help")
	r.Register("/menu", "help")
	return r
}

func (r *CommandRouter) Register(command, keyword string) {
	r.mu.Lock()
	r.commands[command] = keyword
	r.mu.Unlock()
}

// Rewrite maps a recognized slash command to its keyword and passes
// everything else through untouched.
func (r *CommandRouter) Rewrite(message string) string {
	if !strings.HasPrefix(message, "/") {
		return message
	}

	parts, err := shlex.Split(message)
	if err != nil || len(parts) == 0 {
		return message
	}

	r.mu.RLock()
	keyword, ok := r.commands[strings.ToLower(parts[0])]
	r.mu.RUnlock()

	if !ok {
		return message
	}
	return keyword
}
