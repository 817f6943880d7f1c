package adapter

import "context"

// NullNotifier drops escalations; used when no Slack channel is
// configured.
type NullNotifier struct{}

func (NullNotifier) NotifyEscalation(context.Context, string, string) error {
	return nil
}
