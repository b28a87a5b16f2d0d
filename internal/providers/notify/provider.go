package notify

import "context"

// Notification is a short operator-facing message with structured metadata.
type Notification struct {
	Title    string
	Body     string
	Metadata map[string]any
}

// Provider pushes notifications to operators. Best effort: implementations
// report errors but callers must never treat them as fatal.
type Provider interface {
	Notify(ctx context.Context, operatorIDs []string, n Notification) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Notify(ctx context.Context, operatorIDs []string, n Notification) error {
	return nil
}
