package email

import "context"

// Attachment is a file carried by a message, typically the rendered invoice.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound mail.
type Message struct {
	To          []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Provider is the mail transport contract. Send returns the message id the
// transport assigned.
type Provider interface {
	Send(ctx context.Context, msg Message) (string, error)
	// Configured reports whether the transport can actually deliver.
	// Unconfigured transports are logged as no_transport, never called.
	Configured() bool
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) (string, error) {
	return "", nil
}

func (p *NoOpProvider) Configured() bool { return false }
