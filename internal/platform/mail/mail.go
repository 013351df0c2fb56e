// Package mail is the outbound email collaborator. Delivery success or
// failure is opaque to callers beyond the returned error.
package mail

import "context"

// Message is a fully rendered email: the core hands over recipient, subject
// and body and nothing else.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer dispatches one message. Implementations must honor the context for
// caller-imposed timeouts.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
