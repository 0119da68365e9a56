package interfaces

import "context"

// Mailer delivers site mail (contact form submissions). Delivery transport
// is host-provided; the CMS only composes subject and body.
type Mailer interface {
	SendToManagers(ctx context.Context, subject, body string) error
}
