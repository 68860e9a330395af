// internal/mailer/mailer.go
package mailer

import "context"

// Sender is the mail capability consumed by the dispatcher. Errors are
// always scoped to the single recipient being sent to; a failed Send never
// affects sibling sends.
type Sender interface {
    Send(ctx context.Context, to, subject, htmlBody string) (transportID string, err error)
}
