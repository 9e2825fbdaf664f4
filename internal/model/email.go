package model

import "context"

// Mailer sends notification emails, used by file sharing.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
