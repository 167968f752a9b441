package domain

import "context"

// Mailer delivers one-time login codes. The core only needs delivery;
// template rendering and transport live behind this port.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}
