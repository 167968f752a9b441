package adapter

import (
	"context"

	"pairquiz/internal/domain"
	"pairquiz/internal/logger"

	"go.uber.org/zap"
)

// LogMailer writes one-time codes to the application log instead of
// sending mail. Used in development and test environments where no
// mail transport is configured.
type LogMailer struct{}

// NewLogMailer creates a new LogMailer.
func NewLogMailer() domain.Mailer {
	return &LogMailer{}
}

func (m *LogMailer) SendOTP(ctx context.Context, email, code string) error {
	logger.Get().Info("OTP issued (log delivery)",
		zap.String("email", email),
		zap.String("code", code))
	return nil
}
