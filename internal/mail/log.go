package mail

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/logger"
)

// LogMailer writes messages to the application log instead of delivering them.
type LogMailer struct{}

var _ Mailer = LogMailer{}

// NewLogMailer returns a mailer for local development.
func NewLogMailer() LogMailer {
	return LogMailer{}
}

// Send logs msg at info level.
func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.WithModule("mail").Info("mail not delivered, log transport",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("html", msg.HTML),
	)
	return nil
}
