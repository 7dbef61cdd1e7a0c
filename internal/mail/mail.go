// Package mail delivers outbound HTML mail over SMTP, an AMQP queue or the log.
package mail

import (
	"context"
	"fmt"

	"storefront/internal/config"
)

// Message is a single outbound HTML mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer hands a message to a delivery transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Transport names accepted by New.
const (
	TransportSMTP = "smtp"
	TransportAMQP = "amqp"
	TransportLog  = "log"
)

// New builds the Mailer selected by cfg.Transport. The returned close func releases any
// connection the transport holds and is always safe to call.
func New(cfg config.Mail) (Mailer, func(), error) {
	switch cfg.Transport {
	case TransportSMTP:
		m, err := NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			TLS:      cfg.SMTPTLS,
			From:     cfg.From,
			FromName: cfg.FromName,
		})
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	case TransportAMQP:
		m, err := DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case TransportLog, "":
		return NewLogMailer(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported mail transport %q", cfg.Transport)
	}
}
