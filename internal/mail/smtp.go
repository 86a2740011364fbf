// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package mail

import (
	"context"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds connection settings for the SMTP backend.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address stamped on every message.
	From string
}

// SMTPSender implements Sender over SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender from the given config.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("from address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers the message over SMTP. The connection is opened per send;
// verification mail volume does not justify a persistent connection.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "set from address").
			Wrap(err)
	}
	if err := m.To(msg.Recipients...); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "set recipients").
			Wrap(err)
	}
	m.Subject(msg.Subject)

	switch msg.ContentType {
	case ContentTypeHTML:
		m.SetBodyString(gomail.TypeTextHTML, msg.Body)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "create smtp client").
			With("host", s.cfg.Host).
			Wrap(err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "dial and send").
			With("host", s.cfg.Host).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ Sender = (*SMTPSender)(nil)
