package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"

	"medquest/careers-api/internal/config"
)

var ErrMailDisabled = errors.New("email disabled or SMTP credentials missing")

type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, to string, msg Message) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Enabled() bool {
	return m.cfg.Enabled()
}

// Send delivers msg over STARTTLS with PLAIN auth, bounded by the configured
// timeout.
func (m *smtpMailer) Send(ctx context.Context, to string, msg Message) error {
	if !m.Enabled() {
		return ErrMailDisabled
	}

	mm := mail.NewMsg()
	if err := mm.From(m.cfg.User); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := mm.To(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	if msg.ReplyTo {
		if err := mm.ReplyTo(m.cfg.User); err != nil {
			return fmt.Errorf("failed to set reply-to: %w", err)
		}
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email %q sent to %s", msg.Subject, to)
	return nil
}
