package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"flight-deals/config"
	"flight-deals/utils"
)

// mailSender is the part of *mail.Client the notifier uses
type mailSender interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// EmailNotifier sends one email per subscriber over a single SMTP session
type EmailNotifier struct {
	from   string
	sender mailSender
	logger *utils.Logger
}

// NewEmailNotifier creates an SMTP notifier that requires STARTTLS
func NewEmailNotifier(cfg config.SMTPConfig, logger *utils.Logger) (*EmailNotifier, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &EmailNotifier{from: cfg.From, sender: client, logger: logger}, nil
}

// Send delivers body to every address. A bad address or a rejected message
// does not stop delivery to the rest; all failures are returned joined.
func (n *EmailNotifier) Send(ctx context.Context, addresses []string, subject, body string) error {
	if len(addresses) == 0 {
		return nil
	}

	if err := n.sender.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if err := n.sender.Close(); err != nil {
			n.logger.Warn("Closing SMTP connection: %v", err)
		}
	}()

	var errs []error
	sent := 0
	for _, addr := range addresses {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		msg, err := n.buildMessage(addr, subject, body)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", addr, err))
			continue
		}
		if err := n.sender.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", addr, err))
			continue
		}
		sent++
	}

	n.logger.Info("Sent %d/%d emails", sent, len(addresses))
	return errors.Join(errs...)
}

func (n *EmailNotifier) buildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
