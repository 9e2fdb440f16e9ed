package notify

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"

	"tradewatch/internal/config"
)

// MailgunTransport sends mail through the Mailgun HTTP API.
type MailgunTransport struct {
	mg      mailgun.Mailgun
	domain  string
	apiKey  string
	timeout time.Duration
}

// NewMailgunTransport creates a new MailgunTransport.
func NewMailgunTransport(cfg config.MailgunConfig, timeout time.Duration) *MailgunTransport {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &MailgunTransport{
		mg:      mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		domain:  cfg.Domain,
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

func (m *MailgunTransport) Ping(_ context.Context) error {
	if m.domain == "" || m.apiKey == "" {
		return errors.New("mailgun domain or api key missing")
	}
	return nil
}

func (m *MailgunTransport) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}

	message := m.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To...)
	message.SetHtml(msg.HTML)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, _, err := m.mg.Send(ctx, message)
	if err != nil {
		return errors.Wrapf(err, "mailgun send failed: %s", resp)
	}
	return nil
}
