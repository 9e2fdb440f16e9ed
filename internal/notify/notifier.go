package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradewatch/internal/config"
	"tradewatch/internal/model"
)

// Notifier delivers trade alerts.
type Notifier interface {
	SendTradeAlert(ctx context.Context, trades []model.Trade) error
	TestConnection(ctx context.Context) error
}

// Message is one rendered email with plain-text and HTML alternatives.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Transport hands a rendered message to a mail provider.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Ping(ctx context.Context) error
}

// EmailNotifier renders one message per batch of trades.
type EmailNotifier struct {
	transport     Transport
	logger        *zap.Logger
	from          string
	to            []string
	subjectPrefix string
	now           func() time.Time
}

// NewEmailNotifier creates an EmailNotifier that delivers through transport.
func NewEmailNotifier(transport Transport, cfg config.EmailConfig, logger *zap.Logger) *EmailNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailNotifier{
		transport:     transport,
		logger:        logger,
		from:          cfg.From,
		to:            cfg.Recipients(),
		subjectPrefix: cfg.SubjectPrefix,
		now:           time.Now,
	}
}

// New builds the notifier for the configured transport.
func New(cfg *config.Config, logger *zap.Logger) (*EmailNotifier, error) {
	var transport Transport
	switch cfg.Email.Transport {
	case config.TransportSMTP, "":
		transport = NewSMTPTransport(cfg.SMTP, cfg.Email.Timeout)
	case config.TransportMailgun:
		transport = NewMailgunTransport(cfg.Mailgun, cfg.Email.Timeout)
	default:
		return nil, errors.Errorf("unknown email transport: %s", cfg.Email.Transport)
	}
	return NewEmailNotifier(transport, cfg.Email, logger), nil
}

// Subject returns the alert subject for count trades.
func (n *EmailNotifier) Subject(count int) string {
	return fmt.Sprintf("%s %d New Trade(s) Detected", n.subjectPrefix, count)
}

// Compose renders the alert for trades without sending it.
func (n *EmailNotifier) Compose(trades []model.Trade) (Message, error) {
	generated := n.now()
	text, err := renderText(trades, generated)
	if err != nil {
		return Message{}, err
	}
	html, err := renderHTML(trades, generated)
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    n.from,
		To:      n.to,
		Subject: n.Subject(len(trades)),
		Text:    text,
		HTML:    html,
	}, nil
}

func (n *EmailNotifier) SendTradeAlert(ctx context.Context, trades []model.Trade) error {
	if len(trades) == 0 {
		n.logger.Info("no trades to send")
		return nil
	}

	msg, err := n.Compose(trades)
	if err != nil {
		return errors.Wrap(err, "compose trade alert")
	}
	if err := n.transport.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "send trade alert")
	}
	n.logger.Info("sent email alert", zap.Int("trades", len(trades)), zap.Strings("to", n.to))
	return nil
}

func (n *EmailNotifier) TestConnection(ctx context.Context) error {
	if err := n.transport.Ping(ctx); err != nil {
		return errors.Wrap(err, "email connection test")
	}
	return nil
}
