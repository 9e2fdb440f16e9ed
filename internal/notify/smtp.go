package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"tradewatch/internal/config"
)

const defaultSendTimeout = 30 * time.Second

// SMTPTransport sends mail through an SMTP relay, upgrading with STARTTLS
// when the server offers it.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPTransport creates a new SMTPTransport. The timeout bounds the whole
// session, from dial to QUIT.
func NewSMTPTransport(cfg config.SMTPConfig, timeout time.Duration) *SMTPTransport {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &SMTPTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		timeout:  timeout,
	}
}

func (s *SMTPTransport) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// dial opens an authenticated session.
func (s *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", s.addr())
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "set smtp deadline")
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "smtp handshake")
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "starttls")
		}
	}
	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "smtp auth")
		}
	}
	return client, nil
}

func (s *SMTPTransport) Ping(ctx context.Context) error {
	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	return client.Quit()
}

func (s *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	body, err := buildMIME(msg)
	if err != nil {
		return err
	}

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(msg.From); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM")
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "smtp RCPT TO %s", rcpt)
		}
	}
	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finish message")
	}
	return client.Quit()
}

// buildMIME encodes msg as multipart/alternative, plain text first.
func buildMIME(msg Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=\"UTF-8\"", msg.Text},
		{"text/html; charset=\"UTF-8\"", msg.HTML},
	}
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", p.contentType)
		header.Set("Content-Transfer-Encoding", "8bit")
		w, err := mw.CreatePart(header)
		if err != nil {
			return nil, errors.Wrap(err, "create mime part")
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, errors.Wrap(err, "write mime part")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "close mime writer")
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", msg.From)
	fmt.Fprintf(&out, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
