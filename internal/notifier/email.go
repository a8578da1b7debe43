package notifier

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"RainSentinel/internal/credentials"
	"RainSentinel/internal/model"
)

const dialTimeout = 30 * time.Second

// CredentialSource resolves SMTP credentials at send time.
type CredentialSource func() (model.Credentials, error)

// DialFunc opens the connection to the submission server.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// EmailNotifier delivers reports over SMTP submission with STARTTLS.
type EmailNotifier struct {
	Region      string
	Credentials CredentialSource
	Clock       clockwork.Clock
	Log         *slog.Logger

	// TLSConfig is used for the STARTTLS upgrade. ServerName is always set to the
	// SMTP host. Nil means system roots.
	TLSConfig *tls.Config
	// Dial defaults to a net.Dialer with a 30s timeout.
	Dial DialFunc
}

// NewEmailNotifier creates a notifier that looks credentials up in stores, in order.
func NewEmailNotifier(region string, clock clockwork.Clock, log *slog.Logger, stores ...credentials.Store) *EmailNotifier {
	return &EmailNotifier{
		Region: region,
		Credentials: func() (model.Credentials, error) {
			return credentials.Resolve(stores...)
		},
		Clock: clock,
		Log:   log,
	}
}

// Send mails the report to a single recipient. Failures are returned as-is; there is
// no retry.
func (n *EmailNotifier) Send(ctx context.Context, report, to string) error {
	creds, err := n.Credentials()
	if err != nil {
		if errors.Is(err, credentials.ErrNotConfigured) {
			return fmt.Errorf("%w.\n%s", err, credentials.Remediation)
		}
		return fmt.Errorf("load email credentials: %w", err)
	}
	n.Log.Debug("sending report", "smtp", creds, "to", to)

	now := n.Clock.Now()
	msg := Message{
		From:    creds.From,
		To:      to,
		Subject: Subject(n.Region, now),
		Text:    report,
		Date:    now,
	}
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}
	if err := n.deliver(ctx, creds, to, raw); err != nil {
		return fmt.Errorf("send email via %s: %w", creds.Addr(), err)
	}
	n.Log.Info("Report emailed to " + to)
	return nil
}

func (n *EmailNotifier) deliver(ctx context.Context, creds model.Credentials, to string, raw []byte) error {
	dial := n.Dial
	if dial == nil {
		dial = (&net.Dialer{Timeout: dialTimeout}).DialContext
	}
	conn, err := dial(ctx, "tcp", creds.Addr())
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, creds.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Hello(heloName()); err != nil {
		return err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(n.tlsConfig(creds.Host)); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	auth := smtp.PlainAuth("", creds.Username, creds.Password, creds.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := client.Mail(creds.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (n *EmailNotifier) tlsConfig(host string) *tls.Config {
	cfg := &tls.Config{}
	if n.TLSConfig != nil {
		cfg = n.TLSConfig.Clone()
	}
	cfg.ServerName = host
	return cfg
}

func heloName() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}
