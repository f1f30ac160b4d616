package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
)

// Security modes for the relay connection.
const (
	SecurityStartTLS = "starttls"
	SecurityTLS      = "tls"
	SecurityNone     = "none"
)

// SMTPOptions configures SMTPNotifier.
type SMTPOptions struct {
	Host     string
	Port     int
	Security string // starttls (default) | tls | none
	Username string
	Password string
	From     string // defaults to Username
	To       string // defaults to Username
	Timeout  time.Duration

	// TLSConfig overrides the default config (ServerName = Host).
	TLSConfig *tls.Config
}

// SMTPNotifier sends one HTML email per notification through an
// authenticated SMTP relay.
type SMTPNotifier struct {
	opts SMTPOptions
	addr string

	// test seam
	dial func(addr string) (*gosmtp.Client, error)
}

// NewSMTPNotifier validates opts and returns a notifier. Both credentials
// must be present, otherwise ErrNotConfigured is returned.
func NewSMTPNotifier(opts SMTPOptions) (*SMTPNotifier, error) {
	if strings.TrimSpace(opts.Username) == "" || strings.TrimSpace(opts.Password) == "" {
		return nil, ErrNotConfigured
	}
	if opts.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if opts.Port <= 0 {
		opts.Port = 587
	}
	if opts.From == "" {
		opts.From = opts.Username
	}
	if opts.To == "" {
		opts.To = opts.Username
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	opts.Security = strings.ToLower(strings.TrimSpace(opts.Security))
	if opts.Security == "" {
		opts.Security = SecurityStartTLS
	}

	n := &SMTPNotifier{
		opts: opts,
		addr: net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
	}

	tlsCfg := opts.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{ServerName: opts.Host, MinVersion: tls.VersionTLS12}
	}
	switch opts.Security {
	case SecurityStartTLS:
		n.dial = func(addr string) (*gosmtp.Client, error) { return gosmtp.DialStartTLS(addr, tlsCfg) }
	case SecurityTLS:
		n.dial = func(addr string) (*gosmtp.Client, error) { return gosmtp.DialTLS(addr, tlsCfg) }
	case SecurityNone:
		n.dial = gosmtp.Dial
	default:
		return nil, fmt.Errorf("unknown smtp security mode %q", opts.Security)
	}
	return n, nil
}

// Addr returns host:port of the relay.
func (n *SMTPNotifier) Addr() string { return n.addr }

// Notify composes and sends the message. It returns when the relay accepted
// the message, the relay failed, or ctx is done, whichever comes first.
func (n *SMTPNotifier) Notify(ctx context.Context, note Notification) error {
	if note.ReceivedAt.IsZero() {
		note.ReceivedAt = time.Now()
	}
	msg, err := Compose(Envelope{From: n.opts.From, To: n.opts.To, ReplyTo: note.Record.Email}, note)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- n.send(ctx, msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func (n *SMTPNotifier) send(ctx context.Context, msg []byte) error {
	c, err := n.dial(n.addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", n.addr, err)
	}
	defer c.Close()

	if dl, ok := ctx.Deadline(); ok {
		d := time.Until(dl)
		c.CommandTimeout = d
		c.SubmissionTimeout = d
	}

	if err := c.Auth(sasl.NewPlainClient("", n.opts.Username, n.opts.Password)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(n.opts.From, nil); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(n.opts.To, nil); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := io.Copy(w, bytes.NewReader(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}
