// Package dispatch delivers rendered briefs to their recipients.
package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/wneessen/go-mail"
)

// Message is one rendered brief ready for delivery.
type Message struct {
	Subject string
	From    string
	To      []string
	HTML    string
	Text    string
}

// Deliverer sends a message exactly once.
type Deliverer interface {
	Send(ctx context.Context, msg Message) error
}

// ImplicitTLSPort is the SMTP submission port that expects TLS from the first byte.
const ImplicitTLSPort = 465

// DefaultSMTPTimeout bounds dialing and each SMTP command.
const DefaultSMTPTimeout = 30 * time.Second

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPDeliverer sends multipart (text and HTML) mail through an authenticated relay.
type SMTPDeliverer struct {
	config SMTPConfig
}

// NewSMTPDeliverer returns a deliverer for cfg. Spaces in the password are removed so app
// passwords can be pasted in their grouped display form.
func NewSMTPDeliverer(cfg SMTPConfig) *SMTPDeliverer {
	cfg.Password = NormalizePassword(cfg.Password)
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSMTPTimeout
	}
	return &SMTPDeliverer{config: cfg}
}

// NormalizePassword strips all whitespace from an app password.
func NormalizePassword(password string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, password)
}

// Send builds the message and delivers it in one dial.
func (d *SMTPDeliverer) Send(ctx context.Context, msg Message) error {
	m, err := BuildMessage(msg)
	if err != nil {
		return &DeliveryError{Channel: "smtp", Message: "invalid message", Cause: err}
	}

	client, err := mail.NewClient(d.config.Host, d.clientOptions()...)
	if err != nil {
		return &DeliveryError{Channel: "smtp", Message: "failed to create client", Cause: err}
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return &DeliveryError{Channel: "smtp", Message: fmt.Sprintf("failed to send via %s:%d", d.config.Host, d.config.Port), Cause: err}
	}
	return nil
}

func (d *SMTPDeliverer) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(d.config.Port),
		mail.WithTimeout(d.config.Timeout),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.config.Username),
		mail.WithPassword(d.config.Password),
	}
	if d.config.Port == ImplicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	return opts
}

// BuildMessage assembles a multipart/alternative message with the text part first.
func BuildMessage(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("no recipients")
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// FileDeliverer writes each message to Dir as an .html and a .txt file instead of sending it.
type FileDeliverer struct {
	Dir string

	// Written holds the paths of the last delivery.
	Written []string
}

// Send writes the message parts. Existing files with the same name are overwritten.
func (d *FileDeliverer) Send(_ context.Context, msg Message) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return &DeliveryError{Channel: "file", Message: "failed to create output directory", Cause: err}
	}

	base := filepath.Join(d.Dir, Slug(msg.Subject))
	parts := []struct {
		path string
		body string
	}{
		{base + ".html", msg.HTML},
		{base + ".txt", msg.Text},
	}

	d.Written = d.Written[:0]
	for _, p := range parts {
		if err := os.WriteFile(p.path, []byte(p.body), 0o644); err != nil {
			return &DeliveryError{Channel: "file", Message: fmt.Sprintf("failed to write %s", p.path), Cause: err}
		}
		d.Written = append(d.Written, p.path)
	}
	return nil
}

// Slug turns a subject line into a file name: lower-case letters and digits joined by
// single hyphens.
func Slug(subject string) string {
	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(subject) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if sb.Len() == 0 {
		return "brief"
	}
	return sb.String()
}
