package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const defaultTimeout = 15 * time.Second

// TLS policies accepted in Config.TLS.
const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
	TLSNone          = "none"
)

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      string
	From     string
	AppName  string
	Timeout  time.Duration
}

// SMTPMailer implements ports.RecoveryMailer over SMTP.
type SMTPMailer struct {
	client  *gomail.Client
	from    string
	appName string
	now     func() time.Time
}

// NewSMTPMailer builds the SMTP client. No connection is opened until the
// first message is sent.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []gomail.Option{
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: new client: %w", err)
	}

	return &SMTPMailer{
		client:  client,
		from:    cfg.From,
		appName: appName(cfg.AppName),
		now:     time.Now,
	}, nil
}

func (m *SMTPMailer) SendRecoveryCode(ctx context.Context, to, code string, ttl time.Duration) error {
	msg, err := buildRecoveryMessage(m.from, m.appName, to, newRecoveryData(m.appName, code, ttl, m.now()))
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

// buildRecoveryMessage renders a multipart/alternative message with a plain
// text body and an HTML alternative.
func buildRecoveryMessage(from, appName, to string, data recoveryData) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(appName, from); err != nil {
		return nil, fmt.Errorf("smtp: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("smtp: to: %w", err)
	}
	msg.Subject(recoverySubject)

	if err := msg.SetBodyTextTemplate(recoveryText, data); err != nil {
		return nil, fmt.Errorf("smtp: text body: %w", err)
	}
	if err := msg.AddAlternativeHTMLTemplate(recoveryHTML, data); err != nil {
		return nil, fmt.Errorf("smtp: html body: %w", err)
	}
	return msg, nil
}

func tlsPolicy(s string) gomail.TLSPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TLSOpportunistic:
		return gomail.TLSOpportunistic
	case TLSNone:
		return gomail.NoTLS
	default:
		return gomail.TLSMandatory
	}
}

func appName(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "Accounts"
}
