package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func TestHumanizeTTL(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want string
	}{
		{0, ""},
		{-time.Minute, ""},
		{15 * time.Minute, "15 minutes"},
		{time.Minute, "1 minute"},
		{time.Hour, "1 hour"},
		{2 * time.Hour, "2 hours"},
		{90 * time.Minute, "90 minutes"},
		{30 * time.Second, "30 seconds"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeTTL(tt.ttl), "ttl=%s", tt.ttl)
	}
}

func TestRecoveryTemplates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	data := newRecoveryData("Acme", "aB3xY9", 15*time.Minute, now)

	var html bytes.Buffer
	require.NoError(t, recoveryHTML.Execute(&html, data))
	assert.Contains(t, html.String(), `<div class="code">aB3xY9</div>`)
	assert.Contains(t, html.String(), "expires in 15 minutes")
	assert.Contains(t, html.String(), "2026 Acme")

	var text bytes.Buffer
	require.NoError(t, recoveryText.Execute(&text, data))
	assert.Contains(t, text.String(), "Recovery code: aB3xY9")
	assert.Contains(t, text.String(), "expires in 15 minutes")
}

func TestRecoveryTemplates_NoExpiry(t *testing.T) {
	data := newRecoveryData("Acme", "aB3xY9", 0, time.Now())

	var text bytes.Buffer
	require.NoError(t, recoveryText.Execute(&text, data))
	assert.NotContains(t, text.String(), "expires")
}

func TestRecoveryTemplates_EscapesAppName(t *testing.T) {
	data := newRecoveryData("<b>Acme</b>", "abc123", 0, time.Now())

	var html bytes.Buffer
	require.NoError(t, recoveryHTML.Execute(&html, data))
	assert.NotContains(t, html.String(), "<b>Acme</b>")
	assert.Contains(t, html.String(), "&lt;b&gt;Acme&lt;/b&gt;")
}

func TestBuildRecoveryMessage(t *testing.T) {
	data := newRecoveryData("Acme", "aB3xY9", 15*time.Minute, time.Now())

	msg, err := buildRecoveryMessage("no-reply@acme.test", "Acme", "ana@example.com", data)
	require.NoError(t, err)

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)

	out := raw.String()
	assert.Contains(t, out, "Subject: Password recovery")
	assert.Contains(t, out, "<ana@example.com>")
	assert.Contains(t, out, `"Acme" <no-reply@acme.test>`)
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "aB3xY9")
}

func TestBuildRecoveryMessage_InvalidRecipient(t *testing.T) {
	_, err := buildRecoveryMessage("no-reply@acme.test", "Acme", "not an address", recoveryData{})
	require.Error(t, err)
}

func TestNewSMTPMailer(t *testing.T) {
	_, err := NewSMTPMailer(Config{From: "no-reply@acme.test"})
	require.Error(t, err, "host is required")

	_, err = NewSMTPMailer(Config{Host: "smtp.acme.test"})
	require.Error(t, err, "sender is required")

	m, err := NewSMTPMailer(Config{
		Host:     "smtp.acme.test",
		Port:     587,
		Username: "user",
		Password: "pass",
		From:     "no-reply@acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "Accounts", m.appName)
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy(""))
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, gomail.TLSOpportunistic, tlsPolicy(" Opportunistic "))
	assert.Equal(t, gomail.NoTLS, tlsPolicy("none"))
}

func TestLogMailer_DoesNotLogCode(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf), false)

	require.NoError(t, m.SendRecoveryCode(context.Background(), "alice@example.com", "aB3xY9", time.Minute))

	out := buf.String()
	assert.False(t, strings.Contains(out, "aB3xY9"), "code leaked: %s", out)
	assert.False(t, strings.Contains(out, "alice@example.com"), "address leaked: %s", out)
	assert.Contains(t, out, "al***@example.com")
}

func TestLogMailer_RevealsCodeWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf), true)

	require.NoError(t, m.SendRecoveryCode(context.Background(), "alice@example.com", "aB3xY9", time.Minute))

	out := buf.String()
	assert.Contains(t, out, `"code":"aB3xY9"`)
	assert.False(t, strings.Contains(out, "alice@example.com"), "address leaked: %s", out)
}
