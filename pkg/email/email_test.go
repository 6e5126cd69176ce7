package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	body string
}

func newTestService(captured *capturedMail) *EmailService {
	s := NewEmailService(EmailConfig{
		SMTPHost:    "smtp.test",
		SMTPPort:    2525,
		FromName:    "Acme Print",
		FromEmail:   "billing@acme.test",
		FrontendURL: "https://app.acme.test",
	})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*captured = capturedMail{addr: addr, from: from, to: to, body: string(msg)}
		return nil
	}
	return s
}

func TestSend_NotConfigured(t *testing.T) {
	s := NewEmailService(EmailConfig{})
	err := s.Send(context.Background(), &Message{To: []string{"a@b.c"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendPasswordResetEmail(t *testing.T) {
	var got capturedMail
	s := newTestService(&got)

	require.NoError(t, s.SendPasswordResetEmail(context.Background(), "owner@acme.test", "tok123"))
	assert.Equal(t, "smtp.test:2525", got.addr)
	assert.Equal(t, []string{"owner@acme.test"}, got.to)
	assert.Contains(t, got.body, "Content-Type: text/html")
	assert.Contains(t, got.body, "reset-password?token=tok123&amp;email=owner%40acme.test")
}

func TestSendInvoiceEmail_AttachesPDF(t *testing.T) {
	var got capturedMail
	s := newTestService(&got)

	err := s.SendInvoiceEmail(context.Background(), InvoiceEmail{
		To:            "client@example.test",
		CustomerName:  "Jane",
		ShopName:      "Acme Print",
		InvoiceNumber: "INV-00001",
		TotalDue:      "USD 97.20",
		PDF:           []byte("%PDF-1.4 fake"),
	})
	require.NoError(t, err)

	assert.Contains(t, got.body, "multipart/mixed")
	assert.Contains(t, got.body, `filename=INV-00001.pdf`)
	assert.Contains(t, got.body, "application/pdf")
	assert.Contains(t, got.body, "USD 97.20")
	assert.True(t, strings.HasPrefix(got.body, "From: "))
}
