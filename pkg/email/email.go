package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"net/url"
	"strings"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
	AppName      string
}

// Attachment is a file carried by a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outbound HTML email
type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	if config.AppName == "" {
		config.AppName = "Shopfloor"
	}
	return &EmailService{config: config, send: smtp.SendMail}
}

// IsConfigured reports whether an SMTP host and sender address are set
func (s *EmailService) IsConfigured() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// Send delivers msg over SMTP
func (s *EmailService) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, msg.To, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordResetEmail sends a password reset email
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	body, err := render(passwordResetTemplate, map[string]any{
		"Email":    toEmail,
		"ResetURL": resetURL,
		"AppName":  s.config.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.Send(ctx, &Message{
		To:       []string{toEmail},
		Subject:  "Reset Your Password - " + s.config.AppName,
		HTMLBody: body,
	})
}

// InvoiceEmail is the data rendered into an invoice email
type InvoiceEmail struct {
	To            string
	CustomerName  string
	ShopName      string
	InvoiceNumber string
	TotalDue      string
	DueDate       string
	Overdue       bool
	Footer        string
	PDF           []byte
}

// SendInvoiceEmail sends an invoice with its PDF attached
func (s *EmailService) SendInvoiceEmail(ctx context.Context, data InvoiceEmail) error {
	body, err := render(invoiceTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := &Message{
		To:       []string{data.To},
		Subject:  fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, data.ShopName),
		HTMLBody: body,
	}
	if data.Overdue {
		msg.Subject = "Overdue: " + msg.Subject
	}
	if len(data.PDF) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    data.InvoiceNumber + ".pdf",
			ContentType: "application/pdf",
			Data:        data.PDF,
		})
	}
	return s.Send(ctx, msg)
}

// SendNotificationEmail relays an in-app notification by email
func (s *EmailService) SendNotificationEmail(ctx context.Context, to, title, message string) error {
	body, err := render(notificationTemplate, map[string]any{
		"Title":   title,
		"Body":    message,
		"AppName": s.config.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.Send(ctx, &Message{To: []string{to}, Subject: title, HTMLBody: body})
}

// buildMessage encodes msg as multipart/mixed when it has attachments,
// plain text/html otherwise
func (s *EmailService) buildMessage(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	from := (&mailAddress{name: s.config.FromName, email: s.config.FromEmail}).String()

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		buf.WriteString(msg.HTMLBody)
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=\"UTF-8\""},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(msg.HTMLBody)); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, a.Data); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type mailAddress struct {
	name, email string
}

func (a *mailAddress) String() string {
	if a.name == "" {
		return a.email
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", a.name), a.email)
}

// writeBase64 writes data base64-encoded in 76 character lines
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
