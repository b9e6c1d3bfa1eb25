// Package mailer sends contact form notifications to the site owner over
// SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	htmltemplate "html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"portfolio/internal/models"
)

// DefaultTimeout bounds one delivery when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// Mailer delivers notifications through one SMTP server.
type Mailer struct {
	cfg Config
}

// New returns a mailer, or nil when no SMTP host is configured. Callers
// treat a nil mailer as "email disabled".
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = "Portfolio Contact"
	}
	return &Mailer{cfg: cfg}
}

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #000; border-bottom: 2px solid #000; padding-bottom: 10px;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <div style="margin-top: 20px; padding: 15px; background-color: #f5f5f5; border-left: 3px solid #000;">
    <strong>Message:</strong>
    <p style="margin-top: 10px; white-space: pre-wrap;">{{.Message}}</p>
  </div>
  <p style="color: #666; font-size: 12px;">This email was sent from your portfolio contact form.
  Reply directly to this email to respond to {{.Name}}.</p>
</div>
`))

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

---
This email was sent from your portfolio contact form.
Reply directly to this email to respond to {{.Name}}.
`))

// headerValue drops line breaks so submitted values cannot add headers.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// BuildMessage renders the notification for c as an RFC 5322 message with
// text and HTML alternatives. Replies go to the submitter.
func (m *Mailer) BuildMessage(to string, c *models.ContactSubmission) ([]byte, error) {
	var text, html bytes.Buffer
	if err := textBody.Execute(&text, c); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlBody.Execute(&html, c); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	var msg bytes.Buffer
	mw := multipart.NewWriter(&msg)

	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", headerValue(m.cfg.FromName)), m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", headerValue(c.Email))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+headerValue(c.Subject)))
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	for _, part := range []struct {
		contentType string
		body        []byte
	}{
		{"text/plain; charset=UTF-8", text.Bytes()},
		{"text/html; charset=UTF-8", html.Bytes()},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("create part: %w", err)
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write(part.body); err != nil {
			return nil, fmt.Errorf("encode part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return msg.Bytes(), nil
}

// NotifyContact emails the submission to recipient.
func (m *Mailer) NotifyContact(ctx context.Context, recipient string, c *models.ContactSubmission) error {
	msg, err := m.BuildMessage(recipient, c)
	if err != nil {
		return err
	}
	return m.send(ctx, recipient, msg)
}

func (m *Mailer) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	// One deadline covers the dial and the whole SMTP exchange.
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer conn.Close()
	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}); err != nil {
			return fmt.Errorf("start TLS: %w", err)
		}
	}

	if m.cfg.User != "" && m.cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("start message: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	// The message is accepted once DATA closes.
	_ = client.Quit()
	return nil
}
