package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// SMTPConfig holds credentials for an SMTP server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS (smtps) instead of plain SMTP.
	Secure bool
}

// SMTPMailer sends email via SMTP using Go's standard library.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	body, err := BuildMIME(msg)
	if err != nil {
		return fmt.Errorf("build mime message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if m.cfg.Secure {
		return m.sendTLS(addr, auth, msg, body)
	}
	return smtp.SendMail(addr, auth, msg.From, []string{msg.To}, body)
}

// sendTLS performs the SMTP conversation over an implicit-TLS connection,
// which smtp.SendMail cannot do on its own.
func (m *SMTPMailer) sendTLS(addr string, auth smtp.Auth, msg Message, body []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("smtps dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtps handshake: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtps auth: %w", err)
		}
	}
	if err := client.Mail(msg.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// BuildMIME serializes msg into a multipart/mixed MIME payload: a body part
// (multipart/alternative when both text and HTML are set) followed by one
// base64 part per attachment, in input order.
func BuildMIME(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	if err := writeBody(mixed, msg); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, att.Filename)},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", att.Filename)},
		})
		if err != nil {
			return nil, err
		}
		enc := base64.NewEncoder(base64.StdEncoding, part)
		if _, err := enc.Write(att.Content); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBody(mixed *multipart.Writer, msg Message) error {
	if msg.HTML == "" {
		return writeTextPart(mixed, "text/plain", msg.Text)
	}
	if msg.Text == "" {
		return writeTextPart(mixed, "text/html", msg.HTML)
	}

	// Both forms present: nest them as alternatives so clients pick one.
	alt := multipart.NewWriter(nil)
	part, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary())},
	})
	if err != nil {
		return err
	}
	nested := multipart.NewWriter(part)
	if err := nested.SetBoundary(alt.Boundary()); err != nil {
		return err
	}
	if err := writeTextPart(nested, "text/plain", msg.Text); err != nil {
		return err
	}
	if err := writeTextPart(nested, "text/html", msg.HTML); err != nil {
		return err
	}
	return nested.Close()
}

func writeTextPart(w *multipart.Writer, contentType, content string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {contentType + "; charset=UTF-8"},
	})
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(content))
	return err
}
