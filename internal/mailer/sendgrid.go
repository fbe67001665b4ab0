package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// SendGridConfig holds credentials for the SendGrid API.
type SendGridConfig struct {
	APIKey string
}

// SendGridMailer sends email via the SendGrid v3 Mail Send API.
type SendGridMailer struct {
	cfg    SendGridConfig
	client *http.Client
	url    string
}

func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	return &SendGridMailer{
		cfg:    cfg,
		client: http.DefaultClient,
		url:    "https://api.sendgrid.com/v3/mail/send",
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	content := make([]map[string]string, 0, 2)
	if msg.Text != "" {
		content = append(content, map[string]string{"type": "text/plain", "value": msg.Text})
	}
	if msg.HTML != "" {
		content = append(content, map[string]string{"type": "text/html", "value": msg.HTML})
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": msg.To}}},
		},
		"from":    map[string]string{"email": msg.From},
		"subject": msg.Subject,
		"content": content,
	}

	if len(msg.Attachments) > 0 {
		atts := make([]map[string]string, len(msg.Attachments))
		for i, att := range msg.Attachments {
			atts[i] = map[string]string{
				"content":     base64.StdEncoding.EncodeToString(att.Content),
				"type":        att.ContentType,
				"filename":    att.Filename,
				"disposition": "attachment",
			}
		}
		payload["attachments"] = atts
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
