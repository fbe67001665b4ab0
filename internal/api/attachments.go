package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"notifier/internal/mailer"
)

// parseMultipart reads a multipart body in wire order, binding non-file
// fields into the request body and converting file parts into mail
// attachments with filename, declared content type, and payload bytes
// verbatim. Reading the raw parts (instead of the parsed form map, whose
// iteration order is undefined) keeps attachments in upload order across
// differently named fields. No size or type limits are enforced here.
//
// A custom_vars field (JSON object) is decoded as well, since form
// binding cannot express a map.
func parseMultipart(c *gin.Context) (sendBody, []mailer.Attachment, error) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		return sendBody{}, nil, fmt.Errorf("read multipart form: %w", err)
	}

	fields := make(map[string]string)
	attachments := make([]mailer.Attachment, 0)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sendBody{}, nil, fmt.Errorf("read multipart form: %w", err)
		}

		content, err := io.ReadAll(part)
		if err != nil {
			return sendBody{}, nil, fmt.Errorf("read part %q: %w", part.FormName(), err)
		}

		if part.FileName() == "" {
			fields[part.FormName()] = string(content)
			continue
		}
		attachments = append(attachments, mailer.Attachment{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	body := sendBody{
		Email:   fields["email"],
		Subject: fields["subject"],
		Content: fields["content"],
		HTML:    fields["html"],
		From:    fields["from"],
		Title:   fields["title"],
	}
	if raw := fields["custom_vars"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &body.CustomVars); err != nil {
			return sendBody{}, nil, fmt.Errorf("decode custom_vars: %w", err)
		}
	}

	return body, attachments, nil
}
