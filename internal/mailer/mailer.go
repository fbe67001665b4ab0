package mailer

import "context"

// Attachment is one file carried by a message. Content is the raw payload,
// passed through byte for byte.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message holds the fields needed to send an email. It is built once per
// request and handed to the transport unchanged.
type Message struct {
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer defines the interface each mail transport must implement.
// Send is a single attempt: no queueing, no retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
