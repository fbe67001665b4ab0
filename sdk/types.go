package sdk

import "time"

// SendRequest is the body for Send and SendStatus.
type SendRequest struct {
	// Email is the recipient address. Required.
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Content string `json:"content"`
	// HTML overrides Content as the HTML body on the raw send path.
	HTML string `json:"html,omitempty"`
	// From is honored only for admin credentials or when it equals the
	// caller's own address; otherwise the server's default sender is used.
	From string `json:"from,omitempty"`
	// Title and CustomVars feed the status template on SendStatus.
	Title      string            `json:"title,omitempty"`
	CustomVars map[string]string `json:"custom_vars,omitempty"`
}

// SendResponse acknowledges a delivered notification.
type SendResponse struct {
	Email string `json:"email"`
}

// Notification is one sent-notification audit record.
type Notification struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse wraps a listing result.
type ListResponse struct {
	Emails []Notification `json:"emails"`
}
