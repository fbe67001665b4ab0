// Package notify orchestrates the request-to-email pipeline: sender
// resolution, message composition (raw or templated), transport dispatch,
// and the audit write that follows a successful send.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"notifier/internal/hub"
	"notifier/internal/mailer"
	"notifier/internal/store"
	"notifier/internal/template"
)

var (
	// ErrValidation rejects a request missing a required field.
	ErrValidation = errors.New("missing body or email")
	// ErrDelivery wraps a transport failure. No audit record is written.
	ErrDelivery = errors.New("delivery failed")
)

// SendRequest is the input to both send paths.
type SendRequest struct {
	// Email is the recipient address. Required.
	Email   string
	Subject string
	Content string
	// HTML replaces Content as the HTML body on the raw path when set.
	HTML string
	// From is honored only for admins or for a caller naming themselves.
	From string
	// Title and CustomVars feed the status template.
	Title      string
	CustomVars map[string]string
	// Attachments are carried through to the transport verbatim.
	Attachments []mailer.Attachment
}

// AuditStore is the persistence contract the dispatcher needs.
type AuditStore interface {
	Record(ctx context.Context, n store.Notification) error
}

// Renderer is the template contract the dispatcher needs.
type Renderer interface {
	Render(name string, vars template.Vars) (string, error)
}

// Dispatcher builds and sends notifications. All collaborators are injected
// at construction so tests can substitute fakes.
type Dispatcher struct {
	mailer    mailer.Mailer
	renderer  Renderer
	audit     AuditStore
	emailFrom string
	log       zerolog.Logger

	records chan store.Notification
	done    chan struct{}
	// overflow tracks writes that bypassed the channel so Close can wait
	// for them too.
	overflow sync.WaitGroup
}

// NewDispatcher wires a dispatcher and starts its audit writer. Call Close
// to drain pending audit writes on shutdown.
func NewDispatcher(m mailer.Mailer, r Renderer, audit AuditStore, emailFrom string, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		mailer:    m,
		renderer:  r,
		audit:     audit,
		emailFrom: emailFrom,
		log:       log,
		records:   make(chan store.Notification, 64),
		done:      make(chan struct{}),
	}
	go d.auditLoop()
	return d
}

// Send delivers a raw-content notification and, on success, records it.
func (d *Dispatcher) Send(ctx context.Context, id hub.Identity, req SendRequest) error {
	if req.Email == "" {
		return ErrValidation
	}

	from := d.resolveFrom(id, req.From)
	html := req.HTML
	if html == "" {
		html = req.Content
	}

	msg := mailer.Message{
		From:        from,
		To:          req.Email,
		Subject:     req.Subject,
		Text:        req.Content,
		HTML:        html,
		Attachments: req.Attachments,
	}

	return d.deliver(ctx, id, msg)
}

// SendStatus delivers a notification rendered through the "status"
// template. A render failure aborts before any transport attempt.
func (d *Dispatcher) SendStatus(ctx context.Context, id hub.Identity, req SendRequest) error {
	if req.Email == "" {
		return ErrValidation
	}

	from := d.resolveFrom(id, req.From)
	html, err := d.renderer.Render("status", template.Vars{
		EmailFrom: from,
		Title:     req.Title,
		Email:     req.Email,
		Subject:   req.Subject,
		Content:   req.Content,
		Custom:    req.CustomVars,
	})
	if err != nil {
		return err
	}

	msg := mailer.Message{
		From:        from,
		To:          req.Email,
		Subject:     req.Subject,
		Text:        req.Content,
		HTML:        html,
		Attachments: req.Attachments,
	}

	return d.deliver(ctx, id, msg)
}

// resolveFrom applies the sender policy: admins may set any from address,
// a caller may name exactly themselves, everyone else silently gets the
// default sender. Never an error — the policy must not be probeable.
func (d *Dispatcher) resolveFrom(id hub.Identity, override string) string {
	if id.Admin && override != "" {
		return override
	}
	if override != "" && override == id.Email {
		return override
	}
	return d.emailFrom
}

func (d *Dispatcher) deliver(ctx context.Context, id hub.Identity, msg mailer.Message) error {
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	// Delivery succeeded; the audit write must not hold up the response.
	rec := store.Notification{
		User:    id.Email,
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
	}
	select {
	case d.records <- rec:
	default:
		d.overflow.Add(1)
		go func() {
			defer d.overflow.Done()
			d.writeAudit(rec)
		}()
	}
	return nil
}

// auditLoop drains the record channel until Close.
func (d *Dispatcher) auditLoop() {
	defer close(d.done)
	for rec := range d.records {
		d.writeAudit(rec)
	}
}

// writeAudit persists one record. Failures are logged and swallowed: the
// send already succeeded from the caller's perspective.
func (d *Dispatcher) writeAudit(rec store.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.audit.Record(ctx, rec); err != nil {
		d.log.Error().Err(err).
			Str("user", rec.User).
			Str("to", rec.To).
			Msg("audit write failed")
	}
}

// Close stops accepting audit records and waits for pending writes,
// including any that bypassed the channel under load.
func (d *Dispatcher) Close() {
	close(d.records)
	<-d.done
	d.overflow.Wait()
}
