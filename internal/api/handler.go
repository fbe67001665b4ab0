package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"notifier/internal/hub"
	"notifier/internal/mailer"
	"notifier/internal/notify"
	"notifier/internal/store"
	"notifier/internal/template"
)

// Sender is the delivery pipeline surface the handlers need.
type Sender interface {
	Send(ctx context.Context, id hub.Identity, req notify.SendRequest) error
	SendStatus(ctx context.Context, id hub.Identity, req notify.SendRequest) error
}

// Lister is the audit-log query surface the handlers need.
type Lister interface {
	ListByUser(ctx context.Context, email string) ([]store.Notification, error)
	ListAll(ctx context.Context) ([]store.Notification, error)
}

type Handler struct {
	dispatcher Sender
	lister     Lister
	auth       *hub.Client
}

// sendBody is the request body shared by both send paths. email is
// validated by the dispatcher, not by binding, so a missing recipient
// yields the pipeline's own validation error.
type sendBody struct {
	Email      string            `json:"email" form:"email"`
	Subject    string            `json:"subject" form:"subject"`
	Content    string            `json:"content" form:"content"`
	HTML       string            `json:"html" form:"html"`
	From       string            `json:"from" form:"from"`
	Title      string            `json:"title" form:"title"`
	CustomVars map[string]string `json:"custom_vars" form:"-"`
}

// Send handles the raw-content send path.
func (h *Handler) Send(c *gin.Context) {
	req, ok := h.bindSendRequest(c)
	if !ok {
		return
	}

	if err := h.dispatcher.Send(c.Request.Context(), hub.FromContext(c), req); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": "send"})
}

// SendStatus handles the templated send path ("status" template).
func (h *Handler) SendStatus(c *gin.Context) {
	req, ok := h.bindSendRequest(c)
	if !ok {
		return
	}

	if err := h.dispatcher.SendStatus(c.Request.Context(), hub.FromContext(c), req); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": "send"})
}

// List returns the caller's own audit records.
func (h *Handler) List(c *gin.Context) {
	id := hub.FromContext(c)
	records, err := h.lister.ListByUser(c.Request.Context(), id.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": records})
}

// ListAll returns every audit record. Non-admin callers are refused rather
// than given an empty list, so "no records" and "not permitted" stay
// distinguishable.
func (h *Handler) ListAll(c *gin.Context) {
	id := hub.FromContext(c)
	if !id.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unable to access the data"})
		return
	}
	records, err := h.lister.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": records})
}

// RootOrList serves GET /. Without a credential it is the liveness probe;
// with one it is the caller-scoped listing.
func (h *Handler) RootOrList(c *gin.Context) {
	credential := c.GetHeader("Authorization")
	if credential == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	id, err := h.auth.Resolve(c.Request.Context(), credential)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	hub.SetIdentity(c, id)
	h.List(c)
}

// bindSendRequest decodes a JSON or multipart body into a dispatcher
// request, collecting any uploaded files as attachments.
func (h *Handler) bindSendRequest(c *gin.Context) (notify.SendRequest, bool) {
	var body sendBody
	attachments := make([]mailer.Attachment, 0)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var err error
		body, attachments, err = parseMultipart(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return notify.SendRequest{}, false
		}
	} else if err := c.ShouldBind(&body); err != nil && !errors.Is(err, io.EOF) {
		// An absent body falls through to the dispatcher's own validation.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return notify.SendRequest{}, false
	}

	return notify.SendRequest{
		Email:       body.Email,
		Subject:     body.Subject,
		Content:     body.Content,
		HTML:        body.HTML,
		From:        body.From,
		Title:       body.Title,
		CustomVars:  body.CustomVars,
		Attachments: attachments,
	}, true
}

// errStatus maps pipeline error kinds to response codes. The codes are not
// load-bearing; the distinguishable error body is.
func errStatus(err error) int {
	switch {
	case errors.Is(err, notify.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, hub.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, template.ErrRender):
		return http.StatusInternalServerError
	case errors.Is(err, notify.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
