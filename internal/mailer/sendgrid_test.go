package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSendGrid(srv *httptest.Server) *SendGridMailer {
	m := NewSendGridMailer(SendGridConfig{APIKey: "sg-key"})
	m.client = srv.Client()
	m.url = srv.URL
	return m
}

func TestSendGrid_PayloadShape(t *testing.T) {
	var got map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := newTestSendGrid(srv)
	err := m.Send(context.Background(), Message{
		From:    "noreply@x.com",
		To:      "bob@x.com",
		Subject: "greetings",
		Text:    "hello",
		HTML:    "<p>hello</p>",
		Attachments: []Attachment{
			{Filename: "a.txt", ContentType: "text/plain", Content: []byte("payload")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer sg-key" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if got["subject"] != "greetings" {
		t.Errorf("expected subject in payload, got %v", got["subject"])
	}
	content := got["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("expected text and html content entries, got %d", len(content))
	}

	atts := got["attachments"].([]any)
	att := atts[0].(map[string]any)
	if att["filename"] != "a.txt" || att["type"] != "text/plain" {
		t.Errorf("unexpected attachment entry: %v", att)
	}
	if att["content"] != base64.StdEncoding.EncodeToString([]byte("payload")) {
		t.Error("attachment content must be base64 of the raw payload")
	}
}

func TestSendGrid_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := newTestSendGrid(srv)
	err := m.Send(context.Background(), Message{From: "a@x.com", To: "b@x.com", Text: "x"})
	if err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
