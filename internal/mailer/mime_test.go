package mailer

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMIME_HeadersAndBody(t *testing.T) {
	body, err := BuildMIME(Message{
		From:    "noreply@x.com",
		To:      "bob@x.com",
		Subject: "greetings",
		Text:    "hello there",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := string(body)
	for _, want := range []string{
		"From: noreply@x.com\r\n",
		"To: bob@x.com\r\n",
		"Subject: greetings\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: multipart/mixed",
		"text/plain; charset=UTF-8",
		"hello there",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestBuildMIME_TextAndHTMLAlternative(t *testing.T) {
	body, err := BuildMIME(Message{
		From:    "a@x.com",
		To:      "b@x.com",
		Subject: "s",
		Text:    "plain form",
		HTML:    "<p>rich form</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := string(body)
	if !strings.Contains(payload, "multipart/alternative") {
		t.Error("expected a multipart/alternative body part")
	}
	if !strings.Contains(payload, "plain form") || !strings.Contains(payload, "<p>rich form</p>") {
		t.Error("both body forms must be present")
	}
}

func TestBuildMIME_AttachmentsInOrder(t *testing.T) {
	first := []byte("first payload")
	second := []byte{0xde, 0xad, 0xbe, 0xef}

	body, err := BuildMIME(Message{
		From:    "a@x.com",
		To:      "b@x.com",
		Subject: "s",
		Text:    "body",
		Attachments: []Attachment{
			{Filename: "report.txt", ContentType: "text/plain", Content: first},
			{Filename: "blob.bin", Content: second},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := string(body)
	firstIdx := strings.Index(payload, `filename="report.txt"`)
	secondIdx := strings.Index(payload, `filename="blob.bin"`)
	if firstIdx == -1 || secondIdx == -1 {
		t.Fatal("attachment headers missing")
	}
	if firstIdx > secondIdx {
		t.Error("attachment order not preserved")
	}

	if !strings.Contains(payload, base64.StdEncoding.EncodeToString(first)) {
		t.Error("first attachment content missing or altered")
	}
	if !strings.Contains(payload, base64.StdEncoding.EncodeToString(second)) {
		t.Error("second attachment content missing or altered")
	}
	// Missing content type falls back to octet-stream.
	if !strings.Contains(payload, "application/octet-stream") {
		t.Error("expected octet-stream fallback for untyped attachment")
	}
}

func TestBuildMIME_HTMLOnly(t *testing.T) {
	body, err := BuildMIME(Message{
		From:    "a@x.com",
		To:      "b@x.com",
		Subject: "s",
		HTML:    "<h1>only html</h1>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(body, []byte("multipart/alternative")) {
		t.Error("single-form message should not nest an alternative part")
	}
	if !bytes.Contains(body, []byte("text/html; charset=UTF-8")) {
		t.Error("expected a text/html part")
	}
}
