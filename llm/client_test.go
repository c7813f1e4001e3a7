package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"novacore-chat/chat"
	"novacore-chat/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, err := utils.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL + "/v1"
	return NewClient(cfg, logger)
}

func helloHistory() []chat.Message {
	return []chat.Message{
		{ID: "u1", Role: chat.RoleUser, Content: chat.PlainText("Hello")},
	}
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth, gotPath, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hi there!"}}]}`))
	})

	reply, err := client.Complete(context.Background(), helloHistory(), "Hello", "", "sk-test")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("reply = %q, want %q", reply, "Hi there!")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer credential", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want the chat-completion endpoint", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestCompleteProviderErrorMessageVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid credential","type":"invalid_request_error"}}`))
	})

	_, err := client.Complete(context.Background(), helloHistory(), "Hello", "", "sk-bad")
	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pe.Error() != "invalid credential" {
		t.Errorf("message = %q, want the error body's message verbatim", pe.Error())
	}
}

func TestCompleteUnparseableErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.Complete(context.Background(), helloHistory(), "Hello", "", "sk-test")
	if err == nil {
		t.Fatal("expected an error for a 502 response")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pe.Message == "" {
		t.Error("unparseable bodies must still surface a generic message")
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), helloHistory(), "Hello", "", "sk-test")
	if err == nil {
		t.Fatal("expected an error for an empty choices list")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pe.Error() != "malformed response" {
		t.Errorf("message = %q, want %q", pe.Error(), "malformed response")
	}
}
