package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	kit "duebot/internal/transport"
	logx "duebot/pkg/logx"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	requests []map[string]any
	reply    func(w http.ResponseWriter)
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var m map[string]any
	_ = json.Unmarshal(body, &m)
	f.mu.Lock()
	f.requests = append(f.requests, m)
	reply := f.reply
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	reply(w)
}

func newTestAdapter(t *testing.T, api *fakeBotAPI) *Adapter {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	a, err := New(Config{Token: "123:abc", URL: srv.URL, Offline: true, SendTimeout: 2 * time.Second}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewRejectsEmptyToken(t *testing.T) {
	if _, err := New(Config{Token: "  "}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestSendTextSuccess(t *testing.T) {
	api := &fakeBotAPI{reply: func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":42,"date":0,"chat":{"id":12345,"type":"private"}}}`)
	}}
	a := newTestAdapter(t, api)

	ref, err := a.SendText(context.Background(), kit.ChatTarget{ChatID: 12345}, "hello \\!", &kit.SendOptions{ParseMode: kit.ParseModeMarkdownV2})
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if ref.MessageID != 42 || ref.ChatID != 12345 {
		t.Fatalf("unexpected ref: %+v", ref)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(api.requests))
	}
	if got := api.requests[0]["parse_mode"]; got != kit.ParseModeMarkdownV2 {
		t.Fatalf("parse_mode = %v, want MarkdownV2", got)
	}
	if got := api.requests[0]["text"]; got != "hello \\!" {
		t.Fatalf("text = %v", got)
	}
}

func TestSendTextRateLimited(t *testing.T) {
	api := &fakeBotAPI{reply: func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 7","parameters":{"retry_after":7}}`)
	}}
	a := newTestAdapter(t, api)

	_, err := a.SendText(context.Background(), kit.ChatTarget{ChatID: 1}, "x", nil)
	rl, ok := kit.AsRateLimited(err)
	if !ok {
		t.Fatalf("expected rate limited error, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("RetryAfter = %v, want 7s", rl.RetryAfter)
	}
}

func TestSendTextPermanentFailure(t *testing.T) {
	api := &fakeBotAPI{reply: func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	}}
	a := newTestAdapter(t, api)

	_, err := a.SendText(context.Background(), kit.ChatTarget{ChatID: 1}, "x", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if kit.IsTransient(err) {
		t.Fatalf("chat not found must be permanent, got %v", err)
	}
	if _, ok := kit.AsRateLimited(err); ok {
		t.Fatalf("chat not found must not be rate limited, got %v", err)
	}
}

func TestSendTextNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a, err := New(Config{Token: "123:abc", URL: url, Offline: true, SendTimeout: time.Second}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = a.SendText(context.Background(), kit.ChatTarget{ChatID: 1}, "x", nil)
	if !kit.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestClassifyServerErrorText(t *testing.T) {
	t.Parallel()
	err := classify(errors.New("telegram: Bad Gateway (502)"))
	if !kit.IsTransient(err) {
		t.Fatalf("5xx should be transient, got %v", err)
	}
	err = classify(errors.New("telegram: Forbidden: bot was blocked by the user (403)"))
	if kit.IsTransient(err) || strings.Contains(err.Error(), "transient") {
		t.Fatalf("403 should stay permanent, got %v", err)
	}
}
